package readme

// ParseUsageExamples extracts de-duplicated usage examples from a README.
//
// The result is never nil; documents that are empty or contain no usable
// code produce an empty slice.
func ParseUsageExamples(document string) []UsageExample {
	text := CleanContent(document)
	if text == "" {
		return []UsageExample{}
	}
	return Dedupe(scanSections(text))
}
