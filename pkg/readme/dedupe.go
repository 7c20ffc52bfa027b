package readme

import "strings"

// Dedupe drops examples whose language and whitespace-normalized code equal
// an earlier example's. Order is preserved.
func Dedupe(examples []UsageExample) []UsageExample {
	seen := make(map[string]bool, len(examples))
	result := make([]UsageExample, 0, len(examples))
	for _, ex := range examples {
		key := fingerprint(ex)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, ex)
	}
	return result
}

// fingerprint is language:code with the code lowercased and every whitespace
// run collapsed to a single space.
func fingerprint(ex UsageExample) string {
	return ex.Language + ":" + strings.Join(strings.Fields(strings.ToLower(ex.Code)), " ")
}
