package readme

import "regexp"

// fencePattern matches a complete fenced block: opening fence, optional
// language token, the rest of the info line, then the body up to the next
// closing fence.
var fencePattern = regexp.MustCompile("(?s)```([A-Za-z0-9_+#.-]*)[^\\n]*\\n(.*?)```")

// ExtractBlocks returns the fenced code blocks in text in document order.
// An opening fence without a closing fence produces no block.
func ExtractBlocks(text string) []CodeBlock {
	matches := fencePattern.FindAllStringSubmatchIndex(text, -1)
	blocks := make([]CodeBlock, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, CodeBlock{
			Language: text[m[2]:m[3]],
			Body:     text[m[4]:m[5]],
			Offset:   m[0],
		})
	}
	return blocks
}
