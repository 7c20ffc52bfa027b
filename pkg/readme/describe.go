package readme

import (
	"strings"
	"unicode/utf8"
)

// minDescriptionLength is the length a line must exceed to describe a block.
const minDescriptionLength = 10

// describe returns the nearest prose line above offset in text. Empty and
// short lines are skipped; reaching a heading or the start of text yields "".
func describe(text string, offset int) string {
	if offset <= 0 || offset > len(text) {
		return ""
	}
	lines := strings.Split(text[:offset], "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if _, ok := headingTitle(line); ok {
			return ""
		}
		if utf8.RuneCountInString(line) > minDescriptionLength {
			return line
		}
	}
	return ""
}
