package readme

import (
	"fmt"
	"regexp"
	"strings"
)

// generalTitle titles examples recovered by the whole-document fallback.
const generalTitle = "General Usage"

var (
	headingPattern       = regexp.MustCompile(`^#{1,4}\s+(\S.*)$`)
	closingHashesPattern = regexp.MustCompile(`\s+#+\s*$`)
)

// section is a heading and the lines below it, up to the next heading.
// Lines are only collected for relevant sections.
type section struct {
	title    string
	relevant bool
	lines    []string
}

func newSection(title string) *section {
	return &section{title: title, relevant: isExampleSection(title)}
}

// isExampleSection reports whether a heading introduces example-bearing
// content according to [SectionRules].
func isExampleSection(title string) bool {
	return matchAny(SectionRules, title)
}

// headingTitle returns the heading text of line without its markers.
func headingTitle(line string) (string, bool) {
	m := headingPattern.FindStringSubmatch(strings.TrimRight(line, " \t"))
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(closingHashesPattern.ReplaceAllString(m[1], "")), true
}

// togglesFence reports whether line opens or closes a fence. A line that
// both opens and closes one (```inline```) leaves the state unchanged.
func togglesFence(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "```") && strings.Count(trimmed, "```") == 1
}

// scanSections walks text line by line and extracts examples from every
// example-bearing section. Headings inside code fences do not start a new
// section.
func scanSections(text string) []UsageExample {
	var (
		examples []UsageExample
		current  = newSection("")
		inFence  bool
	)

	flush := func() {
		if !current.relevant || len(current.lines) == 0 {
			return
		}
		content := strings.Join(current.lines, "\n")
		if strings.TrimSpace(content) == "" {
			return
		}
		examples = append(examples, extractExamples(content, current.title)...)
	}

	for _, line := range strings.Split(text, "\n") {
		if !inFence {
			if title, ok := headingTitle(line); ok {
				flush()
				current = newSection(title)
				continue
			}
		}
		if togglesFence(line) {
			inFence = !inFence
		}
		if current.relevant {
			current.lines = append(current.lines, line)
		}
	}
	flush()

	if len(examples) == 0 {
		examples = extractExamples(text, generalTitle)
	}
	return examples
}

// extractExamples turns the relevant code blocks of one section into
// examples. The first example carries the section title, later ones are
// numbered "Title (2)", "Title (3)", ...
func extractExamples(content, title string) []UsageExample {
	var examples []UsageExample
	for _, b := range ExtractBlocks(content) {
		if !IsRelevant(b.Body, b.Language) {
			continue
		}

		// Tags are compared and filtered in lower case; CodeBlock keeps the original.
		lang := strings.ToLower(b.Language)
		if lang == "" {
			lang = DetectLanguage(b.Body)
		}

		name := title
		if n := len(examples); n > 0 {
			name = fmt.Sprintf("%s (%d)", title, n+1)
		}

		examples = append(examples, UsageExample{
			Title:       name,
			Description: describe(content, b.Offset),
			Code:        strings.TrimSpace(b.Body),
			Language:    lang,
		})
	}
	return examples
}
