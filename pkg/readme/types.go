package readme

import "regexp"

// UsageExample is a titled, language-tagged code snippet recovered from a
// README.
type UsageExample struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"` // Prose line preceding the block (may be empty)
	Code        string `json:"code"`                  // Trimmed block body
	Language    string `json:"language"`              // Declared or detected tag, never empty
}

// CodeBlock is a fenced region found by [ExtractBlocks].
type CodeBlock struct {
	Language string // Declared tag after the opening fence (may be empty)
	Body     string // Raw text between the fences
	Offset   int    // Byte offset of the opening fence in the scanned text
}

// InstallationInstructions holds dependency-manager snippets found in a
// README. Empty fields mean the snippet was not found.
type InstallationInstructions struct {
	Podfile  string `json:"podfile,omitempty"`
	Carthage string `json:"carthage,omitempty"`
	SPM      string `json:"spm,omitempty"`
}

// IsEmpty reports whether no snippet was found.
func (i InstallationInstructions) IsEmpty() bool {
	return i.Podfile == "" && i.Carthage == "" && i.SPM == ""
}

// Rule is a named pattern in one of the classification tables.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// Match reports whether s matches the rule.
func (r Rule) Match(s string) bool { return r.Pattern.MatchString(s) }

func matchAny(rules []Rule, s string) bool {
	for _, r := range rules {
		if r.Match(s) {
			return true
		}
	}
	return false
}
