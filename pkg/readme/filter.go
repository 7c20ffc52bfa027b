package readme

import (
	"strings"
	"unicode/utf8"
)

const (
	minCodeLength      = 10 // bodies shorter than this are never examples
	untaggedCodeLength = 20 // untagged bodies longer than this are kept as a last resort
)

// IsRelevant reports whether a code block is a genuine usage example.
//
// The checks run in a fixed order:
//
//  1. bodies shorter than 10 characters are rejected
//  2. bodies matching any of [NoiseRules] are rejected
//  3. blocks declaring an allowed language (swift, objc, ruby, bash, ...) are accepted
//  4. bodies matching any of [EcosystemRules] are accepted
//  5. untagged bodies longer than 20 characters are accepted
//
// Everything else is rejected. language is the declared tag and may be empty.
func IsRelevant(code, language string) bool {
	body := strings.TrimSpace(code)
	n := utf8.RuneCountInString(body)
	if n < minCodeLength {
		return false
	}
	if matchAny(NoiseRules, body) {
		return false
	}
	if allowedLanguages[strings.ToLower(language)] {
		return true
	}
	if matchAny(EcosystemRules, body) {
		return true
	}
	return language == "" && n > untaggedCodeLength
}

// DetectLanguage infers a language tag for an untagged block using
// [LanguageRules]. It returns "text" when no rule matches.
func DetectLanguage(code string) string {
	body := strings.TrimSpace(code)
	for _, r := range LanguageRules {
		if r.Pattern.MatchString(body) {
			return r.Language
		}
	}
	return "text"
}
