package readme

import (
	"regexp"
	"strings"
)

var (
	commentPattern     = regexp.MustCompile(`(?s)<!--.*?-->`)
	linkedBadgePattern = regexp.MustCompile(`\[!\[[^\]]*\]\([^)]*\)\]\([^)]*\)`)
	imagePattern       = regexp.MustCompile(`!\[[^\]]*\]\(([^)]*)\)`)
	blankRunPattern    = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)
)

// badgeHosts are substrings identifying status-badge images.
var badgeHosts = []string{
	"shields.io",
	"badge",
	"travis-ci",
	"circleci",
	"codecov",
	"coveralls",
	"codebeat",
	"codacy",
	"cocoapods.org/pods",
}

// CleanContent strips noise from a README: linked badge images, images
// served by known badge hosts and HTML comments. Runs of two or more blank
// lines collapse to one and surrounding whitespace is trimmed.
//
// Invalid UTF-8 sequences are replaced with U+FFFD. Empty input yields "".
// CleanContent is idempotent.
func CleanContent(text string) string {
	if text == "" {
		return ""
	}

	s := strings.ToValidUTF8(text, "\uFFFD")
	s = strings.ReplaceAll(s, "\r\n", "\n")

	// Each removal can expose another: dropping an inner badge turns its
	// enclosing link into a linked badge, and dropping a badge can join the
	// halves of a comment.
	for {
		prev := s
		s = commentPattern.ReplaceAllString(s, "")
		s = linkedBadgePattern.ReplaceAllString(s, "")
		s = imagePattern.ReplaceAllStringFunc(s, func(img string) string {
			if isBadge(imagePattern.FindStringSubmatch(img)[1]) {
				return ""
			}
			return img
		})
		if s == prev {
			break
		}
	}

	s = blankRunPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func isBadge(target string) bool {
	target = strings.ToLower(target)
	for _, host := range badgeHosts {
		if strings.Contains(target, host) {
			return true
		}
	}
	return false
}
