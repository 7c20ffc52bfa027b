package errors

import (
	"regexp"
	"strings"
	"unicode"
)

const maxNameLength = 256

// podNameRegex matches CocoaPods spec names, e.g. "Alamofire", "SDWebImage+MKAnnotation".
var podNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9+._-]*$`)

// repoPartRegex matches a GitHub owner or repository name.
var repoPartRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidatePodName validates a pod name for safety and correctness.
// It rejects names that could be used for path traversal or injection:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, \)
//   - Maximum length of 256 characters
//   - Only letters, digits and "+ . _ -"
func ValidatePodName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "pod name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidPackage, "pod name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "pod name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "//", "\x00", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "pod name contains invalid characters: %q", pattern)
		}
	}

	if !podNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid pod name: %q", name)
	}

	return nil
}

// ValidateRepo parses and validates a GitHub repository reference.
// It accepts "owner/repo" and "https://github.com/owner/repo" (with an
// optional ".git" suffix or trailing slash) and returns the two parts.
func ValidateRepo(ref string) (owner, repo string, err error) {
	s := strings.TrimSpace(ref)
	if s == "" {
		return "", "", New(ErrCodeInvalidRepo, "repository cannot be empty")
	}

	for _, prefix := range []string{"https://github.com/", "http://github.com/", "github.com/"} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			s = rest
			break
		}
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")

	owner, repo, ok := strings.Cut(s, "/")
	if !ok || strings.Contains(repo, "/") {
		return "", "", New(ErrCodeInvalidRepo, "repository must be owner/repo: %q", ref)
	}
	for _, part := range []string{owner, repo} {
		if part == "." || part == ".." || !repoPartRegex.MatchString(part) {
			return "", "", New(ErrCodeInvalidRepo, "invalid repository: %q", ref)
		}
	}
	return owner, repo, nil
}
