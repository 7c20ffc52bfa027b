package github

import (
	"regexp"

	"github.com/matzehuels/podlens/pkg/errors"
)

// nameRule describes what GitHub accepts for one part of a repository
// reference. Checking names locally avoids a round trip (and a rate limit
// token) for refs the API would reject anyway.
type nameRule struct {
	what    string
	pattern *regexp.Regexp
	hint    string
}

var (
	ownerRule = nameRule{
		what:    "owner",
		pattern: regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`),
		hint:    "1-39 letters, digits or hyphens, not starting with a hyphen",
	}
	repoRule = nameRule{
		what:    "repo",
		pattern: regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`),
		hint:    "1-100 letters, digits, hyphens, underscores or dots",
	}
)

func (r nameRule) check(name string) error {
	switch {
	case name == "":
		return errors.New(errors.ErrCodeInvalidRepo, "%s is required", r.what)
	case name == "." || name == "..":
		return errors.New(errors.ErrCodeInvalidRepo, "invalid %s %q", r.what, name)
	case !r.pattern.MatchString(name):
		return errors.New(errors.ErrCodeInvalidRepo, "invalid %s %q: want %s", r.what, name, r.hint)
	}
	return nil
}

// ValidateOwner reports whether owner is a well-formed user or organization login.
func ValidateOwner(owner string) error { return ownerRule.check(owner) }

// ValidateRepo reports whether repo is a well-formed repository name.
func ValidateRepo(repo string) error { return repoRule.check(repo) }

// ValidateRepoRef checks owner, then repo.
func ValidateRepoRef(owner, repo string) error {
	if err := ownerRule.check(owner); err != nil {
		return err
	}
	return repoRule.check(repo)
}

// ParseRepoRef accepts "owner/repo" or a github.com URL and returns the
// two parts once both satisfy GitHub's naming rules.
func ParseRepoRef(ref string) (owner, repo string, err error) {
	if owner, repo, err = errors.ValidateRepo(ref); err != nil {
		return "", "", err
	}
	if err = ValidateRepoRef(owner, repo); err != nil {
		return "", "", err
	}
	return owner, repo, nil
}
