package github

import (
	"strings"
	"testing"

	"github.com/matzehuels/podlens/pkg/errors"
)

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		ref       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{"Alamofire/Alamofire", "Alamofire", "Alamofire", false},
		{"https://github.com/airbnb/lottie-ios.git", "airbnb", "lottie-ios", false},
		{"realm/realm-swift", "realm", "realm-swift", false},
		{"owner/repo.with.dots", "owner", "repo.with.dots", false},

		{"", "", "", true},
		{"noslash", "", "", true},
		{"-owner/repo", "", "", true},
		{"own_er/repo", "", "", true}, // underscores are not valid in GitHub logins
		{"owner/..", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			owner, repo, err := ParseRepoRef(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRepoRef(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("ParseRepoRef(%q) = %q, %q", tt.ref, owner, repo)
			}
		})
	}
}

func TestValidateOwner(t *testing.T) {
	tests := []struct {
		owner   string
		wantErr bool
	}{
		{"apple", false},
		{"a", false},
		{"my-org", false},
		{"", true},
		{"-lead", true},
		{"this-name-is-way-too-long-for-a-github-login", true},
	}
	for _, tt := range tests {
		if err := ValidateOwner(tt.owner); (err != nil) != tt.wantErr {
			t.Errorf("ValidateOwner(%q) error = %v, wantErr %v", tt.owner, err, tt.wantErr)
		}
	}
}

func TestValidateRepo(t *testing.T) {
	tests := []struct {
		repo    string
		wantErr bool
	}{
		{"Alamofire", false},
		{"lottie-ios", false},
		{"swift_nio", false},
		{".github", false},
		{"", true},
		{".", true},
		{"..", true},
		{"has space", true},
		{strings.Repeat("x", 101), true},
	}
	for _, tt := range tests {
		err := ValidateRepo(tt.repo)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRepo(%q) error = %v, wantErr %v", tt.repo, err, tt.wantErr)
		}
		if err != nil && errors.GetCode(err) != errors.ErrCodeInvalidRepo {
			t.Errorf("ValidateRepo(%q) code = %s, want %s", tt.repo, errors.GetCode(err), errors.ErrCodeInvalidRepo)
		}
	}
}
