package github

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/matzehuels/podlens/pkg/cache"
	"github.com/matzehuels/podlens/pkg/integrations"
)

// DefaultBaseURL is the GitHub REST API root.
const DefaultBaseURL = "https://api.github.com"

// DefaultRate is the client-side request rate used when none is configured.
const DefaultRate = rate.Limit(10)

// RepoInfo holds repository metadata.
type RepoInfo struct {
	Owner         string     `json:"owner"`
	Name          string     `json:"name"`
	URL           string     `json:"url"`
	Description   string     `json:"description,omitempty"`
	Stars         int        `json:"stars"`
	Forks         int        `json:"forks"`
	License       string     `json:"license,omitempty"` // SPDX identifier
	DefaultBranch string     `json:"default_branch,omitempty"`
	Language      string     `json:"language,omitempty"`
	Topics        []string   `json:"topics,omitempty"`
	Archived      bool       `json:"archived"`
	PushedAt      *time.Time `json:"pushed_at,omitempty"`
}

// Client provides access to the GitHub API.
// It handles HTTP requests with caching, automatic retries, rate limiting
// and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client. Pass an empty token for
// unauthenticated requests (lower rate limits).
func NewClient(backend cache.Cache, token string, cacheTTL time.Duration) *Client {
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	base := integrations.NewClient(backend, "github:", cacheTTL, headers).WithRateLimit(DefaultRate, 5)
	if token != "" {
		// Authenticated responses may include private repositories.
		base.WithKeyer(cache.NewScopedKeyer(nil, "auth:"))
	}

	return &Client{Client: base, baseURL: DefaultBaseURL}
}

// WithBaseURL points the client at another API root (GitHub Enterprise or a test server).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// FetchReadme returns the raw text of the repository's default README.
// Returns [integrations.ErrNotFound] when the repository or README is missing.
func (c *Client) FetchReadme(ctx context.Context, owner, repo string, refresh bool) (string, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return "", err
	}
	key := "readme:" + owner + "/" + repo

	var text string
	err := c.Cached(ctx, key, refresh, &text, func() error {
		url := fmt.Sprintf("%s/repos/%s/%s/readme", c.baseURL, owner, repo)
		body, err := c.GetTextWithHeaders(ctx, url, map[string]string{"Accept": "application/vnd.github.raw"})
		if err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: readme for %s/%s", err, owner, repo)
			}
			return err
		}
		text = body
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// FetchRepo retrieves repository metadata.
// If refresh is true, cached data is bypassed.
func (c *Client) FetchRepo(ctx context.Context, owner, repo string, refresh bool) (*RepoInfo, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}
	key := "repo:" + owner + "/" + repo

	var info RepoInfo
	err := c.Cached(ctx, key, refresh, &info, func() error {
		return c.fetchRepo(ctx, owner, repo, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetchRepo(ctx context.Context, owner, repo string, info *RepoInfo) error {
	var data repoResponse
	url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
		}
		return err
	}

	*info = RepoInfo{
		Owner:         data.Owner.Login,
		Name:          data.Name,
		URL:           data.HTMLURL,
		Description:   data.Description,
		Stars:         data.Stars,
		Forks:         data.Forks,
		DefaultBranch: data.DefaultBranch,
		Language:      data.Language,
		Topics:        data.Topics,
		Archived:      data.Archived,
		PushedAt:      data.PushedAt,
	}
	if data.License != nil && data.License.SPDXID != "NOASSERTION" {
		info.License = data.License.SPDXID
	}
	if info.Owner == "" {
		info.Owner, info.Name = owner, repo
	}
	if info.URL == "" {
		info.URL = fmt.Sprintf("https://github.com/%s/%s", owner, repo)
	}
	return nil
}

type repoResponse struct {
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
	Stars         int        `json:"stargazers_count"`
	Forks         int        `json:"forks_count"`
	DefaultBranch string     `json:"default_branch"`
	PushedAt      *time.Time `json:"pushed_at"`
	License       *struct {
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
	Language string   `json:"language"`
	Topics   []string `json:"topics"`
	Archived bool     `json:"archived"`
}
