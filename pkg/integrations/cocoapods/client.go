package cocoapods

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/podlens/pkg/cache"
	"github.com/matzehuels/podlens/pkg/integrations"
)

// DefaultBaseURL is the CocoaPods trunk API root.
const DefaultBaseURL = "https://trunk.cocoapods.org/api/v1"

var repoURLPattern = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/?#]+)`)

// PodInfo holds metadata for a pod from the latest podspec on trunk.
//
// RepoOwner and RepoName are empty when neither the source URL nor the
// homepage points at GitHub.
type PodInfo struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Summary      string            `json:"summary,omitempty"`
	Homepage     string            `json:"homepage,omitempty"`
	SourceURL    string            `json:"source_url,omitempty"` // Normalized git or http source
	License      string            `json:"license,omitempty"`    // License type, e.g. "MIT"
	Platforms    map[string]string `json:"platforms,omitempty"`  // Platform to minimum deployment target
	Dependencies []string          `json:"dependencies,omitempty"`
	Owners       []string          `json:"owners,omitempty"`
	Versions     int               `json:"versions"` // Number of published versions
	RepoOwner    string            `json:"repo_owner,omitempty"`
	RepoName     string            `json:"repo_name,omitempty"`
}

// HasRepo reports whether the pod resolved to a GitHub repository.
func (p *PodInfo) HasRepo() bool { return p.RepoOwner != "" && p.RepoName != "" }

// Client provides access to the CocoaPods trunk API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a trunk client caching responses in backend for cacheTTL.
// Pass nil (or a [cache.NullCache]) to disable caching.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "cocoapods:", cacheTTL, map[string]string{"Accept": "application/json"}),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at another trunk deployment (or a test server).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// FetchPod retrieves metadata for a pod.
//
// Pod names are case-insensitive on trunk; the cache key is lowercased.
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - PodInfo populated with metadata on success
//   - [integrations.ErrNotFound] if the pod doesn't exist
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
func (c *Client) FetchPod(ctx context.Context, name string, refresh bool) (*PodInfo, error) {
	name = strings.TrimSpace(name)
	key := strings.ToLower(name)

	var info PodInfo
	err := c.Cached(ctx, key, refresh, &info, func() error {
		return c.fetch(ctx, name, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, name string, info *PodInfo) error {
	base := fmt.Sprintf("%s/pods/%s", c.baseURL, integrations.URLEncode(name))

	var pod podResponse
	if err := c.Get(ctx, base, &pod); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: pod %s", err, name)
		}
		return err
	}

	var spec podspec
	if err := c.Get(ctx, base+"/specs/latest", &spec); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: podspec for %s", err, name)
		}
		return err
	}

	*info = PodInfo{
		Name:         spec.Name,
		Version:      spec.Version,
		Summary:      strings.TrimSpace(spec.Summary),
		Homepage:     spec.Homepage,
		SourceURL:    integrations.NormalizeRepoURL(spec.Source.url()),
		License:      spec.License.Type,
		Platforms:    spec.platforms(),
		Dependencies: spec.dependencies(),
		Owners:       pod.ownerNames(),
		Versions:     len(pod.Versions),
	}
	if info.Name == "" {
		info.Name = name
	}
	info.RepoOwner, info.RepoName, _ = integrations.ExtractRepoURL(repoURLPattern, info.SourceURL, info.Homepage)
	return nil
}

type podResponse struct {
	Versions []struct {
		Name      string `json:"name"`
		CreatedAt string `json:"created_at"`
	} `json:"versions"`
	Owners []struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"owners"`
}

func (p podResponse) ownerNames() []string {
	var names []string
	for _, o := range p.Owners {
		if o.Name != "" {
			names = append(names, o.Name)
		}
	}
	return names
}

type podspec struct {
	Name         string                     `json:"name"`
	Version      string                     `json:"version"`
	Summary      string                     `json:"summary"`
	Homepage     string                     `json:"homepage"`
	License      license                    `json:"license"`
	Source       source                     `json:"source"`
	Platforms    map[string]any             `json:"platforms"`
	Dependencies map[string]json.RawMessage `json:"dependencies"`
	Subspecs     []struct {
		Dependencies map[string]json.RawMessage `json:"dependencies"`
	} `json:"subspecs"`
}

// platforms keeps string deployment targets; a null target means "any".
func (s podspec) platforms() map[string]string {
	if len(s.Platforms) == 0 {
		return nil
	}
	out := make(map[string]string, len(s.Platforms))
	for p, v := range s.Platforms {
		target, _ := v.(string)
		out[p] = target
	}
	return out
}

// dependencies collects external dependency names from the root spec and
// its subspecs. Dependencies on the pod's own subspecs are skipped.
func (s podspec) dependencies() []string {
	seen := make(map[string]bool)
	add := func(deps map[string]json.RawMessage) {
		for d := range deps {
			root, _, _ := strings.Cut(d, "/")
			if root == s.Name || root == "" {
				continue
			}
			seen[root] = true
		}
	}
	add(s.Dependencies)
	for _, sub := range s.Subspecs {
		add(sub.Dependencies)
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// license accepts both `"license": "MIT"` and `"license": {"type": "MIT"}`.
type license struct {
	Type string `json:"type"`
}

func (l *license) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		l.Type = s
		return nil
	}
	var obj struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	l.Type = obj.Type
	return nil
}

type source struct {
	Git  string `json:"git"`
	HTTP string `json:"http"`
}

func (s source) url() string {
	if s.Git != "" {
		return s.Git
	}
	return s.HTTP
}
