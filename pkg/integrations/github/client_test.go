package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/podlens/pkg/cache"
	perrors "github.com/matzehuels/podlens/pkg/errors"
	"github.com/matzehuels/podlens/pkg/integrations"
	"github.com/matzehuels/podlens/pkg/ttlcache"
)

const readme = "# Alamofire\n\n## Usage\n\n```swift\nAF.request(\"https://httpbin.org/get\").response { debugPrint($0) }\n```\n"

func testClient(t *testing.T, token string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	backend, err := cache.NewMemoryCache(ttlcache.Config{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { backend.Close() })

	c := NewClient(backend, token, time.Hour).WithBaseURL(server.URL)
	c.WithHTTPClient(server.Client()).WithRetry(1, time.Millisecond)
	return c
}

func TestClient_FetchReadme(t *testing.T) {
	var accept, auth string
	c := testClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/Alamofire/Alamofire/readme" {
			http.NotFound(w, r)
			return
		}
		accept = r.Header.Get("Accept")
		auth = r.Header.Get("Authorization")
		w.Write([]byte(readme))
	})

	text, err := c.FetchReadme(context.Background(), "Alamofire", "Alamofire", false)
	if err != nil {
		t.Fatalf("FetchReadme: %v", err)
	}
	if text != readme {
		t.Errorf("FetchReadme = %q", text)
	}
	if accept != "application/vnd.github.raw" {
		t.Errorf("Accept = %q, want raw media type", accept)
	}
	if auth != "Bearer secret" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestClient_FetchReadmeCached(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(readme))
	})
	ctx := context.Background()

	for range 3 {
		if _, err := c.FetchReadme(ctx, "a", "b", false); err != nil {
			t.Fatal(err)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("upstream calls = %d, want 1", n)
	}

	if _, err := c.FetchReadme(ctx, "a", "b", true); err != nil {
		t.Fatal(err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("upstream calls after refresh = %d, want 2", n)
	}
}

func TestClient_FetchReadmeNotFound(t *testing.T) {
	c := testClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.FetchReadme(context.Background(), "owner", "repo", false)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestClient_FetchReadmeRateLimited(t *testing.T) {
	c := testClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.FetchReadme(context.Background(), "owner", "repo", false)
	if !integrations.IsRateLimited(err) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

func TestClient_FetchReadmeInvalidRef(t *testing.T) {
	c := testClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an invalid ref")
	})

	_, err := c.FetchReadme(context.Background(), "-bad", "repo", false)
	if !perrors.Is(err, perrors.ErrCodeInvalidRepo) {
		t.Errorf("err = %v, want INVALID_REPO", err)
	}
}

func TestClient_FetchRepo(t *testing.T) {
	c := testClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"name":             "repo",
			"html_url":         "https://github.com/owner/repo",
			"description":      "A library",
			"owner":            map[string]any{"login": "owner"},
			"stargazers_count": 100,
			"forks_count":      7,
			"default_branch":   "main",
			"license":          map[string]any{"spdx_id": "MIT"},
			"language":         "Swift",
			"topics":           []string{"ios", "networking"},
			"archived":         true,
		})
	})

	info, err := c.FetchRepo(context.Background(), "owner", "repo", true)
	if err != nil {
		t.Fatalf("FetchRepo: %v", err)
	}

	if info.Stars != 100 || info.Forks != 7 {
		t.Errorf("stars/forks = %d/%d", info.Stars, info.Forks)
	}
	if info.License != "MIT" {
		t.Errorf("License = %q", info.License)
	}
	if info.DefaultBranch != "main" || !info.Archived {
		t.Errorf("branch %q archived %v", info.DefaultBranch, info.Archived)
	}
	if len(info.Topics) != 2 {
		t.Errorf("Topics = %v", info.Topics)
	}
}

func TestClient_FetchRepoNoAssertionLicense(t *testing.T) {
	c := testClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"license": {"spdx_id": "NOASSERTION"}}`))
	})

	info, err := c.FetchRepo(context.Background(), "owner", "repo", false)
	if err != nil {
		t.Fatal(err)
	}
	if info.License != "" {
		t.Errorf("License = %q, want empty", info.License)
	}
	if info.Owner != "owner" || info.Name != "repo" {
		t.Errorf("fallback owner/name = %s/%s", info.Owner, info.Name)
	}
	if info.URL != "https://github.com/owner/repo" {
		t.Errorf("URL = %q", info.URL)
	}
}

func TestNewClient(t *testing.T) {
	c := NewClient(nil, "test-token", time.Hour)
	if c.Client == nil {
		t.Error("expected client to be initialized")
	}
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q", c.baseURL)
	}
}

func TestClient_AuthenticatedCacheIsSeparate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			w.Write([]byte("private"))
			return
		}
		w.Write([]byte("public"))
	}))
	defer server.Close()

	backend, err := cache.NewMemoryCache(ttlcache.Config{})
	if err != nil {
		t.Fatal(err)
	}
	defer backend.Close()
	ctx := context.Background()

	authed := NewClient(backend, "secret", time.Hour).WithBaseURL(server.URL)
	if text, err := authed.FetchReadme(ctx, "a", "b", false); err != nil || text != "private" {
		t.Fatalf("authenticated FetchReadme = %q, %v", text, err)
	}
	anon := NewClient(backend, "", time.Hour).WithBaseURL(server.URL)
	if text, err := anon.FetchReadme(ctx, "a", "b", false); err != nil || text != "public" {
		t.Errorf("anonymous FetchReadme = %q, %v; want public", text, err)
	}
	if backend.Len() != 2 {
		t.Errorf("backend holds %d entries, want 2", backend.Len())
	}
}
