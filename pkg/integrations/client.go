package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/matzehuels/podlens/pkg/cache"
	"github.com/matzehuels/podlens/pkg/httputil"
	"github.com/matzehuels/podlens/pkg/observability"
)

// maxBodySize bounds response bodies; READMEs larger than this are truncated.
const maxBodySize = 4 << 20

// Client provides shared HTTP functionality for all registry API clients.
// It handles caching, retry logic, rate limiting and common request headers.
//
// Concurrent [Client.Cached] calls for the same key share one fetch.
// All methods are safe for concurrent use.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	keyer     cache.Keyer
	namespace string
	ttl       time.Duration
	headers   map[string]string
	limiter   *rate.Limiter
	attempts  int
	delay     time.Duration
	group     singleflight.Group
}

// NewClient creates a Client that caches responses in backend under
// namespace (e.g. "cocoapods:") for ttl. Headers are applied to all
// requests made through this client; pass nil if none are needed.
// A nil backend disables caching.
func NewClient(backend cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	return &Client{
		http:      NewHTTPClient(),
		cache:     backend,
		keyer:     cache.NewDefaultKeyer(),
		namespace: namespace,
		ttl:       ttl,
		headers:   headers,
		attempts:  3,
		delay:     time.Second,
	}
}

// WithRateLimit limits outgoing requests to limit per second with the given
// burst. Requests wait for a token or fail when ctx is done.
func (c *Client) WithRateLimit(limit rate.Limit, burst int) *Client {
	c.limiter = rate.NewLimiter(limit, max(burst, 1))
	return c
}

// WithRetry overrides the retry policy (default 3 attempts, 1s initial delay).
func (c *Client) WithRetry(attempts int, delay time.Duration) *Client {
	c.attempts, c.delay = attempts, delay
	return c
}

// WithKeyer replaces the cache key builder.
func (c *Client) WithKeyer(k cache.Keyer) *Client {
	if k != nil {
		c.keyer = k
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	if h != nil {
		c.http = h
	}
	return c
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cached value is ignored but the fresh one is stored.
// The fetch function should populate v; on success, v is stored in the cache.
// Concurrent callers for the same key wait for a single fetch and decode its
// result into their own v.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	fullKey := c.keyer.HTTPKey(c.namespace, key)
	keyType := strings.TrimSuffix(c.namespace, ":")

	if !refresh {
		if data, ok, err := c.cache.Get(ctx, fullKey); err == nil && ok {
			if json.Unmarshal(data, v) == nil {
				observability.Cache().OnCacheHit(ctx, keyType)
				return nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, keyType)
	}

	ran := false
	res, err, _ := c.group.Do(fullKey, func() (any, error) {
		ran = true
		if err := httputil.Retry(ctx, c.attempts, c.delay, fetch); err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if c.cache.Set(ctx, fullKey, data, c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, keyType, len(data))
		}
		return data, nil
	})
	if err != nil {
		return err
	}
	if ran {
		return nil
	}
	return json.Unmarshal(res.([]byte), v)
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// It uses the client's default headers.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// GetText performs an HTTP GET request and returns the response body as a string.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	return c.GetTextWithHeaders(ctx, url, nil)
}

// GetTextWithHeaders is [Client.GetText] with additional request headers.
func (c *Client) GetTextWithHeaders(ctx context.Context, url string, headers map[string]string) (string, error) {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(io.LimitReader(body, maxBodySize))
	return string(data), err
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, resp.Header); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

// checkStatus maps a response status to an error:
// 404 is ErrNotFound, 429 and 5xx are retried, and a 403 with an exhausted
// GitHub quota (X-RateLimit-Remaining: 0) is ErrRateLimited.
func checkStatus(code int, header http.Header) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		return &httputil.RetryableError{
			Err:   fmt.Errorf("%w: status %d", ErrRateLimited, code),
			After: httputil.ParseRetryAfter(header.Get("Retry-After"), time.Now()),
		}
	case code == http.StatusForbidden && header.Get("X-RateLimit-Remaining") == "0":
		return fmt.Errorf("%w: quota exhausted", ErrRateLimited)
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// IsRateLimited reports whether err came from an upstream rate limit.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
