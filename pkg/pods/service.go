package pods

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/podlens/pkg/cache"
	perrors "github.com/matzehuels/podlens/pkg/errors"
	"github.com/matzehuels/podlens/pkg/integrations"
	"github.com/matzehuels/podlens/pkg/integrations/cocoapods"
	"github.com/matzehuels/podlens/pkg/integrations/github"
	"github.com/matzehuels/podlens/pkg/observability"
	"github.com/matzehuels/podlens/pkg/readme"
	"github.com/matzehuels/podlens/pkg/ttlcache"
)

// PodFetcher resolves pod metadata. Implemented by [cocoapods.Client].
type PodFetcher interface {
	FetchPod(ctx context.Context, name string, refresh bool) (*cocoapods.PodInfo, error)
}

// RepoFetcher reads repositories. Implemented by [github.Client].
type RepoFetcher interface {
	FetchReadme(ctx context.Context, owner, repo string, refresh bool) (string, error)
	FetchRepo(ctx context.Context, owner, repo string, refresh bool) (*github.RepoInfo, error)
}

// Options configures a [Service].
type Options struct {
	CocoaPods PodFetcher
	GitHub    RepoFetcher

	// Results caches assembled results. Nil creates one with default
	// settings via [NewResultCache]. The Service closes it on Close.
	Results *ttlcache.Cache[*Result]

	// Hooks receives parse and result-cache events. Nil fields fall back
	// to the globally registered observability hooks.
	Hooks Hooks

	// Keyer builds result cache keys. Nil uses [cache.DefaultKeyer].
	Keyer cache.Keyer

	Logger *log.Logger
}

// Hooks groups the observability hooks the Service emits.
type Hooks struct {
	Parse observability.ParseHooks
	Cache observability.CacheHooks
}

func (h Hooks) parse() observability.ParseHooks {
	if h.Parse != nil {
		return h.Parse
	}
	return observability.Parse()
}

func (h Hooks) cache() observability.CacheHooks {
	if h.Cache != nil {
		return h.Cache
	}
	return observability.Cache()
}

// Request carries per-lookup options.
type Request struct {
	// Refresh bypasses the result cache and the upstream response caches.
	Refresh bool
}

// Service ties the registry clients, the README parser and the result
// cache together. It is safe for concurrent use.
type Service struct {
	pods    PodFetcher
	repos   RepoFetcher
	results *ttlcache.Cache[*Result]
	keys    cache.Keyer
	hooks   Hooks
	logger  *log.Logger
}

const resultKeyType = "result"

// NewResultCache creates a result cache that logs removals at debug level
// and reports them to hooks (nil uses the global cache hooks).
func NewResultCache(cfg ttlcache.Config, logger *log.Logger, hooks observability.CacheHooks) (*ttlcache.Cache[*Result], error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	next := cfg.OnRemove
	cfg.OnRemove = func(key string, reason ttlcache.Reason) {
		logger.Debug("result removed", "key", key, "reason", reason)
		h := hooks
		if h == nil {
			h = observability.Cache()
		}
		h.OnCacheEvict(context.Background(), resultKeyType, reason.String())
		if next != nil {
			next(key, reason)
		}
	}
	return ttlcache.New[*Result](cfg)
}

// NewService creates a Service. CocoaPods is required for pod lookups and
// GitHub for README access; a Service without clients can still parse
// local documents.
func NewService(opts Options) (*Service, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Results == nil {
		rc, err := NewResultCache(ttlcache.Config{}, opts.Logger, opts.Hooks.Cache)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "result cache")
		}
		opts.Results = rc
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	return &Service{
		pods:    opts.CocoaPods,
		repos:   opts.GitHub,
		results: opts.Results,
		keys:    opts.Keyer,
		hooks:   opts.Hooks,
		logger:  opts.Logger,
	}, nil
}

// Close stops the result cache.
func (s *Service) Close() error {
	return s.results.Close()
}

// CacheStats reports result cache counters.
func (s *Service) CacheStats() ttlcache.Stats {
	return s.results.Stats()
}

// LookupPod resolves name on CocoaPods trunk, reads the README of its
// GitHub repository and extracts examples and installation snippets.
// A pod whose source is not on GitHub yields a metadata-only Result.
func (s *Service) LookupPod(ctx context.Context, name string, req Request) (*Result, error) {
	name = strings.TrimSpace(name)
	if err := perrors.ValidatePodName(name); err != nil {
		return nil, err
	}
	if s.pods == nil {
		return nil, perrors.New(perrors.ErrCodeUnsupported, "pod lookups are not configured")
	}

	key := s.keys.ResultKey("pod", name)
	if res, ok := s.cached(ctx, key, req); ok {
		return res, nil
	}

	pod, err := s.pods.FetchPod(ctx, name, req.Refresh)
	if err != nil {
		return nil, classify(err, perrors.ErrCodePackageNotFound, "pod %q", name)
	}

	res := &Result{
		Name:      pod.Name,
		Version:   pod.Version,
		Summary:   pod.Summary,
		Homepage:  pod.Homepage,
		License:   pod.License,
		Platforms: pod.Platforms,
		Examples:  []readme.UsageExample{},
		FetchedAt: time.Now().UTC(),
	}

	if !pod.HasRepo() || s.repos == nil {
		s.logger.Debug("no github repository", "pod", pod.Name, "source", pod.SourceURL)
		res.Stats = newStats(nil, false, 0)
		s.store(ctx, key, res)
		return res.clone(), nil
	}
	res.Repository = repoURL(pod.RepoOwner, pod.RepoName)

	text, err := s.repos.FetchReadme(ctx, pod.RepoOwner, pod.RepoName, req.Refresh)
	if err != nil {
		return nil, classify(err, perrors.ErrCodeReadmeNotFound, "readme for %s/%s", pod.RepoOwner, pod.RepoName)
	}
	s.parseInto(ctx, "pod", text, res)

	s.logger.Debug("looked up pod", "pod", res.Name, "version", res.Version, "examples", len(res.Examples))
	s.store(ctx, key, res)
	return res.clone(), nil
}

// LookupRepo reads a GitHub repository directly. ref is "owner/repo" or a
// github.com URL.
func (s *Service) LookupRepo(ctx context.Context, ref string, req Request) (*Result, error) {
	owner, repo, err := github.ParseRepoRef(ref)
	if err != nil {
		return nil, err
	}
	if s.repos == nil {
		return nil, perrors.New(perrors.ErrCodeUnsupported, "repository lookups are not configured")
	}

	key := s.keys.ResultKey("repo", owner+"/"+repo)
	if res, ok := s.cached(ctx, key, req); ok {
		return res, nil
	}

	info, err := s.repos.FetchRepo(ctx, owner, repo, req.Refresh)
	if err != nil {
		return nil, classify(err, perrors.ErrCodeNotFound, "repository %s/%s", owner, repo)
	}
	text, err := s.repos.FetchReadme(ctx, owner, repo, req.Refresh)
	if err != nil {
		return nil, classify(err, perrors.ErrCodeReadmeNotFound, "readme for %s/%s", owner, repo)
	}

	res := &Result{
		Name:       info.Name,
		Summary:    info.Description,
		Homepage:   info.URL,
		Repository: repoURL(info.Owner, info.Name),
		License:    info.License,
		Stars:      info.Stars,
		FetchedAt:  time.Now().UTC(),
	}
	s.parseInto(ctx, "repo", text, res)

	s.logger.Debug("looked up repository", "repo", owner+"/"+repo, "examples", len(res.Examples))
	s.store(ctx, key, res)
	return res.clone(), nil
}

// ParseDocument parses a local README. Results are not cached.
func (s *Service) ParseDocument(ctx context.Context, name, text string) *Result {
	res := &Result{Name: name, FetchedAt: time.Now().UTC()}
	s.parseInto(ctx, "document", text, res)
	return res
}

func (s *Service) parseInto(ctx context.Context, source, text string, res *Result) {
	hooks := s.hooks.parse()
	hooks.OnParseStart(ctx, source)
	start := time.Now()

	res.Examples = readme.ParseUsageExamples(text)
	res.Installation = readme.ExtractInstallationInstructions(readme.CleanContent(text))

	d := time.Since(start)
	res.Stats = newStats(res.Examples, strings.TrimSpace(text) != "", d)
	hooks.OnParseComplete(ctx, source, len(res.Examples), d, nil)
}

func (s *Service) cached(ctx context.Context, key string, req Request) (*Result, bool) {
	if req.Refresh {
		return nil, false
	}
	hooks := s.hooks.cache()
	res, ok := s.results.Get(key)
	if !ok {
		hooks.OnCacheMiss(ctx, resultKeyType)
		return nil, false
	}
	hooks.OnCacheHit(ctx, resultKeyType)
	c := res.clone()
	c.Cached = true
	return c, true
}

func (s *Service) store(ctx context.Context, key string, res *Result) {
	s.results.Set(key, res)
	s.hooks.cache().OnCacheSet(ctx, resultKeyType, len(res.Examples))
}

func repoURL(owner, repo string) string {
	return "https://github.com/" + owner + "/" + repo
}

// classify maps client errors to coded errors. notFound is the code used
// when the upstream resource is missing.
func classify(err error, notFound perrors.Code, format string, args ...any) error {
	var coded *perrors.Error
	switch {
	case errors.As(err, &coded):
		return err
	case errors.Is(err, integrations.ErrNotFound):
		return perrors.Wrap(notFound, err, "not found: "+format, args...)
	case errors.Is(err, integrations.ErrRateLimited):
		return perrors.Wrap(perrors.ErrCodeRateLimited, err, "rate limited: "+format, args...)
	case errors.Is(err, context.DeadlineExceeded):
		return perrors.Wrap(perrors.ErrCodeTimeout, err, "timed out: "+format, args...)
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, integrations.ErrNetwork):
		return perrors.Wrap(perrors.ErrCodeNetwork, err, "fetch "+format, args...)
	default:
		return perrors.Wrap(perrors.ErrCodeInternal, err, "fetch "+format, args...)
	}
}
