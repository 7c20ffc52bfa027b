package config

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/podlens/pkg/cache"
	perrors "github.com/matzehuels/podlens/pkg/errors"
	"github.com/matzehuels/podlens/pkg/ttlcache"
)

const dialTimeout = 10 * time.Second

// ResultCache returns the ttlcache settings for parsed results.
func (c *Config) ResultCache() ttlcache.Config {
	return ttlcache.Config{
		TTL:           c.Cache.TTL.Duration(),
		MaxSize:       c.Cache.MaxSize,
		SweepInterval: c.Cache.SweepInterval.Duration(),
	}
}

// CacheDir returns the file cache directory, honouring cache.dir.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return DefaultCacheDir()
}

// OpenCache opens the HTTP response cache selected by cache.backend.
// Network backends are dialled with a bounded timeout; the caller closes
// the returned cache.
func OpenCache(ctx context.Context, cfg *Config, logger *log.Logger) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case BackendNone:
		logger.Debug("http cache disabled")
		return cache.NewNullCache(), nil

	case BackendMemory:
		c, err := cache.NewMemoryCache(ttlcache.Config{
			TTL:           cfg.Cache.HTTPTTL.Duration(),
			MaxSize:       cfg.Cache.MaxSize,
			SweepInterval: cfg.Cache.SweepInterval.Duration(),
		})
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "memory cache")
		}
		logger.Debug("http cache", "backend", BackendMemory, "max_size", cfg.Cache.MaxSize)
		return c, nil

	case BackendRedis:
		dctx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		c, err := cache.DialRedis(dctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password.Value(),
			DB:       cfg.Redis.DB,
			Prefix:   appName + ":",
		})
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeNetwork, err, "open redis cache")
		}
		logger.Debug("http cache", "backend", BackendRedis, "addr", cfg.Redis.Addr)
		return c, nil

	case BackendMongo:
		dctx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		c, err := cache.DialMongo(dctx, cache.MongoOptions{
			URI:        cfg.Mongo.URI.Value(),
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeNetwork, err, "open mongo cache")
		}
		logger.Debug("http cache", "backend", BackendMongo, "database", cfg.Mongo.Database)
		return c, nil

	case BackendFile, "":
		dir, err := cfg.CacheDir()
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "resolve cache dir")
		}
		c, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "open file cache")
		}
		logger.Debug("http cache", "backend", BackendFile, "dir", dir)
		return c, nil
	}
	return nil, perrors.New(perrors.ErrCodeInvalidConfig, "unknown cache.backend %q", cfg.Cache.Backend)
}
