// Package cache provides byte-oriented cache backends for registry
// responses.
//
// # Backends
//
//   - [NullCache]: caching disabled
//   - [FileCache]: JSON files under a directory, for CLI use
//   - [MemoryCache]: in-process, backed by [ttlcache.Cache]
//   - [RedisCache]: shared cache for multiple server instances
//   - [MongoCache]: persistent cache with a TTL index
//
// All backends implement [Cache]. Keys are produced by a [Keyer] so that
// different registries and result kinds never collide.
//
// [ttlcache.Cache]: github.com/matzehuels/podlens/pkg/ttlcache.Cache
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads with a time-to-live.
//
// Get reports a miss with (nil, false, nil); an error means the backend
// itself failed. A ttl of 0 passed to Set means the entry does not expire
// (or, for [MemoryCache], uses the backend default).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
