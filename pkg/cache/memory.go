package cache

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/podlens/pkg/ttlcache"
)

// MemoryCache keeps entries in process memory. It is bounded by the
// configured size and evicts in insertion order; see [ttlcache.Cache].
type MemoryCache struct {
	store *ttlcache.Cache[[]byte]
}

// NewMemoryCache creates an in-memory cache. cfg follows [ttlcache.Config]:
// zero fields take the package defaults.
func NewMemoryCache(cfg ttlcache.Config) (*MemoryCache, error) {
	store, err := ttlcache.New[[]byte](cfg)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{store: store}, nil
}

// Get retrieves a copy of the value stored under key.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok := c.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(data), true, nil
}

// Set stores a copy of data. A ttl of 0 uses the store's default TTL.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.store.SetWithTTL(key, bytes.Clone(data), ttl)
	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.store.Delete(key)
	return nil
}

// Len returns the number of stored entries.
func (c *MemoryCache) Len() int { return c.store.Len() }

// Close stops the background sweep and drops all entries.
func (c *MemoryCache) Close() error {
	return c.store.Close()
}

var _ Cache = (*MemoryCache)(nil)
