package cache

import (
	"context"
	"time"
)

// ScopedCache wraps a Cache with a key prefix so multiple consumers can
// share one backend without colliding. The pipeline scopes its entries by
// cache schema version, so entries written by older binaries are never
// read back after a format change.
//
// Example usage:
//
//	shared, _ := cache.NewFileCache(dir)
//	versioned := cache.NewScopedCache(shared, "v2:")
type ScopedCache struct {
	inner  Cache
	prefix string
}

// NewScopedCache creates a cache whose keys are prefixed before they reach
// the inner backend. If inner is nil, a NullCache is used.
func NewScopedCache(inner Cache, prefix string) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &ScopedCache{
		inner:  inner,
		prefix: prefix,
	}
}

// Get retrieves a value under the scoped key.
func (c *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

// Set stores a value under the scoped key.
func (c *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

// Delete removes the scoped key.
func (c *ScopedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

// Clear clears the inner backend. Scopes share storage, so this removes
// entries from every scope, not only this one.
func (c *ScopedCache) Clear(ctx context.Context) error {
	return c.inner.Clear(ctx)
}

// Close closes the inner backend.
func (c *ScopedCache) Close() error {
	return c.inner.Close()
}

// Ensure ScopedCache implements Cache.
var _ Cache = (*ScopedCache)(nil)
