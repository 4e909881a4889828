// Package cache provides content-addressed caching for parse and layout
// results.
//
// Backends:
//   - FileCache: JSON entry files under a directory, for CLI usage
//   - RedisCache: shared cache for server deployments
//   - NullCache: disables caching
//   - ScopedCache: key-prefix isolation on top of another backend
//
// Keys are built with [HashKey], so any change in the inputs yields a new
// key. Entries are immutable once written; TTLs bound storage growth rather
// than guarding freshness.
package cache

import (
	"context"
	"time"
)

// Default TTLs per key type.
const (
	// TTLParse is the lifetime of cached parse results (graph JSON).
	TTLParse = 7 * 24 * time.Hour

	// TTLSnapshot is the lifetime of cached layout snapshots.
	TTLSnapshot = 7 * 24 * time.Hour
)

// Cache is the interface for cache backends.
//
// Absence is not an error: Get reports a miss through its second return
// value. Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found
	// and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores the entry without
	// expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a single key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry owned by the backend.
	Clear(ctx context.Context) error

	// Close releases resources held by the backend.
	Close() error
}
