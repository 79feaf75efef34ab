// Package cache provides a small byte-oriented cache used for composed
// graphs and alert payloads, with in-memory and Redis backends. The
// in-memory backend is the default; Redis is for multi-instance
// deployments where several dashboard servers share one cache.
package cache

import (
	"context"
	"time"
)

// Cache is the interface all backends implement
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key
	Delete(ctx context.Context, key string) error

	// Close releases resources
	Close() error
}
