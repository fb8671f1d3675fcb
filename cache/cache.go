package cache

import (
	"context"
	"time"
)

// Cache is the key-value adapter contract the service layer programs against.
// Implementations must be safe for concurrent use; see internal/cacheinfra for
// the Redis and in-memory backends.
type Cache interface {
	// Get returns the serialized value stored under key. The boolean reports
	// whether the key was present; an absent key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key with a per-key expiration. Backends that only
	// support a client-wide TTL document the deviation.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys. Deleting a key that does not exist is not
	// an error.
	Delete(ctx context.Context, keys ...string) error

	// Scan enumerates the keys currently stored under the given prefix.
	Scan(ctx context.Context, prefix string) ([]string, error)

	// Stats reports backend counters. The Keys field is left to the caller,
	// which knows which prefixes it owns.
	Stats(ctx context.Context) (Stats, error)

	// Close releases the backend connection.
	Close() error
}

// Stats carries cache backend counters. Hits and Misses are whatever the
// backend reports (Redis keyspace counters, adapter-level counters for the
// in-memory backend); Keys is the number of entries owned by the service that
// populated it.
type Stats struct {
	Backend string `json:"backend"`
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	Keys    int    `json:"keys"`
}

// HitRate returns the hit percentage over all tracked lookups, or 0 when no
// lookups were recorded.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}
