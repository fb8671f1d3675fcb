package cache

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config exposes cache configuration options for consumers of the cache
// package. An empty Addr selects the in-memory backend, which keeps the demo
// runnable without a Redis instance.
type Config struct {
	// Addr is the Redis host:port. Empty means in-memory.
	Addr string

	// Password is the Redis AUTH password, if any.
	Password string

	// DB is the Redis logical database number.
	DB int

	// TTL is the expiration applied to every entry the service writes. The
	// same TTL governs single-record and range-query keys.
	TTL time.Duration

	// PoolSize caps the Redis connection pool.
	PoolSize int

	// Capacity bounds the in-memory backend. Ignored by Redis.
	Capacity int

	// NumShards sets the in-memory backend's shard count. Ignored by Redis.
	NumShards int
}

// DefaultConfig returns a Config populated with sensible defaults: a five
// minute TTL and an in-memory backend sized for demo workloads.
func DefaultConfig() Config {
	return Config{
		TTL:       5 * time.Minute,
		PoolSize:  10,
		Capacity:  10000,
		NumShards: 64,
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DB, validation.Min(0)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.PoolSize, validation.Min(1)),
		validation.Field(&c.Capacity, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Min(1)),
	)
}
