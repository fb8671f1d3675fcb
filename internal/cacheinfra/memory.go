package cacheinfra

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/viccon/sturdyc"

	"github.com/yantim/postgres-redis-demo/cache"
)

var _ cache.Cache = (*MemoryCache)(nil)

// evictionPercentage is how much of a full sturdyc shard gets evicted.
const evictionPercentage = 10

// MemoryCache implements cache.Cache on an in-process sturdyc client. It
// keeps the demo and the test suite runnable without a Redis instance.
//
// sturdyc applies one TTL per client, so the per-call TTL passed to Set is
// accepted but the TTL the client was built with governs expiry.
type MemoryCache struct {
	client *sturdyc.Client[[]byte]

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemoryCache builds an in-memory cache sized from cfg. Addr, Password and
// pool settings are ignored.
func NewMemoryCache(cfg cache.Config) *MemoryCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 10000
	}
	shards := cfg.NumShards
	if shards <= 0 {
		shards = 64
	}

	return &MemoryCache{
		client: sturdyc.New[[]byte](capacity, shards, ttl, evictionPercentage),
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := m.client.Get(key)
	if !ok {
		m.misses.Add(1)
		return nil, false, nil
	}
	m.hits.Add(1)
	return value, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.client.Set(key, value)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.client.Delete(key)
	}
	return nil
}

func (m *MemoryCache) Scan(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for _, key := range m.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryCache) Stats(_ context.Context) (cache.Stats, error) {
	return cache.Stats{
		Backend: "memory",
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
	}, nil
}

func (m *MemoryCache) Close() error {
	return nil
}
