// Package testsupport provides deterministic test doubles shared by the
// package test suites.
package testsupport

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yantim/postgres-redis-demo/cache"
)

var _ cache.Cache = (*FakeCache)(nil)

// FakeCache is an in-memory cache.Cache with error injection. Unlike the real
// backends it never expires entries, which keeps tests deterministic; the TTL
// passed to Set is recorded so tests can assert on it.
type FakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration

	hits   int64
	misses int64
	closed bool

	// Injectable failures, returned verbatim by the matching method.
	GetErr    error
	SetErr    error
	DeleteErr error
	ScanErr   error
	StatsErr  error
}

// NewFakeCache returns an empty fake.
func NewFakeCache() *FakeCache {
	return &FakeCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

func (f *FakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return nil, false, f.GetErr
	}
	data, ok := f.entries[key]
	if !ok {
		f.misses++
		return nil, false, nil
	}
	f.hits++
	return data, true, nil
}

func (f *FakeCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetErr != nil {
		return f.SetErr
	}
	f.entries[key] = append([]byte(nil), value...)
	f.ttls[key] = ttl
	return nil
}

func (f *FakeCache) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for _, key := range keys {
		delete(f.entries, key)
		delete(f.ttls, key)
	}
	return nil
}

func (f *FakeCache) Scan(_ context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ScanErr != nil {
		return nil, f.ScanErr
	}
	var keys []string
	for key := range f.entries {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *FakeCache) Stats(_ context.Context) (cache.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.StatsErr != nil {
		return cache.Stats{}, f.StatsErr
	}
	return cache.Stats{Backend: "fake", Hits: f.hits, Misses: f.misses}, nil
}

func (f *FakeCache) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Put seeds a raw entry, bypassing Set and its error injection. Useful for
// planting corrupt payloads.
func (f *FakeCache) Put(key string, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = append([]byte(nil), value...)
}

// Contains reports whether key is currently stored.
func (f *FakeCache) Contains(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[key]
	return ok
}

// TTLOf returns the TTL recorded for key by the last Set.
func (f *FakeCache) TTLOf(key string) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ttls[key]
}

// Len returns the number of stored entries.
func (f *FakeCache) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

// Closed reports whether Close was called.
func (f *FakeCache) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
