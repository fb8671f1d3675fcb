// Package cacheinfra holds the concrete cache.Cache backends: Redis for
// production and a sturdyc in-memory cache for tests and Redis-less runs.
package cacheinfra

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/yantim/postgres-redis-demo/cache"
)

var _ cache.Cache = (*RedisCache)(nil)

// scanBatchSize is the COUNT hint passed to redis SCAN.
const scanBatchSize = 100

// RedisCache implements cache.Cache over a go-redis client.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection with a ping, so
// an unreachable cache fails at construction rather than on first use.
func NewRedisCache(ctx context.Context, cfg cache.Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "cacheinfra: cannot reach redis at %s", cfg.Addr)
	}

	return &RedisCache{client: client}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "cacheinfra: get %s", key)
	}
	return data, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.Wrapf(err, "cacheinfra: set %s", key)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, "cacheinfra: delete keys")
	}
	return nil
}

func (r *RedisCache) Scan(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, prefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(err, "cacheinfra: scan %s", prefix)
	}
	return keys, nil
}

// Stats reports the server-wide keyspace hit and miss counters from INFO.
func (r *RedisCache) Stats(ctx context.Context) (cache.Stats, error) {
	info, err := r.client.Info(ctx, "stats").Result()
	if err != nil {
		return cache.Stats{}, errors.Wrap(err, "cacheinfra: info stats")
	}

	stats := cache.Stats{Backend: "redis"}
	if v, ok := parseInfoField(info, "keyspace_hits"); ok {
		stats.Hits = v
	}
	if v, ok := parseInfoField(info, "keyspace_misses"); ok {
		stats.Misses = v
	}
	return stats, nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

// parseInfoField extracts an integer field from an INFO response, which is a
// sequence of "name:value" lines with CRLF terminators and "#" comments.
func parseInfoField(info, field string) (int64, bool) {
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || name != field {
			continue
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
