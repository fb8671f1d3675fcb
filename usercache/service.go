package usercache

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/yantim/postgres-redis-demo/cache"
	"github.com/yantim/postgres-redis-demo/store"
)

// Store is the slice of the relational adapter the service needs.
type Store interface {
	GetUserByID(ctx context.Context, id int64) (*store.User, error)
	ListUsersByAgeRange(ctx context.Context, minAge, maxAge int) ([]*store.User, error)
	CreateUser(ctx context.Context, name, email string, age int) (*store.User, error)
	UpdateUser(ctx context.Context, id int64, update store.UserUpdate) (*store.User, error)
	Close() error
}

// servicePrefixes are the key namespaces this service writes. Stats counting
// and ClearCache enumerate exactly these.
var servicePrefixes = []string{cache.UserKeyPrefix, cache.AgeRangeKeyPrefix}

// CachedUserService layers cache-aside reads and write-invalidation over the
// relational store. Reads populate the cache lazily; writes mutate the store
// first and then delete the affected keys.
//
// Known race, accepted rather than fixed: between the store write and the
// cache invalidation in CreateUser/UpdateUser, a concurrent reader can
// repopulate a key with pre-write data that is then never invalidated. Fixing
// it needs distributed locking or versioned invalidation, which is outside
// this demo's scope; the TTL bounds the resulting staleness.
type CachedUserService struct {
	store  Store
	cache  cache.Cache
	codec  cache.Codec
	ttl    time.Duration
	logger *zap.Logger
}

// Options tune the service. The zero value selects the JSON codec, a five
// minute TTL, and a no-op logger.
type Options struct {
	Codec  cache.Codec
	TTL    time.Duration
	Logger *zap.Logger
}

// New wires the service over its two adapters. The service takes ownership of
// both; Close releases them.
func New(st Store, c cache.Cache, opts Options) *CachedUserService {
	if opts.Codec == nil {
		opts.Codec = cache.JSONCodec{}
	}
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &CachedUserService{
		store:  st,
		cache:  c,
		codec:  opts.Codec,
		ttl:    opts.TTL,
		logger: opts.Logger,
	}
}

// GetUserByID returns the user from cache when present, otherwise reads the
// store and populates the cache. Negative lookups are not cached: a missing
// id always reaches the store and returns store.ErrUserNotFound.
func (s *CachedUserService) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	key := cache.UserKey(id)

	user := new(store.User)
	if s.lookup(ctx, key, user) {
		return user, nil
	}

	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.populate(ctx, key, user)
	return user, nil
}

// GetUsersByAgeRange returns users with age in [minAge, maxAge], ordered by
// id ascending, with the same hit/miss and TTL policy as single lookups. An
// empty result is a valid, cacheable value.
func (s *CachedUserService) GetUsersByAgeRange(ctx context.Context, minAge, maxAge int) ([]*store.User, error) {
	key := cache.AgeRangeKey(minAge, maxAge)

	users := []*store.User{}
	if s.lookup(ctx, key, &users) {
		return users, nil
	}

	users, err := s.store.ListUsersByAgeRange(ctx, minAge, maxAge)
	if err != nil {
		return nil, err
	}
	s.populate(ctx, key, users)
	return users, nil
}

// CreateUser inserts a row (the store assigns the id) and then drops every
// cached age-range result: which ranges the new row lands in cannot be known
// without tracking all issued range keys, so all of them go. The new row's
// own key is untouched because nothing can have cached it yet. An
// invalidation failure is returned even though the row was inserted; the
// wrapped message says so.
func (s *CachedUserService) CreateUser(ctx context.Context, name, email string, age int) (*store.User, error) {
	verr := validation.Errors{
		"name":  validation.Validate(name, validation.Required, validation.Length(1, 100)),
		"email": validation.Validate(email, validation.Required, is.Email),
		"age":   validation.Validate(age, validation.Min(0), validation.Max(150)),
	}
	if err := verr.Filter(); err != nil {
		return nil, errors.Wrap(err, "usercache: invalid user")
	}

	user, err := s.store.CreateUser(ctx, name, email, age)
	if err != nil {
		return nil, err
	}

	if err := s.invalidate(ctx, cache.AgeRangeKeyPrefix); err != nil {
		return nil, errors.Wrap(err, "usercache: user created but range invalidation failed")
	}
	return user, nil
}

// UpdateUser applies a partial update and invalidates the user's own key plus
// every age-range key, since an age change can move the row between ranges.
// Returns store.ErrUserNotFound when the id has no row. Invalidation failures
// are returned, not swallowed: the update landed, but the caller must know
// stale entries may still be cached.
func (s *CachedUserService) UpdateUser(ctx context.Context, id int64, update store.UserUpdate) (*store.User, error) {
	user, err := s.store.UpdateUser(ctx, id, update)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, cache.UserKey(id)); err != nil {
		return nil, errors.Wrapf(err, "usercache: user %d updated but key invalidation failed", id)
	}
	if err := s.invalidate(ctx, cache.AgeRangeKeyPrefix); err != nil {
		return nil, errors.Wrapf(err, "usercache: user %d updated but range invalidation failed", id)
	}
	return user, nil
}

// CacheStats reports the backend's hit/miss counters plus the number of keys
// currently held under this service's prefixes.
func (s *CachedUserService) CacheStats(ctx context.Context) (cache.Stats, error) {
	stats, err := s.cache.Stats(ctx)
	if err != nil {
		return cache.Stats{}, err
	}
	for _, prefix := range servicePrefixes {
		keys, err := s.cache.Scan(ctx, prefix)
		if err != nil {
			return cache.Stats{}, err
		}
		stats.Keys += len(keys)
	}
	return stats, nil
}

// ClearCache deletes every key this service created. Idempotent.
func (s *CachedUserService) ClearCache(ctx context.Context) error {
	for _, prefix := range servicePrefixes {
		if _, err := s.deleteByPrefix(ctx, prefix); err != nil {
			return err
		}
	}
	return nil
}

// Close releases both adapters. Both are always attempted, even when the
// first fails.
func (s *CachedUserService) Close() error {
	return multierr.Append(
		errors.Wrap(s.store.Close(), "usercache: close store"),
		errors.Wrap(s.cache.Close(), "usercache: close cache"),
	)
}

// lookup loads and decodes the entry under key into dest. Cache errors and
// undecodable entries count as misses so the read path can always fall back
// to the store; a corrupt entry is deleted on the way.
func (s *CachedUserService) lookup(ctx context.Context, key string, dest any) bool {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed, falling back to store",
			zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		s.logger.Debug("cache miss", zap.String("key", key))
		return false
	}
	if err := s.codec.Unmarshal(data, dest); err != nil {
		s.logger.Warn("undecodable cache entry, treating as miss",
			zap.String("key", key), zap.Error(err))
		if derr := s.cache.Delete(ctx, key); derr != nil {
			s.logger.Warn("failed to drop corrupt entry", zap.String("key", key), zap.Error(derr))
		}
		return false
	}
	s.logger.Debug("cache hit", zap.String("key", key))
	return true
}

// populate stores the encoded value under key with the service TTL. Failures
// are logged and swallowed: the caller already holds fresh store data.
func (s *CachedUserService) populate(ctx context.Context, key string, value any) {
	data, err := s.codec.Marshal(value)
	if err != nil {
		s.logger.Warn("cannot encode value for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		return
	}
	s.logger.Debug("cache populated", zap.String("key", key), zap.Duration("ttl", s.ttl))
}

// invalidate scan-and-deletes a prefix after a write. A failure is surfaced:
// the caller must not report success while stale entries may still be served,
// even though the store write itself already landed.
func (s *CachedUserService) invalidate(ctx context.Context, prefix string) error {
	n, err := s.deleteByPrefix(ctx, prefix)
	if err != nil {
		return err
	}
	s.logger.Debug("invalidated prefix", zap.String("prefix", prefix), zap.Int("keys", n))
	return nil
}

func (s *CachedUserService) deleteByPrefix(ctx context.Context, prefix string) (int, error) {
	keys, err := s.cache.Scan(ctx, prefix)
	if err != nil {
		return 0, errors.Wrapf(err, "usercache: scan %s", prefix)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		return 0, errors.Wrapf(err, "usercache: delete %s keys", prefix)
	}
	return len(keys), nil
}
