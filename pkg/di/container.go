package di

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/yantim/postgres-redis-demo/cache"
	"github.com/yantim/postgres-redis-demo/internal/cacheinfra"
	"github.com/yantim/postgres-redis-demo/store"
	"github.com/yantim/postgres-redis-demo/usercache"
)

// Config aggregates everything the container needs to wire the service.
type Config struct {
	Store store.Config
	Cache cache.Config

	// Codec names the value encoding: "json" (default) or "msgpack".
	Codec string

	// Logger is shared by the service; nil means no-op.
	Logger *zap.Logger
}

// DefaultConfig wires an in-memory SQLite store with an in-memory cache, the
// cheapest configuration that runs anywhere.
func DefaultConfig() Config {
	return Config{
		Store: store.Config{Driver: store.DriverSQLite, DSN: ":memory:"},
		Cache: cache.DefaultConfig(),
		Codec: "json",
	}
}

// Container owns the singleton store, cache backend, codec and service. It
// exists so the demo entry point and the tests construct the object graph the
// same way.
type Container struct {
	store   *store.Store
	cache   cache.Cache
	codec   cache.Codec
	service *usercache.CachedUserService
	config  Config
}

// New validates the configuration and wires the object graph. The cache
// backend is chosen by Cache.Addr: empty selects the in-process cache,
// anything else is treated as a Redis address. Both backends are connected
// (and pinged, where applicable) before the service is built, so an
// unreachable dependency fails here.
func New(ctx context.Context, cfg Config) (*Container, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if err := cfg.Cache.Validate(); err != nil {
		return nil, errors.Wrap(err, "di: invalid cache config")
	}

	codec, err := cache.NewCodec(cfg.Codec)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	var c cache.Cache
	if cfg.Cache.Addr == "" {
		c = cacheinfra.NewMemoryCache(cfg.Cache)
		cfg.Logger.Info("using in-memory cache backend")
	} else {
		c, err = cacheinfra.NewRedisCache(ctx, cfg.Cache)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		cfg.Logger.Info("using redis cache backend", zap.String("addr", cfg.Cache.Addr))
	}

	service := usercache.New(st, c, usercache.Options{
		Codec:  codec,
		TTL:    cfg.Cache.TTL,
		Logger: cfg.Logger,
	})

	return &Container{
		store:   st,
		cache:   c,
		codec:   codec,
		service: service,
		config:  cfg,
	}, nil
}

// Service returns the wired CachedUserService.
func (c *Container) Service() *usercache.CachedUserService {
	return c.service
}

// Store returns the relational store, for migration and seeding.
func (c *Container) Store() *store.Store {
	return c.store
}

// Cache returns the cache backend.
func (c *Container) Cache() cache.Cache {
	return c.cache
}

// Codec returns the configured value codec.
func (c *Container) Codec() cache.Codec {
	return c.codec
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() Config {
	return c.config
}

// Close releases the store and the cache through the service.
func (c *Container) Close() error {
	return c.service.Close()
}
