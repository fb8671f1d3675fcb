package di

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yantim/postgres-redis-demo/store"
)

func TestNew_Defaults(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.NotNil(t, c.Service())
	assert.NotNil(t, c.Store())
	assert.NotNil(t, c.Cache())
	assert.Equal(t, "json", c.Codec().Name())
}

func TestNew_MsgpackCodec(t *testing.T) {
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.Codec = "msgpack"
	c, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Equal(t, "msgpack", c.Codec().Name())
}

func TestNew_InvalidConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown codec", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Codec = "xml"
		_, err := New(ctx, cfg)
		assert.Error(t, err)
	})

	t.Run("missing ttl", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Cache.TTL = 0
		_, err := New(ctx, cfg)
		assert.Error(t, err)
	})

	t.Run("unknown store driver", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Store = store.Config{Driver: "mysql", DSN: "root@/demo"}
		_, err := New(ctx, cfg)
		assert.Error(t, err)
	})
}

func TestNew_UnreachableRedisFailsFast(t *testing.T) {
	if testing.Short() {
		t.Skip("dials a closed port")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := DefaultConfig()
	// Reserved port that nothing listens on.
	cfg.Cache.Addr = "127.0.0.1:1"
	_, err := New(ctx, cfg)
	assert.Error(t, err, "an unreachable cache must fail at construction")
}
