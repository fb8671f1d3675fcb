package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f := NewFakeCache()

	_, ok, err := f.Get(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.Set(ctx, "user:1", []byte("payload"), 5*time.Minute))

	data, ok, err := f.Get(ctx, "user:1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), data)
	assert.Equal(t, 5*time.Minute, f.TTLOf("user:1"))

	stats, err := f.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 1, stats.Misses)
}

func TestFakeCache_ScanIsSortedAndScoped(t *testing.T) {
	ctx := context.Background()
	f := NewFakeCache()
	f.Put("user:2", []byte("b"))
	f.Put("user:1", []byte("a"))
	f.Put("users:age:20:40", []byte("c"))

	keys, err := f.Scan(ctx, "user:")
	require.NoError(t, err)
	assert.Equal(t, []string{"user:1", "user:2"}, keys)
}

func TestFakeCache_ErrorInjection(t *testing.T) {
	ctx := context.Background()
	f := NewFakeCache()
	boom := errors.New("boom")

	f.GetErr = boom
	_, _, err := f.Get(ctx, "user:1")
	assert.ErrorIs(t, err, boom)

	f.SetErr = boom
	assert.ErrorIs(t, f.Set(ctx, "user:1", nil, 0), boom)

	f.ScanErr = boom
	_, err = f.Scan(ctx, "user:")
	assert.ErrorIs(t, err, boom)
}
