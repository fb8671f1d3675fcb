package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	s, err := Open(ctx, Config{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"postgres", Config{Driver: DriverPostgres, DSN: "postgres://localhost/demo"}, false},
		{"sqlite", Config{Driver: DriverSQLite, DSN: ":memory:"}, false},
		{"missing driver", Config{DSN: ":memory:"}, true},
		{"unknown driver", Config{Driver: "mysql", DSN: "root@/demo"}, true},
		{"missing dsn", Config{Driver: DriverPostgres}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle", DSN: "whatever"})
	require.Error(t, err)
}

func TestStore_Seed(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	inserted, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, inserted)

	count, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	// Second call is a no-op.
	inserted, err = s.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	count, err = s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestStore_Migrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx))
}
