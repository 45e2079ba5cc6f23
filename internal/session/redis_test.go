package session

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisBackend(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { rdb.Close() })

	backend := NewRedisBackend(rdb)

	t.Run("save and load", func(t *testing.T) {
		require.NoError(t, backend.Save(ctx, "abc", 11, time.Minute))
		uid, ok, err := backend.Load(ctx, "abc")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(11), uid)

		ttl, err := rdb.TTL(ctx, "session:abc").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("missing session", func(t *testing.T) {
		_, ok, err := backend.Load(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, backend.Save(ctx, "gone", 1, time.Minute))
		require.NoError(t, backend.Delete(ctx, "gone"))
		_, ok, err := backend.Load(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("manager round trip", func(t *testing.T) {
		m := NewManager(testSecret, time.Minute, backend)
		token, err := m.Create(ctx, 99)
		require.NoError(t, err)

		uid, ok, err := m.Resolve(ctx, token)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(99), uid)

		require.NoError(t, m.Invalidate(ctx, token))
		_, ok, err = m.Resolve(ctx, token)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
