package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	return NewRedis(client, "test:"), mr
}

func TestCaches(t *testing.T) {
	redisCache, _ := newRedis(t)

	caches := map[string]Cache{
		"redis": redisCache,
		"lru":   NewLRU(16, time.Minute),
	}

	for name, c := range caches {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := c.Get(ctx, "k")
			require.ErrorIs(t, err, ErrCacheMiss)

			require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

			got, err := c.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v"), got)

			require.NoError(t, c.Delete(ctx, "k", "other"))
			_, err = c.Get(ctx, "k")
			require.ErrorIs(t, err, ErrCacheMiss)

			require.NoError(t, c.Delete(ctx))
		})
	}
}

func TestRedis_PrefixAndTTL(t *testing.T) {
	c, mr := newRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "role:u1", []byte("x"), time.Minute))
	assert.True(t, mr.Exists("test:role:u1"))

	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, "role:u1")
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedis_Unavailable(t *testing.T) {
	c, mr := newRedis(t)
	mr.Close()

	_, err := c.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestLRU_Expiry(t *testing.T) {
	c := NewLRU(0, 10*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))

	assert.Eventually(t, func() bool {
		_, err := c.Get(ctx, "k")
		return err != nil
	}, time.Second, 5*time.Millisecond)
}
