package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-chat-api/cache"
	"social-chat-api/config/common"
)

func setupCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	c := cache.NewRedisCache(common.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_SetGetExpire(t *testing.T) {
	ctx := context.Background()
	c, mr := setupCache(t)

	require.NoError(t, c.Set(ctx, "captcha_a@x.com", "123456", 5*time.Minute))

	value, found, err := c.Get(ctx, "captcha_a@x.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "123456", value)

	mr.FastForward(5*time.Minute + time.Second)

	_, found, err = c.Get(ctx, "captcha_a@x.com")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_GetMissingKey(t *testing.T) {
	c, _ := setupCache(t)

	value, found, err := c.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
}

func TestRedisCache_Del(t *testing.T) {
	ctx := context.Background()
	c, _ := setupCache(t)

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Del(ctx, "k"))

	_, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}
