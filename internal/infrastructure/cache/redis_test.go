package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/casedesk/casedesk/internal/domain/services"
	"github.com/casedesk/casedesk/internal/infrastructure/cache"
	"github.com/casedesk/casedesk/internal/infrastructure/cache/cachetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_SetGetDelete(t *testing.T) {
	c, _ := cachetest.NewRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, services.ErrCacheMiss)
}

func TestRedisCache_Expiry(t *testing.T) {
	c, server := cachetest.NewRedis(t)
	ctx := context.Background()

	require.NoError(t, c.HSet(ctx, "h", "f", 1))
	require.NoError(t, c.Expire(ctx, "h", time.Minute))

	ok, err := c.Exists(ctx, "h")
	require.NoError(t, err)
	assert.True(t, ok)

	server.FastForward(2 * time.Minute)
	ok, err = c.Exists(ctx, "h")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_HashesHoldBytesAndMissingHashIsEmpty(t *testing.T) {
	c, _ := cachetest.NewRedis(t)
	ctx := context.Background()

	require.NoError(t, c.HMSet(ctx, "h", map[string]interface{}{
		"data":  []byte(`{"a":1}`),
		"stale": "0",
	}))
	require.NoError(t, c.HMSet(ctx, "h", nil))
	require.NoError(t, c.HSet(ctx, "h", "stale", "1"))

	all, err := c.HGetAll(ctx, "h")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"data": `{"a":1}`, "stale": "1"}, all)

	all, err = c.HGetAll(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRedisCache_ListIsFIFOWithLPushRPop(t *testing.T) {
	c, _ := cachetest.NewRedis(t)
	ctx := context.Background()

	require.NoError(t, c.LPush(ctx, "q", "first"))
	require.NoError(t, c.LPush(ctx, "q", "second"))

	v, err := c.RPop(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, "first", v)

	v, err = c.RPop(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, "second", v)

	_, err = c.RPop(ctx, "q")
	assert.ErrorIs(t, err, services.ErrCacheMiss)
}

func TestRedisCache_SetsAndCounters(t *testing.T) {
	c, _ := cachetest.NewRedis(t)
	ctx := context.Background()

	require.NoError(t, c.SAdd(ctx, "s", "a", "b", "a"))
	members, err := c.SMembers(ctx, "s")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, members)

	require.NoError(t, c.SRem(ctx, "s", "a"))
	members, err = c.SMembers(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, members)

	members, err = c.SMembers(ctx, "none")
	require.NoError(t, err)
	assert.Empty(t, members)

	n, err := c.Increment(ctx, "n")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = c.Increment(ctx, "n")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRedisCache_PingAndClose(t *testing.T) {
	c, server := cachetest.NewRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	server.Close()
	assert.Error(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

func TestCreateCacheService_RedisURL(t *testing.T) {
	_, server := cachetest.NewRedis(t)

	svc, err := cache.CreateCacheService("redis://" + server.Addr())
	require.NoError(t, err)
	defer svc.Close()

	_, ok := svc.(*cache.RedisCache)
	assert.True(t, ok)
	assert.NoError(t, svc.Ping(context.Background()))
}
