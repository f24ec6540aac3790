package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCache_SetGetDelete(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	ctx := context.Background()

	var dest map[string]int64
	found, err := GetCache(ctx, rdb, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetCache(ctx, rdb, "k", map[string]int64{"balance": 8900}, time.Minute))
	found, err = GetCache(ctx, rdb, "k", &dest)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(8900), dest["balance"])

	mr.FastForward(2 * time.Minute)
	found, err = GetCache(ctx, rdb, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found, "entry should expire")

	require.NoError(t, SetCache(ctx, rdb, "a", 1, time.Minute))
	require.NoError(t, SetCache(ctx, rdb, "b", 2, time.Minute))
	require.NoError(t, DeleteCache(ctx, rdb, "a", "b"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
}

func TestCache_NilClient(t *testing.T) {
	ctx := context.Background()
	var dest int
	found, err := GetCache(ctx, nil, "k", &dest)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetCache(ctx, nil, "k", 1, time.Minute))
	assert.NoError(t, DeleteCache(ctx, nil, "k"))
}

func TestBalanceCacheKey(t *testing.T) {
	assert.Equal(t, "wallet:user:7", BalanceCacheKey(7))
}
