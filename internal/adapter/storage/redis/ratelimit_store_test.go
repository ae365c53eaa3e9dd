package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitStore_AllowWithinLimit(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewRateLimitStore(client)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		res, err := store.Allow(ctx, "m1:deposits", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, int64(3), res.Limit)
		assert.Equal(t, 3-i, res.Remaining)
	}
}

func TestRateLimitStore_BlocksOverLimit(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewRateLimitStore(client)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := store.Allow(ctx, "m1:deposits", 2, time.Minute)
		require.NoError(t, err)
	}

	res, err := store.Allow(ctx, "m1:deposits", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Zero(t, res.Remaining)
}

func TestRateLimitStore_KeysAreIndependent(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewRateLimitStore(client)
	ctx := context.Background()

	res, err := store.Allow(ctx, "m1:deposits", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = store.Allow(ctx, "m1:deposits", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	res, err = store.Allow(ctx, "m2:deposits", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "another merchant has its own window")
}

func TestRateLimitStore_WindowResets(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewRateLimitStore(client)
	ctx := context.Background()

	_, err := store.Allow(ctx, "m1:orders", 1, time.Second)
	require.NoError(t, err)

	// The counter key carries a TTL slightly past the window.
	s.FastForward(3 * time.Second)

	res, err := store.Allow(ctx, "m1:orders", 1, time.Second)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
