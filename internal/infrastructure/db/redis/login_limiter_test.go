package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, max int, window time.Duration) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewLoginLimiter(rdb, max, window), mr
}

func TestLoginLimiter_BlocksAfterMaxFailures(t *testing.T) {
	l, _ := newTestLimiter(t, 2, time.Minute)
	ctx := context.Background()

	ok, err := l.Allow(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, l.RecordFailure(ctx, "ana@example.com"))
	ok, _ = l.Allow(ctx, "ana@example.com")
	assert.True(t, ok)

	require.NoError(t, l.RecordFailure(ctx, "ana@example.com"))
	ok, err = l.Allow(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "other@example.com")
	assert.True(t, ok, "limits are per principal")
}

func TestLoginLimiter_WindowExpires(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.RecordFailure(ctx, "ana@example.com"))
	assert.Equal(t, time.Minute, mr.TTL("login_failures:ana@example.com"))

	require.NoError(t, l.RecordFailure(ctx, "ana@example.com"))
	assert.Equal(t, time.Minute, mr.TTL("login_failures:ana@example.com"), "window is not extended by later failures")

	ok, _ := l.Allow(ctx, "ana@example.com")
	assert.False(t, ok)

	mr.FastForward(time.Minute + time.Second)
	ok, err := l.Allow(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginLimiter_Reset(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.RecordFailure(ctx, "ANA@example.com"))
	require.NoError(t, l.Reset(ctx, "ana@example.com"))

	assert.False(t, mr.Exists("login_failures:ana@example.com"))
	ok, _ := l.Allow(ctx, "ana@example.com")
	assert.True(t, ok)
}

func TestLoginLimiter_ErrorWhenRedisDown(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	_, err := l.Allow(context.Background(), "ana@example.com")
	assert.Error(t, err)
}
