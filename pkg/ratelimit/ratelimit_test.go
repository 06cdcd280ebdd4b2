package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/collection-ledger/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimiter(t *testing.T, max int64, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	adapter, err := redis.NewRedisAdapter("ratelimit-test-"+t.Name(), "test:", &redis.Options{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)
	return New(adapter, max, window), mr
}

func TestLimiter_Allow(t *testing.T) {
	l, _ := setupLimiter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := l.Allow("10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := l.Allow("10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLimiter_IndependentKeys(t *testing.T) {
	l, _ := setupLimiter(t, 1, time.Minute)

	ok, err := l.Allow("10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Allow("10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Allow("10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLimiter_WindowReset(t *testing.T) {
	l, mr := setupLimiter(t, 1, time.Minute)

	ok, err := l.Allow("10.0.0.9")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Allow("10.0.0.9")
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = l.Allow("10.0.0.9")
	require.NoError(t, err)
	assert.True(t, ok)
}
