package ratelimit_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/telemetrykit/core/ratelimit"
)

func TestNewSyncLimiter(t *testing.T) {
	t.Parallel()

	t.Run("creates limiter with valid parameters", func(t *testing.T) {
		limiter, err := ratelimit.NewSyncLimiter(10, 5)
		require.NoError(t, err)
		require.NotNil(t, limiter)

		stats := limiter.Stats()
		assert.Equal(t, 10.0, stats.Capacity)
		assert.Equal(t, 5.0, stats.RefillRate)
		assert.Equal(t, 10.0, stats.TokensAvailable)
	})

	t.Run("accepts fractional parameters", func(t *testing.T) {
		limiter, err := ratelimit.NewSyncLimiter(0.5, 0.1)
		require.NoError(t, err)
		require.NotNil(t, limiter)
	})

	t.Run("rejects zero capacity", func(t *testing.T) {
		limiter, err := ratelimit.NewSyncLimiter(0, 5)
		assert.Nil(t, limiter)
		assert.ErrorIs(t, err, ratelimit.ErrInvalidCapacity)
	})

	t.Run("rejects negative capacity", func(t *testing.T) {
		limiter, err := ratelimit.NewSyncLimiter(-1, 5)
		assert.Nil(t, limiter)
		assert.ErrorIs(t, err, ratelimit.ErrInvalidCapacity)
	})

	t.Run("rejects zero refill rate", func(t *testing.T) {
		limiter, err := ratelimit.NewSyncLimiter(10, 0)
		assert.Nil(t, limiter)
		assert.ErrorIs(t, err, ratelimit.ErrInvalidRefillRate)
	})

	t.Run("rejects negative refill rate", func(t *testing.T) {
		limiter, err := ratelimit.NewSyncLimiter(10, -5)
		assert.Nil(t, limiter)
		assert.ErrorIs(t, err, ratelimit.ErrInvalidRefillRate)
	})
}

func TestSyncLimiter_Allow(t *testing.T) {
	t.Parallel()

	t.Run("admits burst up to capacity then denies", func(t *testing.T) {
		limiter, err := ratelimit.NewSyncLimiter(3, 1)
		require.NoError(t, err)

		assert.True(t, limiter.Allow())
		assert.True(t, limiter.Allow())
		assert.True(t, limiter.Allow())
		assert.False(t, limiter.Allow())
	})

	t.Run("single token bucket alternates strictly", func(t *testing.T) {
		limiter, err := ratelimit.NewSyncLimiter(1, 1)
		require.NoError(t, err)

		assert.True(t, limiter.Allow())
		assert.False(t, limiter.Allow())
		assert.False(t, limiter.Allow())
	})

	t.Run("recovers after a refill interval", func(t *testing.T) {
		limiter, err := ratelimit.NewSyncLimiter(2, 10)
		require.NoError(t, err)

		assert.True(t, limiter.Allow())
		assert.True(t, limiter.Allow())
		require.False(t, limiter.Allow())

		time.Sleep(110 * time.Millisecond)

		assert.True(t, limiter.Allow())
	})
}

func TestSyncLimiter_Stats(t *testing.T) {
	t.Parallel()

	t.Run("reports counters that add up to the call count", func(t *testing.T) {
		limiter, err := ratelimit.NewSyncLimiter(3, 1)
		require.NoError(t, err)

		const calls = 20
		for range calls {
			limiter.Allow()
		}

		stats := limiter.Stats()
		assert.Equal(t, int64(calls), stats.TotalAllowed+stats.TotalDenied)
		assert.Equal(t, int64(3), stats.TotalAllowed)
		assert.Equal(t, int64(calls-3), stats.TotalDenied)
	})

	t.Run("records the denial timestamp", func(t *testing.T) {
		limiter, err := ratelimit.NewSyncLimiter(1, 1)
		require.NoError(t, err)

		require.True(t, limiter.Allow())
		assert.True(t, limiter.Stats().LastDenied.IsZero())

		require.False(t, limiter.Allow())

		stats := limiter.Stats()
		assert.False(t, stats.LastDenied.IsZero())
		assert.WithinDuration(t, time.Now(), stats.LastDenied, time.Second)
	})

	t.Run("tokens stay within configured bounds", func(t *testing.T) {
		limiter, err := ratelimit.NewSyncLimiter(5, 100)
		require.NoError(t, err)

		for range 30 {
			limiter.Allow()
		}

		stats := limiter.Stats()
		assert.GreaterOrEqual(t, stats.TokensAvailable, 0.0)
		assert.LessOrEqual(t, stats.TokensAvailable, stats.Capacity)
	})
}

func TestSyncLimiter_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	t.Run("concurrent callers never oversubscribe the burst", func(t *testing.T) {
		// Refill of 1 token/sec is negligible over the test's runtime, so the
		// admitted count is effectively bounded by the initial burst.
		limiter, err := ratelimit.NewSyncLimiter(100, 1)
		require.NoError(t, err)

		goroutines := 10
		callsPerGoroutine := 50

		var wg sync.WaitGroup
		wg.Add(goroutines)

		var allowed atomic.Int64
		for range goroutines {
			go func() {
				defer wg.Done()
				for range callsPerGoroutine {
					if limiter.Allow() {
						allowed.Add(1)
					}
				}
			}()
		}

		wg.Wait()

		assert.GreaterOrEqual(t, allowed.Load(), int64(100))
		assert.LessOrEqual(t, allowed.Load(), int64(102))

		stats := limiter.Stats()
		assert.Equal(t, int64(goroutines*callsPerGoroutine), stats.TotalAllowed+stats.TotalDenied)
		assert.GreaterOrEqual(t, stats.TokensAvailable, 0.0)
		assert.LessOrEqual(t, stats.TokensAvailable, stats.Capacity)
	})

	t.Run("concurrent stats reads do not disturb admission", func(t *testing.T) {
		limiter, err := ratelimit.NewSyncLimiter(10, 1)
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			for range 100 {
				_ = limiter.Stats()
			}
		}()
		go func() {
			defer wg.Done()
			for range 100 {
				limiter.Allow()
			}
		}()

		wg.Wait()

		stats := limiter.Stats()
		assert.Equal(t, int64(100), stats.TotalAllowed+stats.TotalDenied)
	})
}
