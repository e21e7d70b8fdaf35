package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestBucket returns a fresh bucket and its creation instant so tests can
// drive admit with explicit clock values instead of sleeping.
func newTestBucket(t *testing.T, capacity, refillRate float64) (*bucket, time.Time) {
	t.Helper()

	b, err := newBucket(capacity, refillRate)
	require.NoError(t, err)
	return b, b.lastRefill
}

func TestBucket_Admit(t *testing.T) {
	t.Parallel()

	t.Run("starts full and admits a burst up to capacity", func(t *testing.T) {
		b, now := newTestBucket(t, 3, 1)

		assert.True(t, b.admit(now))
		assert.True(t, b.admit(now))
		assert.True(t, b.admit(now))
		assert.False(t, b.admit(now))
	})

	t.Run("regenerates one token per 1/rate seconds", func(t *testing.T) {
		b, now := newTestBucket(t, 3, 1)

		for range 3 {
			b.admit(now)
		}
		require.False(t, b.admit(now))

		now = now.Add(1 * time.Second)
		assert.True(t, b.admit(now))
		assert.False(t, b.admit(now))
	})

	t.Run("accumulates fractional tokens across checks", func(t *testing.T) {
		b, now := newTestBucket(t, 1, 2)

		require.True(t, b.admit(now))

		now = now.Add(250 * time.Millisecond)
		assert.False(t, b.admit(now), "0.5 tokens is not enough for admission")

		now = now.Add(250 * time.Millisecond)
		assert.True(t, b.admit(now), "fractions from both intervals add up to a full token")
	})

	t.Run("refill clamps at capacity", func(t *testing.T) {
		b, now := newTestBucket(t, 3, 1)

		require.True(t, b.admit(now))

		now = now.Add(time.Hour)
		require.True(t, b.admit(now))
		assert.InDelta(t, 2.0, b.tokens, 1e-9)
	})

	t.Run("capacity below one never admits after the initial floor", func(t *testing.T) {
		b, now := newTestBucket(t, 1.5, 1)

		assert.True(t, b.admit(now))
		assert.False(t, b.admit(now), "0.5 remaining tokens cannot cover a whole event")
	})

	t.Run("zero elapsed time skips the refill", func(t *testing.T) {
		b, now := newTestBucket(t, 1, 1000)

		require.True(t, b.admit(now))
		assert.False(t, b.admit(now))
		assert.True(t, b.lastRefill.Equal(now), "lastRefill must not advance without elapsed time")
	})

	t.Run("backwards clock neither refills nor drains", func(t *testing.T) {
		b, now := newTestBucket(t, 2, 1)

		require.True(t, b.admit(now))
		before := b.tokens

		require.True(t, b.admit(now.Add(-time.Second)))
		assert.InDelta(t, before-1.0, b.tokens, 1e-9)
		assert.True(t, b.lastRefill.Equal(now), "negative elapsed must leave lastRefill untouched")
	})

	t.Run("tokens stay within bounds across mixed traffic", func(t *testing.T) {
		b, now := newTestBucket(t, 5, 3)

		for i := range 100 {
			now = now.Add(time.Duration(i%7) * 100 * time.Millisecond)
			b.admit(now)
			assert.GreaterOrEqual(t, b.tokens, 0.0)
			assert.LessOrEqual(t, b.tokens, b.capacity)
		}
	})
}

func TestBucket_Counters(t *testing.T) {
	t.Parallel()

	t.Run("every check lands in exactly one counter", func(t *testing.T) {
		b, now := newTestBucket(t, 2, 1)

		const checks = 50
		for range checks {
			b.admit(now)
		}

		assert.Equal(t, int64(checks), b.totalAllowed+b.totalDenied)
		assert.Equal(t, int64(2), b.totalAllowed)
		assert.Equal(t, int64(checks-2), b.totalDenied)
	})

	t.Run("last denied tracks the most recent denial", func(t *testing.T) {
		b, now := newTestBucket(t, 1, 1)

		require.True(t, b.admit(now))
		assert.True(t, b.lastDenied.IsZero(), "no denial recorded yet")

		first := now.Add(10 * time.Millisecond)
		require.False(t, b.admit(first))
		assert.True(t, b.lastDenied.Equal(first))

		second := now.Add(20 * time.Millisecond)
		require.False(t, b.admit(second))
		assert.True(t, b.lastDenied.Equal(second))
	})
}

func TestBucket_Snapshot(t *testing.T) {
	t.Parallel()

	t.Run("copies configuration and counters", func(t *testing.T) {
		b, now := newTestBucket(t, 4, 2.5)

		b.admit(now)
		b.admit(now)

		stats := b.snapshot()
		assert.Equal(t, 4.0, stats.Capacity)
		assert.Equal(t, 2.5, stats.RefillRate)
		assert.InDelta(t, 2.0, stats.TokensAvailable, 1e-9)
		assert.Equal(t, int64(2), stats.TotalAllowed)
		assert.Equal(t, int64(0), stats.TotalDenied)
		assert.True(t, stats.LastDenied.IsZero())
	})
}

func TestNewBucket_Validation(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-positive capacity", func(t *testing.T) {
		b, err := newBucket(0, 1)
		assert.Nil(t, b)
		assert.ErrorIs(t, err, ErrInvalidCapacity)

		b, err = newBucket(-10, 1)
		assert.Nil(t, b)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
	})

	t.Run("rejects non-positive refill rate", func(t *testing.T) {
		b, err := newBucket(1, 0)
		assert.Nil(t, b)
		assert.ErrorIs(t, err, ErrInvalidRefillRate)

		b, err = newBucket(1, -0.5)
		assert.Nil(t, b)
		assert.ErrorIs(t, err, ErrInvalidRefillRate)
	})
}
