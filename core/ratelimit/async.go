package ratelimit

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
)

// AsyncLimiter is a token bucket guarded by a context-aware cooperative lock
// (a weighted semaphore of weight 1). It implements the same admission
// algorithm as SyncLimiter but lets callers abandon the wait for the lock
// when their context is cancelled; the critical section itself performs
// arithmetic only and never blocks.
type AsyncLimiter struct {
	sem *semaphore.Weighted
	b   *bucket
}

// NewAsyncLimiter creates a limiter holding up to capacity tokens and
// refilling at refillRate tokens per second. The bucket starts full.
func NewAsyncLimiter(capacity, refillRate float64) (*AsyncLimiter, error) {
	b, err := newBucket(capacity, refillRate)
	if err != nil {
		return nil, err
	}
	return &AsyncLimiter{
		sem: semaphore.NewWeighted(1),
		b:   b,
	}, nil
}

// Allow reports whether one event may proceed, consuming a token when it
// does. It returns the context's error when cancelled while waiting for the
// lock; the bucket is left untouched in that case and the call counts as
// neither allowed nor denied.
func (l *AsyncLimiter) Allow(ctx context.Context) (bool, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer l.sem.Release(1)
	return l.b.admit(time.Now()), nil
}

// Stats returns a point-in-time snapshot of the bucket, or the context's
// error when cancelled while waiting for the lock.
func (l *AsyncLimiter) Stats(ctx context.Context) (Stats, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return Stats{}, err
	}
	defer l.sem.Release(1)
	return l.b.snapshot(), nil
}
