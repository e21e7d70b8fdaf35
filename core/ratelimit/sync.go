package ratelimit

import (
	"sync"
	"time"
)

// SyncLimiter is a token bucket guarded by a mutex, designed for parallel
// goroutine callers. Refill and consume happen as one atomic step under the
// lock, so two concurrent callers can never both win the same last token.
type SyncLimiter struct {
	mu sync.Mutex
	b  *bucket
}

// NewSyncLimiter creates a limiter holding up to capacity tokens and
// refilling at refillRate tokens per second. The bucket starts full, so a
// fresh limiter admits a burst of floor(capacity) events before throttling.
func NewSyncLimiter(capacity, refillRate float64) (*SyncLimiter, error) {
	b, err := newBucket(capacity, refillRate)
	if err != nil {
		return nil, err
	}
	return &SyncLimiter{b: b}, nil
}

// Allow reports whether one event may proceed, consuming a token when it
// does. The lock hold time is a few arithmetic operations; there is no I/O
// and no blocking beyond lock acquisition.
func (l *SyncLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.admit(time.Now())
}

// Stats returns a point-in-time snapshot of the bucket.
func (l *SyncLimiter) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.snapshot()
}
