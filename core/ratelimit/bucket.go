package ratelimit

import "time"

// bucket holds the token bucket state shared by every limiter flavor in this
// package. It performs no synchronization of its own: the owning limiter must
// hold its lock around every admit and snapshot call, which keeps the
// refill-and-consume arithmetic in one place while each limiter brings its own
// concurrency primitive.
type bucket struct {
	capacity   float64
	refillRate float64 // tokens added per second of elapsed time

	tokens     float64
	lastRefill time.Time

	totalAllowed int64
	totalDenied  int64
	lastDenied   time.Time
}

// newBucket validates the limiter parameters and returns a bucket that
// starts full.
func newBucket(capacity, refillRate float64) (*bucket, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if refillRate <= 0 {
		return nil, ErrInvalidRefillRate
	}
	return &bucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     capacity,
		lastRefill: time.Now(),
	}, nil
}

// admit performs one refill-and-consume step at the given instant and reports
// whether the event is admitted. Refill happens only for positive elapsed
// time; time.Time.Sub compares monotonic clock readings, so wall-clock
// adjustments can never drain tokens.
func (b *bucket) admit(now time.Time) bool {
	if elapsed := now.Sub(b.lastRefill); elapsed > 0 {
		b.tokens = min(b.capacity, b.tokens+elapsed.Seconds()*b.refillRate)
		b.lastRefill = now
	}
	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		b.totalAllowed++
		return true
	}
	b.totalDenied++
	b.lastDenied = now
	return false
}

// snapshot copies the observable bucket state.
func (b *bucket) snapshot() Stats {
	return Stats{
		TokensAvailable: b.tokens,
		Capacity:        b.capacity,
		RefillRate:      b.refillRate,
		TotalAllowed:    b.totalAllowed,
		TotalDenied:     b.totalDenied,
		LastDenied:      b.lastDenied,
	}
}

// Stats is a point-in-time snapshot of a limiter's bucket.
type Stats struct {
	TokensAvailable float64   `json:"tokens_available"`
	Capacity        float64   `json:"capacity"`
	RefillRate      float64   `json:"refill_rate"`
	TotalAllowed    int64     `json:"total_allowed"`
	TotalDenied     int64     `json:"total_denied"`
	LastDenied      time.Time `json:"last_denied_time,omitzero"`
}

// Decision is the outcome of an admission check. A denial is a normal return
// value, never an error: callers distinguish "intentionally throttled" from
// "system malfunction" by type. Reason is set only on denial.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}
