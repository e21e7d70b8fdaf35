// Package ratelimit provides token bucket rate limiting for log emission.
//
// The package implements three limiter flavors over one refill-and-consume
// algorithm: a mutex-guarded limiter for parallel goroutine callers, a
// cooperative context-aware limiter for cancellation-sensitive call paths,
// and a process-wide global limiter that composes a global cap with
// independent per-logger caps. A buffered variant of the global gate retains
// denied items in a bounded queue for later inspection.
//
// # Token Bucket Algorithm
//
// Every limiter owns a bucket with a fixed capacity of tokens:
//  1. The bucket starts full, so a fresh limiter absorbs a burst of
//     floor(capacity) events.
//  2. Tokens regenerate continuously at refillRate tokens per second of
//     elapsed monotonic time, clamped at capacity.
//  3. Each admitted event consumes exactly one token.
//  4. An event is denied when fewer than one token is available; denial is
//     a return value, never an error.
//  5. Recovery is time-based: after a denial, 1/refillRate seconds of
//     elapsed time guarantees the next event is admitted.
//
// Capacity and refill rate are fixed at construction. To change a limit,
// construct a new limiter (the global limiter's Configure does exactly
// that).
//
// # Usage
//
// Standalone limiter for a single emission point:
//
//	limiter, err := ratelimit.NewSyncLimiter(10, 2) // burst 10, 2 tokens/sec
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if limiter.Allow() {
//		emit(record)
//	}
//
// The cooperative flavor suspends on the context while waiting for the
// lock, never inside the critical section:
//
//	limiter, err := ratelimit.NewAsyncLimiter(10, 2)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ok, err := limiter.Allow(ctx)
//	if err != nil {
//		return err // cancelled while waiting; bucket untouched
//	}
//	if ok {
//		emit(record)
//	}
//
// # Global Limiter
//
// The global limiter is the single admission decision point shared by every
// log call site in the process:
//
//	err := ratelimit.Global().Configure(ratelimit.GlobalConfig{
//		GlobalRate:     100, // tokens/sec across all loggers
//		GlobalCapacity: 200,
//		PerLogger: map[string]ratelimit.Limit{
//			"http":   {Rate: 5, Capacity: 10},
//			"worker": {Rate: 1, Capacity: 3},
//		},
//	})
//
//	d := ratelimit.Global().Allow("http", record)
//	if !d.Allowed {
//		metrics.Throttled(d.Reason)
//		return
//	}
//
// Admission is two-staged: the logger's own limit is checked first and a
// logger-level denial never consumes a global token. Configure accumulates
// across calls, so subsystems can each register their own logger limits
// without clobbering one another.
//
// # Buffered Mode
//
// With UseBuffered the global gate retains denied items in a bounded FIFO
// queue, subject to an overflow policy and an optional memory budget:
//
//	err := ratelimit.Global().Configure(ratelimit.GlobalConfig{
//		GlobalRate:     100,
//		GlobalCapacity: 200,
//		UseBuffered:    true,
//		MaxQueueSize:   500,
//		OverflowPolicy: ratelimit.OverflowDropOldest,
//	})
//
//	// Later, inspect what was throttled away:
//	for _, item := range buffered.Drain(100) {
//		audit(item.ID, item.DroppedAt, item.Item)
//	}
//
// # Environment Configuration
//
// Config carries the standard environment mapping, loaded through
// core/config:
//
//	RATE_LIMIT_GLOBAL_RATE=100
//	RATE_LIMIT_GLOBAL_CAPACITY=200
//	RATE_LIMIT_PER_LOGGER=http:5:10,worker:1:3
//	RATE_LIMIT_USE_BUFFERED=true
//	RATE_LIMIT_MAX_QUEUE_SIZE=500
//
//	cfg, err := ratelimit.GlobalConfigFromEnv()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := ratelimit.Global().Configure(cfg); err != nil {
//		log.Fatal(err)
//	}
//
// # Monitoring
//
// Every limiter exposes a Stats snapshot; the global limiter aggregates all
// of them. NewCollector adapts a GlobalLimiter to prometheus.Collector with
// const metrics built per scrape:
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(ratelimit.NewCollector(ratelimit.Global()))
//
// # Error Handling
//
// Construction fails fast with descriptive sentinels (ErrInvalidCapacity,
// ErrInvalidRefillRate, ErrInvalidBufferSize, ErrInvalidOverflowPolicy,
// ErrPartialGlobalLimit); a limiter is never left half-constructed. At
// admission time there are no failure modes: a denied check is final for
// that instant and recovery happens by refill, not by caller-driven retry.
//
// # Concurrency
//
// Each bucket is owned exclusively by its limiter and serialized by that
// limiter's lock; buckets of different loggers are fully independent. The
// global limiter holds its instance lock across the whole two-stage check,
// so configuration changes and admission checks are serialized: a check
// sees either the old or the new limiter for a logger, never a
// partially-constructed one.
package ratelimit
