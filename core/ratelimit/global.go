package ratelimit

import (
	"fmt"
	"sync"
)

// ReasonGlobalLimit is the denial reason reported when the global gate
// throttles an event.
const ReasonGlobalLimit = "Global rate limit exceeded"

// Limit is one per-logger rate limit: rate tokens regenerated per second
// with a burst allowance of capacity.
type Limit struct {
	Rate     float64 `json:"rate"`
	Capacity float64 `json:"capacity"`
}

// GlobalConfig describes one Configure call. Zero values mean "leave
// unchanged": the global gate is rebuilt only when both GlobalRate and
// GlobalCapacity are set, and PerLogger entries merge into the limiters
// configured by earlier calls.
type GlobalConfig struct {
	// GlobalRate and GlobalCapacity build the global gate; setting only one
	// of them is a configuration error.
	GlobalRate     float64 `json:"global_rate"`
	GlobalCapacity float64 `json:"global_capacity"`

	// PerLogger assigns an independent limit to each named logger,
	// overwriting any previous limit for the same name.
	PerLogger map[string]Limit `json:"per_logger,omitempty"`

	// UseBuffered selects the buffered global gate, which retains denied
	// items in a bounded queue. The remaining fields configure that queue
	// and are ignored in plain mode: MaxQueueSize defaults to
	// DefaultBufferSize, MaxMemoryMB of zero means no memory budget, and
	// OverflowPolicy defaults to OverflowDropOldest.
	UseBuffered    bool           `json:"use_buffered"`
	MaxQueueSize   int            `json:"max_queue_size"`
	MaxMemoryMB    float64        `json:"max_memory_mb"`
	OverflowPolicy OverflowPolicy `json:"overflow_policy"`
}

// GlobalStats aggregates the global gate, its drop queue (buffered mode
// only), and every configured per-logger bucket.
type GlobalStats struct {
	Global    *Stats           `json:"global,omitempty"`
	Queue     *QueueStats      `json:"queue,omitempty"`
	PerLogger map[string]Stats `json:"per_logger"`
}

// globalGate is the uniform admission surface the global limiter composes.
// Implementations return a Decision whose Reason is set only on denial, so
// the admission path never branches on the concrete gate type.
type globalGate interface {
	allowItem(item any) Decision
	gateStats() Stats
}

// syncGate adapts a plain SyncLimiter to the gate contract, synthesizing the
// denial reason the bare boolean cannot carry.
type syncGate struct {
	l *SyncLimiter
}

func (g syncGate) allowItem(any) Decision {
	if g.l.Allow() {
		return Decision{Allowed: true}
	}
	return Decision{Reason: ReasonGlobalLimit}
}

func (g syncGate) gateStats() Stats { return g.l.Stats() }

func (l *BufferedLimiter) allowItem(item any) Decision { return l.AllowItem(item) }

func (l *BufferedLimiter) gateStats() Stats { return l.Stats() }

// GlobalLimiter composes one optional global gate with independent
// per-logger limits and exposes a single coarse-grained admission decision
// for the whole logging pipeline. There is exactly one instance per process,
// obtained via Global.
type GlobalLimiter struct {
	mu sync.Mutex

	gate      globalGate       // nil when no global cap is configured
	buffered  *BufferedLimiter // non-nil when the gate is the buffered variant
	perLogger map[string]*SyncLimiter
}

var (
	globalOnce sync.Once
	globalInst *GlobalLimiter
)

// Global returns the process-wide limiter. The first call creates it;
// every later call returns the same unconfigured-by-default instance.
func Global() *GlobalLimiter {
	globalOnce.Do(func() {
		globalInst = &GlobalLimiter{
			perLogger: make(map[string]*SyncLimiter),
		}
	})
	return globalInst
}

// Configure applies cfg under the instance lock. It may be called any number
// of times: a call that sets GlobalRate and GlobalCapacity replaces the
// global gate with a fresh full bucket, and PerLogger entries replace the
// limiter for their name while loggers not mentioned keep their existing
// limits. Everything is validated and constructed before any state changes,
// so a failed call leaves the previous configuration fully intact.
func (g *GlobalLimiter) Configure(cfg GlobalConfig) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	hasRate := cfg.GlobalRate != 0
	hasCapacity := cfg.GlobalCapacity != 0
	if hasRate != hasCapacity {
		return ErrPartialGlobalLimit
	}

	var (
		gate     globalGate
		buffered *BufferedLimiter
	)
	if hasRate {
		if cfg.UseBuffered {
			opts := []BufferedOption{WithTrackDropped(true)}
			if cfg.MaxQueueSize != 0 {
				opts = append(opts, WithBufferSize(cfg.MaxQueueSize))
			}
			if cfg.MaxMemoryMB != 0 {
				opts = append(opts, WithMaxMemoryMB(cfg.MaxMemoryMB))
			}
			if cfg.OverflowPolicy != "" {
				opts = append(opts, WithOverflowPolicy(cfg.OverflowPolicy))
			}
			bl, err := NewBufferedLimiter(cfg.GlobalCapacity, cfg.GlobalRate, opts...)
			if err != nil {
				return fmt.Errorf("failed to configure global limiter: %w", err)
			}
			gate, buffered = bl, bl
		} else {
			sl, err := NewSyncLimiter(cfg.GlobalCapacity, cfg.GlobalRate)
			if err != nil {
				return fmt.Errorf("failed to configure global limiter: %w", err)
			}
			gate = syncGate{sl}
		}
	}

	scoped := make(map[string]*SyncLimiter, len(cfg.PerLogger))
	for name, lim := range cfg.PerLogger {
		sl, err := NewSyncLimiter(lim.Capacity, lim.Rate)
		if err != nil {
			return fmt.Errorf("failed to configure limiter for logger %q: %w", name, err)
		}
		scoped[name] = sl
	}

	if gate != nil {
		g.gate = gate
		g.buffered = buffered
	}
	for name, sl := range scoped {
		g.perLogger[name] = sl
	}
	return nil
}

// Allow reports whether one event from the named logger may proceed. The
// logger's own limit is checked first: a logger-level denial short-circuits
// and never consumes a global token, preserving global capacity for events
// that pass their logger gate. Events that pass (or have no logger limit)
// must then pass the global gate. The whole check runs under the instance
// lock, so concurrent callers never interleave token consumption.
func (g *GlobalLimiter) Allow(logger string, item any) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	if sl, ok := g.perLogger[logger]; ok && !sl.Allow() {
		return Decision{Reason: fmt.Sprintf("Logger '%s' rate limit exceeded", logger)}
	}
	if g.gate != nil {
		if d := g.gate.allowItem(item); !d.Allowed {
			if d.Reason == "" {
				d.Reason = ReasonGlobalLimit
			}
			return d
		}
	}
	return Decision{Allowed: true}
}

// Stats returns a snapshot of every configured bucket, collected under the
// instance lock. Global and Queue are nil when the corresponding gate is not
// configured.
func (g *GlobalLimiter) Stats() GlobalStats {
	g.mu.Lock()
	defer g.mu.Unlock()

	stats := GlobalStats{
		PerLogger: make(map[string]Stats, len(g.perLogger)),
	}
	if g.gate != nil {
		s := g.gate.gateStats()
		stats.Global = &s
	}
	if g.buffered != nil {
		qs := g.buffered.QueueStats()
		stats.Queue = &qs
	}
	for name, sl := range g.perLogger {
		stats.PerLogger[name] = sl.Stats()
	}
	return stats
}

// Reset returns the singleton to its unconfigured state: no global gate and
// no per-logger limits. The instance itself is preserved, so references held
// by callers stay valid. Intended as a test-isolation hook.
func (g *GlobalLimiter) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.gate = nil
	g.buffered = nil
	g.perLogger = make(map[string]*SyncLimiter)
}
