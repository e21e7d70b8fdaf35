package ratelimit

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultBufferSize is the dropped-item queue bound used when no
// WithBufferSize option is given.
const DefaultBufferSize = 1000

// OverflowPolicy selects what happens when recording a dropped item would
// exceed the queue bound or the memory budget.
type OverflowPolicy string

const (
	// OverflowDropOldest evicts queued items from the head until the new
	// item fits.
	OverflowDropOldest OverflowPolicy = "drop_oldest"
	// OverflowDropNewest discards the incoming item and keeps the queue as is.
	OverflowDropNewest OverflowPolicy = "drop_newest"
)

// Valid checks whether the policy is one of the supported values.
func (p OverflowPolicy) Valid() bool {
	return p == OverflowDropOldest || p == OverflowDropNewest
}

// DroppedItem is one denied event retained in the queue for later inspection.
type DroppedItem struct {
	ID        uuid.UUID `json:"id"`
	Item      any       `json:"item,omitempty"`
	Reason    string    `json:"reason"`
	DroppedAt time.Time `json:"dropped_at"`
}

// QueueStats is a point-in-time snapshot of the dropped-item queue.
type QueueStats struct {
	Size         int   `json:"size"`
	BufferSize   int   `json:"buffer_size"`
	MemoryBytes  int64 `json:"memory_bytes"`
	TotalQueued  int64 `json:"total_queued"`
	TotalEvicted int64 `json:"total_evicted"`
}

// BufferedLimiter is the buffered global-limiter variant: a token bucket
// that, beyond admit/deny, retains a bounded FIFO queue of denied items so
// the surrounding pipeline can inspect or drain what was throttled away.
type BufferedLimiter struct {
	mu sync.Mutex
	b  *bucket

	trackDropped   bool
	bufferSize     int
	maxMemoryBytes int64 // 0 means no memory budget
	policy         OverflowPolicy

	queue        []DroppedItem
	memoryBytes  int64
	totalQueued  int64
	totalEvicted int64
}

// BufferedOption configures a BufferedLimiter.
type BufferedOption func(*BufferedLimiter)

// WithBufferSize bounds the dropped-item queue at n items.
func WithBufferSize(n int) BufferedOption {
	return func(l *BufferedLimiter) {
		l.bufferSize = n
	}
}

// WithTrackDropped enables or disables recording of denied items. Tracking
// is on by default; with tracking off the limiter behaves like a plain
// bucket and the queue stays empty.
func WithTrackDropped(track bool) BufferedOption {
	return func(l *BufferedLimiter) {
		l.trackDropped = track
	}
}

// WithOverflowPolicy selects the queue overflow behavior.
func WithOverflowPolicy(policy OverflowPolicy) BufferedOption {
	return func(l *BufferedLimiter) {
		l.policy = policy
	}
}

// WithMaxMemoryMB caps the approximate memory retained by queued items.
// Zero means no budget.
func WithMaxMemoryMB(mb float64) BufferedOption {
	return func(l *BufferedLimiter) {
		l.maxMemoryBytes = int64(mb * 1024 * 1024)
	}
}

// NewBufferedLimiter creates a buffered limiter holding up to capacity
// tokens and refilling at refillRate tokens per second. The bucket starts
// full; the queue starts empty.
func NewBufferedLimiter(capacity, refillRate float64, opts ...BufferedOption) (*BufferedLimiter, error) {
	b, err := newBucket(capacity, refillRate)
	if err != nil {
		return nil, err
	}

	l := &BufferedLimiter{
		b:            b,
		trackDropped: true,
		bufferSize:   DefaultBufferSize,
		policy:       OverflowDropOldest,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.bufferSize <= 0 {
		return nil, ErrInvalidBufferSize
	}
	if l.maxMemoryBytes < 0 {
		return nil, ErrInvalidMemoryLimit
	}
	if !l.policy.Valid() {
		return nil, ErrInvalidOverflowPolicy
	}
	return l, nil
}

// AllowItem reports whether one event may proceed, consuming a token when it
// does. On denial the item is recorded in the dropped-item queue when
// tracking is enabled, subject to the buffer bound, the memory budget, and
// the overflow policy.
func (l *BufferedLimiter) AllowItem(item any) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if l.b.admit(now) {
		return Decision{Allowed: true}
	}
	if l.trackDropped {
		l.record(item, now)
	}
	return Decision{Reason: ReasonGlobalLimit}
}

// record appends a dropped item, evicting or discarding per the overflow
// policy. Callers must hold l.mu.
func (l *BufferedLimiter) record(item any, now time.Time) {
	size := itemSize(item)
	if l.maxMemoryBytes > 0 && size > l.maxMemoryBytes {
		// The payload alone exceeds the whole budget; it can never fit.
		return
	}

	overflows := func() bool {
		if len(l.queue) >= l.bufferSize {
			return true
		}
		return l.maxMemoryBytes > 0 && l.memoryBytes+size > l.maxMemoryBytes
	}

	if l.policy == OverflowDropNewest && overflows() {
		return
	}
	for overflows() && len(l.queue) > 0 {
		l.evictHead()
	}

	l.queue = append(l.queue, DroppedItem{
		ID:        uuid.New(),
		Item:      item,
		Reason:    ReasonGlobalLimit,
		DroppedAt: now,
	})
	l.memoryBytes += size
	l.totalQueued++
}

// evictHead removes the oldest queued item. Callers must hold l.mu.
func (l *BufferedLimiter) evictHead() {
	l.memoryBytes -= itemSize(l.queue[0].Item)
	copy(l.queue, l.queue[1:])
	l.queue = l.queue[:len(l.queue)-1]
	l.totalEvicted++
}

// Drain removes and returns up to max of the oldest queued items in FIFO
// order. max <= 0 drains the whole queue. Drained items do not count as
// evictions.
func (l *BufferedLimiter) Drain(max int) []DroppedItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.queue)
	if max > 0 && max < n {
		n = max
	}
	if n == 0 {
		return nil
	}

	out := make([]DroppedItem, n)
	copy(out, l.queue[:n])
	for _, it := range out {
		l.memoryBytes -= itemSize(it.Item)
	}
	rest := copy(l.queue, l.queue[n:])
	l.queue = l.queue[:rest]
	return out
}

// Len returns the number of items currently queued.
func (l *BufferedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Stats returns a point-in-time snapshot of the bucket.
func (l *BufferedLimiter) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.snapshot()
}

// QueueStats returns a point-in-time snapshot of the dropped-item queue.
func (l *BufferedLimiter) QueueStats() QueueStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return QueueStats{
		Size:         len(l.queue),
		BufferSize:   l.bufferSize,
		MemoryBytes:  l.memoryBytes,
		TotalQueued:  l.totalQueued,
		TotalEvicted: l.totalEvicted,
	}
}

// itemSize approximates the memory retained by one queued item. Strings and
// byte slices are measured exactly; other payloads are charged a flat
// estimate, which keeps the accounting cheap at the cost of precision.
func itemSize(item any) int64 {
	const overhead = 96 // id, reason, timestamp, interface header, slice slot
	switch v := item.(type) {
	case nil:
		return overhead
	case string:
		return overhead + int64(len(v))
	case []byte:
		return overhead + int64(len(v))
	default:
		return overhead + 256
	}
}
