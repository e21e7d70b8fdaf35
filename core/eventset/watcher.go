package eventset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherStats provides observability metrics for monitoring and debugging.
type WatcherStats struct {
	Reloads    int64     // Completed rediscovery passes, including the initial scan
	LastReload time.Time // When the most recent pass finished; zero before the first
	IsRunning  bool      // Whether the watch loop is running
}

// Watcher keeps a registry in sync with a directory of event-set definition
// files. It runs one discovery pass on start and another whenever a
// definition file changes, coalescing rapid bursts of filesystem events
// through a debounce interval.
//
// Deleting a file does not unregister its set: discovery only upserts, so
// the last loaded definition stays active until replaced or cleared.
type Watcher struct {
	dir      string
	registry *Registry

	// Configuration
	debounce        time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger

	// State management
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	running atomic.Bool
	wg      sync.WaitGroup

	// Observability metrics
	reloads    atomic.Int64
	lastReload atomic.Int64 // unix nanos; 0 means never
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherRegistry directs discovered sets into a registry other than the
// package default.
func WithWatcherRegistry(r *Registry) WatcherOption {
	return func(w *Watcher) {
		if r != nil {
			w.registry = r
		}
	}
}

// WithWatcherDebounce sets the quiet period after a filesystem event before
// rediscovery runs. Defaults to 100ms.
func WithWatcherDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherShutdownTimeout sets the graceful shutdown timeout.
func WithWatcherShutdownTimeout(timeout time.Duration) WatcherOption {
	return func(w *Watcher) {
		if timeout > 0 {
			w.shutdownTimeout = timeout
		}
	}
}

// WithWatcherLogger sets the logger for internal operations.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher creates a watcher over the given directory.
// Call Start() to begin watching.
func NewWatcher(dir string, opts ...WatcherOption) (*Watcher, error) {
	if dir == "" {
		return nil, ErrNoDirectory
	}

	w := &Watcher{
		dir:             dir,
		registry:        defaultRegistry,
		debounce:        100 * time.Millisecond,
		shutdownTimeout: 5 * time.Second,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start runs the initial discovery pass and then blocks watching the
// directory until the context is cancelled or Stop is called. Use Run() for
// the errgroup pattern or call this in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("failed to watch directory %s: %w", w.dir, err)
	}

	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		_ = fsw.Close()
		return ErrWatcherAlreadyStarted
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	w.mu.Unlock()

	defer w.wg.Done()
	defer fsw.Close()

	w.running.Store(true)
	defer w.running.Store(false)

	// Initial pass so the registry reflects files present before Start.
	w.reload(w.ctx)

	w.logger.InfoContext(w.ctx, "event set watcher started",
		slog.String("dir", w.dir),
		slog.Duration("debounce", w.debounce))

	var (
		timer   *time.Timer
		pending <-chan time.Time // nil until a change is waiting out the debounce
	)
	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.logger.InfoContext(context.Background(), "event set watcher stopping")
			return w.ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !isDefinitionFile(filepath.Base(event.Name)) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			// Debounce: re-arm the timer on every event so a burst of
			// writes collapses into one rediscovery pass.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-pending:
			timer = nil
			pending = nil
			w.reload(w.ctx)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.ErrorContext(w.ctx, "file watcher error",
				slog.String("dir", w.dir),
				slog.String("error", err.Error()))
		}
	}
}

// Stop gracefully shuts down the watch loop with a timeout.
// Returns an error if the shutdown timeout is exceeded.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.cancel == nil {
		w.mu.Unlock()
		return ErrWatcherNotStarted
	}
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	cancel()

	ctx, ctxCancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
	defer ctxCancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.InfoContext(context.Background(), "event set watcher stopped cleanly")
		return nil
	case <-ctx.Done():
		w.logger.WarnContext(context.Background(), "event set watcher shutdown timeout exceeded",
			slog.Duration("timeout", w.shutdownTimeout))
		return fmt.Errorf("shutdown timeout exceeded after %s", w.shutdownTimeout)
	}
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// Returns a function that starts the watcher, monitors context cancellation,
// and performs graceful shutdown when the context is cancelled.
func (w *Watcher) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- w.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = w.Stop() // Ignore stop error in normal shutdown
			<-errCh      // Wait for Start() to exit
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// reload runs one discovery pass against the watched directory.
func (w *Watcher) reload(ctx context.Context) {
	start := time.Now()
	result, err := Discover(ctx, w.dir,
		WithDiscoverRegistry(w.registry),
		WithDiscoverLogger(w.logger),
	)
	if err != nil {
		w.logger.ErrorContext(ctx, "event set rediscovery failed",
			slog.String("dir", w.dir),
			slog.String("error", err.Error()))
		return
	}

	w.reloads.Add(1)
	w.lastReload.Store(time.Now().UnixNano())
	w.logger.InfoContext(ctx, "event sets reloaded",
		slog.String("dir", w.dir),
		slog.Int("registered", len(result.Registered)),
		slog.Int("skipped", result.Skipped),
		slog.Duration("duration", time.Since(start)))
}

// Stats returns current watcher statistics for observability and monitoring.
// This method is thread-safe and can be called at any time.
func (w *Watcher) Stats() WatcherStats {
	var last time.Time
	if ns := w.lastReload.Load(); ns != 0 {
		last = time.Unix(0, ns)
	}
	return WatcherStats{
		Reloads:    w.reloads.Load(),
		LastReload: last,
		IsRunning:  w.running.Load(),
	}
}

// Healthcheck validates that the watcher is operational.
// Returns nil if healthy, or an error describing the health issue.
func (w *Watcher) Healthcheck(ctx context.Context) error {
	if !w.running.Load() {
		return fmt.Errorf("event set watcher is not running")
	}
	return nil
}
