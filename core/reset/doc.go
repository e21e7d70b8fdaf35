// Package reset orchestrates test-state cleanup across the process-global
// state this library accumulates: the rate limiter singleton, the event-set
// registry, the configuration cache, and anything else an application hangs
// off package-level variables.
//
// Global state makes production wiring simple and test isolation hard. This
// package centralizes the second half: each subsystem registers one named
// hook that returns it to a clean baseline, and test suites call Reset once
// instead of chasing every package's private cleanup entry point.
//
// # Usage
//
// Register hooks at initialization time, in dependency order:
//
//	import (
//		"github.com/dmitrymomot/telemetrykit/core/config"
//		"github.com/dmitrymomot/telemetrykit/core/eventset"
//		"github.com/dmitrymomot/telemetrykit/core/ratelimit"
//		"github.com/dmitrymomot/telemetrykit/core/reset"
//	)
//
//	func init() {
//		reset.Register("config", func(context.Context) error {
//			config.ResetCache()
//			return nil
//		})
//		reset.Register("eventset", func(context.Context) error {
//			eventset.Clear()
//			return nil
//		})
//		reset.Register("ratelimit", func(context.Context) error {
//			ratelimit.Global().Reset()
//			return nil
//		})
//	}
//
// And in tests:
//
//	func TestMain(m *testing.M) {
//		code := m.Run()
//		_ = reset.Reset(context.Background())
//		os.Exit(code)
//	}
//
// or between cases:
//
//	t.Cleanup(func() {
//		require.NoError(t, reset.Reset(context.Background()))
//	})
//
// # Semantics
//
// Hooks run in registration order. Re-registering a name replaces the hook
// but keeps its position, so wiring code may run more than once without
// reordering the sequence. A failing or panicking hook never stops the ones
// after it; Reset joins all failures into a single error with each hook's
// name attached.
//
// An isolated Registry can be constructed with NewRegistry for suites that
// must not share the default sequence.
package reset
