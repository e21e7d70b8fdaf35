// Package logger provides structured logging utilities built on Go's standard
// slog package: a small factory for configured loggers plus attribute helpers
// for the recurring fields of this library (scopes, denial reasons, event
// sets, components).
//
// # Basic Usage
//
// Create loggers using the factory function with configuration options:
//
//	import "github.com/dmitrymomot/telemetrykit/core/logger"
//
//	// Development logger: text format, debug level
//	log := logger.New(logger.WithDevelopment("telemetry"))
//
//	// Production logger: JSON format, info level
//	log := logger.New(logger.WithProduction("telemetry"))
//
//	log.Info("event throttled",
//		logger.Scope("http"),
//		logger.Reason("Global rate limit exceeded"),
//	)
//
// # Environment Configurations
//
// The package provides pre-configured setups for different environments:
//
//	devLogger := logger.New(logger.WithDevelopment("telemetry"))
//	stageLogger := logger.New(logger.WithStaging("telemetry"))
//	prodLogger := logger.New(logger.WithProduction("telemetry"))
//
//	// Custom configuration
//	customLogger := logger.New(
//		logger.WithLevel(slog.LevelWarn),
//		logger.WithJSONFormatter(),
//		logger.WithOutput(os.Stderr),
//		logger.WithAttr(slog.String("service", "ingest")),
//	)
//
// # Attribute Helpers
//
// Helpers return empty Attrs for nil or empty input, so call sites need no
// guards:
//
//	log.Error("discovery failed",
//		logger.Error(err),           // omitted entirely when err == nil
//		logger.Component("eventset"),
//		logger.File(path),
//	)
//
//	log.Warn("definition skipped",
//		logger.EventSet(set.Name),
//		logger.Errors(parseErr, validateErr),
//	)
//
//	start := time.Now()
//	// ... work ...
//	log.Debug("reload complete",
//		logger.Elapsed(start),
//		logger.Count("sets", n),
//	)
//
// # Loggers for Internal Components
//
// Components in this library accept a *slog.Logger through their options and
// stay silent by default (io.Discard). Pass a configured logger to surface
// their internals:
//
//	watcher, err := eventset.NewWatcher(dir,
//		eventset.WithWatcherLogger(logger.New(logger.WithDevelopment("telemetry"))),
//	)
//
// # Global Logger Setup
//
//	log := logger.New(logger.WithProduction("telemetry"))
//	logger.SetAsDefault(log)
//
//	// Anywhere in the application:
//	slog.Info("using global logger", logger.Component("pipeline"))
//
// # Testing with Custom Output
//
// Capture logs during testing:
//
//	var buf bytes.Buffer
//	log := logger.New(
//		logger.WithJSONFormatter(),
//		logger.WithOutput(&buf),
//	)
//
//	log.Info("test message", logger.Component("test"))
//	assert.Contains(t, buf.String(), `"component":"test"`)
package logger
