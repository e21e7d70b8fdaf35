// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/telemetrykit/core/config"
//
//	type WatcherConfig struct {
//		Dir      string        `env:"EVENTSET_DIR" envDefault:"./eventsets"`
//		Debounce time.Duration `env:"EVENTSET_DEBOUNCE" envDefault:"100ms"`
//		APIKey   string        `env:"TELEMETRY_API_KEY,required"`
//	}
//
//	func main() {
//		var cfg WatcherConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 WatcherConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 WatcherConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently:
//
//	type RateLimitConfig struct {
//		GlobalRate float64 `env:"RATE_LIMIT_GLOBAL_RATE"`
//	}
//
//	type LoggerConfig struct {
//		Level string `env:"LOG_LEVEL" envDefault:"info"`
//	}
//
//	// Each type has its own cache entry
//	config.MustLoad(&RateLimitConfig{})
//	config.MustLoad(&LoggerConfig{})
//
// Tests that need a fresh read of the environment can discard the cache via
// ResetCache, typically wired into a core/reset hook.
package config
