package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once

	mu    sync.Mutex
	cache = make(map[reflect.Type]any)
)

// Load populates cfg from environment variables using `env` struct tags.
// The first call for any type parses the environment and caches the result;
// later calls for the same type return the cached value, so every subsystem
// sees identical configuration regardless of load order. A .env file in the
// working directory is loaded once per process before the first parse;
// variables already present in the environment take precedence.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}

	dotenvOnce.Do(func() {
		// A missing .env file is not an error; the process environment is
		// the source of truth either way.
		_ = godotenv.Load()
	})

	mu.Lock()
	defer mu.Unlock()

	typ := reflect.TypeFor[T]()
	if cached, ok := cache[typ]; ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to load config %s: %w", typ, err)
	}

	cache[typ] = *cfg
	return nil
}

// MustLoad is Load for startup paths where a missing or malformed
// configuration is fatal. It panics on error.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// ResetCache discards every cached configuration value so the next Load of
// each type re-reads the environment. The .env autoload is not repeated.
// Intended as a test-isolation hook; production code has no reason to call it.
func ResetCache() {
	mu.Lock()
	defer mu.Unlock()
	clear(cache)
}
