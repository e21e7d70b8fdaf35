package ratelimit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrymomot/telemetrykit/core/config"
)

// Config holds global limiter configuration with environment variable
// support. PerLogger uses a compact comma-separated form of
// "name:rate:capacity" entries, e.g. "http:5:10,worker:1:3".
type Config struct {
	GlobalRate     float64 `env:"RATE_LIMIT_GLOBAL_RATE"`
	GlobalCapacity float64 `env:"RATE_LIMIT_GLOBAL_CAPACITY"`
	PerLogger      string  `env:"RATE_LIMIT_PER_LOGGER"`
	UseBuffered    bool    `env:"RATE_LIMIT_USE_BUFFERED" envDefault:"false"`
	MaxQueueSize   int     `env:"RATE_LIMIT_MAX_QUEUE_SIZE" envDefault:"1000"`
	MaxMemoryMB    float64 `env:"RATE_LIMIT_MAX_MEMORY_MB"`
	OverflowPolicy string  `env:"RATE_LIMIT_OVERFLOW_POLICY" envDefault:"drop_oldest"`
}

// NewGlobalConfig converts an environment-backed Config into the GlobalConfig
// accepted by GlobalLimiter.Configure.
func NewGlobalConfig(cfg Config) (GlobalConfig, error) {
	perLogger, err := ParseLoggerLimits(cfg.PerLogger)
	if err != nil {
		return GlobalConfig{}, err
	}
	return GlobalConfig{
		GlobalRate:     cfg.GlobalRate,
		GlobalCapacity: cfg.GlobalCapacity,
		PerLogger:      perLogger,
		UseBuffered:    cfg.UseBuffered,
		MaxQueueSize:   cfg.MaxQueueSize,
		MaxMemoryMB:    cfg.MaxMemoryMB,
		OverflowPolicy: OverflowPolicy(cfg.OverflowPolicy),
	}, nil
}

// GlobalConfigFromEnv loads Config from the environment (cached per process
// by core/config) and converts it.
func GlobalConfigFromEnv() (GlobalConfig, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return GlobalConfig{}, err
	}
	return NewGlobalConfig(cfg)
}

// ParseLoggerLimits parses the compact per-logger form used by
// RATE_LIMIT_PER_LOGGER: comma-separated "name:rate:capacity" entries.
// Whitespace around entries and fields is ignored; empty input yields an
// empty map.
func ParseLoggerLimits(s string) (map[string]Limit, error) {
	limits := make(map[string]Limit)
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		fields := strings.Split(entry, ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: %q is not name:rate:capacity", ErrInvalidLoggerSpec, entry)
		}
		name := strings.TrimSpace(fields[0])
		if name == "" {
			return nil, fmt.Errorf("%w: empty logger name in %q", ErrInvalidLoggerSpec, entry)
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid rate for logger %q", ErrInvalidLoggerSpec, name)
		}
		capacity, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid capacity for logger %q", ErrInvalidLoggerSpec, name)
		}
		limits[name] = Limit{Rate: rate, Capacity: capacity}
	}
	return limits, nil
}
