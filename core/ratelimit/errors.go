package ratelimit

import "errors"

// Package-level error definitions for limiter construction and configuration.
var (
	ErrInvalidCapacity       = errors.New("capacity must be positive")
	ErrInvalidRefillRate     = errors.New("refill rate must be positive")
	ErrInvalidBufferSize     = errors.New("buffer size must be positive")
	ErrInvalidMemoryLimit    = errors.New("memory limit must be positive")
	ErrInvalidOverflowPolicy = errors.New("unknown overflow policy")
	ErrPartialGlobalLimit    = errors.New("global rate and capacity must be set together")
	ErrInvalidLoggerSpec     = errors.New("invalid per-logger limit spec")
)
