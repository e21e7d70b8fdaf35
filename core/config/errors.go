package config

import "errors"

// ErrNilConfig indicates Load was called with a nil destination pointer.
var ErrNilConfig = errors.New("config destination cannot be nil")
