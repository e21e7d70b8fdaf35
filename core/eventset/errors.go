package eventset

import "errors"

// Error variables define the failure scenarios of event-set registration and
// discovery, so callers can branch with errors.Is instead of string matching.
var (
	// ErrInvalidEventSet indicates a definition that cannot serve lookups;
	// validation wraps it with the offending set and field.
	ErrInvalidEventSet = errors.New("invalid event set")

	// ErrAlreadyRegistered indicates a Register call for a name the registry
	// already holds. Use Replace for upsert semantics.
	ErrAlreadyRegistered = errors.New("event set already registered")

	// ErrNotFound indicates a lookup for a name the registry does not hold.
	ErrNotFound = errors.New("event set not found")

	// ErrNoDirectory indicates a watcher was constructed without a directory.
	ErrNoDirectory = errors.New("event set directory is required")

	// ErrWatcherAlreadyStarted indicates Start was called on a running watcher.
	ErrWatcherAlreadyStarted = errors.New("event set watcher already started")

	// ErrWatcherNotStarted indicates Stop was called before Start.
	ErrWatcherNotStarted = errors.New("event set watcher not started")
)
