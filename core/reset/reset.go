package reset

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Hook returns one subsystem's global state to a clean baseline. Hooks must
// be safe to call repeatedly; the registry gives no guarantee a hook runs
// exactly once per process.
type Hook func(context.Context) error

// Registry sequences named reset hooks over unrelated subsystems. Hooks run
// in registration order, which lets callers place low-level state (caches,
// registries) before the components that consume it.
type Registry struct {
	mu    sync.Mutex
	order []string
	hooks map[string]Hook
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{hooks: make(map[string]Hook)}
}

// Register appends a named hook to the sequence. Registering an existing
// name replaces its hook in place, keeping the original position so the
// execution order stays stable. Empty names and nil hooks are ignored.
func (r *Registry) Register(name string, fn Hook) {
	if name == "" || fn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.hooks[name]; !exists {
		r.order = append(r.order, name)
	}
	r.hooks[name] = fn
}

// Remove deletes the named hook, reporting whether it was registered.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.hooks[name]; !exists {
		return false
	}
	delete(r.hooks, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	return true
}

// Names returns the hook names in execution order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hooks)
}

// Clear removes every hook.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	clear(r.hooks)
}

// Reset runs every hook in registration order. A failing or panicking hook
// never stops the sequence; every failure is reported in the joined error,
// attributed to its hook name. Hooks run outside the registry lock, so a
// hook may register or remove hooks without deadlocking.
func (r *Registry) Reset(ctx context.Context) error {
	r.mu.Lock()
	names := slices.Clone(r.order)
	hooks := make([]Hook, len(names))
	for i, name := range names {
		hooks[i] = r.hooks[name]
	}
	r.mu.Unlock()

	var errs []error
	for i, fn := range hooks {
		if err := runHook(ctx, fn); err != nil {
			errs = append(errs, fmt.Errorf("reset hook %q: %w", names[i], err))
		}
	}
	return errors.Join(errs...)
}

// runHook invokes one hook, converting a panic into an error so one broken
// subsystem cannot abort the rest of the sequence.
func runHook(ctx context.Context, fn Hook) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn(ctx)
}

// defaultRegistry backs the package-level helpers.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by the package-level helpers.
func Default() *Registry {
	return defaultRegistry
}

// Register appends a named hook to the default registry.
func Register(name string, fn Hook) {
	defaultRegistry.Register(name, fn)
}

// Remove deletes the named hook from the default registry.
func Remove(name string) bool {
	return defaultRegistry.Remove(name)
}

// Names returns the default registry's hook names in execution order.
func Names() []string {
	return defaultRegistry.Names()
}

// Len returns the number of hooks in the default registry.
func Len() int {
	return defaultRegistry.Len()
}

// Clear removes every hook from the default registry.
func Clear() {
	defaultRegistry.Clear()
}

// Reset runs the default registry's hooks in registration order.
func Reset(ctx context.Context) error {
	return defaultRegistry.Reset(ctx)
}
