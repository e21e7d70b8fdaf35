package eventset

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry holds event sets keyed by name and serves field lookups across
// them in priority order. It is safe for concurrent use; lookups take a read
// lock, so they proceed in parallel with one another.
type Registry struct {
	mu    sync.RWMutex
	sets  map[string]EventSet
	order []string // set names by priority desc, name asc; rebuilt on mutation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sets: make(map[string]EventSet)}
}

// Register validates the set and adds it under its name. Registering a name
// the registry already holds fails with ErrAlreadyRegistered.
func (r *Registry) Register(set EventSet) error {
	if err := set.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sets[set.Name]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, set.Name)
	}
	r.sets[set.Name] = set
	r.reorderLocked()
	return nil
}

// Replace validates the set and stores it under its name, overwriting any
// previous set with that name. Discovery uses this path so edited definition
// files take effect on reload.
func (r *Registry) Replace(set EventSet) error {
	if err := set.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sets[set.Name] = set
	r.reorderLocked()
	return nil
}

// Get returns the named set, or ErrNotFound.
func (r *Registry) Get(name string) (EventSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.sets[name]
	if !ok {
		return EventSet{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return set, nil
}

// Names returns the registered set names in lookup order: priority
// descending, ties broken by name ascending.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// All returns the registered sets in lookup order.
func (r *Registry) All() []EventSet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]EventSet, len(r.order))
	for i, name := range r.order {
		all[i] = r.sets[name]
	}
	return all
}

// Resolve finds the marker for a field key and value. Sets are consulted in
// lookup order and the first one whose mapping covers the value (or carries
// a default marker) wins; a set that maps the key but covers neither does
// not shadow lower-priority sets. The second return reports whether any set
// resolved the lookup.
func (r *Registry) Resolve(key, value string) (Resolution, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		if res, ok := r.sets[name].resolve(key, value); ok {
			return res, true
		}
	}
	return Resolution{}, false
}

// Len returns the number of registered sets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sets)
}

// Clear removes every set. Intended as a test-isolation hook, typically
// wired into a core/reset registry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.sets)
	r.order = nil
}

// reorderLocked rebuilds the lookup order. Callers must hold r.mu.
// Mutations are rare (configuration and discovery time), so sorting here
// keeps the Resolve hot path allocation-free.
func (r *Registry) reorderLocked() {
	names := slices.Collect(maps.Keys(r.sets))
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(r.sets[b].Priority, r.sets[a].Priority); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	r.order = names
}

// defaultRegistry backs the package-level helpers.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by the package-level
// helpers and, unless overridden, by discovery and the watcher.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a set to the default registry.
func Register(set EventSet) error {
	return defaultRegistry.Register(set)
}

// Replace upserts a set into the default registry.
func Replace(set EventSet) error {
	return defaultRegistry.Replace(set)
}

// Get returns the named set from the default registry.
func Get(name string) (EventSet, error) {
	return defaultRegistry.Get(name)
}

// Names returns the default registry's set names in lookup order.
func Names() []string {
	return defaultRegistry.Names()
}

// All returns the default registry's sets in lookup order.
func All() []EventSet {
	return defaultRegistry.All()
}

// Resolve looks up a field key and value in the default registry.
func Resolve(key, value string) (Resolution, bool) {
	return defaultRegistry.Resolve(key, value)
}

// Len returns the number of sets in the default registry.
func Len() int {
	return defaultRegistry.Len()
}

// Clear removes every set from the default registry.
func Clear() {
	defaultRegistry.Clear()
}
