// Package registry provides a thread-safe registry of named callables.
//
// Hosts publish functions here, then hand the registered names to an
// evaluation environment so Call nodes can invoke them through variable
// references:
//
//	reg := registry.New()
//	reg.MustRegister("fetch", fetchCallable)
//	reg.MustRegister("fallback", fallbackCallable)
//
//	env := evaltree.NewEnv(reg.Values())
//	tree := evaltree.NewExceptionCoalesce(
//	    evaltree.NewCall(evaltree.NewVariableRef("fetch")),
//	    evaltree.NewCall(evaltree.NewVariableRef("fallback")),
//	)
//
// Registration is strict: empty names, nil callables, and duplicates are
// rejected, so a misassembled registry fails at startup rather than as a
// raise mid-evaluation.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/randalmurphal/evaltree/pkg/evaltree"
)

// Registry manages callables by name. It is designed for read-heavy
// workloads using sync.RWMutex: register at startup, look up during
// evaluation.
type Registry struct {
	mu        sync.RWMutex
	callables map[string]evaltree.Callable
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		callables: make(map[string]evaltree.Callable),
	}
}

// Register adds a callable under the given name.
func (r *Registry) Register(name string, fn evaltree.Callable) error {
	if name == "" {
		return errors.New("callable name is required")
	}
	if fn == nil {
		return errors.New("callable is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.callables[name]; exists {
		return fmt.Errorf("callable %q already registered", name)
	}

	r.callables[name] = fn
	return nil
}

// MustRegister registers a callable, panicking on error.
func (r *Registry) MustRegister(name string, fn evaltree.Callable) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Get returns the callable for a name.
func (r *Registry) Get(name string) (evaltree.Callable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, exists := r.callables[name]
	return fn, exists
}

// List returns all registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.callables))
	for name := range r.callables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unregister removes a callable by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.callables, name)
}

// Len returns the number of registered callables.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.callables)
}

// Values returns the registered callables as environment values, ready
// for evaltree.NewEnv. The returned map is a snapshot; later Register
// calls do not affect it.
func (r *Registry) Values() map[string]evaltree.Value {
	r.mu.RLock()
	defer r.mu.RUnlock()

	values := make(map[string]evaltree.Value, len(r.callables))
	for name, fn := range r.callables {
		values[name] = fn
	}
	return values
}
