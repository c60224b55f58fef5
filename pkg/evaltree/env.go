package evaltree

import "sort"

// Environment is a read-only mapping from variable names to values.
//
// The bindings are copied at construction; evaluation never writes to an
// environment and an environment never observes evaluation. A nil
// *Environment behaves as an empty one.
type Environment struct {
	vars map[string]Value
}

// NewEnv creates an environment from the given bindings.
// The map is copied; later changes to it are not observed. A nil map
// yields an empty environment.
func NewEnv(vars map[string]Value) *Environment {
	copied := make(map[string]Value, len(vars))
	for name, v := range vars {
		copied[name] = v
	}
	return &Environment{vars: copied}
}

// Lookup returns the value bound to name and whether the binding exists.
// A binding to nil is distinct from a missing binding.
func (e *Environment) Lookup(name string) (Value, bool) {
	if e == nil {
		return nil, false
	}
	v, ok := e.vars[name]
	return v, ok
}

// Has reports whether name is bound.
func (e *Environment) Has(name string) bool {
	if e == nil {
		return false
	}
	_, ok := e.vars[name]
	return ok
}

// Names returns all bound names, sorted.
func (e *Environment) Names() []string {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bindings.
func (e *Environment) Len() int {
	if e == nil {
		return 0
	}
	return len(e.vars)
}

// With returns a new environment with name bound to v.
// The receiver is unchanged.
func (e *Environment) With(name string, v Value) *Environment {
	size := 1
	if e != nil {
		size += len(e.vars)
	}
	copied := make(map[string]Value, size)
	if e != nil {
		for n, val := range e.vars {
			copied[n] = val
		}
	}
	copied[name] = v
	return &Environment{vars: copied}
}

// WithVars returns a new environment with all the given bindings added,
// overwriting any that collide. The receiver is unchanged.
func (e *Environment) WithVars(vars map[string]Value) *Environment {
	size := len(vars)
	if e != nil {
		size += len(e.vars)
	}
	copied := make(map[string]Value, size)
	if e != nil {
		for n, val := range e.vars {
			copied[n] = val
		}
	}
	for n, val := range vars {
		copied[n] = val
	}
	return &Environment{vars: copied}
}
