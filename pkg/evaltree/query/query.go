// Package query provides read-only inspection queries over expression
// trees.
//
// Queries answer structural questions about a tree without evaluating or
// modifying it: how many nodes, how deep, which variables it references.
// They run synchronously and return a result immediately.
//
// Common use cases:
//   - Validate tree size before accepting it from a builder
//   - List the variables an environment must supply
//   - Count fallback operators for policy checks
package query

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/randalmurphal/evaltree/pkg/evaltree"
)

// Handler executes a query against a tree and returns a result.
// Handlers must not modify the tree.
type Handler func(root evaltree.Node, args any) (any, error)

// Registry manages query handlers by query name.
type Registry struct {
	handlers map[string]Handler
	mu       sync.RWMutex
}

// NewRegistry creates a new query registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds a handler for a query name.
func (r *Registry) Register(queryName string, handler Handler) error {
	if queryName == "" {
		return errors.New("query name is required")
	}
	if handler == nil {
		return errors.New("handler is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[queryName]; exists {
		return fmt.Errorf("handler for query %q already registered", queryName)
	}

	r.handlers[queryName] = handler
	return nil
}

// MustRegister registers a handler, panicking on error.
func (r *Registry) MustRegister(queryName string, handler Handler) {
	if err := r.Register(queryName, handler); err != nil {
		panic(err)
	}
}

// Get returns the handler for a query name.
func (r *Registry) Get(queryName string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, exists := r.handlers[queryName]
	return handler, exists
}

// List returns all registered query names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unregister removes a handler for a query name.
func (r *Registry) Unregister(queryName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, queryName)
}

// ErrQueryNotFound is returned when a query handler doesn't exist.
var ErrQueryNotFound = errors.New("query not found")

// Run executes a named query against a tree.
func Run(registry *Registry, queryName string, root evaltree.Node, args any) (any, error) {
	if root == nil {
		return nil, errors.New("root node is required")
	}
	if queryName == "" {
		return nil, errors.New("query name is required")
	}

	handler, exists := registry.Get(queryName)
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrQueryNotFound, queryName)
	}

	return handler(root, args)
}

// Result holds the outcome of one query in a batch.
type Result struct {
	// Name is the query name.
	Name string `json:"name"`

	// Value is the query result, nil when Err is set.
	Value any `json:"value,omitempty"`

	// Err is the query failure, nil on success.
	Err error `json:"err,omitempty"`
}

// RunAll executes the named queries against a tree with nil args,
// returning one Result per query in the order given. If no names are
// given, every registered query runs in sorted name order.
func RunAll(registry *Registry, root evaltree.Node, names ...string) []Result {
	if len(names) == 0 {
		names = registry.List()
	}

	results := make([]Result, 0, len(names))
	for _, name := range names {
		value, err := Run(registry, name, root, nil)
		if err != nil {
			results = append(results, Result{Name: name, Err: err})
			continue
		}
		results = append(results, Result{Name: name, Value: value})
	}
	return results
}

// Built-in query names.
const (
	QueryNodeCount = "node_count" // Returns total node count
	QueryMaxDepth  = "max_depth"  // Returns deepest nesting level, root = 1
	QueryKinds     = "kinds"      // Returns per-kind node counts
	QueryVariables = "variables"  // Returns sorted referenced variable names
	QueryCalls     = "calls"      // Returns call node count
)

// RegisterBuiltins registers the standard query handlers.
func RegisterBuiltins(registry *Registry) error {
	builtins := map[string]Handler{
		QueryNodeCount: func(root evaltree.Node, _ any) (any, error) {
			count := 0
			evaltree.Walk(root, func(evaltree.Node) bool {
				count++
				return true
			})
			return count, nil
		},
		QueryMaxDepth: func(root evaltree.Node, _ any) (any, error) {
			return treeDepth(root), nil
		},
		QueryKinds: func(root evaltree.Node, _ any) (any, error) {
			kinds := make(map[string]int)
			evaltree.Walk(root, func(n evaltree.Node) bool {
				kinds[n.Kind().String()]++
				return true
			})
			return kinds, nil
		},
		QueryVariables: func(root evaltree.Node, args any) (any, error) {
			seen := make(map[string]bool)
			evaltree.Walk(root, func(n evaltree.Node) bool {
				if ref, ok := n.(*evaltree.VariableRef); ok {
					seen[ref.Name] = true
				}
				return true
			})
			// If args is a string, report whether that variable is referenced
			if name, ok := args.(string); ok && name != "" {
				return seen[name], nil
			}
			names := make([]string, 0, len(seen))
			for name := range seen {
				names = append(names, name)
			}
			sort.Strings(names)
			return names, nil
		},
		QueryCalls: func(root evaltree.Node, _ any) (any, error) {
			count := 0
			evaltree.Walk(root, func(n evaltree.Node) bool {
				if n.Kind() == evaltree.KindCall {
					count++
				}
				return true
			})
			return count, nil
		},
	}

	for name, handler := range builtins {
		if err := registry.Register(name, handler); err != nil {
			return fmt.Errorf("failed to register builtin query %q: %w", name, err)
		}
	}

	return nil
}

// treeDepth returns the deepest nesting level, counting the root as 1.
func treeDepth(n evaltree.Node) int {
	if n == nil {
		return 0
	}
	deepest := 0
	for _, child := range evaltree.Children(n) {
		if d := treeDepth(child); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
