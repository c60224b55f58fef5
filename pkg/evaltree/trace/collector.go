package trace

import (
	"sync"

	"github.com/randalmurphal/evaltree/pkg/evaltree"
)

// Collector is a TraceRecorder that accumulates events in memory.
// It is safe for concurrent use by multiple goroutines, though the
// events of concurrent evaluations interleave in arrival order.
type Collector struct {
	mu     sync.Mutex
	events []evaltree.TraceEvent
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Record implements evaltree.TraceRecorder.
func (c *Collector) Record(ev evaltree.TraceEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

// Events returns a copy of all recorded events in arrival order.
func (c *Collector) Events() []evaltree.TraceEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]evaltree.TraceEvent, len(c.events))
	copy(out, c.events)
	return out
}

// Order returns the nodes that began evaluating, in order. Each
// node.start event contributes one entry, so a node that evaluated
// twice appears twice.
func (c *Collector) Order() []evaltree.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	var order []evaltree.Node
	for _, ev := range c.events {
		if ev.Kind == evaltree.TraceNodeStart {
			order = append(order, ev.Node)
		}
	}
	return order
}

// CountFor returns how many times n began evaluating.
func (c *Collector) CountFor(n evaltree.Node) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, ev := range c.events {
		if ev.Kind == evaltree.TraceNodeStart && ev.Node == n {
			count++
		}
	}
	return count
}

// Counts returns per-node evaluation counts.
func (c *Collector) Counts() map[evaltree.Node]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	counts := make(map[evaltree.Node]int)
	for _, ev := range c.events {
		if ev.Kind == evaltree.TraceNodeStart {
			counts[ev.Node]++
		}
	}
	return counts
}

// Fallbacks returns the number of coalesce fallbacks taken, counting
// both the exception and the null operator.
func (c *Collector) Fallbacks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, ev := range c.events {
		if ev.Kind == evaltree.TraceFallback || ev.Kind == evaltree.TraceNullFallback {
			count++
		}
	}
	return count
}

// Reset discards all recorded events.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}

// Multi fans each event out to every recorder, in order. Nil recorders
// are skipped.
func Multi(recorders ...evaltree.TraceRecorder) evaltree.TraceRecorder {
	return evaltree.TraceRecorderFunc(func(ev evaltree.TraceEvent) {
		for _, r := range recorders {
			if r != nil {
				r.Record(ev)
			}
		}
	})
}

// Filter passes only events of the given kinds through to next.
func Filter(next evaltree.TraceRecorder, kinds ...string) evaltree.TraceRecorder {
	allowed := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		allowed[k] = true
	}
	return evaltree.TraceRecorderFunc(func(ev evaltree.TraceEvent) {
		if allowed[ev.Kind] {
			next.Record(ev)
		}
	})
}

// Middleware wraps a recorder with cross-cutting behavior.
type Middleware func(next evaltree.TraceRecorder) evaltree.TraceRecorder

// Chain applies middleware to rec. The first middleware becomes the
// outermost layer, so events pass through middleware in the order given.
func Chain(rec evaltree.TraceRecorder, middleware ...Middleware) evaltree.TraceRecorder {
	for i := len(middleware) - 1; i >= 0; i-- {
		rec = middleware[i](rec)
	}
	return rec
}
