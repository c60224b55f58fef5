package evaltree

import (
	"context"
)

// Shared helpers for evaluator tests

// testCtx creates a simple test context.
func testCtx() Context {
	return NewContext(context.Background())
}

// envOf builds an environment from a binding map.
func envOf(vars map[string]Value) *Environment {
	return NewEnv(vars)
}

// constCallable returns v on every invocation.
func constCallable(v Value) Callable {
	return func(ctx Context, args []Value) (Value, error) {
		return v, nil
	}
}

// failingCallable returns the given error on every invocation.
func failingCallable(err error) Callable {
	return func(ctx Context, args []Value) (Value, error) {
		return nil, err
	}
}

// panickingCallable panics with the given value.
func panickingCallable(value any) Callable {
	return func(ctx Context, args []Value) (Value, error) {
		panic(value)
	}
}

// trackingCallable records its invocations in tracker and returns result.
func trackingCallable(name string, tracker *[]string, result Value) Callable {
	return func(ctx Context, args []Value) (Value, error) {
		*tracker = append(*tracker, name)
		return result, nil
	}
}

// recordEvents returns a recorder that appends every event to events.
func recordEvents(events *[]TraceEvent) TraceRecorder {
	return TraceRecorderFunc(func(ev TraceEvent) {
		*events = append(*events, ev)
	})
}

// nodeStarts filters the node.start events out of an event stream.
func nodeStarts(events []TraceEvent) []TraceEvent {
	var out []TraceEvent
	for _, ev := range events {
		if ev.Kind == TraceNodeStart {
			out = append(out, ev)
		}
	}
	return out
}
