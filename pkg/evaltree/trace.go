package evaltree

import "time"

// Trace event kinds, in the order they can occur within one evaluation.
const (
	// TraceEvalStart is emitted once before the walk begins.
	TraceEvalStart = "eval.start"

	// TraceEvalDone is emitted once after the walk finishes, whether the
	// outcome was a success, a raise, or a host error.
	TraceEvalDone = "eval.done"

	// TraceNodeStart is emitted before each node evaluates.
	TraceNodeStart = "node.start"

	// TraceNodeDone is emitted after each node evaluates, with the
	// raised tag of its outcome.
	TraceNodeDone = "node.done"

	// TraceFallback is emitted when an exception-coalesce discards its
	// left raise and falls back to the right operand.
	TraceFallback = "coalesce.fallback"

	// TraceNullFallback is emitted when a null-coalesce replaces a
	// successful null with the right operand.
	TraceNullFallback = "null.fallback"

	// TraceBranch is emitted when a ternary picks a branch.
	TraceBranch = "ternary.branch"
)

// TraceEvent describes one step of an evaluation.
//
// Events carry node identity and outcome tags only. There is deliberately
// no exception field: the discarded left-hand exception of an
// exception-coalesce must not leak through diagnostics, so no event can
// carry exception contents at all.
type TraceEvent struct {
	// EvalID identifies the evaluation this event belongs to.
	EvalID string `json:"eval_id"`

	// Seq is the event's position within the evaluation, starting at 0.
	Seq int `json:"seq"`

	// Kind is one of the Trace* constants.
	Kind string `json:"kind"`

	// Node is the subject node; for eval.start and eval.done it is the
	// root.
	Node Node `json:"-"`

	// NodeKind is the subject node's kind; for eval.start and eval.done
	// it is the root's kind.
	NodeKind NodeKind `json:"node_kind"`

	// Raised is set on node.done and eval.done when the outcome raised.
	Raised bool `json:"raised,omitempty"`

	// Err is the host error text on an eval.done whose walk aborted
	// (malformed tree, depth overrun). Raised exceptions are not host
	// errors and never appear here.
	Err string `json:"err,omitempty"`

	// Branch is "then" or "else" on ternary.branch events.
	Branch string `json:"branch,omitempty"`

	// Time is when the event was emitted.
	Time time.Time `json:"time"`
}

// TraceRecorder receives trace events during evaluation.
//
// Record is called synchronously from the evaluation path, in order, from
// a single goroutine. Implementations that retain events across concurrent
// Evaluate calls must synchronize themselves.
type TraceRecorder interface {
	Record(ev TraceEvent)
}

// TraceRecorderFunc adapts a function to the TraceRecorder interface.
type TraceRecorderFunc func(ev TraceEvent)

// Record implements TraceRecorder.
func (f TraceRecorderFunc) Record(ev TraceEvent) {
	f(ev)
}
