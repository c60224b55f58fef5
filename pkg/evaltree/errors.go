package evaltree

import (
	"errors"
	"fmt"
)

// Sentinel errors for tree validation.
var (
	// ErrNilNode indicates a nil root or a nil child slot.
	ErrNilNode = errors.New("nil node")

	// ErrCycle indicates a node is its own ancestor.
	ErrCycle = errors.New("cycle detected")
)

// Sentinel errors for evaluation.
var (
	// ErrNilContext indicates Evaluate() was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrMaxDepth indicates the recursion bound was exceeded.
	ErrMaxDepth = errors.New("exceeded maximum depth")
)

// MalformedTreeError reports a structurally invalid tree: a nil child, a
// cycle, or a depth overrun. It is a host-level defect and always surfaces
// on the error channel; a Raised outcome never carries it, so no coalescing
// node can absorb one.
type MalformedTreeError struct {
	// Detail describes the violated slot or bound (e.g. "call argument 2").
	Detail string
	// Err is the underlying sentinel.
	Err error
}

// Error implements the error interface.
func (e *MalformedTreeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("malformed tree: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("malformed tree: %v", e.Err)
}

// Unwrap returns the underlying sentinel for errors.Is support.
func (e *MalformedTreeError) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether err is or wraps a MalformedTreeError.
func IsMalformed(err error) bool {
	var mte *MalformedTreeError
	return errors.As(err, &mte)
}

// PanicError captures panic information from a callable invocation.
// It travels as the cause of a call_error exception; the panic itself never
// escapes the evaluator.
type PanicError struct {
	// Value is the value passed to panic().
	Value any
	// Stack is the full stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("callable panicked: %v", e.Value)
}
