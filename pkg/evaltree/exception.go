package evaltree

import "fmt"

// ExceptionKind classifies a raised exception.
type ExceptionKind int

const (
	// KindGeneric is an exception with no more specific classification.
	KindGeneric ExceptionKind = iota

	// KindNameError indicates a reference to an unbound variable.
	KindNameError

	// KindCallError indicates a callable invocation failure.
	KindCallError
)

// String returns the kind name.
func (k ExceptionKind) String() string {
	switch k {
	case KindNameError:
		return "name_error"
	case KindCallError:
		return "call_error"
	case KindGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// Exception is the raised-condition object carried by Raised outcomes.
//
// Exceptions are opaque to the coalescing rules: the evaluator branches on
// the outcome variant, never on an exception's kind or message. Exception
// implements error so a host callable can return one to raise it directly.
//
// Identity is pointer identity; an exception that propagates through
// null-coalesce or ternary nodes arrives unchanged.
type Exception struct {
	kind    ExceptionKind
	message string
	cause   error
}

// NewException creates a generic exception with the given message.
func NewException(message string) *Exception {
	return &Exception{kind: KindGeneric, message: message}
}

// NewExceptionf creates a generic exception with a formatted message.
func NewExceptionf(format string, args ...any) *Exception {
	return &Exception{kind: KindGeneric, message: fmt.Sprintf(format, args...)}
}

// NewNameError creates the exception raised for an unbound variable reference.
func NewNameError(name string) *Exception {
	return &Exception{kind: KindNameError, message: fmt.Sprintf("undefined variable %q", name)}
}

// NewCallError creates the exception raised when a callable invocation fails.
// The cause is the underlying failure: the callable's returned error, a
// recovered *PanicError, or a description of a non-callable callee.
func NewCallError(cause error) *Exception {
	return &Exception{kind: KindCallError, message: "invocation failed", cause: cause}
}

// Kind returns the exception classification.
func (e *Exception) Kind() ExceptionKind {
	return e.kind
}

// Message returns the exception message.
func (e *Exception) Message() string {
	return e.message
}

// Error implements the error interface.
func (e *Exception) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Exception) Unwrap() error {
	return e.cause
}
