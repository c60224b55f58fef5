package evaltree

import "fmt"

// Outcome is the result of evaluating a node: Success carrying a value, or
// Raised carrying an exception. Exactly one variant holds.
//
// The variant is the presence of the exception, never a reserved marker in
// the value domain. A callable may return nil, a *Exception as a plain
// value, or anything else without being mistaken for a raise.
//
// The zero Outcome is Success(nil).
type Outcome struct {
	value Value
	exc   *Exception
}

// Success creates an outcome carrying a value.
// Success(nil) is a legitimate outcome, distinct from every raised one.
func Success(v Value) Outcome {
	return Outcome{value: v}
}

// Raised creates an outcome carrying an exception.
// A nil exception is replaced with a generic one so the result cannot
// masquerade as a success.
func Raised(exc *Exception) Outcome {
	if exc == nil {
		exc = NewException("raise with nil exception")
	}
	return Outcome{exc: exc}
}

// IsSuccess reports whether the outcome carries a value.
func (o Outcome) IsSuccess() bool {
	return o.exc == nil
}

// IsRaised reports whether the outcome carries an exception.
func (o Outcome) IsRaised() bool {
	return o.exc != nil
}

// Value returns the carried value. Returns nil for raised outcomes.
func (o Outcome) Value() Value {
	if o.exc != nil {
		return nil
	}
	return o.value
}

// Exception returns the carried exception, or nil for successful outcomes.
func (o Outcome) Exception() *Exception {
	return o.exc
}

// Err converts the outcome to Go's (value, error) shape: nil for a success,
// the exception itself for a raise.
func (o Outcome) Err() error {
	if o.exc == nil {
		return nil
	}
	return o.exc
}

// String returns a debug representation.
func (o Outcome) String() string {
	if o.exc != nil {
		return fmt.Sprintf("Raised(%v)", o.exc)
	}
	return fmt.Sprintf("Success(%v)", o.value)
}
