package evaltree

import "fmt"

// Value is the domain of expression results. The null value is untyped nil.
//
// Value is a type alias rather than a defined type so plain map[string]any
// literals satisfy map[string]Value without conversion.
type Value = any

// IsNull reports whether v is the null value.
//
// Only untyped nil is null. A typed nil pointer stored in an interface is
// not null; callables that mean to return null should return a bare nil.
func IsNull(v Value) bool {
	return v == nil
}

// IsTruthy returns whether a value is truthy.
// nil is false, bools return their value, empty strings are false,
// zero numbers are false, everything else is true.
func IsTruthy(v Value) bool {
	if v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case int32:
		return val != 0
	case float64:
		return val != 0
	case float32:
		return val != 0
	default:
		return true
	}
}

// ToFloat64 converts a value to float64 for numeric comparison.
// Returns 0 for values that cannot be converted.
func ToFloat64(v Value) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	case string:
		var f float64
		_, _ = fmt.Sscanf(val, "%f", &f)
		return f
	default:
		return 0
	}
}
