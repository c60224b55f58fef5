package evaltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExceptionCoalesce_SuccessShortCircuits checks that a successful
// left operand is the result and the right operand never runs.
func TestExceptionCoalesce_SuccessShortCircuits(t *testing.T) {
	var calls []string
	env := envOf(map[string]Value{
		"rhs": trackingCallable("rhs", &calls, "never"),
	})

	tree := NewExceptionCoalesce(NewLiteral("left"), NewCall(NewVariableRef("rhs")))

	outcome, err := Evaluate(testCtx(), tree, env)

	require.NoError(t, err)
	assert.Equal(t, "left", outcome.Value())
	assert.Empty(t, calls)
}

// TestExceptionCoalesce_NullSuccessShortCircuits checks the sharp edge:
// a successful null is still a success, so the fallback must not run.
func TestExceptionCoalesce_NullSuccessShortCircuits(t *testing.T) {
	var calls []string
	env := envOf(map[string]Value{
		"rhs": trackingCallable("rhs", &calls, "never"),
	})

	tree := NewExceptionCoalesce(NewLiteral(nil), NewCall(NewVariableRef("rhs")))

	outcome, err := Evaluate(testCtx(), tree, env)

	require.NoError(t, err)
	require.True(t, outcome.IsSuccess())
	assert.Nil(t, outcome.Value())
	assert.Empty(t, calls)
}

// TestExceptionCoalesce_RaiseFallsBack checks that a raised left operand
// selects the right operand's outcome.
func TestExceptionCoalesce_RaiseFallsBack(t *testing.T) {
	tree := NewExceptionCoalesce(NewRaise("left failed"), NewLiteral("fallback"))

	outcome, err := Evaluate(testCtx(), tree, nil)

	require.NoError(t, err)
	require.True(t, outcome.IsSuccess())
	assert.Equal(t, "fallback", outcome.Value())
}

// TestExceptionCoalesce_RhsOutcomeVerbatim checks that the operator
// adds nothing of its own: a raised right operand is the result, and the
// left exception stays discarded.
func TestExceptionCoalesce_RhsOutcomeVerbatim(t *testing.T) {
	leftExc := NewException("left")
	rightExc := NewException("right")

	tree := NewExceptionCoalesce(NewRaiseWith(leftExc), NewRaiseWith(rightExc))

	outcome, err := Evaluate(testCtx(), tree, nil)

	require.NoError(t, err)
	require.True(t, outcome.IsRaised())
	assert.Same(t, rightExc, outcome.Exception())
	assert.NotSame(t, leftExc, outcome.Exception())
}

// TestExceptionCoalesce_RhsNullVerbatim checks that a successful null
// from the right operand is the final result; the operator does not
// re-coalesce it.
func TestExceptionCoalesce_RhsNullVerbatim(t *testing.T) {
	tree := NewExceptionCoalesce(NewRaise("left failed"), NewLiteral(nil))

	outcome, err := Evaluate(testCtx(), tree, nil)

	require.NoError(t, err)
	require.True(t, outcome.IsSuccess())
	assert.Nil(t, outcome.Value())
}

// TestExceptionCoalesce_LhsEvaluatedOnce checks that the left operand
// runs exactly once whether it succeeds or raises.
func TestExceptionCoalesce_LhsEvaluatedOnce(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var calls []string
		env := envOf(map[string]Value{
			"lhs": trackingCallable("lhs", &calls, "ok"),
		})

		tree := NewExceptionCoalesce(NewCall(NewVariableRef("lhs")), NewLiteral("fb"))
		_, err := Evaluate(testCtx(), tree, env)

		require.NoError(t, err)
		assert.Equal(t, []string{"lhs"}, calls)
	})

	t.Run("raise", func(t *testing.T) {
		var calls []string
		env := envOf(map[string]Value{
			"lhs": Callable(func(ctx Context, args []Value) (Value, error) {
				calls = append(calls, "lhs")
				return nil, NewException("each time")
			}),
		})

		tree := NewExceptionCoalesce(NewCall(NewVariableRef("lhs")), NewLiteral("fb"))
		outcome, err := Evaluate(testCtx(), tree, env)

		require.NoError(t, err)
		assert.Equal(t, "fb", outcome.Value())
		assert.Equal(t, []string{"lhs"}, calls)
	})
}

// TestExceptionCoalesce_ExceptionAsValue checks the anti-sentinel rule:
// a callable returning an *Exception as its value succeeds, and the
// coalesce must not mistake it for a raise.
func TestExceptionCoalesce_ExceptionAsValue(t *testing.T) {
	excValue := NewException("payload, not a raise")
	env := envOf(map[string]Value{
		"f": constCallable(excValue),
	})

	tree := NewExceptionCoalesce(NewCall(NewVariableRef("f")), NewLiteral("fallback"))

	outcome, err := Evaluate(testCtx(), tree, env)

	require.NoError(t, err)
	require.True(t, outcome.IsSuccess())
	assert.Same(t, excValue, outcome.Value())
}

// TestExceptionCoalesce_LeftNestedChain runs the canonical chain shape
// (A ??? B) ??? C with A and B raising: each operand evaluates once, in
// order, and C's value wins.
func TestExceptionCoalesce_LeftNestedChain(t *testing.T) {
	var calls []string
	env := envOf(map[string]Value{
		"a": Callable(func(ctx Context, args []Value) (Value, error) {
			calls = append(calls, "a")
			return nil, NewException("a failed")
		}),
		"b": Callable(func(ctx Context, args []Value) (Value, error) {
			calls = append(calls, "b")
			return nil, NewException("b failed")
		}),
		"c": trackingCallable("c", &calls, "c wins"),
	})

	tree := NewExceptionCoalesce(
		NewExceptionCoalesce(
			NewCall(NewVariableRef("a")),
			NewCall(NewVariableRef("b")),
		),
		NewCall(NewVariableRef("c")),
	)

	outcome, err := Evaluate(testCtx(), tree, env)

	require.NoError(t, err)
	require.True(t, outcome.IsSuccess())
	assert.Equal(t, "c wins", outcome.Value())
	assert.Equal(t, []string{"a", "b", "c"}, calls)
}

// TestExceptionCoalesce_ChainStopsAtFirstSuccess checks that alternatives
// after the first success never run, in both nestings.
func TestExceptionCoalesce_ChainStopsAtFirstSuccess(t *testing.T) {
	var calls []string
	env := envOf(map[string]Value{
		"a": Callable(func(ctx Context, args []Value) (Value, error) {
			calls = append(calls, "a")
			return nil, NewException("a failed")
		}),
		"b": trackingCallable("b", &calls, "b wins"),
		"c": trackingCallable("c", &calls, "never"),
	})

	t.Run("right nested", func(t *testing.T) {
		calls = nil
		tree := ExceptionCoalesceChain(
			NewCall(NewVariableRef("a")),
			NewCall(NewVariableRef("b")),
			NewCall(NewVariableRef("c")),
		)

		outcome, err := Evaluate(testCtx(), tree, env)

		require.NoError(t, err)
		assert.Equal(t, "b wins", outcome.Value())
		assert.Equal(t, []string{"a", "b"}, calls)
	})

	t.Run("left nested", func(t *testing.T) {
		calls = nil
		tree := NewExceptionCoalesce(
			NewExceptionCoalesce(
				NewCall(NewVariableRef("a")),
				NewCall(NewVariableRef("b")),
			),
			NewCall(NewVariableRef("c")),
		)

		outcome, err := Evaluate(testCtx(), tree, env)

		require.NoError(t, err)
		assert.Equal(t, "b wins", outcome.Value())
		assert.Equal(t, []string{"a", "b"}, calls)
	})
}

// TestNullCoalesce_NonNullShortCircuits checks that any non-null success
// keeps the left value.
func TestNullCoalesce_NonNullShortCircuits(t *testing.T) {
	var calls []string
	env := envOf(map[string]Value{
		"rhs": trackingCallable("rhs", &calls, "never"),
	})

	tree := NewNullCoalesce(NewLiteral(false), NewCall(NewVariableRef("rhs")))

	outcome, err := Evaluate(testCtx(), tree, env)

	require.NoError(t, err)
	assert.Equal(t, false, outcome.Value(), "false is not null")
	assert.Empty(t, calls)
}

// TestNullCoalesce_NullFallsBack checks that a successful null selects
// the right operand.
func TestNullCoalesce_NullFallsBack(t *testing.T) {
	tree := NewNullCoalesce(NewLiteral(nil), NewLiteral("default"))

	outcome, err := Evaluate(testCtx(), tree, nil)

	require.NoError(t, err)
	assert.Equal(t, "default", outcome.Value())
}

// TestNullCoalesce_RaisePropagatesUnchanged checks the dividing line
// between the two operators: null-coalesce never catches, and the
// exception instance passes through untouched.
func TestNullCoalesce_RaisePropagatesUnchanged(t *testing.T) {
	var calls []string
	exc := NewException("propagate me")
	env := envOf(map[string]Value{
		"rhs": trackingCallable("rhs", &calls, "never"),
	})

	tree := NewNullCoalesce(NewRaiseWith(exc), NewCall(NewVariableRef("rhs")))

	outcome, err := Evaluate(testCtx(), tree, env)

	require.NoError(t, err)
	require.True(t, outcome.IsRaised())
	assert.Same(t, exc, outcome.Exception())
	assert.Empty(t, calls)
}

func TestNullCoalesce_Chain(t *testing.T) {
	tree := NullCoalesceChain(NewLiteral(nil), NewLiteral(nil), NewLiteral("third"))

	outcome, err := Evaluate(testCtx(), tree, nil)

	require.NoError(t, err)
	assert.Equal(t, "third", outcome.Value())
}

// TestMixedCoalesce exercises the two operators together: ??? absorbs the
// raise, then ?? replaces the resulting null.
func TestMixedCoalesce(t *testing.T) {
	tree := NewNullCoalesce(
		NewExceptionCoalesce(NewRaise("failed"), NewLiteral(nil)),
		NewLiteral("final default"),
	)

	outcome, err := Evaluate(testCtx(), tree, nil)

	require.NoError(t, err)
	assert.Equal(t, "final default", outcome.Value())
}

// TestMixedCoalesce_RaiseThroughNullCoalesce checks that ?? inside ???
// hands the raise outward for ??? to absorb.
func TestMixedCoalesce_RaiseThroughNullCoalesce(t *testing.T) {
	tree := NewExceptionCoalesce(
		NewNullCoalesce(NewRaise("failed"), NewLiteral("unreached")),
		NewLiteral("outer fallback"),
	)

	outcome, err := Evaluate(testCtx(), tree, nil)

	require.NoError(t, err)
	assert.Equal(t, "outer fallback", outcome.Value())
}
