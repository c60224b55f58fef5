package evaltree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTrace_EventStream checks the overall shape of one evaluation's
// event stream: eval.start first, eval.done last, sequence numbers
// strictly increasing from zero.
func TestTrace_EventStream(t *testing.T) {
	var events []TraceEvent
	tree := NewExceptionCoalesce(NewRaise("boom"), NewLiteral("fb"))
	ctx := NewContext(context.Background(), WithEvalID("trace-shape"))

	_, err := Evaluate(ctx, tree, nil, WithTraceRecorder(recordEvents(&events)))
	require.NoError(t, err)

	require.NotEmpty(t, events)
	assert.Equal(t, TraceEvalStart, events[0].Kind)
	assert.Equal(t, TraceEvalDone, events[len(events)-1].Kind)

	for i, ev := range events {
		assert.Equal(t, i, ev.Seq)
		assert.Equal(t, "trace-shape", ev.EvalID)
		assert.False(t, ev.Time.IsZero())
	}
}

// TestTrace_NodeEventsPair checks that every node gets a start and a done
// event with the right raised tag.
func TestTrace_NodeEventsPair(t *testing.T) {
	var events []TraceEvent
	raise := NewRaise("boom")
	fb := NewLiteral("fb")
	tree := NewExceptionCoalesce(raise, fb)

	outcome, err := Evaluate(testCtx(), tree, nil, WithTraceRecorder(recordEvents(&events)))
	require.NoError(t, err)
	require.True(t, outcome.IsSuccess())

	var starts, dones int
	raisedDones := make(map[Node]bool)
	for _, ev := range events {
		switch ev.Kind {
		case TraceNodeStart:
			starts++
		case TraceNodeDone:
			dones++
			raisedDones[ev.Node] = ev.Raised
		}
	}

	assert.Equal(t, 3, starts, "coalesce, raise, fallback literal")
	assert.Equal(t, 3, dones)
	assert.True(t, raisedDones[raise])
	assert.False(t, raisedDones[fb])
	assert.False(t, raisedDones[tree], "the coalesce resolved the raise")
}

// TestTrace_FallbackEvent checks that the fallback event fires on a raise
// and stays silent on success.
func TestTrace_FallbackEvent(t *testing.T) {
	t.Run("raise emits fallback", func(t *testing.T) {
		var events []TraceEvent
		tree := NewExceptionCoalesce(NewRaise("boom"), NewLiteral("fb"))

		_, err := Evaluate(testCtx(), tree, nil, WithTraceRecorder(recordEvents(&events)))
		require.NoError(t, err)

		count := 0
		for _, ev := range events {
			if ev.Kind == TraceFallback {
				count++
				assert.Equal(t, KindExceptionCoalesce, ev.NodeKind)
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("success emits none", func(t *testing.T) {
		var events []TraceEvent
		tree := NewExceptionCoalesce(NewLiteral("ok"), NewLiteral("fb"))

		_, err := Evaluate(testCtx(), tree, nil, WithTraceRecorder(recordEvents(&events)))
		require.NoError(t, err)

		for _, ev := range events {
			assert.NotEqual(t, TraceFallback, ev.Kind)
		}
	})
}

// TestTrace_NullFallbackEvent checks the null-coalesce event kind is
// distinct from the exception one.
func TestTrace_NullFallbackEvent(t *testing.T) {
	var events []TraceEvent
	tree := NewNullCoalesce(NewLiteral(nil), NewLiteral("default"))

	_, err := Evaluate(testCtx(), tree, nil, WithTraceRecorder(recordEvents(&events)))
	require.NoError(t, err)

	var kinds []string
	for _, ev := range events {
		if ev.Kind == TraceNullFallback || ev.Kind == TraceFallback {
			kinds = append(kinds, ev.Kind)
		}
	}
	assert.Equal(t, []string{TraceNullFallback}, kinds)
}

// TestTrace_BranchEvent checks ternary branch tagging.
func TestTrace_BranchEvent(t *testing.T) {
	for _, tt := range []struct {
		name   string
		cond   Value
		branch string
	}{
		{name: "truthy", cond: true, branch: "then"},
		{name: "falsy", cond: false, branch: "else"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			var events []TraceEvent
			tree := NewTernary(NewLiteral(tt.cond), NewLiteral(1), NewLiteral(2))

			_, err := Evaluate(testCtx(), tree, nil, WithTraceRecorder(recordEvents(&events)))
			require.NoError(t, err)

			var branches []string
			for _, ev := range events {
				if ev.Kind == TraceBranch {
					branches = append(branches, ev.Branch)
				}
			}
			assert.Equal(t, []string{tt.branch}, branches)
		})
	}
}

// TestTrace_EvalDoneRaisedTag checks that an unresolved raise tags the
// final event without carrying the exception itself.
func TestTrace_EvalDoneRaisedTag(t *testing.T) {
	var events []TraceEvent

	_, err := Evaluate(testCtx(), NewRaise("unresolved"), nil, WithTraceRecorder(recordEvents(&events)))
	require.NoError(t, err)

	last := events[len(events)-1]
	assert.Equal(t, TraceEvalDone, last.Kind)
	assert.True(t, last.Raised)
	assert.Empty(t, last.Err, "a raise is not a host error")
}

// TestTrace_HostErrorInDoneEvent checks that an aborted walk surfaces its
// host error text on eval.done.
func TestTrace_HostErrorInDoneEvent(t *testing.T) {
	var events []TraceEvent
	deep := Node(NewLiteral(1))
	for i := 0; i < 10; i++ {
		deep = NewNullCoalesce(deep, NewLiteral(i))
	}
	compiled := MustCompile(deep)

	_, err := compiled.Evaluate(testCtx(), nil,
		WithMaxDepth(3), WithTraceRecorder(recordEvents(&events)))
	require.Error(t, err)

	last := events[len(events)-1]
	assert.Equal(t, TraceEvalDone, last.Kind)
	assert.Contains(t, last.Err, "malformed tree")
}

// TestTrace_EvaluationOrder checks strict left-to-right order for a call
// with arguments: callee, then each argument in sequence.
func TestTrace_EvaluationOrder(t *testing.T) {
	var events []TraceEvent
	callee := NewVariableRef("f")
	arg1 := NewLiteral(1)
	arg2 := NewLiteral(2)
	tree := NewCall(callee, arg1, arg2)
	env := envOf(map[string]Value{"f": constCallable("done")})

	_, err := Evaluate(testCtx(), tree, env, WithTraceRecorder(recordEvents(&events)))
	require.NoError(t, err)

	var order []Node
	for _, ev := range nodeStarts(events) {
		order = append(order, ev.Node)
	}
	assert.Equal(t, []Node{tree, callee, arg1, arg2}, order)
}
