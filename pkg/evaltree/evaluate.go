package evaltree

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/randalmurphal/evaltree/pkg/evaltree/observability"
	"go.opentelemetry.io/otel/trace"
)

// Evaluate compiles root and evaluates it against env in one call.
//
// For trees evaluated repeatedly, Compile once and call
// (*Compiled).Evaluate instead.
func Evaluate(ctx Context, root Node, env *Environment, opts ...Option) (Outcome, error) {
	compiled, err := Compile(root)
	if err != nil {
		return Outcome{}, err
	}
	return compiled.Evaluate(ctx, env, opts...)
}

// walker carries per-call state through a tree walk.
// A walker lives for exactly one Evaluate call; evaluation leaves no
// state behind in the tree or the environment.
type walker struct {
	cfg            *evalConfig
	env            *Environment
	evalID         string
	seq            int
	nodesEvaluated int
}

// emit stamps sequence, time, and eval ID onto ev and hands it to the
// configured recorder, if any.
func (w *walker) emit(ev TraceEvent) {
	if w.cfg.recorder == nil {
		return
	}
	ev.EvalID = w.evalID
	ev.Seq = w.seq
	w.seq++
	ev.Time = time.Now()
	w.cfg.recorder.Record(ev)
}

// eval evaluates a single node with per-node observability.
// tctx carries span context; ectx is the evaltree Context handed to
// callables. The error return is host-level only: structural defects
// abort the walk and are never turned into fallbacks by enclosing
// coalesce nodes.
func (w *walker) eval(tctx context.Context, ectx Context, n Node, depth int) (Outcome, error) {
	if n == nil {
		return Outcome{}, &MalformedTreeError{Detail: "child slot", Err: ErrNilNode}
	}
	if depth > w.cfg.maxDepth {
		return Outcome{}, &MalformedTreeError{
			Detail: fmt.Sprintf("depth %d exceeds limit %d", depth, w.cfg.maxDepth),
			Err:    ErrMaxDepth,
		}
	}

	w.emit(TraceEvent{Kind: TraceNodeStart, Node: n, NodeKind: n.Kind()})
	w.nodesEvaluated++

	observability.LogNodeEval(w.cfg.logger, n.Kind().String())

	// Start node span if tracing enabled
	nodeTctx := tctx
	var nodeSpan trace.Span
	if w.cfg.tracingEnabled {
		nodeTctx, nodeSpan = w.cfg.spans.StartNodeSpan(tctx, n.Kind().String())
	}

	nodeStart := time.Now()

	outcome, err := w.evalNode(nodeTctx, ectx, n, depth)

	nodeDuration := time.Since(nodeStart)

	w.cfg.metrics.RecordNodeEval(nodeTctx, n.Kind().String(), nodeDuration, outcome.IsRaised())

	if w.cfg.tracingEnabled {
		w.cfg.spans.EndSpanWithError(nodeSpan, err)
	}

	if err != nil {
		return outcome, err
	}

	w.emit(TraceEvent{Kind: TraceNodeDone, Node: n, NodeKind: n.Kind(), Raised: outcome.IsRaised()})

	return outcome, nil
}

// evalNode dispatches on the node type. Each case implements its
// operator's rule on Outcome values directly; the branch decisions read
// the outcome's variant tag, never a sentinel value.
func (w *walker) evalNode(tctx context.Context, ectx Context, n Node, depth int) (Outcome, error) {
	switch node := n.(type) {
	case *Literal:
		return Success(node.Value), nil

	case *VariableRef:
		if v, ok := w.env.Lookup(node.Name); ok {
			return Success(v), nil
		}
		return Raised(NewNameError(node.Name)), nil

	case *Raise:
		return Raised(node.Exc), nil

	case *ExceptionCoalesce:
		lhs, err := w.eval(tctx, ectx, node.LHS, depth+1)
		if err != nil {
			return lhs, err
		}
		if lhs.IsRaised() {
			// The left exception is discarded here. Nothing below this
			// line may see it: not the fallback event, not the log, not
			// the span. Only the fact of the fallback is recorded.
			w.emit(TraceEvent{Kind: TraceFallback, Node: n, NodeKind: n.Kind()})
			observability.LogFallback(w.cfg.logger, "exception_coalesce")
			w.cfg.metrics.RecordFallback(tctx, "exception_coalesce")
			w.cfg.spans.AddSpanEvent(tctx, "coalesce.fallback")
			return w.eval(tctx, ectx, node.RHS, depth+1)
		}
		return lhs, nil

	case *NullCoalesce:
		lhs, err := w.eval(tctx, ectx, node.LHS, depth+1)
		if err != nil || lhs.IsRaised() {
			// Raises pass through untouched; only a successful null
			// selects the fallback.
			return lhs, err
		}
		if IsNull(lhs.Value()) {
			w.emit(TraceEvent{Kind: TraceNullFallback, Node: n, NodeKind: n.Kind()})
			observability.LogFallback(w.cfg.logger, "null_coalesce")
			w.cfg.metrics.RecordFallback(tctx, "null_coalesce")
			w.cfg.spans.AddSpanEvent(tctx, "null.fallback")
			return w.eval(tctx, ectx, node.RHS, depth+1)
		}
		return lhs, nil

	case *Ternary:
		cond, err := w.eval(tctx, ectx, node.Cond, depth+1)
		if err != nil || cond.IsRaised() {
			return cond, err
		}
		if IsTruthy(cond.Value()) {
			w.emit(TraceEvent{Kind: TraceBranch, Node: n, NodeKind: n.Kind(), Branch: "then"})
			return w.eval(tctx, ectx, node.Then, depth+1)
		}
		w.emit(TraceEvent{Kind: TraceBranch, Node: n, NodeKind: n.Kind(), Branch: "else"})
		return w.eval(tctx, ectx, node.Else, depth+1)

	case *Call:
		return w.evalCall(tctx, ectx, node, depth)

	default:
		// Unreachable: the node set is sealed.
		return Outcome{}, &MalformedTreeError{
			Detail: fmt.Sprintf("node type %T", n),
			Err:    errors.ErrUnsupported,
		}
	}
}

// evalCall evaluates the callee, then the arguments left to right, then
// invokes. The first raise anywhere propagates without invoking; a callee
// that succeeds with a non-callable value raises a call_error at
// invocation time, after the arguments have evaluated.
func (w *walker) evalCall(tctx context.Context, ectx Context, node *Call, depth int) (Outcome, error) {
	callee, err := w.eval(tctx, ectx, node.Callee, depth+1)
	if err != nil || callee.IsRaised() {
		return callee, err
	}

	args := make([]Value, len(node.Args))
	for i, argNode := range node.Args {
		arg, err := w.eval(tctx, ectx, argNode, depth+1)
		if err != nil || arg.IsRaised() {
			return arg, err
		}
		args[i] = arg.Value()
	}

	fn, ok := asCallable(callee.Value())
	if !ok {
		return Raised(NewCallError(fmt.Errorf("value of type %T is not callable", callee.Value()))), nil
	}

	return invoke(ectx, fn, args), nil
}

// asCallable extracts a Callable from a value. Building an environment
// from a map[string]any literal erases the defined function type, so the
// equivalent unnamed type is accepted too.
func asCallable(v Value) (Callable, bool) {
	switch fn := v.(type) {
	case Callable:
		return fn, true
	case func(Context, []Value) (Value, error):
		return fn, true
	default:
		return nil, false
	}
}

// invoke runs the callable with panic recovery. Every failure becomes a
// raised outcome, never a host error: a returned *Exception raises as-is,
// any other error is wrapped in a call_error, and a panic is wrapped in a
// call_error around a PanicError.
func invoke(ctx Context, fn Callable, args []Value) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Raised(NewCallError(&PanicError{
				Value: r,
				Stack: string(debug.Stack()),
			}))
		}
	}()

	v, err := fn(ctx, args)
	if err != nil {
		var exc *Exception
		if errors.As(err, &exc) {
			return Raised(exc)
		}
		return Raised(NewCallError(err))
	}
	return Success(v)
}
