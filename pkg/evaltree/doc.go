/*
Package evaltree provides a tree-walking evaluator for expression trees
with exception-coalescing fallback semantics.

# Overview

evaltree is a Go library for building and evaluating expression trees
where failures are values. Every node evaluation produces an Outcome:
either Success carrying a value, or Raised carrying an exception. The
exception-coalesce operator turns a raised left operand into a fallback
to the right operand, so "try this, else that" pipelines compose without
host-side try/catch scaffolding.

The library provides:
  - A small, sealed node set: literals, variable references, calls,
    two coalesce operators, ternaries, and raises
  - Deterministic, synchronous evaluation with strict operand ordering
  - Structural validation (nil slots, cycles) before evaluation
  - OpenTelemetry integration for observability

# Basic Usage

Build a tree, compile it, then evaluate against an environment:

	func main() {
	    // primary ??? fallback
	    tree := evaltree.NewExceptionCoalesce(
	        evaltree.NewCall(evaltree.NewVariableRef("primary")),
	        evaltree.NewLiteral("fallback value"),
	    )

	    compiled, err := evaltree.Compile(tree)
	    if err != nil {
	        log.Fatal(err)
	    }

	    env := evaltree.NewEnv(map[string]evaltree.Value{
	        "primary": evaltree.Callable(fetchPrimary),
	    })

	    ctx := evaltree.NewContext(context.Background())
	    outcome, err := compiled.Evaluate(ctx, env)
	    if err != nil {
	        log.Fatal(err) // malformed tree, not a raise
	    }
	    if outcome.IsSuccess() {
	        fmt.Println(outcome.Value())
	    }
	}

# Fallbacks

Two coalesce operators cover the two failure shapes. The exception
coalesce evaluates its right operand only when the left raises:

	// lookup(id) ??? "unknown"
	evaltree.NewExceptionCoalesce(
	    evaltree.NewCall(evaltree.NewVariableRef("lookup"), evaltree.NewVariableRef("id")),
	    evaltree.NewLiteral("unknown"),
	)

A successful left operand short-circuits: the right operand is not
evaluated, even when the left value is nil. The discarded left exception
is unobservable; it appears in no log, trace event, metric, or span.

The null coalesce replaces a successful nil with its right operand but
propagates raises unchanged:

	// name ?? "anonymous"
	evaltree.NewNullCoalesce(
	    evaltree.NewVariableRef("name"),
	    evaltree.NewLiteral("anonymous"),
	)

Chains fold to the right, so A ??? B ??? C tries each alternative in
order:

	evaltree.ExceptionCoalesceChain(a, b, c)
	// = NewExceptionCoalesce(a, NewExceptionCoalesce(b, c))

# Callables

Call nodes evaluate their callee, then their arguments left to right,
then invoke. A Callable reports failure by returning an error; returning
an *Exception raises it as-is, any other error is wrapped in a call
exception:

	div := evaltree.Callable(func(ctx evaltree.Context, args []evaltree.Value) (evaltree.Value, error) {
	    b := args[1].(float64)
	    if b == 0 {
	        return nil, evaltree.NewException("division by zero")
	    }
	    return args[0].(float64) / b, nil
	})

Panics inside callables are recovered and raised as call exceptions
carrying a PanicError with the stack trace. A raise is never a Go error:
Evaluate returns a non-nil error only for host-level failures
(malformed trees, nil context), which no coalesce can intercept.

# Validation

Compile validates structure up front and rejects nil child slots and
cyclic trees:

	compiled, err := evaltree.Compile(tree)
	if evaltree.IsMalformed(err) {
	    // structural defect, fix the builder
	}

Package-level Evaluate validates on every call; Compile does it once and
is the fit for trees evaluated repeatedly.

# Tracing

A TraceRecorder observes evaluation order without touching outcomes:

	col := trace.NewCollector()
	outcome, err := compiled.Evaluate(ctx, env,
	    evaltree.WithTraceRecorder(col))

	col.Order()     // nodes in evaluation order
	col.Fallbacks() // coalesce fallbacks taken

Events carry node identity and outcome tags only, never exception
contents.

# Observability

Enable logging, metrics, and tracing:

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	outcome, err := compiled.Evaluate(ctx, env,
	    evaltree.WithObservabilityLogger(logger),
	    evaltree.WithMetrics(true),
	    evaltree.WithTracing(true))

Logs include structured fields: eval_id, node_kind, duration_ms.
OpenTelemetry metrics: evaltree.evaluations, evaltree.node.latency_ms, etc.
OpenTelemetry tracing: evaltree.eval > evaltree.node.{kind} spans.
Raised outcomes are normal results: they mark no span as an error and
log no exception contents.

Evaluation is synchronous and non-suspending: the walk never polls
ctx.Done() and carries no timeout of its own. The context's deadline
still bounds any callable that honors it.

# Thread Safety

  - Node construction is not synchronized; build trees in one goroutine
  - Compiled IS safe for concurrent use (immutable)
  - Environment IS safe for concurrent use (immutable after NewEnv)
  - Context IS safe for concurrent use
  - Store implementations in trace are safe for concurrent use

# Subpackages

  - bindings: Environment documents (YAML/JSON loading, placeholder expansion)
  - observability: Logging, metrics, and tracing helpers
  - query: Read-only structural queries over trees
  - registry: Named callable registry
  - trace: Trace collectors, combinators, and evaluation history stores
*/
package evaltree
