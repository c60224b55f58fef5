package evaltree

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/randalmurphal/evaltree/pkg/evaltree/observability"
	"go.opentelemetry.io/otel/trace"
)

// Compile validates root and creates an immutable Compiled expression.
// Returns an error if validation fails; multiple defects are joined
// together.
//
// Compiling once and evaluating many times amortizes validation. The
// package-level Evaluate() compiles on every call.
func Compile(root Node) (*Compiled, error) {
	if err := Validate(root); err != nil {
		return nil, err
	}

	nodeCount := 0
	varSet := make(map[string]bool)
	Walk(root, func(n Node) bool {
		nodeCount++
		if ref, ok := n.(*VariableRef); ok {
			varSet[ref.Name] = true
		}
		return true
	})

	varNames := make([]string, 0, len(varSet))
	for name := range varSet {
		varNames = append(varNames, name)
	}
	sort.Strings(varNames)

	return &Compiled{
		root:      root,
		nodeCount: nodeCount,
		varNames:  varNames,
	}, nil
}

// MustCompile compiles root, panicking if validation fails.
// Use for trees constructed in tests or package init.
func MustCompile(root Node) *Compiled {
	compiled, err := Compile(root)
	if err != nil {
		panic(fmt.Sprintf("evaltree: %v", err))
	}
	return compiled
}

// Compiled is an immutable, validated expression tree.
//
// Compiled is thread-safe: concurrent Evaluate calls on the same Compiled
// are safe because neither the tree nor the environment is mutated during
// evaluation.
type Compiled struct {
	root      Node
	nodeCount int
	varNames  []string
}

// Root returns the root node.
// The tree must not be mutated after compilation.
func (c *Compiled) Root() Node {
	return c.root
}

// NodeCount returns the number of node positions in the tree.
// A subtree shared between branches is counted once per occurrence.
func (c *Compiled) NodeCount() int {
	return c.nodeCount
}

// VariableNames returns the sorted names referenced by VariableRef nodes.
// Useful for checking an environment before evaluating.
func (c *Compiled) VariableNames() []string {
	names := make([]string, len(c.varNames))
	copy(names, c.varNames)
	return names
}

// Evaluate walks the tree against env and returns its Outcome.
//
// The Outcome carries every runtime condition of a well-formed tree,
// raises included. The error return is host-level only: a nil context or
// a structural defect (which Compile should have caught, but the depth
// bound still guards against mutation after compilation). Coalescing
// nodes never absorb a host-level error.
//
// A nil env is treated as empty.
//
// Example:
//
//	ctx := evaltree.NewContext(context.Background())
//	outcome, err := compiled.Evaluate(ctx, env)
//	if err != nil {
//	    // malformed tree; a bug in the tree producer
//	}
//	if outcome.IsRaised() {
//	    // runtime raise that no coalesce absorbed
//	}
func (c *Compiled) Evaluate(ctx Context, env *Environment, opts ...Option) (outcome Outcome, evalErr error) {
	if ctx == nil {
		return Outcome{}, ErrNilContext
	}

	cfg := defaultEvalConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	evalID := ctx.EvalID()

	startTime := time.Now()

	observability.LogEvalStart(cfg.logger, evalID, c.root.Kind().String())

	// Start eval span if tracing enabled
	var execCtx context.Context = ctx
	var evalSpan trace.Span
	if cfg.tracingEnabled {
		execCtx, evalSpan = cfg.spans.StartEvalSpan(ctx, c.root.Kind().String(), evalID)
		defer func() {
			cfg.spans.EndSpanWithError(evalSpan, evalErr)
		}()
	}

	w := &walker{cfg: &cfg, env: env, evalID: evalID}

	w.emit(TraceEvent{Kind: TraceEvalStart, Node: c.root, NodeKind: c.root.Kind()})

	outcome, evalErr = w.eval(execCtx, ctx, c.root, 0)

	done := TraceEvent{Kind: TraceEvalDone, Node: c.root, NodeKind: c.root.Kind(), Raised: outcome.IsRaised()}
	if evalErr != nil {
		done.Err = evalErr.Error()
	}
	w.emit(done)

	duration := time.Since(startTime)
	durationMs := float64(duration.Milliseconds())

	cfg.metrics.RecordEvaluation(execCtx, outcome.IsRaised(), evalErr, duration)

	if evalErr != nil {
		observability.LogEvalError(cfg.logger, evalID, evalErr, durationMs)
	} else {
		observability.LogEvalComplete(cfg.logger, evalID, durationMs, w.nodesEvaluated, outcome.IsRaised())
	}

	return outcome, evalErr
}
