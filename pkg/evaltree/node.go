package evaltree

// Callable is the signature for host functions invoked by Call nodes.
// Callables receive the evaluation context and the already-evaluated
// argument values.
//
// Returning a *Exception as the error raises that exception as-is; any
// other non-nil error is wrapped in a call_error exception. A nil error
// yields Success(value), whatever the value (including nil and values
// that happen to be *Exception).
//
// Example:
//
//	func div(ctx evaltree.Context, args []evaltree.Value) (evaltree.Value, error) {
//	    if evaltree.ToFloat64(args[1]) == 0 {
//	        return nil, evaltree.NewException("division by zero")
//	    }
//	    return evaltree.ToFloat64(args[0]) / evaltree.ToFloat64(args[1]), nil
//	}
type Callable func(ctx Context, args []Value) (Value, error)

// NodeKind identifies the concrete type of a Node.
type NodeKind int

const (
	// KindLiteral is a constant value.
	KindLiteral NodeKind = iota

	// KindVariableRef is a reference to an environment binding.
	KindVariableRef

	// KindCall is a callable invocation.
	KindCall

	// KindExceptionCoalesce is the exception-fallback operator.
	KindExceptionCoalesce

	// KindNullCoalesce is the null-fallback operator.
	KindNullCoalesce

	// KindTernary is the short conditional operator.
	KindTernary

	// KindRaise is a fixture that always raises.
	KindRaise
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindVariableRef:
		return "variable_ref"
	case KindCall:
		return "call"
	case KindExceptionCoalesce:
		return "exception_coalesce"
	case KindNullCoalesce:
		return "null_coalesce"
	case KindTernary:
		return "ternary"
	case KindRaise:
		return "raise"
	default:
		return "unknown"
	}
}

// Node is an expression tree node.
//
// The node set is closed: only the types in this package implement Node.
// Trees arrive already parsed; this package neither tokenizes source text
// nor serializes trees back out.
//
// Nodes are treated as immutable once a tree is handed to Compile or
// Evaluate. Sharing an acyclic subtree between branches is allowed.
type Node interface {
	// Kind identifies the concrete node type.
	Kind() NodeKind

	isNode()
}

// Literal evaluates to its value, unchanged.
type Literal struct {
	// Value is the carried constant. A nil Value is the null literal.
	Value Value
}

// NewLiteral creates a literal node.
func NewLiteral(v Value) *Literal {
	return &Literal{Value: v}
}

// Kind implements Node.
func (n *Literal) Kind() NodeKind { return KindLiteral }

func (n *Literal) isNode() {}

// VariableRef evaluates to the environment binding for Name.
// An unbound name raises a name_error exception; it does not yield null.
type VariableRef struct {
	// Name is the binding to look up.
	Name string
}

// NewVariableRef creates a variable reference node.
func NewVariableRef(name string) *VariableRef {
	return &VariableRef{Name: name}
}

// Kind implements Node.
func (n *VariableRef) Kind() NodeKind { return KindVariableRef }

func (n *VariableRef) isNode() {}

// Call invokes the callable produced by Callee with the values of Args.
//
// Callee is evaluated first; a raise propagates and a non-callable result
// raises a call_error. Args are evaluated left to right and the first raise
// propagates without invoking the callable.
type Call struct {
	// Callee is the expression producing the callable.
	Callee Node
	// Args are the argument expressions, evaluated left to right.
	Args []Node
}

// NewCall creates a call node.
func NewCall(callee Node, args ...Node) *Call {
	return &Call{Callee: callee, Args: args}
}

// Kind implements Node.
func (n *Call) Kind() NodeKind { return KindCall }

func (n *Call) isNode() {}

// ExceptionCoalesce is the exception-fallback operator.
//
// LHS is evaluated exactly once. A successful LHS is the result and RHS is
// never touched; this includes a successful null. A raised LHS discards its
// exception and the result is RHS's outcome, verbatim: if RHS itself
// raises, that raise propagates to the enclosing node.
type ExceptionCoalesce struct {
	LHS Node
	RHS Node
}

// NewExceptionCoalesce creates an exception-coalesce node.
func NewExceptionCoalesce(lhs, rhs Node) *ExceptionCoalesce {
	return &ExceptionCoalesce{LHS: lhs, RHS: rhs}
}

// Kind implements Node.
func (n *ExceptionCoalesce) Kind() NodeKind { return KindExceptionCoalesce }

func (n *ExceptionCoalesce) isNode() {}

// NullCoalesce is the null-fallback operator.
//
// A raised LHS propagates unchanged; null-coalesce never catches. A
// successful null LHS yields RHS's outcome; any other success is the
// result and RHS is never touched.
type NullCoalesce struct {
	LHS Node
	RHS Node
}

// NewNullCoalesce creates a null-coalesce node.
func NewNullCoalesce(lhs, rhs Node) *NullCoalesce {
	return &NullCoalesce{LHS: lhs, RHS: rhs}
}

// Kind implements Node.
func (n *NullCoalesce) Kind() NodeKind { return KindNullCoalesce }

func (n *NullCoalesce) isNode() {}

// Ternary is the short conditional operator.
//
// A raised condition propagates. Otherwise the condition's truthiness
// selects exactly one branch; the other is never evaluated.
type Ternary struct {
	Cond Node
	Then Node
	Else Node
}

// NewTernary creates a ternary node.
func NewTernary(cond, then, els Node) *Ternary {
	return &Ternary{Cond: cond, Then: then, Else: els}
}

// Kind implements Node.
func (n *Ternary) Kind() NodeKind { return KindTernary }

func (n *Ternary) isNode() {}

// Raise always evaluates to Raised(Exc). It stands in for any
// exception-producing expression when building trees by hand.
//
// The exception is fixed at construction, so re-evaluating the same tree
// raises the identical exception each time.
type Raise struct {
	Exc *Exception
}

// NewRaise creates a raise node with a generic exception.
func NewRaise(message string) *Raise {
	return &Raise{Exc: NewException(message)}
}

// NewRaiseWith creates a raise node carrying the given exception.
func NewRaiseWith(exc *Exception) *Raise {
	return &Raise{Exc: exc}
}

// Kind implements Node.
func (n *Raise) Kind() NodeKind { return KindRaise }

func (n *Raise) isNode() {}

// ExceptionCoalesceChain folds nodes into a right-associative chain:
// [a, b, c] becomes a ??? (b ??? c). Operands still evaluate left to
// right with the first success short-circuiting the rest.
//
// Panics if no nodes are given; a single node is returned unchanged.
func ExceptionCoalesceChain(nodes ...Node) Node {
	if len(nodes) == 0 {
		panic("evaltree: ExceptionCoalesceChain requires at least one node")
	}
	chain := nodes[len(nodes)-1]
	for i := len(nodes) - 2; i >= 0; i-- {
		chain = NewExceptionCoalesce(nodes[i], chain)
	}
	return chain
}

// NullCoalesceChain folds nodes into a right-associative chain:
// [a, b, c] becomes a ?? (b ?? c).
//
// Panics if no nodes are given; a single node is returned unchanged.
func NullCoalesceChain(nodes ...Node) Node {
	if len(nodes) == 0 {
		panic("evaltree: NullCoalesceChain requires at least one node")
	}
	chain := nodes[len(nodes)-1]
	for i := len(nodes) - 2; i >= 0; i-- {
		chain = NewNullCoalesce(nodes[i], chain)
	}
	return chain
}

// Children returns a node's direct children in evaluation order.
// Returns nil for leaves and for a nil node. Nil child slots are preserved
// so Validate can report them.
func Children(n Node) []Node {
	switch node := n.(type) {
	case *Call:
		children := make([]Node, 0, len(node.Args)+1)
		children = append(children, node.Callee)
		children = append(children, node.Args...)
		return children
	case *ExceptionCoalesce:
		return []Node{node.LHS, node.RHS}
	case *NullCoalesce:
		return []Node{node.LHS, node.RHS}
	case *Ternary:
		return []Node{node.Cond, node.Then, node.Else}
	default:
		return nil
	}
}

// Walk visits root and its descendants in pre-order, skipping nil slots.
// If fn returns false the walk stops. Shared subtrees are visited once per
// occurrence; Walk must not be used on cyclic trees (Validate rejects
// those).
func Walk(root Node, fn func(Node) bool) {
	if root == nil {
		return
	}
	walk(root, fn)
}

func walk(n Node, fn func(Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range Children(n) {
		if child == nil {
			continue
		}
		if !walk(child, fn) {
			return false
		}
	}
	return true
}
