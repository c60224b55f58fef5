package evaltree

import (
	"errors"
	"fmt"
)

// Validate checks that root is a well-formed tree.
// Returns nil if it is. Multiple defects are joined together.
//
// Validation checks:
//  1. Root must not be nil
//  2. Every child slot must be filled (callee, arguments, operands, branches)
//  3. No node may appear on its own ancestor path (cycles)
//
// Sharing an acyclic subtree between branches is allowed; shared subtrees
// are validated once. A structurally invalid tree can never be coalesced
// around at evaluation time - these defects surface on the error channel.
func Validate(root Node) error {
	if root == nil {
		return &MalformedTreeError{Detail: "root", Err: ErrNilNode}
	}

	v := &validator{
		onPath:  make(map[Node]bool),
		visited: make(map[Node]bool),
	}
	v.validate(root)

	if len(v.errs) > 0 {
		return errors.Join(v.errs...)
	}
	return nil
}

// validator holds traversal state for Validate.
// Node identity is pointer identity, so the maps distinguish two equal
// literals at different positions.
type validator struct {
	onPath  map[Node]bool
	visited map[Node]bool
	errs    []error
}

func (v *validator) validate(n Node) {
	if v.onPath[n] {
		v.errs = append(v.errs, &MalformedTreeError{
			Detail: fmt.Sprintf("%s node is its own ancestor", n.Kind()),
			Err:    ErrCycle,
		})
		return
	}
	if v.visited[n] {
		// Shared subtree, already checked.
		return
	}
	v.visited[n] = true
	v.onPath[n] = true
	defer delete(v.onPath, n)

	v.checkSlots(n)

	for _, child := range Children(n) {
		if child == nil {
			continue
		}
		v.validate(child)
	}
}

// checkSlots records a defect for every nil child slot of n.
func (v *validator) checkSlots(n Node) {
	switch node := n.(type) {
	case *Call:
		if node.Callee == nil {
			v.addNilSlot("call callee")
		}
		for i, arg := range node.Args {
			if arg == nil {
				v.addNilSlot(fmt.Sprintf("call argument %d", i))
			}
		}
	case *ExceptionCoalesce:
		if node.LHS == nil {
			v.addNilSlot("exception_coalesce lhs")
		}
		if node.RHS == nil {
			v.addNilSlot("exception_coalesce rhs")
		}
	case *NullCoalesce:
		if node.LHS == nil {
			v.addNilSlot("null_coalesce lhs")
		}
		if node.RHS == nil {
			v.addNilSlot("null_coalesce rhs")
		}
	case *Ternary:
		if node.Cond == nil {
			v.addNilSlot("ternary condition")
		}
		if node.Then == nil {
			v.addNilSlot("ternary then branch")
		}
		if node.Else == nil {
			v.addNilSlot("ternary else branch")
		}
	}
}

func (v *validator) addNilSlot(detail string) {
	v.errs = append(v.errs, &MalformedTreeError{Detail: detail, Err: ErrNilNode})
}
