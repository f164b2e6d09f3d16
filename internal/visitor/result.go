package visitor

import (
	"fmt"

	"jrewrite/internal/syntax"
)

type resultKind uint8

const (
	resultUnchanged resultKind = iota
	resultReplace
	resultSplice
	resultFail
)

// Result is a handler's decision for the node it was given.
type Result struct {
	kind  resultKind
	nodes []*syntax.Node
	err   error
}

// Unchanged keeps the node.
func Unchanged() Result { return Result{} }

// Replace substitutes the node with n.
func Replace(n *syntax.Node) Result {
	return Result{kind: resultReplace, nodes: []*syntax.Node{n}}
}

// Splice substitutes the node with zero or more siblings. It is only valid for
// children of sequence nodes such as blocks and class bodies.
func Splice(nodes ...*syntax.Node) Result {
	return Result{kind: resultSplice, nodes: nodes}
}

// Fail aborts the walk. Use it for broken invariants, never for a rewrite that
// merely does not apply.
func Fail(err error) Result { return Result{kind: resultFail, err: err} }

// Failf is Fail with a formatted message.
func Failf(format string, args ...any) Result {
	return Fail(fmt.Errorf(format, args...))
}

// Changed reports whether r alters the tree.
func (r Result) Changed() bool { return r.kind == resultReplace || r.kind == resultSplice }

// Edit records one substitution made during a walk.
type Edit struct {
	// Span is the original span of the replaced node.
	Span syntax.Span
	// Count is the number of nodes that took its place.
	Count int
	Pass  string
}

// NodeError reports a failure at a node of the original tree.
type NodeError struct {
	Node *syntax.Node
	Pass string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s: at %s [%d,%d): %v", e.Pass, e.Node.Kind, e.Node.Span.Start, e.Node.Span.End, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }
