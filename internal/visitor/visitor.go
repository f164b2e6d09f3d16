package visitor

import (
	"errors"
	"fmt"

	"jrewrite/internal/semantic"
	"jrewrite/internal/syntax"
)

// EnterFunc runs before a node's children are visited. Returning false skips
// the subtree; the node's Exit handler still runs.
type EnterFunc func(c *Cursor) bool

// Handler decides what becomes of a node after its children were visited. n is
// the node with its already rewritten children; c.Node() is still the original.
type Handler func(c *Cursor, n *syntax.Node) Result

// Visitor is one pass over a tree.
type Visitor struct {
	Name string
	// Before runs once before the traversal, with the cursor at the root.
	Before func(c *Cursor)
	Enter  map[syntax.Kind]EnterFunc
	Exit   map[syntax.Kind]Handler
}

var ErrSpliceOutsideSequence = errors.New("splice outside of a sequence node")

// Walk runs v over the unit depth-first and returns the rewritten root together
// with the edits made. Subtrees nobody changed are shared with the input.
func Walk(v *Visitor, u *syntax.Unit, m *semantic.Model) (*syntax.Node, []Edit, error) {
	c := &Cursor{v: v, unit: u, model: m}
	c.stack = append(c.stack, u.Root)
	if v.Before != nil {
		v.Before(c)
	}
	c.stack = c.stack[:0]

	out, err := c.visit(u.Root)
	if err != nil {
		return nil, nil, err
	}
	if len(out) != 1 {
		return nil, nil, &NodeError{Node: u.Root, Pass: v.Name, Err: ErrSpliceOutsideSequence}
	}
	return out[0], c.edits, nil
}

func (c *Cursor) visit(n *syntax.Node) ([]*syntax.Node, error) {
	c.stack = append(c.stack, n)
	defer func() { c.stack = c.stack[:len(c.stack)-1] }()
	if c.model != nil {
		if s := c.model.ScopeOf(n); s != nil {
			c.scopes = append(c.scopes, s)
			defer func() { c.scopes = c.scopes[:len(c.scopes)-1] }()
		}
	}

	descend := true
	if f := c.v.Enter[n.Kind]; f != nil && !c.stopped {
		descend = f(c)
	}

	cur := n
	if descend && !c.stopped && len(n.Children) > 0 {
		var children []*syntax.Node
		changed := false
		for i, ch := range n.Children {
			out, err := c.visit(ch)
			if err != nil {
				return nil, err
			}
			if len(out) == 1 && out[0] == ch {
				if changed {
					children = append(children, ch)
				}
				continue
			}
			if !changed {
				children = append(make([]*syntax.Node, 0, len(n.Children)), n.Children[:i]...)
				changed = true
			}
			if len(out) != 1 {
				if !syntax.IsSequence(n.Kind) {
					return nil, &NodeError{Node: ch, Pass: c.v.Name, Err: ErrSpliceOutsideSequence}
				}
				children = append(children, out...)
				continue
			}
			children = append(children, out[0].WithField(ch.Field))
		}
		if changed {
			cur = n.WithChildren(children)
		}
	}

	h := c.v.Exit[n.Kind]
	if h == nil || c.stopped {
		return []*syntax.Node{cur}, nil
	}
	r := h(c, cur)
	switch r.kind {
	case resultReplace, resultSplice:
		c.edits = append(c.edits, Edit{Span: n.Span, Count: len(r.nodes), Pass: c.v.Name})
		return r.nodes, nil
	case resultFail:
		return nil, &NodeError{Node: n, Pass: c.v.Name, Err: r.err}
	}
	return []*syntax.Node{cur}, nil
}

// Inspect calls fn for every node of root in pre-order with the chain of its
// ancestors, outermost first. Returning false skips the node's children.
func Inspect(root *syntax.Node, fn func(n *syntax.Node, ancestors []*syntax.Node) bool) {
	var stack []*syntax.Node
	var rec func(n *syntax.Node)
	rec = func(n *syntax.Node) {
		if !fn(n, stack) {
			return
		}
		stack = append(stack, n)
		for _, ch := range n.Children {
			rec(ch)
		}
		stack = stack[:len(stack)-1]
	}
	rec(root)
}

func (e Edit) String() string {
	return fmt.Sprintf("%s: [%d,%d) -> %d node(s)", e.Pass, e.Span.Start, e.Span.End, e.Count)
}
