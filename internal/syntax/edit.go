package syntax

// The functions in this file implement copy-on-write edits. Each returns a new
// node; the receiver and every child not explicitly replaced are shared.

func (n *Node) clone() *Node {
	c := *n
	return &c
}

// WithChildren returns a copy of n holding children.
func (n *Node) WithChildren(children []*Node) *Node {
	c := n.clone()
	c.Children = children
	return c
}

// WithChild returns a copy of n whose i-th child is replaced by child. The new
// child inherits the field label of the old one.
func (n *Node) WithChild(i int, child *Node) *Node {
	children := make([]*Node, len(n.Children))
	copy(children, n.Children)
	if child.Field != n.Children[i].Field {
		child = child.WithField(n.Children[i].Field)
	}
	children[i] = child
	return n.WithChildren(children)
}

// WithoutChild returns a copy of n with the i-th child removed.
func (n *Node) WithoutChild(i int) *Node {
	children := make([]*Node, 0, len(n.Children)-1)
	children = append(children, n.Children[:i]...)
	children = append(children, n.Children[i+1:]...)
	return n.WithChildren(children)
}

// WithLeading returns a copy of n with new leading trivia.
func (n *Node) WithLeading(leading string) *Node {
	if n.Leading == leading {
		return n
	}
	c := n.clone()
	c.Leading = leading
	return c
}

// WithField returns a copy of n labeled with field.
func (n *Node) WithField(field string) *Node {
	if n.Field == field {
		return n
	}
	c := n.clone()
	c.Field = field
	return c
}

// WithText returns a copy of leaf n with new token text.
func (n *Node) WithText(text string) *Node {
	c := n.clone()
	c.Text = text
	return c
}

// WithLayout returns a copy of n with layout l.
func (n *Node) WithLayout(l Layout) *Node {
	c := n.clone()
	c.Layout = l
	return c
}

// Replace returns a copy of root in which the node old is replaced by repl.
// Only the ancestors of old are copied. If old is not found root is returned.
func Replace(root, old, repl *Node) *Node {
	if root == old {
		return repl
	}
	for i, c := range root.Children {
		r := Replace(c, old, repl)
		if r != c {
			return root.WithChild(i, r)
		}
	}
	return root
}

// Token builds an anonymous token leaf.
func Token(text, leading string) *Node {
	return &Node{Kind: Kind(text), Text: text, Leading: leading, Span: NoSpan}
}

// Leaf builds a named leaf such as an identifier.
func Leaf(kind Kind, text, leading string) *Node {
	return &Node{Kind: kind, Named: true, Text: text, Leading: leading, Span: NoSpan}
}

// NewNode builds a named interior node.
func NewNode(kind Kind, leading string, children ...*Node) *Node {
	return &Node{Kind: kind, Named: true, Leading: leading, Children: children, Span: NoSpan}
}

// Labeled returns n labeled with field; a shorthand for builder call sites.
func Labeled(field string, n *Node) *Node {
	return n.WithField(field)
}
