package syntax

import "strings"

// Span is a half-open byte interval [Start, End) in the original source.
// Synthesized nodes carry NoSpan.
type Span struct {
	Start int
	End   int
}

// NoSpan marks a node that was not produced by the parser.
var NoSpan = Span{Start: -1, End: -1}

// Valid reports whether s refers to original source bytes.
func (s Span) Valid() bool { return s.Start >= 0 && s.End >= s.Start }

// Contains reports whether o lies within s.
func (s Span) Contains(o Span) bool {
	return s.Valid() && o.Valid() && s.Start <= o.Start && o.End <= s.End
}

// Layout tells the printer how to place a synthesized node.
type Layout uint8

const (
	// LayoutVerbatim prints Leading exactly as stored.
	LayoutVerbatim Layout = iota
	// LayoutStatement replaces Leading with a newline plus the indentation
	// inferred from the node's siblings.
	LayoutStatement
)

// Node is an immutable syntax tree node. A parent exclusively owns its children;
// edits never modify a Node in place, they build new nodes that share the
// unedited subtrees (see WithChildren and friends).
type Node struct {
	Kind  Kind
	Named bool
	// Field is the grammar field label under which the parent holds this node,
	// e.g. "condition" or "body". Empty for unlabeled children.
	Field string
	// Text holds the token text of a leaf. Interior nodes leave it empty.
	Text     string
	Children []*Node
	// Leading is the whitespace and comments that precede the node.
	Leading string
	// Trailing is the text between the end of the last child and the end of
	// the node itself. It is almost always empty.
	Trailing string
	Span     Span
	Layout   Layout
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Synthetic reports whether n was built by a rewrite rather than parsed.
func (n *Node) Synthetic() bool { return !n.Span.Valid() }

// Category reports the coarse category of n.
func (n *Node) Category() Category { return CategoryOf(n.Kind, n.Named) }

// Is reports whether n has one of the given kinds.
func (n *Node) Is(kinds ...Kind) bool {
	if n == nil {
		return false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// IsToken reports whether n is the anonymous token text.
func (n *Node) IsToken(text string) bool {
	return n != nil && !n.Named && n.IsLeaf() && n.Text == text
}

// ChildByField returns the first child labeled with field.
func (n *Node) ChildByField(field string) *Node {
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// ChildrenByField returns every child labeled with field, in order.
func (n *Node) ChildrenByField(field string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Field == field {
			out = append(out, c)
		}
	}
	return out
}

// NamedChildren returns the named children of n.
func (n *Node) NamedChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Named {
			out = append(out, c)
		}
	}
	return out
}

// FirstChildOfKind returns the first child of one of the given kinds.
func (n *Node) FirstChildOfKind(kinds ...Kind) *Node {
	for _, c := range n.Children {
		if c.Is(kinds...) {
			return c
		}
	}
	return nil
}

// IndexOf returns the position of child c in n, or -1.
func (n *Node) IndexOf(c *Node) int {
	for i, x := range n.Children {
		if x == c {
			return i
		}
	}
	return -1
}

// Source returns the full text of n, including its leading trivia.
func (n *Node) Source() string {
	var b strings.Builder
	n.write(&b, true)
	return b.String()
}

// Content returns the text of n without its own leading trivia.
func (n *Node) Content() string {
	var b strings.Builder
	n.write(&b, false)
	return b.String()
}

func (n *Node) write(b *strings.Builder, leading bool) {
	if leading {
		b.WriteString(n.Leading)
	}
	if n.IsLeaf() {
		b.WriteString(n.Text)
	} else {
		for _, c := range n.Children {
			c.write(b, true)
		}
	}
	b.WriteString(n.Trailing)
}

// Walk calls fn for n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// ContainsError reports whether n or any descendant is an error node. Missing
// tokens are represented as zero-width error nodes.
func ContainsError(n *Node) bool {
	return ContainsKind(n, KindError)
}

// ContainsKind reports whether n or a descendant has kind k.
func ContainsKind(n *Node, k Kind) bool {
	found := false
	Walk(n, func(x *Node) bool {
		if x.Kind == k {
			found = true
		}
		return !found
	})
	return found
}

// Identifiers returns every identifier leaf under n in source order.
func Identifiers(n *Node) []*Node {
	var out []*Node
	Walk(n, func(x *Node) bool {
		if x.Kind == KindIdentifier {
			out = append(out, x)
		}
		return true
	})
	return out
}

// IsBlank reports whether trivia holds only whitespace.
func IsBlank(trivia string) bool {
	return strings.TrimSpace(trivia) == ""
}
