package parser

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"jrewrite/internal/syntax"
)

// converter copies a tree-sitter tree into syntax nodes. Every source byte ends
// up in exactly one place: a leaf's Text, a node's Leading or Trailing trivia, or
// the unit's EOF text. Comments are extras in the grammar and are folded into the
// trivia of the node that follows them.
type converter struct {
	src    []byte
	errors []syntax.ParseError
}

func (c *converter) text(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(c.src) {
		end = len(c.src)
	}
	if end <= start {
		return ""
	}
	return string(c.src[start:end])
}

func (c *converter) convert(cur *sitter.TreeCursor) *syntax.Node {
	tn := cur.CurrentNode()
	start, end := int(tn.StartByte()), int(tn.EndByte())
	n := &syntax.Node{
		Kind:  syntax.Kind(tn.Type()),
		Named: tn.IsNamed(),
		Span:  syntax.Span{Start: start, End: end},
	}

	if tn.IsMissing() {
		c.record(tn, fmt.Sprintf("missing %s", tn.Type()))
		n.Kind = syntax.KindError
		n.Named = true
		return n
	}
	if n.Kind == syntax.KindError {
		c.record(tn, "unexpected input")
		n.Text = c.text(start, end)
		return n
	}
	if !cur.GoToFirstChild() {
		n.Text = c.text(start, end)
		return n
	}

	offset := start
	pending := ""
	for {
		child := cur.CurrentNode()
		cs, ce := int(child.StartByte()), int(child.EndByte())
		gap := c.text(offset, cs)
		if child.IsExtra() && syntax.IsComment(syntax.Kind(child.Type())) {
			pending += gap + c.text(cs, ce)
		} else {
			field := cur.CurrentFieldName()
			cn := c.convert(cur)
			cn.Field = field
			cn.Leading = pending + gap
			pending = ""
			n.Children = append(n.Children, cn)
		}
		if ce > offset {
			offset = ce
		}
		if !cur.GoToNextSibling() {
			break
		}
	}
	cur.GoToParent()

	n.Trailing = pending + c.text(offset, end)
	return n
}

func (c *converter) record(tn *sitter.Node, msg string) {
	p := tn.StartPoint()
	c.errors = append(c.errors, syntax.ParseError{
		Span:    syntax.Span{Start: int(tn.StartByte()), End: int(tn.EndByte())},
		Line:    int(p.Row) + 1,
		Column:  int(p.Column) + 1,
		Message: msg,
	})
}
