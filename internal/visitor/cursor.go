package visitor

import (
	"jrewrite/internal/semantic"
	"jrewrite/internal/syntax"
)

// Cursor is a handler's view of the traversal: the original node being
// visited, its ancestors, and the scopes in effect.
type Cursor struct {
	v       *Visitor
	unit    *syntax.Unit
	model   *semantic.Model
	stack   []*syntax.Node
	scopes  []*semantic.Scope
	edits   []Edit
	stopped bool
}

// Node returns the original node being visited.
func (c *Cursor) Node() *syntax.Node {
	if len(c.stack) == 0 {
		return c.unit.Root
	}
	return c.stack[len(c.stack)-1]
}

// Parent returns the original parent of the current node, or nil at the root.
func (c *Cursor) Parent() *syntax.Node {
	if len(c.stack) < 2 {
		return nil
	}
	return c.stack[len(c.stack)-2]
}

// Ancestors returns the original ancestors of the current node, innermost first.
func (c *Cursor) Ancestors() []*syntax.Node {
	out := make([]*syntax.Node, 0, len(c.stack))
	for i := len(c.stack) - 2; i >= 0; i-- {
		out = append(out, c.stack[i])
	}
	return out
}

// Enclosing returns the nearest proper ancestor with one of the given kinds.
func (c *Cursor) Enclosing(kinds ...syntax.Kind) *syntax.Node {
	for i := len(c.stack) - 2; i >= 0; i-- {
		if c.stack[i].Is(kinds...) {
			return c.stack[i]
		}
	}
	return nil
}

// EnclosingMethod returns the nearest enclosing method, constructor or lambda.
func (c *Cursor) EnclosingMethod() *syntax.Node {
	return c.Enclosing(syntax.KindMethodDeclaration, syntax.KindConstructorDecl, syntax.KindLambdaExpression)
}

// Scope returns the innermost scope in effect.
func (c *Cursor) Scope() *semantic.Scope {
	if len(c.scopes) > 0 {
		return c.scopes[len(c.scopes)-1]
	}
	if c.model != nil {
		return c.model.Root()
	}
	return nil
}

// Resolve looks name up as an unqualified variable at the current node.
func (c *Cursor) Resolve(name string) semantic.Resolution {
	if c.model == nil {
		return semantic.Resolution{}
	}
	return c.model.LookupAt(c.Scope(), name, c.Node().Span.Start)
}

func (c *Cursor) Model() *semantic.Model { return c.model }
func (c *Cursor) Unit() *syntax.Unit     { return c.unit }

// Stop ends the traversal: no further Enter or Exit handlers run, and the rest
// of the tree is kept as it is.
func (c *Cursor) Stop() { c.stopped = true }

// Edits returns the edits recorded so far.
func (c *Cursor) Edits() []Edit { return c.edits }
