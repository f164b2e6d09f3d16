package recipes

import (
	"jrewrite/internal/analysis"
	"jrewrite/internal/recipe"
	"jrewrite/internal/semantic"
	"jrewrite/internal/syntax"
	"jrewrite/internal/visitor"
)

var unusedDescriptor = recipe.Descriptor{
	Name:        "RemoveUnusedLocalVariables",
	DisplayName: "Remove unused local variables",
	Description: "Removes local variables that are never read, together with the assignments to them. Side-effecting initializers are kept as statements.",
	Options: []recipe.OptionSpec{{
		Name:        "ignoreVariablesNamed",
		Description: "Comma-separated variable names that are never removed.",
	}},
}

// RemoveUnusedLocalVariables removes locals that are never read. Removing one
// variable can leave another unread; the pass repeats its analysis until
// nothing more can go.
func RemoveUnusedLocalVariables(ignore ...string) recipe.Recipe {
	ignored := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		ignored[name] = true
	}
	return recipe.Single(unusedDescriptor, func() *visitor.Visitor {
		p := &unusedPlan{ignored: ignored}
		return &visitor.Visitor{
			Name:   unusedDescriptor.Name,
			Before: func(c *visitor.Cursor) { p.compute(c.Model()) },
			Exit: map[syntax.Kind]visitor.Handler{
				syntax.KindLocalVariableDecl:   p.declaration,
				syntax.KindExpressionStatement: p.statement,
			},
		}
	})
}

type unusedPlan struct {
	ignored map[string]bool
	// stmts maps statements to drop to the node holding the expression that
	// must survive as a statement, or to nil.
	stmts map[*syntax.Node]*syntax.Node
	// declarators are removed one by one from multi-variable declarations.
	declarators map[*syntax.Node]bool
}

// removal is what deleting one variable takes.
type removal struct {
	binding     *semantic.Binding
	declaration *syntax.Node
	declarator  *syntax.Node
	stmts       map[*syntax.Node]*syntax.Node
	// exclude lists the subtrees that disappear along with the variable; reads
	// inside them do not count.
	exclude []*syntax.Node
}

func (p *unusedPlan) compute(m *semantic.Model) {
	p.stmts = make(map[*syntax.Node]*syntax.Node)
	p.declarators = make(map[*syntax.Node]bool)
	if m == nil {
		return
	}
	var pending []*removal
	for _, b := range m.Bindings() {
		if r, ok := p.removalOf(m, b); ok {
			pending = append(pending, r)
		}
	}

	var exclude []*syntax.Node
	for changed := true; changed; {
		changed = false
		rest := pending[:0]
		for _, r := range pending {
			ex := make([]*syntax.Node, 0, len(exclude)+len(r.exclude))
			ex = append(append(ex, exclude...), r.exclude...)
			if analysis.IsRead(r.binding, ex) {
				rest = append(rest, r)
				continue
			}
			exclude = append(exclude, r.exclude...)
			p.apply(r)
			changed = true
		}
		pending = rest
	}
}

func (p *unusedPlan) apply(r *removal) {
	for stmt, holder := range r.stmts {
		p.stmts[stmt] = holder
	}
	if r.declarator != nil {
		p.declarators[r.declarator] = true
		return
	}
	p.stmts[r.declaration] = nil
	if v := r.binding.Decl.ChildByField("value"); v != nil && analysis.HasSideEffects(v) {
		p.stmts[r.declaration] = r.binding.Decl
	}
}

func (p *unusedPlan) removalOf(m *semantic.Model, b *semantic.Binding) (*removal, bool) {
	if b.Kind != semantic.BindingLocal || b.Decl == nil || b.Decl.Kind != syntax.KindVariableDeclarator {
		return nil, false
	}
	if p.ignored[b.Name] || m.Tainted(b) {
		return nil, false
	}
	decl := m.Parent(b.Decl)
	if decl == nil || decl.Kind != syntax.KindLocalVariableDecl || !inSequence(m, decl) {
		return nil, false
	}
	if mods := decl.FirstChildOfKind(syntax.KindModifiers); mods != nil {
		if syntax.ContainsKind(mods, syntax.KindAnnotation) || syntax.ContainsKind(mods, syntax.KindMarkerAnnotation) {
			return nil, false
		}
	}

	r := &removal{binding: b, declaration: decl, stmts: make(map[*syntax.Node]*syntax.Node)}
	value := b.Decl.ChildByField("value")
	impure := value != nil && analysis.HasSideEffects(value)
	if len(decl.ChildrenByField("declarator")) > 1 {
		if impure {
			return nil, false
		}
		r.declarator = b.Decl
	}
	switch {
	case !impure:
		r.exclude = append(r.exclude, b.Decl)
	case !hoistable(value):
		return nil, false
	}

	for _, ref := range b.Refs {
		if ref.Access != semantic.Write {
			continue
		}
		assign := m.Parent(ref.Node)
		if assign == nil || assign.Kind != syntax.KindAssignmentExpression || ref.Node.Field != "left" {
			return nil, false
		}
		stmt := m.Parent(assign)
		if stmt == nil || stmt.Kind != syntax.KindExpressionStatement || !inSequence(m, stmt) {
			return nil, false
		}
		rhs := assign.ChildByField("right")
		switch {
		case !analysis.HasSideEffects(rhs):
			r.stmts[stmt] = nil
			r.exclude = append(r.exclude, stmt)
		case hoistable(rhs):
			r.stmts[stmt] = assign
		default:
			return nil, false
		}
	}
	return r, true
}

// hoistable reports whether expr can stand alone as a statement. Chained
// assignments are left alone: the inner target may itself be a candidate.
func hoistable(expr *syntax.Node) bool {
	e := analysis.Unparenthesize(expr)
	return analysis.IsStatementExpression(e) && e.Kind != syntax.KindAssignmentExpression
}

func inSequence(m *semantic.Model, stmt *syntax.Node) bool {
	parent := m.Parent(stmt)
	return parent != nil && syntax.IsSequence(parent.Kind)
}

// hoisted returns the statement that keeps the side effects of a removed
// declaration or assignment. holder is the original declarator or assignment;
// n is the rewritten statement containing it.
func hoisted(orig, n, holder *syntax.Node) *syntax.Node {
	var expr *syntax.Node
	if holder.Kind == syntax.KindVariableDeclarator {
		expr = n.Children[orig.IndexOf(holder)].ChildByField("value")
	} else {
		expr = n.Children[orig.IndexOf(holder)].ChildByField("right")
	}
	return expressionStatement(n.Leading, analysis.Unparenthesize(expr))
}

func (p *unusedPlan) statement(c *visitor.Cursor, n *syntax.Node) visitor.Result {
	orig := c.Node()
	holder, ok := p.stmts[orig]
	if !ok {
		return visitor.Unchanged()
	}
	if holder == nil {
		return visitor.Splice()
	}
	return visitor.Splice(hoisted(orig, n, holder))
}

func (p *unusedPlan) declaration(c *visitor.Cursor, n *syntax.Node) visitor.Result {
	orig := c.Node()
	if holder, ok := p.stmts[orig]; ok {
		if holder == nil {
			return visitor.Splice()
		}
		return visitor.Splice(hoisted(orig, n, holder))
	}

	var head, kept, tail []*syntax.Node
	removed := false
	seen := false
	for i, ch := range orig.Children {
		switch {
		case ch.Kind == syntax.KindVariableDeclarator:
			seen = true
			if p.declarators[ch] {
				removed = true
				continue
			}
			kept = append(kept, n.Children[i])
		case ch.IsToken(","):
		case !seen:
			head = append(head, n.Children[i])
		default:
			tail = append(tail, n.Children[i])
		}
	}
	if !removed {
		return visitor.Unchanged()
	}
	if len(kept) == 0 {
		return visitor.Splice()
	}
	first := orig.ChildByField("declarator")
	children := head
	for i, d := range kept {
		if i == 0 {
			d = d.WithLeading(first.Leading)
		} else {
			children = append(children, syntax.Token(",", ""))
			if d.Leading == "" {
				d = d.WithLeading(" ")
			}
		}
		children = append(children, d)
	}
	children = append(children, tail...)
	return visitor.Replace(n.WithChildren(children))
}
