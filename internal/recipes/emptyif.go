package recipes

import (
	"jrewrite/internal/analysis"
	"jrewrite/internal/recipe"
	"jrewrite/internal/syntax"
	"jrewrite/internal/visitor"
)

var emptyIfDescriptor = recipe.Descriptor{
	Name:        "SimplifyEmptyIfThen",
	DisplayName: "Simplify if statements with an empty then branch",
	Description: "Rewrites if (c) {} else { body } to if (!c) { body } when the condition can be negated without adding an operator.",
}

// SimplifyEmptyIfThen inverts if statements whose then branch is an empty
// block.
func SimplifyEmptyIfThen() recipe.Recipe {
	return recipe.Single(emptyIfDescriptor, func() *visitor.Visitor {
		return &visitor.Visitor{
			Name: emptyIfDescriptor.Name,
			Exit: map[syntax.Kind]visitor.Handler{
				syntax.KindIfStatement: simplifyEmptyIf,
			},
		}
	})
}

func simplifyEmptyIf(c *visitor.Cursor, n *syntax.Node) visitor.Result {
	cond := n.ChildByField("condition")
	then := n.ChildByField("consequence")
	alt := n.ChildByField("alternative")
	if cond == nil || alt == nil || cond.Kind != syntax.KindParenthesized || !isEmptyBlock(then) {
		return visitor.Unchanged()
	}
	// An else-if would move its own else into a dangling position.
	if alt.Kind == syntax.KindIfStatement || (alt.Kind == syntax.KindBlock && len(statements(alt)) == 0) {
		return visitor.Unchanged()
	}
	elseTok := n.FirstChildOfKind("else")
	if elseTok == nil || !syntax.IsBlank(elseTok.Leading) || !syntax.IsBlank(alt.Leading) {
		return visitor.Unchanged()
	}
	inner := cond.NamedChildren()
	if len(inner) != 1 {
		return visitor.Unchanged()
	}
	neg, ok := analysis.Negate(c.Model(), inner[0])
	if !ok {
		return visitor.Unchanged()
	}

	children := make([]*syntax.Node, 0, len(n.Children))
	for _, ch := range n.Children {
		switch ch {
		case cond:
			children = append(children, cond.WithChild(cond.IndexOf(inner[0]), neg))
		case then:
			children = append(children, alt.WithLeading(then.Leading).WithField("consequence"))
		case elseTok, alt:
		default:
			children = append(children, ch)
		}
	}
	return visitor.Replace(n.WithChildren(children))
}
