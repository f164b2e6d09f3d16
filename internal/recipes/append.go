package recipes

import (
	"jrewrite/internal/analysis"
	"jrewrite/internal/recipe"
	"jrewrite/internal/semantic"
	"jrewrite/internal/syntax"
	"jrewrite/internal/visitor"
)

var appendDescriptor = recipe.Descriptor{
	Name:        "ChainStringBuilderAppendCalls",
	DisplayName: "Chain StringBuilder.append() calls",
	Description: "Replaces String concatenation in the argument of StringBuilder.append() with chained append() calls.",
}

// ChainStringBuilderAppendCalls turns sb.append("A" + x + "B") into
// sb.append("A").append(x).append("B").
func ChainStringBuilderAppendCalls() recipe.Recipe {
	return recipe.Single(appendDescriptor, func() *visitor.Visitor {
		return &visitor.Visitor{
			Name: appendDescriptor.Name,
			Exit: map[syntax.Kind]visitor.Handler{
				syntax.KindMethodInvocation: chainAppend,
			},
		}
	})
}

func isBuilder(t semantic.Type) bool {
	return t.Is("java.lang.StringBuilder") || t.Is("java.lang.StringBuffer")
}

func chainAppend(c *visitor.Cursor, n *syntax.Node) visitor.Result {
	orig := c.Node()
	name := orig.ChildByField("name")
	obj := orig.ChildByField("object")
	args := orig.ChildByField("arguments")
	if name == nil || name.Text != "append" || obj == nil || args == nil {
		return visitor.Unchanged()
	}
	// The argument is analyzed on the original tree; only the receiver may have
	// been rewritten below us.
	if n.ChildByField("arguments") != args {
		return visitor.Unchanged()
	}
	m := c.Model()
	if !isBuilder(m.TypeOf(obj)) {
		return visitor.Unchanged()
	}
	list := args.NamedChildren()
	if len(list) != 1 || !isConcat(list[0]) {
		return visitor.Unchanged()
	}
	groups, ok := appendGroups(m, concatOperands(list[0]))
	if !ok || len(groups) < 2 {
		return visitor.Unchanged()
	}

	cur := n.WithChild(n.IndexOf(n.ChildByField("arguments")), argumentList(groups[0]))
	for _, g := range groups[1:] {
		cur = syntax.NewNode(syntax.KindMethodInvocation, cur.Leading,
			cur.WithLeading("").WithField("object"),
			syntax.Token(".", ""),
			syntax.Leaf(syntax.KindIdentifier, "append", "").WithField("name"),
			argumentList(g).WithField("arguments"),
		)
	}
	return visitor.Replace(cur)
}

func isConcat(n *syntax.Node) bool {
	if n.Kind != syntax.KindBinaryExpression {
		return false
	}
	op := n.ChildByField("operator")
	return op != nil && op.Text == "+"
}

// concatOperands flattens the left-associative spine of a + chain.
func concatOperands(n *syntax.Node) []*syntax.Node {
	if !isConcat(n) {
		return []*syntax.Node{n}
	}
	return append(concatOperands(n.ChildByField("left")), n.ChildByField("right"))
}

// appendGroups splits concatenation operands into the arguments of successive
// append calls. Operands up to the first String stay together since the sum
// before it is numeric. Adjacent literals after it are kept in one group.
func appendGroups(m *semantic.Model, ops []*syntax.Node) ([]*syntax.Node, bool) {
	first := -1
	for i, op := range ops {
		t := m.TypeOf(op)
		if !t.Known() || t.Kind == semantic.TypeNull || t.Kind == semantic.TypeVoid || t.IsArray() {
			return nil, false
		}
		if first < 0 && t.IsString() {
			first = i
		}
	}
	if first < 0 {
		return nil, false
	}

	type group struct {
		ops      []*syntax.Node
		literals bool
	}
	allLiteral := func(ops []*syntax.Node) bool {
		for _, op := range ops {
			if !syntax.IsLiteral(op.Kind) {
				return false
			}
		}
		return true
	}
	groups := []group{{ops: ops[:first+1:first+1], literals: allLiteral(ops[:first+1])}}
	for _, op := range ops[first+1:] {
		last := &groups[len(groups)-1]
		if syntax.IsLiteral(op.Kind) && last.literals {
			last.ops = append(last.ops, op)
			continue
		}
		groups = append(groups, group{ops: []*syntax.Node{op}, literals: syntax.IsLiteral(op.Kind)})
	}

	out := make([]*syntax.Node, len(groups))
	for i, g := range groups {
		out[i] = joinConcat(g.ops)
	}
	return out, true
}

func joinConcat(ops []*syntax.Node) *syntax.Node {
	if len(ops) == 1 {
		return analysis.Unparenthesize(ops[0]).WithLeading("")
	}
	acc := ops[0].WithLeading("")
	for _, op := range ops[1:] {
		acc = syntax.NewNode(syntax.KindBinaryExpression, "",
			acc.WithField("left"),
			syntax.Token("+", " ").WithField("operator"),
			op.WithLeading(" ").WithField("right"),
		)
	}
	return acc
}
