package recipes

import (
	"jrewrite/internal/recipe"
	"jrewrite/internal/semantic"
	"jrewrite/internal/syntax"
	"jrewrite/internal/visitor"
)

var thisDescriptor = recipe.Descriptor{
	Name:        "RemoveRedundantThisQualifier",
	DisplayName: "Remove redundant this qualifiers",
	Description: "Rewrites this.x to x where the simple name refers to the same field.",
}

// RemoveRedundantThisQualifier drops this. from field accesses that no local
// or parameter shadows.
func RemoveRedundantThisQualifier() recipe.Recipe {
	return recipe.Single(thisDescriptor, func() *visitor.Visitor {
		return &visitor.Visitor{
			Name: thisDescriptor.Name,
			Exit: map[syntax.Kind]visitor.Handler{
				syntax.KindFieldAccess: unqualifyThis,
			},
		}
	})
}

func unqualifyThis(c *visitor.Cursor, n *syntax.Node) visitor.Result {
	orig := c.Node()
	obj := orig.ChildByField("object")
	field := orig.ChildByField("field")
	if obj == nil || field == nil || obj.Kind != syntax.KindThis || field.Kind != syntax.KindIdentifier {
		return visitor.Unchanged()
	}
	m := c.Model()
	res := m.Resolve(field)
	if !res.OK() || res.Binding.Kind != semantic.BindingField {
		return visitor.Unchanged()
	}
	plain := m.LookupAt(c.Scope(), field.Text, orig.Span.Start)
	if !plain.OK() || plain.Binding != res.Binding || forwardReference(m, orig, res.Binding) {
		return visitor.Unchanged()
	}
	return visitor.Replace(syntax.Leaf(syntax.KindIdentifier, field.Text, n.Leading))
}

// forwardReference reports whether access sits in an initializer of the
// field's own class before the field's declarator ends. The simple name is
// illegal there.
func forwardReference(m *semantic.Model, access *syntax.Node, field *semantic.Binding) bool {
	if field.Decl == nil || field.Decl.Span.End <= access.Span.Start {
		return false
	}
	member := access
	for p := m.Parent(access); p != nil; member, p = p, m.Parent(p) {
		switch p.Kind {
		case syntax.KindClassBody, syntax.KindEnumBodyDeclarations, syntax.KindInterfaceBody:
			if m.ScopeAt(p) != field.Scope {
				return false
			}
			return member.Is(syntax.KindFieldDeclaration, syntax.KindBlock, syntax.KindStaticInitializer)
		}
	}
	return false
}
