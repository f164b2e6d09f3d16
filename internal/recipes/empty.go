package recipes

import (
	"jrewrite/internal/recipe"
	"jrewrite/internal/syntax"
	"jrewrite/internal/visitor"
)

var emptyDescriptor = recipe.Descriptor{
	Name:        "RemoveEmptyStatements",
	DisplayName: "Remove empty statements",
	Description: "Removes stray semicolons and gives empty loop bodies a block.",
	Options: []recipe.OptionSpec{{
		Name:        "allowEmptyLoopBody",
		Description: "Leave loops whose body is a lone semicolon alone.",
		Default:     "false",
	}},
}

// RemoveEmptyStatements removes empty statements from blocks and type bodies.
// A loop whose body is an empty statement gets {} instead unless
// allowEmptyLoopBody is set.
func RemoveEmptyStatements(allowEmptyLoopBody bool) recipe.Recipe {
	return recipe.Single(emptyDescriptor, func() *visitor.Visitor {
		return &visitor.Visitor{
			Name: emptyDescriptor.Name,
			Exit: map[syntax.Kind]visitor.Handler{
				syntax.KindEmptyStatement: func(c *visitor.Cursor, n *syntax.Node) visitor.Result {
					return removeEmpty(c, n, allowEmptyLoopBody)
				},
			},
		}
	})
}

func removeEmpty(c *visitor.Cursor, n *syntax.Node, allowLoop bool) visitor.Result {
	parent := c.Parent()
	if parent == nil || n.Named {
		return visitor.Unchanged()
	}
	switch parent.Kind {
	case syntax.KindBlock, syntax.KindConstructorBody, syntax.KindSwitchBlockGroup,
		syntax.KindClassBody, syntax.KindInterfaceBody:
		if !syntax.IsBlank(n.Leading) {
			return visitor.Unchanged()
		}
		return visitor.Splice()
	case syntax.KindWhileStatement, syntax.KindForStatement, syntax.KindEnhancedForStatement, syntax.KindDoStatement:
		if allowLoop || n.Field != "body" {
			return visitor.Unchanged()
		}
		leading := n.Leading
		if leading == "" {
			leading = " "
		}
		return visitor.Replace(emptyBlock(leading))
	}
	return visitor.Unchanged()
}
