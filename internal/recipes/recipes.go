// Package recipes holds the built-in rewrite recipes.
package recipes

import (
	"fmt"

	"jrewrite/internal/recipe"
	"jrewrite/internal/syntax"
)

type builtin struct {
	desc    recipe.Descriptor
	factory recipe.Factory
}

func builtins() []builtin {
	return []builtin{
		{appendDescriptor, func(recipe.Options) (recipe.Recipe, error) { return ChainStringBuilderAppendCalls(), nil }},
		{catchDescriptor, func(recipe.Options) (recipe.Recipe, error) { return CombineSemanticallyEqualCatchBlocks(), nil }},
		{unusedDescriptor, func(o recipe.Options) (recipe.Recipe, error) {
			return RemoveUnusedLocalVariables(o.Strings("ignoreVariablesNamed")...), nil
		}},
		{emptyIfDescriptor, func(recipe.Options) (recipe.Recipe, error) { return SimplifyEmptyIfThen(), nil }},
		{thisDescriptor, func(recipe.Options) (recipe.Recipe, error) { return RemoveRedundantThisQualifier(), nil }},
		{emptyDescriptor, func(o recipe.Options) (recipe.Recipe, error) {
			allow, err := o.Bool("allowEmptyLoopBody", false)
			if err != nil {
				return nil, err
			}
			return RemoveEmptyStatements(allow), nil
		}},
		{cleanupDescriptor, func(recipe.Options) (recipe.Recipe, error) { return Cleanup(), nil }},
	}
}

// Register adds every built-in recipe to r.
func Register(r *recipe.Registry) error {
	for _, b := range builtins() {
		if err := r.Register(b.desc, b.factory); err != nil {
			return fmt.Errorf("failed to register built-in recipes: %w", err)
		}
	}
	return nil
}

// Default returns a registry holding the built-in recipes.
func Default() *recipe.Registry {
	r := recipe.NewRegistry()
	if err := Register(r); err != nil {
		panic(err)
	}
	return r
}

// Helpers shared by the recipes for building nodes.

func argumentList(arg *syntax.Node) *syntax.Node {
	return syntax.NewNode(syntax.KindArgumentList, "",
		syntax.Token("(", ""), arg.WithLeading("").WithField(""), syntax.Token(")", ""))
}

func emptyBlock(leading string) *syntax.Node {
	return syntax.NewNode(syntax.KindBlock, leading, syntax.Token("{", ""), syntax.Token("}", ""))
}

func expressionStatement(leading string, expr *syntax.Node) *syntax.Node {
	return syntax.NewNode(syntax.KindExpressionStatement, leading, expr.WithLeading("").WithField(""), syntax.Token(";", ""))
}

// statements returns the statements of a block, without the braces.
func statements(block *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, c := range block.Children {
		if c.IsToken("{") || c.IsToken("}") {
			continue
		}
		out = append(out, c)
	}
	return out
}

// isEmptyBlock reports whether n is a block with no statements and no comments.
func isEmptyBlock(n *syntax.Node) bool {
	if n == nil || n.Kind != syntax.KindBlock || len(statements(n)) > 0 {
		return false
	}
	for _, c := range n.Children {
		if !syntax.IsBlank(c.Leading) && c.IsToken("}") {
			return false
		}
	}
	return true
}
