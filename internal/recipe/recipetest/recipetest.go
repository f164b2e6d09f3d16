// Package recipetest checks recipes against expected source text.
package recipetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jrewrite/internal/parser"
	"jrewrite/internal/recipe"
	"jrewrite/internal/semantic"
)

// Unit is one source file of a test case. An empty After means the recipe
// must leave the file unchanged.
type Unit struct {
	Path   string
	Before string
	After  string
}

// Run applies rec to a single unit and asserts the exact output.
func Run(t testing.TB, rec recipe.Recipe, before, after string) {
	t.Helper()
	RunUnits(t, rec, []Unit{{Path: "Test.java", Before: before, After: after}})
}

// RunUnits applies rec to every unit against one shared index and asserts the
// exact output of each. Every output is fed through rec a second time and must
// come back unchanged.
func RunUnits(t testing.TB, rec recipe.Recipe, units []Unit) {
	t.Helper()
	ctx := context.Background()
	p, err := parser.NewParser("java")
	require.NoError(t, err)

	b := semantic.NewIndexBuilder()
	for _, u := range units {
		parsed, err := p.Parse(ctx, u.Path, []byte(u.Before))
		require.NoError(t, err, u.Path)
		b.AddUnit(parsed)
	}
	runner := recipe.NewRunner(p, nil, recipe.WithIndex(b.Build()))

	for _, u := range units {
		res, err := runner.Run(ctx, rec, recipe.Source{Path: u.Path, Text: []byte(u.Before)})
		require.NoError(t, err, u.Path)
		want := u.After
		if want == "" {
			want = u.Before
		}
		assert.Equal(t, want, res.After, u.Path)

		again, err := runner.Run(ctx, rec, recipe.Source{Path: u.Path, Text: []byte(res.After)})
		require.NoError(t, err, u.Path)
		assert.Equal(t, res.After, again.After, "%s: second application changed the output", u.Path)
	}
}
