package recipe_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jrewrite/internal/parser"
	"jrewrite/internal/recipe"
	"jrewrite/internal/syntax"
	"jrewrite/internal/visitor"
)

const source = "class A {\n    int x;\n}\n"

// renamer rewrites identifiers through fn; fn returns "" to keep a name.
func renamer(name string, fn func(string) string) recipe.Recipe {
	return recipe.Single(recipe.Descriptor{Name: name}, func() *visitor.Visitor {
		return &visitor.Visitor{
			Name: name,
			Exit: map[syntax.Kind]visitor.Handler{
				syntax.KindIdentifier: func(c *visitor.Cursor, n *syntax.Node) visitor.Result {
					if to := fn(n.Text); to != "" {
						return visitor.Replace(n.WithText(to))
					}
					return visitor.Unchanged()
				},
			},
		}
	})
}

func rename(from, to string) func(string) string {
	return func(s string) string {
		if s == from {
			return to
		}
		return ""
	}
}

func newRunner(t *testing.T) *recipe.Runner {
	t.Helper()
	p, err := parser.NewParser("java")
	require.NoError(t, err)
	return recipe.NewRunner(p, nil)
}

func run(t *testing.T, rec recipe.Recipe) (*recipe.Result, error) {
	t.Helper()
	return newRunner(t).Run(context.Background(), rec, recipe.Source{Path: "A.java", Text: []byte(source)})
}

func TestRunner_Apply(t *testing.T) {
	res, err := run(t, renamer("Rename", rename("x", "y")))
	require.NoError(t, err)
	assert.True(t, res.Changed())
	assert.Equal(t, "class A {\n    int y;\n}\n", res.After)
	require.Len(t, res.Edits, 1)
	assert.Equal(t, "Rename", res.Edits[0].Pass)
	require.Len(t, res.Passes, 1)
	assert.Equal(t, recipe.PassCompleted, res.Passes[0].State)
	assert.Equal(t, 1, res.Passes[0].Edits)
}

func TestRunner_NoOp(t *testing.T) {
	res, err := run(t, renamer("Rename", rename("missing", "y")))
	require.NoError(t, err)
	assert.False(t, res.Changed())
	assert.Equal(t, source, res.After)
	assert.Empty(t, res.Edits)
}

func TestRunner_ChainSeesPreviousPass(t *testing.T) {
	chain := recipe.Chain(recipe.Descriptor{Name: "Both"},
		renamer("First", rename("x", "y")),
		renamer("Second", rename("y", "z")),
	)
	res, err := run(t, chain)
	require.NoError(t, err)
	assert.Equal(t, "class A {\n    int z;\n}\n", res.After)
	require.Len(t, res.Passes, 2)
	assert.Equal(t, "First", res.Passes[0].Name)
	assert.Equal(t, "Second", res.Passes[1].Name)
	assert.Equal(t, 1, res.Passes[1].Edits)
}

func TestRunner_NotIdempotent(t *testing.T) {
	grow := renamer("Grow", func(s string) string {
		if s[0] == 'x' {
			return s + "x"
		}
		return ""
	})
	_, err := run(t, grow)
	var re *recipe.Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, recipe.NotIdempotent, re.Kind)
	assert.Equal(t, "Grow", re.Recipe)
	assert.Equal(t, "A.java", re.Unit)
	assert.Equal(t, 2, re.Line)

	p, perr := parser.NewParser("java")
	require.NoError(t, perr)
	lax := recipe.NewRunner(p, nil, recipe.WithIdempotenceCheck(false))
	res, err := lax.Run(context.Background(), grow, recipe.Source{Path: "A.java", Text: []byte(source)})
	require.NoError(t, err)
	assert.Equal(t, "class A {\n    int xx;\n}\n", res.After)
}

func TestRunner_InvariantViolation(t *testing.T) {
	_, err := run(t, renamer("Break", rename("x", "(")))
	var re *recipe.Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, recipe.InvariantViolation, re.Kind)
	assert.Contains(t, re.Error(), "recipe Break: A.java:")
}

func TestRunner_HandlerFailure(t *testing.T) {
	cause := errors.New("boom")
	rec := recipe.Single(recipe.Descriptor{Name: "Fail"}, func() *visitor.Visitor {
		return &visitor.Visitor{
			Name: "Fail",
			Exit: map[syntax.Kind]visitor.Handler{
				syntax.KindIdentifier: func(c *visitor.Cursor, n *syntax.Node) visitor.Result {
					if n.Text == "x" {
						return visitor.Fail(cause)
					}
					return visitor.Unchanged()
				},
			},
		}
	})
	res, err := run(t, rec)
	var re *recipe.Error
	require.True(t, errors.As(err, &re))
	assert.Equal(t, recipe.InternalError, re.Kind)
	assert.Equal(t, 2, re.Line)
	assert.Equal(t, 9, re.Column)
	assert.ErrorIs(t, err, cause)
	require.NotNil(t, res)
	assert.Equal(t, recipe.PassVisiting, res.Passes[0].State)
}

func TestRunner_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newRunner(t).Run(ctx, renamer("Rename", rename("x", "y")), recipe.Source{Path: "A.java", Text: []byte(source)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistry(t *testing.T) {
	reg := recipe.NewRegistry()
	desc := recipe.Descriptor{
		Name:    "Rename",
		Options: []recipe.OptionSpec{{Name: "to", Default: "y"}},
	}
	require.NoError(t, reg.Register(desc, func(o recipe.Options) (recipe.Recipe, error) {
		return renamer("Rename", rename("x", o.String("to", "y"))), nil
	}))
	assert.Error(t, reg.Register(desc, nil))
	require.NoError(t, reg.Register(recipe.Descriptor{Name: "Another"}, func(recipe.Options) (recipe.Recipe, error) {
		return renamer("Another", rename("a", "b")), nil
	}))

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Another", list[0].Name)
	assert.Equal(t, "Rename", list[1].Name)

	rec, err := reg.New("Rename", recipe.NewOptions(map[string]string{"to": "w"}))
	require.NoError(t, err)
	res, err := newRunner(t).Run(context.Background(), rec, recipe.Source{Path: "A.java", Text: []byte(source)})
	require.NoError(t, err)
	assert.Contains(t, res.After, "int w;")
	assert.Equal(t, "Rename?to=w", recipe.Fingerprint(rec))
	assert.Equal(t, "Another", recipe.Fingerprint(renamer("Another", rename("a", "b"))))

	_, err = reg.New("Rename", recipe.NewOptions(map[string]string{"bogus": "1"}))
	assert.ErrorContains(t, err, "unknown option(s) bogus")
	_, err = reg.New("Nope", recipe.Options{})
	assert.ErrorContains(t, err, "unknown recipe Nope")
}

func TestOptions(t *testing.T) {
	opts, err := recipe.ParseOptions([]string{"flag=true", "n= 3", "names=a, b,,c"})
	require.NoError(t, err)

	b, err := opts.Bool("flag", false)
	require.NoError(t, err)
	assert.True(t, b)
	b, err = opts.Bool("unset", true)
	require.NoError(t, err)
	assert.True(t, b)

	n, err := opts.Int("n", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	_, err = opts.Int("flag", 0)
	assert.Error(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, opts.Strings("names"))
	assert.Nil(t, opts.Strings("unset"))
	assert.Equal(t, "flag=true;n= 3;names=a, b,,c", opts.Fingerprint())

	_, err = recipe.ParseOptions([]string{"novalue"})
	assert.Error(t, err)
}
