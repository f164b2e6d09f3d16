package analysis

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jrewrite/internal/parser"
	"jrewrite/internal/semantic"
	"jrewrite/internal/syntax"
)

func annotate(t *testing.T, src string) (*syntax.Unit, *semantic.Model) {
	t.Helper()
	p, err := parser.NewParser("java")
	require.NoError(t, err)
	u, err := p.Parse(context.Background(), "T.java", []byte(src))
	require.NoError(t, err)
	return u, semantic.Annotate(u, nil)
}

func all(root *syntax.Node, kind syntax.Kind) []*syntax.Node {
	var out []*syntax.Node
	syntax.Walk(root, func(n *syntax.Node) bool {
		if n.Kind == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}

const literalsSrc = `class T { void m() { f(16, 0x10, 0_20, 0b1_0000, 16L, "A", "\u0041", 'A', '\101', 1.5, 15e-1, 1.5f); } }`

func literals(t *testing.T) ([]*syntax.Node, *semantic.Model) {
	t.Helper()
	u, m := annotate(t, literalsSrc)
	args := all(u.Root, syntax.KindArgumentList)
	require.Len(t, args, 1)
	lit := args[0].NamedChildren()
	require.Len(t, lit, 12)
	return lit, m
}

func TestEquivalent_Literals(t *testing.T) {
	lit, m := literals(t)

	opts := Options{Model: m}
	eq := func(i, j int) bool { return Equivalent(lit[i], lit[j], opts) }
	assert.True(t, eq(0, 1), "decimal vs hex")
	assert.True(t, eq(0, 2), "octal")
	assert.True(t, eq(0, 3), "binary with underscores")
	assert.False(t, eq(0, 4), "long suffix is significant")
	assert.True(t, eq(5, 6), "unicode escape")
	assert.True(t, eq(7, 8), "octal escape")
	assert.True(t, eq(9, 10), "exponent form")
	assert.False(t, eq(9, 11), "float vs double")
}

const catchesSrc = `class T {
    int f;
    void m(int a, int b) {
        try {
            run();
        } catch (IllegalStateException e) {
            int n = a;
            log(e, n, f);
        } catch (IllegalArgumentException ex) {
            int k = a;
            log(ex, k, f);
        } catch (RuntimeException r) {
            int n = b;
            log(r, n, f);
        }
    }
}`

func catchParam(m *semantic.Model, c *syntax.Node) *semantic.Binding {
	p := c.FirstChildOfKind(syntax.KindCatchFormalParameter)
	return m.Declared(p.ChildByField("name"))
}

func TestEquivalent_Bindings(t *testing.T) {
	u, m := annotate(t, catchesSrc)
	catches := all(u.Root, syntax.KindCatchClause)
	require.Len(t, catches, 3)
	param := func(c *syntax.Node) *semantic.Binding { return catchParam(m, c) }
	body := func(c *syntax.Node) *syntax.Node { return c.ChildByField("body") }

	aliased := Options{Model: m, Aliases: map[*semantic.Binding]*semantic.Binding{param(catches[0]): param(catches[1])}}
	assert.True(t, Equivalent(body(catches[0]), body(catches[1]), aliased))
	assert.True(t, Equivalent(body(catches[1]), body(catches[0]), aliased), "symmetric")
	assert.True(t, Equivalent(body(catches[0]), body(catches[0]), Options{Model: m}), "reflexive")

	assert.False(t, Equivalent(body(catches[0]), body(catches[1]), Options{Model: m}), "parameters differ without alias")

	aliased = Options{Model: m, Aliases: map[*semantic.Binding]*semantic.Binding{param(catches[0]): param(catches[2])}}
	assert.False(t, Equivalent(body(catches[0]), body(catches[2]), aliased), "a and b are different parameters")
}

func TestEquivalent_ReflexiveAndSymmetric(t *testing.T) {
	t.Run("Literals", func(t *testing.T) {
		lit, m := literals(t)
		opts := Options{Model: m}
		for i := range lit {
			assert.True(t, Equivalent(lit[i], lit[i], opts), lit[i].Content())
			for j := range lit {
				assert.Equal(t, Equivalent(lit[i], lit[j], opts), Equivalent(lit[j], lit[i], opts),
					"%s vs %s", lit[i].Content(), lit[j].Content())
			}
		}
	})

	t.Run("Bindings", func(t *testing.T) {
		u, m := annotate(t, catchesSrc)
		catches := all(u.Root, syntax.KindCatchClause)
		require.Len(t, catches, 3)
		for i, ci := range catches {
			bi := ci.ChildByField("body")
			assert.True(t, Equivalent(bi, bi, Options{Model: m}), "clause %d", i)
			for j, cj := range catches {
				bj := cj.ChildByField("body")
				pi, pj := catchParam(m, ci), catchParam(m, cj)
				forward := Equivalent(bi, bj, Options{Model: m, Aliases: map[*semantic.Binding]*semantic.Binding{pi: pj}})
				backward := Equivalent(bj, bi, Options{Model: m, Aliases: map[*semantic.Binding]*semantic.Binding{pj: pi}})
				assert.Equal(t, forward, backward, "clauses %d and %d", i, j)
				assert.Equal(t, Equivalent(bi, bj, Options{Model: m}), Equivalent(bj, bi, Options{Model: m}),
					"clauses %d and %d without aliases", i, j)
			}
		}
	})
}

func TestUsage(t *testing.T) {
	src := `class T {
    void m() {
        int x = 0;
        x = 1;
        x += 2;
        if (x > 0) { use(x); }
    }
}`
	u, m := annotate(t, src)
	var x *semantic.Binding
	for _, b := range m.Bindings() {
		if b.Name == "x" {
			x = b
		}
	}
	require.NotNil(t, x)

	use := Usage(x, nil)
	assert.Len(t, use.Reads, 3)
	assert.Len(t, use.Writes, 2)

	ifs := all(u.Root, syntax.KindIfStatement)
	require.Len(t, ifs, 1)
	use = Usage(x, ifs)
	assert.Len(t, use.Reads, 1)
	assert.True(t, IsRead(x, ifs))
}

func TestSideEffects(t *testing.T) {
	src := `class T { void m(int a, int[] arr) { g(1, a + 2, call(), new Object(), a = 3, a++, (String) null, arr[0], () -> call(), -a); } }`
	u, _ := annotate(t, src)
	args := all(u.Root, syntax.KindArgumentList)[0].NamedChildren()
	require.Len(t, args, 10)
	want := []bool{false, false, true, true, true, true, false, false, false, false}
	for i, a := range args {
		assert.Equal(t, want[i], HasSideEffects(a), a.Content())
	}
	assert.True(t, IsStatementExpression(args[2]))
	assert.True(t, IsStatementExpression(args[3]))
	assert.False(t, IsStatementExpression(args[1]))
}

func TestNegate(t *testing.T) {
	src := `class T {
    void m(int i, long l, double d, Integer boxed, Object o, boolean flag, Unknown u) {
        if (i == 0) {}
        if (o != null) {}
        if (i < l) {}
        if (boxed >= 3) {}
        if (d < 1.0) {}
        if (!flag) {}
        if (!(i > 2 && flag)) {}
        if (flag && i > 0) {}
        if (u.size() > 0) {}
        if (flag) {}
    }
}`
	u, m := annotate(t, src)
	ifs := all(u.Root, syntax.KindIfStatement)
	require.Len(t, ifs, 10)

	want := []string{"i != 0", "o == null", "i >= l", "boxed < 3", "", "flag", "i > 2 && flag", "", "", ""}
	for i, stmt := range ifs {
		cond := stmt.ChildByField("condition")
		got, ok := Negate(m, cond)
		if want[i] == "" {
			assert.False(t, ok, cond.Content())
			continue
		}
		require.True(t, ok, cond.Content())
		assert.Equal(t, want[i], strings.TrimSpace(got.Source()))
	}
}
