package semantic

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jrewrite/internal/parser"
	"jrewrite/internal/syntax"
)

const shapesSrc = `package demo;

import java.io.IOException;

public class Shapes extends Base {
    private int count;
    private static int total;
    private String name;

    void run(int count) {
        int x = count;
        this.count = x;
        int y;
        y = 1;
        y += 2;
        String s = "a" + x;
        var sb = new StringBuilder();
        sb.append(s).append(x);
        System.out.println(name);
        missing = 3;
        int later = early;
        int early = 0;
    }

    static void helper() {
        int z = total;
        z++;
        int w = count;
    }

    class Inner {
        int read() { return count + 1; }
    }

    static class Nested {
        int read() { return count - 1; }
    }
}

class Base {
    protected int inherited;
}

class Orphan extends Unknown {
    void m() { int k = inherited; }
}
`

func parse(t *testing.T, src string) *syntax.Unit {
	t.Helper()
	p, err := parser.NewParser("java")
	require.NoError(t, err)
	u, err := p.Parse(context.Background(), "Shapes.java", []byte(src))
	require.NoError(t, err)
	return u
}

// nodeAt finds the identifier name inside the first occurrence of marker.
func nodeAt(t *testing.T, u *syntax.Unit, marker, name string) *syntax.Node {
	t.Helper()
	src := string(u.Source)
	i := strings.Index(src, marker)
	require.GreaterOrEqual(t, i, 0, "marker %q", marker)
	j := strings.Index(marker, name)
	require.GreaterOrEqual(t, j, 0, "name %q in marker %q", name, marker)
	offset := i + j
	var found *syntax.Node
	syntax.Walk(u.Root, func(n *syntax.Node) bool {
		if found == nil && n.Kind == syntax.KindIdentifier && n.Span.Start == offset {
			found = n
		}
		return found == nil
	})
	require.NotNil(t, found, "identifier %q at %q", name, marker)
	return found
}

// exprAt finds the outermost node of kind starting at marker.
func exprAt(t *testing.T, u *syntax.Unit, marker string, kind syntax.Kind) *syntax.Node {
	t.Helper()
	offset := strings.Index(string(u.Source), marker)
	require.GreaterOrEqual(t, offset, 0)
	var found *syntax.Node
	syntax.Walk(u.Root, func(n *syntax.Node) bool {
		if found == nil && n.Kind == kind && n.Span.Start == offset {
			found = n
		}
		return found == nil
	})
	require.NotNil(t, found, "%s at %q", kind, marker)
	return found
}

func TestAnnotate_Resolution(t *testing.T) {
	u := parse(t, shapesSrc)
	m := Annotate(u, nil)

	t.Run("Parameter shadows field", func(t *testing.T) {
		res := m.Resolve(nodeAt(t, u, "int x = count", "count"))
		require.True(t, res.OK())
		assert.Equal(t, BindingParameter, res.Binding.Kind)
	})

	t.Run("This qualifies the field", func(t *testing.T) {
		res := m.Resolve(nodeAt(t, u, "this.count = x", "count"))
		require.True(t, res.OK())
		assert.Equal(t, BindingField, res.Binding.Kind)
		assert.Equal(t, "demo.Shapes", res.Binding.Owner)
	})

	t.Run("Static method sees static field only", func(t *testing.T) {
		res := m.Resolve(nodeAt(t, u, "int z = total", "total"))
		require.True(t, res.OK())
		assert.True(t, res.Binding.Static)

		res = m.Resolve(nodeAt(t, u, "int w = count", "count"))
		assert.Equal(t, Unresolved, res.State)
	})

	t.Run("Inner class sees outer instance field", func(t *testing.T) {
		res := m.Resolve(nodeAt(t, u, "return count + 1", "count"))
		require.True(t, res.OK())
		assert.Equal(t, "demo.Shapes", res.Binding.Owner)
	})

	t.Run("Static nested class does not", func(t *testing.T) {
		res := m.Resolve(nodeAt(t, u, "return count - 1", "count"))
		assert.Equal(t, Unresolved, res.State)
	})

	t.Run("Missing supertype makes names indeterminate", func(t *testing.T) {
		res := m.Resolve(nodeAt(t, u, "int k = inherited", "inherited"))
		assert.Equal(t, StateTypeUnknown, res.State)
		assert.Nil(t, res.Binding)
	})

	t.Run("Unknown names stay unresolved", func(t *testing.T) {
		res := m.Resolve(nodeAt(t, u, "missing = 3", "missing"))
		assert.Equal(t, Unresolved, res.State)
	})

	t.Run("Locals are visible after their declaration", func(t *testing.T) {
		res := m.Resolve(nodeAt(t, u, "int later = early", "early"))
		assert.Equal(t, Unresolved, res.State)
	})
}

func TestAnnotate_Refs(t *testing.T) {
	u := parse(t, shapesSrc)
	m := Annotate(u, nil)

	y := m.Declared(nodeAt(t, u, "int y;", "y"))
	require.NotNil(t, y)
	assert.Equal(t, BindingLocal, y.Kind)
	assert.Equal(t, 1, y.Reads(), "compound assignment reads")
	assert.Equal(t, 2, y.Writes())

	z := m.Declared(nodeAt(t, u, "int z = total", "z"))
	require.NotNil(t, z)
	assert.Equal(t, 1, z.Reads(), "increment reads")
	assert.Equal(t, 1, z.Writes())

	count := m.Declared(nodeAt(t, u, "private int count;", "count"))
	require.NotNil(t, count)
	assert.Equal(t, 1, count.Writes())
	assert.Equal(t, 1, count.Reads(), "only Inner.read reads the field")

	name := m.Declared(nodeAt(t, u, "private String name;", "name"))
	require.NotNil(t, name)
	assert.Equal(t, StringType, name.Type)
	assert.Equal(t, 1, name.Reads())
}

func TestAnnotate_Types(t *testing.T) {
	u := parse(t, shapesSrc)
	m := Annotate(u, nil)

	sb := m.Declared(nodeAt(t, u, "var sb", "sb"))
	require.NotNil(t, sb)
	assert.True(t, sb.Type.Is("java.lang.StringBuilder"), "var infers %s", sb.Type)

	concat := exprAt(t, u, `"a" + x`, syntax.KindBinaryExpression)
	assert.True(t, m.TypeOf(concat).IsString())

	chain := exprAt(t, u, "sb.append(s).append(x)", syntax.KindMethodInvocation)
	assert.True(t, m.TypeOf(chain).Is("java.lang.StringBuilder"))

	out := exprAt(t, u, "System.out", syntax.KindFieldAccess)
	assert.True(t, m.TypeOf(out).Is("java.io.PrintStream"))

	x := nodeAt(t, u, "this.count = x", "x")
	assert.Equal(t, Int, m.TypeOf(x))
}

func TestAnnotate_Tainted(t *testing.T) {
	u := parse(t, "class A {\n    void m() {\n        int a = 1;\n        int b = ;\n    }\n\n    void n() {\n        int c = 2;\n    }\n}\n")
	m := Annotate(u, nil)

	var a, c *Binding
	for _, b := range m.Bindings() {
		switch b.Name {
		case "a":
			a = b
		case "c":
			c = b
		}
	}
	require.NotNil(t, a)
	require.NotNil(t, c)
	assert.True(t, m.Tainted(a))
	assert.False(t, m.Tainted(c))
}

func TestModel_SoleMethod(t *testing.T) {
	src := `class A extends B {
    void m() {
        one(null);
        two(null);
        base(null);
        toString();
    }

    void one(Exception e) {
    }

    void two(Exception e) {
    }

    void two(RuntimeException e) {
    }
}

class B {
    void base(Exception e) {
    }
}

class C extends B {
    void base(RuntimeException e) {
    }
}
`
	u := parse(t, src)
	m := Annotate(u, nil)
	scope := m.ScopeAt(exprAt(t, u, "one(null)", syntax.KindMethodInvocation))

	one := m.SoleMethod(scope, "one")
	require.NotNil(t, one)
	assert.Equal(t, syntax.KindMethodDeclaration, one.Decl.Kind)

	assert.Nil(t, m.SoleMethod(scope, "two"), "overloads")
	assert.Nil(t, m.SoleMethod(scope, "toString"), "declared outside the unit")
	assert.Nil(t, m.SoleMethod(scope, "missing"))

	inC := m.ScopeOf(exprAt(t, u, "class C", syntax.KindClassDeclaration))
	require.NotNil(t, inC)
	assert.Nil(t, m.SoleMethod(inC, "base"), "overloads an inherited method")
}

func TestIndex_Hierarchy(t *testing.T) {
	u := parse(t, shapesSrc)
	b := NewIndexBuilder()
	b.AddUnit(u)
	x := b.Build()

	assert.Equal(t, Yes, x.IsSubtype("java.io.FileNotFoundException", "java.io.IOException"))
	assert.Equal(t, No, x.IsSubtype("java.io.IOException", "java.lang.RuntimeException"))
	assert.Equal(t, No, x.Related("java.io.IOException", "java.lang.IllegalStateException"))
	assert.Equal(t, Yes, x.Related("java.lang.Exception", "java.lang.NumberFormatException"))
	assert.Equal(t, Maybe, x.IsSubtype("demo.Orphan", "java.lang.Exception"))
	assert.Equal(t, Maybe, x.Related("demo.Orphan", "java.lang.Exception"))
	assert.Equal(t, Maybe, x.IsSubtype("com.acme.Missing", "java.lang.Exception"))

	f, tri := x.FindField("demo.Shapes", "inherited")
	assert.Equal(t, Yes, tri)
	assert.Equal(t, "demo.Base", f.Owner)
	assert.Equal(t, Int, f.Type)

	_, tri = x.FindField("demo.Orphan", "nothing")
	assert.Equal(t, Maybe, tri)

	run, tri := x.FindMethod("demo.Shapes", "run")
	assert.Equal(t, Yes, tri)
	assert.Equal(t, VoidType, run.Type)
	assert.Equal(t, 1, run.Arity)

	_, tri = x.FindMethod("demo.Shapes", "hashCode")
	assert.Equal(t, Yes, tri, "Object methods are inherited")

	nested, ok := x.Lookup("demo.Shapes.Nested")
	require.True(t, ok)
	assert.Equal(t, TypeClass, nested.Kind)
	assert.Len(t, x.Infos(), 5)
}

func TestFileContext_Qualify(t *testing.T) {
	u := parse(t, shapesSrc)
	ctx := NewFileContext(u.Root)
	known := map[string]bool{"demo.Base": true, "java.lang.String": true, "java.util.List": true}
	isKnown := func(s string) bool { return known[s] }

	assert.Equal(t, "demo", ctx.Package)
	cases := []struct {
		name string
		want string
		ok   bool
	}{
		{"IOException", "java.io.IOException", true},
		{"Base", "demo.Base", true},
		{"String", "java.lang.String", true},
		{"Shapes.Inner", "demo.Shapes.Inner", true},
		{"java.util.List", "java.util.List", true},
		{"Nope", "Nope", false},
	}
	for _, c := range cases {
		got, ok := ctx.Qualify(c.name, isKnown)
		assert.Equal(t, c.ok, ok, c.name)
		assert.Equal(t, c.want, got, c.name)
	}
}
