package parser

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jrewrite/internal/syntax"
)

func TestParser_ParseFile(t *testing.T) {
	p, err := NewParser("java")
	require.NoError(t, err)

	path := filepath.Join("testdata", "Sample.java")
	unit, err := p.ParseFile(context.Background(), path)
	require.NoError(t, err)

	t.Run("Round trip", func(t *testing.T) {
		src, err := readFile(path)
		require.NoError(t, err)
		assert.Equal(t, src, unit.Text())
	})

	t.Run("No errors", func(t *testing.T) {
		assert.Empty(t, unit.Errors)
		assert.False(t, syntax.ContainsError(unit.Root))
	})

	t.Run("Comments are trivia", func(t *testing.T) {
		syntax.Walk(unit.Root, func(n *syntax.Node) bool {
			assert.False(t, syntax.IsComment(n.Kind), "comment node %q left in tree", n.Content())
			return true
		})
		var leadings []string
		syntax.Walk(unit.Root, func(n *syntax.Node) bool {
			if strings.Contains(n.Leading, "/*") || strings.Contains(n.Leading, "//") {
				leadings = append(leadings, n.Leading)
			}
			return true
		})
		joined := strings.Join(leadings, "|")
		assert.Contains(t, joined, "// Header comment.")
		assert.Contains(t, joined, "/** Javadoc. */")
		assert.Contains(t, joined, "/* before append */")
		assert.Contains(t, joined, "// trailing")
	})

	t.Run("Fields", func(t *testing.T) {
		var inv *syntax.Node
		syntax.Walk(unit.Root, func(n *syntax.Node) bool {
			if inv == nil && n.Kind == syntax.KindMethodInvocation {
				inv = n
			}
			return inv == nil
		})
		require.NotNil(t, inv)
		assert.Equal(t, "sb", inv.ChildByField("object").Content())
		assert.Equal(t, "append", inv.ChildByField("name").Content())
		assert.Equal(t, `("Hello, " + name)`, inv.ChildByField("arguments").Content())
	})

	t.Run("Spans", func(t *testing.T) {
		src := string(unit.Source)
		syntax.Walk(unit.Root, func(n *syntax.Node) bool {
			if n.Kind != syntax.KindError && n.Span.Valid() {
				assert.Equal(t, src[n.Span.Start:n.Span.End], n.Content())
			}
			return true
		})
	})
}

func TestParser_ErrorIsolation(t *testing.T) {
	p, err := NewParser("java")
	require.NoError(t, err)

	src := "class A {\n    void m() {\n        int x = ;\n    }\n\n    void n() {\n        int y = 1;\n    }\n}\n"
	unit, err := p.Parse(context.Background(), "A.java", []byte(src))
	require.NoError(t, err)

	assert.NotEmpty(t, unit.Errors)
	assert.True(t, syntax.ContainsError(unit.Root))
	assert.Equal(t, src, unit.Text(), "malformed input must still round-trip")

	assert.Equal(t, 3, unit.Errors[0].Line)

	var methods []*syntax.Node
	syntax.Walk(unit.Root, func(n *syntax.Node) bool {
		if n.Kind == syntax.KindMethodDeclaration {
			methods = append(methods, n)
		}
		return true
	})
	require.Len(t, methods, 2)
	assert.False(t, syntax.ContainsError(methods[1]), "the second method is well formed")
}

func TestParser_Handles(t *testing.T) {
	p, err := NewParser("java")
	require.NoError(t, err)
	assert.True(t, p.Handles("src/Main.java"))
	assert.False(t, p.Handles("main.go"))
	assert.Equal(t, "java", p.Grammar().Name())

	_, err = NewParser("cobol")
	assert.Error(t, err)
}

func TestParser_EmptyAndWhitespace(t *testing.T) {
	p, err := NewParser("java")
	require.NoError(t, err)

	for _, src := range []string{"", "\n\n", "  // only a comment\n"} {
		unit, err := p.Parse(context.Background(), "Empty.java", []byte(src))
		require.NoError(t, err)
		assert.Equal(t, src, unit.Text())
	}
}
