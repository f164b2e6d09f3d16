package printer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jrewrite/internal/parser"
	"jrewrite/internal/syntax"
)

func parse(t *testing.T, src string) *syntax.Unit {
	t.Helper()
	p, err := parser.NewParser("java")
	require.NoError(t, err)
	u, err := p.Parse(context.Background(), "T.java", []byte(src))
	require.NoError(t, err)
	return u
}

func firstOfKind(root *syntax.Node, kind syntax.Kind) *syntax.Node {
	var found *syntax.Node
	syntax.Walk(root, func(n *syntax.Node) bool {
		if found == nil && n.Kind == kind {
			found = n
		}
		return found == nil
	})
	return found
}

// call builds `name();` marked for statement layout.
func call(name string) *syntax.Node {
	inv := syntax.NewNode(syntax.KindMethodInvocation, "",
		syntax.Labeled("name", syntax.Leaf(syntax.KindIdentifier, name, "")),
		syntax.Labeled("arguments", syntax.NewNode(syntax.KindArgumentList, "", syntax.Token("(", ""), syntax.Token(")", ""))),
	)
	return syntax.NewNode(syntax.KindExpressionStatement, "", inv, syntax.Token(";", "")).WithLayout(syntax.LayoutStatement)
}

func TestPrint_Verbatim(t *testing.T) {
	src := "// c\nclass T {\n\tvoid m() { int  x =1 ; /* k */ }\n}\n\n"
	u := parse(t, src)
	assert.Equal(t, src, Print(u))
}

func TestPrint_StatementLayoutFromSibling(t *testing.T) {
	u := parse(t, "class T {\n  void m() {\n    a();\n  }\n}\n")
	block := firstOfKind(u.Root, syntax.KindBlock)
	require.NotNil(t, block)

	children := append([]*syntax.Node{}, block.Children[:2]...)
	children = append(children, call("b"))
	children = append(children, block.Children[2:]...)
	root := syntax.Replace(u.Root, block, block.WithChildren(children))

	assert.Equal(t, "class T {\n  void m() {\n    a();\n    b();\n  }\n}\n", Print(u.WithRoot(root)))
}

func TestPrint_StatementLayoutInEmptyBlock(t *testing.T) {
	u := parse(t, "class T {\n    void m() {\n    }\n\n    void n() {}\n}\n")
	blocks := []*syntax.Node{}
	syntax.Walk(u.Root, func(n *syntax.Node) bool {
		if n.Kind == syntax.KindBlock {
			blocks = append(blocks, n)
		}
		return true
	})
	require.Len(t, blocks, 2)

	root := u.Root
	for i, name := range []string{"a", "b"} {
		b := blocks[i]
		nb := b.WithChildren([]*syntax.Node{b.Children[0], call(name), b.Children[1]})
		root = syntax.Replace(root, b, nb)
	}
	want := "class T {\n    void m() {\n        a();\n    }\n\n    void n() {\n        b();}\n}\n"
	assert.Equal(t, want, Print(u.WithRoot(root)))
}

func TestPrint_RemovedOnlyStatement(t *testing.T) {
	u := parse(t, "class T {\n    void m() {\n        a();\n    }\n}\n")
	block := firstOfKind(u.Root, syntax.KindBlock)
	root := syntax.Replace(u.Root, block, block.WithoutChild(1))
	assert.Equal(t, "class T {\n    void m() {\n    }\n}\n", Print(u.WithRoot(root)))
}

func TestDetectIndent(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"class T {\n    int a;\n    void m() {\n        a();\n    }\n}\n", "    "},
		{"class T {\n  int a;\n  void m() {\n    a();\n  }\n}\n", "  "},
		{"class T {\n\tint a;\n\tvoid m() {\n\t\ta();\n\t}\n}\n", "\t"},
		{"class T {}\n", "    "},
		{"/**\n * Doc.\n */\nclass T {\n  int a;\n}\n", "  "},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DetectIndent(parse(t, c.src)), c.src)
	}
}
