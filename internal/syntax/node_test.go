package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stmt builds `x = 1;` style expression statements by hand.
func stmt(leading, name, value string) *Node {
	assign := NewNode(KindAssignmentExpression, "",
		Labeled("left", Leaf(KindIdentifier, name, "")),
		Labeled("operator", Token("=", " ")),
		Labeled("right", Leaf(KindDecimalInteger, value, " ")),
	)
	return NewNode(KindExpressionStatement, leading, assign, Token(";", ""))
}

func sampleBlock() *Node {
	return NewNode(KindBlock, " ",
		Token("{", ""),
		stmt("\n    ", "a", "1"),
		stmt("\n    ", "b", "2"),
		Token("}", "\n"),
	)
}

func TestNode_SourceAndContent(t *testing.T) {
	b := sampleBlock()
	assert.Equal(t, " {\n    a = 1;\n    b = 2;\n}", b.Source())
	assert.Equal(t, "{\n    a = 1;\n    b = 2;\n}", b.Content())
	assert.Equal(t, "a = 1;", b.Children[1].Content())
}

func TestNode_CopyOnWrite(t *testing.T) {
	b := sampleBlock()
	first, second := b.Children[1], b.Children[2]

	t.Run("WithoutChild shares siblings", func(t *testing.T) {
		nb := b.WithoutChild(1)
		require.Len(t, nb.Children, 3)
		assert.Same(t, second, nb.Children[1])
		assert.Len(t, b.Children, 4, "original must be untouched")
		assert.Equal(t, " {\n    b = 2;\n}", nb.Source())
	})

	t.Run("WithChild keeps field label", func(t *testing.T) {
		assign := first.Children[0]
		repl := assign.WithChild(2, Leaf(KindDecimalInteger, "42", " "))
		assert.Equal(t, "right", repl.Children[2].Field)
		assert.Equal(t, "a = 42", repl.Content())
		assert.Equal(t, "a = 1", assign.Content())
	})

	t.Run("Replace copies only ancestors", func(t *testing.T) {
		old := second.Children[0].Children[2]
		nb := Replace(b, old, old.WithText("7"))
		assert.Same(t, first, nb.Children[1])
		assert.NotSame(t, second, nb.Children[2])
		assert.Equal(t, " {\n    a = 1;\n    b = 7;\n}", nb.Source())
	})

	t.Run("WithLeading is a no-op for equal trivia", func(t *testing.T) {
		assert.Same(t, first, first.WithLeading(first.Leading))
	})
}

func TestNode_Queries(t *testing.T) {
	b := sampleBlock()
	assign := b.Children[1].Children[0]

	assert.Equal(t, "a", assign.ChildByField("left").Text)
	assert.Nil(t, assign.ChildByField("missing"))
	assert.Len(t, assign.NamedChildren(), 2)
	assert.True(t, b.Children[0].IsToken("{"))
	assert.True(t, b.Is(KindIfStatement, KindBlock))
	assert.Equal(t, 2, b.IndexOf(b.Children[2]))
	assert.Equal(t, CategoryStatement, b.Category())
	assert.Equal(t, CategoryToken, b.Children[0].Category())
	assert.True(t, b.Synthetic())

	names := []string{}
	for _, id := range Identifiers(b) {
		names = append(names, id.Text)
	}
	assert.Equal(t, []string{"a", "b"}, names)
	assert.False(t, ContainsError(b))
	assert.True(t, ContainsError(NewNode(KindBlock, "", Leaf(KindError, "@@", ""))))
}

func TestWalk_SkipsChildren(t *testing.T) {
	b := sampleBlock()
	var kinds []Kind
	Walk(b, func(n *Node) bool {
		kinds = append(kinds, n.Kind)
		return n.Kind != KindExpressionStatement
	})
	assert.Equal(t, []Kind{KindBlock, "{", KindExpressionStatement, KindExpressionStatement, "}"}, kinds)
}

func TestUnit_Position(t *testing.T) {
	u := &Unit{Source: []byte("ab\ncd\n\nef")}
	cases := []struct {
		offset, line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{6, 3, 1},
		{8, 4, 2},
	}
	for _, c := range cases {
		line, col := u.Position(c.offset)
		assert.Equal(t, c.line, line, "line of offset %d", c.offset)
		assert.Equal(t, c.col, col, "column of offset %d", c.offset)
	}
}

func TestUnit_WithRootAndText(t *testing.T) {
	u := &Unit{Path: "A.java", Root: sampleBlock(), EOF: "\n"}
	nu := u.WithRoot(u.Root.WithoutChild(2))
	assert.Equal(t, " {\n    a = 1;\n}\n", nu.Text())
	assert.Equal(t, " {\n    a = 1;\n    b = 2;\n}\n", u.Text())
	assert.Equal(t, "A.java", nu.Path)
}
