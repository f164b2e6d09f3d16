package syntax

import (
	"fmt"
	"sort"
	"strings"
)

// ParseError records a region the grammar could not parse. The region is kept
// in the tree as an opaque error node.
type ParseError struct {
	Span    Span
	Line    int
	Column  int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Unit is one parsed source file.
type Unit struct {
	Path   string
	Source []byte
	Root   *Node
	// EOF is the text after the end of the root node.
	EOF    string
	Errors []ParseError

	lines []int
}

// WithRoot returns a copy of u holding a rewritten root. Source, path and parse
// errors describe the original text and are shared.
func (u *Unit) WithRoot(root *Node) *Unit {
	c := *u
	c.Root = root
	return &c
}

// Text reassembles the unit's text from its tree.
func (u *Unit) Text() string {
	var b strings.Builder
	b.WriteString(u.Root.Source())
	b.WriteString(u.EOF)
	return b.String()
}

// Position converts a byte offset in the original source to a 1-based line and
// column.
func (u *Unit) Position(offset int) (line, column int) {
	if u.lines == nil {
		u.lines = []int{0}
		for i, c := range u.Source {
			if c == '\n' {
				u.lines = append(u.lines, i+1)
			}
		}
	}
	if offset < 0 {
		return 0, 0
	}
	i := sort.Search(len(u.lines), func(i int) bool { return u.lines[i] > offset }) - 1
	return i + 1, offset - u.lines[i] + 1
}
