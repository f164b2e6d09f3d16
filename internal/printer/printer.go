package printer

import (
	"strings"

	"jrewrite/internal/syntax"
)

// Printer turns a possibly rewritten unit back into source text. Parsed nodes
// print their captured text; synthesized nodes with LayoutStatement get their
// leading whitespace from the statements around them.
type Printer struct {
	unit   *syntax.Unit
	indent string
}

// New creates a printer for u.
func New(u *syntax.Unit) *Printer {
	return &Printer{unit: u, indent: DetectIndent(u)}
}

// Print renders u.
func Print(u *syntax.Unit) string {
	return New(u).Print()
}

// Print renders the printer's unit.
func (p *Printer) Print() string {
	var b strings.Builder
	p.write(&b, p.unit.Root, nil)
	b.WriteString(p.unit.EOF)
	return b.String()
}

func (p *Printer) write(b *strings.Builder, n, parent *syntax.Node) {
	if n.Layout == syntax.LayoutStatement && parent != nil {
		b.WriteString("\n" + p.statementIndent(n, parent))
	} else {
		b.WriteString(n.Leading)
	}
	if n.IsLeaf() {
		b.WriteString(n.Text)
	} else {
		for _, c := range n.Children {
			p.write(b, c, n)
		}
	}
	b.WriteString(n.Trailing)
}

// statementIndent infers the indentation for a synthesized statement: that of
// the nearest parsed sibling on its own line, otherwise one level deeper than
// the closing brace or the parent's first line.
func (p *Printer) statementIndent(n, parent *syntax.Node) string {
	i := parent.IndexOf(n)
	for d := 1; d < len(parent.Children); d++ {
		for _, j := range []int{i - d, i + d} {
			if j < 0 || j >= len(parent.Children) {
				continue
			}
			s := parent.Children[j]
			if !s.Named || s.Layout == syntax.LayoutStatement {
				continue
			}
			if ind, ok := lastLineIndent(s.Leading); ok {
				return ind
			}
		}
	}
	if last := parent.Children[len(parent.Children)-1]; last.IsToken("}") {
		if ind, ok := lastLineIndent(last.Leading); ok {
			return ind + p.indent
		}
	}
	if parent.Span.Valid() {
		return p.lineIndent(parent.Span.Start) + p.indent
	}
	return p.indent
}

// lastLineIndent returns the whitespace after the last newline of trivia, if
// trivia ends in an indentation.
func lastLineIndent(trivia string) (string, bool) {
	i := strings.LastIndexByte(trivia, '\n')
	if i < 0 {
		return "", false
	}
	ind := trivia[i+1:]
	if strings.Trim(ind, " \t") != "" {
		return "", false
	}
	return ind, true
}

func (p *Printer) lineIndent(offset int) string {
	src := p.unit.Source
	if offset > len(src) {
		offset = len(src)
	}
	start := strings.LastIndexByte(string(src[:offset]), '\n') + 1
	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return string(src[start:end])
}
