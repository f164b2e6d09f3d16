package analysis

import (
	"strconv"
	"strings"

	"jrewrite/internal/semantic"
	"jrewrite/internal/syntax"
)

// Options configures Equivalent.
type Options struct {
	// Model resolves identifiers to bindings. Without it identifiers compare by
	// name.
	Model *semantic.Model
	// Aliases pairs bindings that count as the same variable, such as the
	// parameters of two catch clauses being compared.
	Aliases map[*semantic.Binding]*semantic.Binding
}

// Equivalent reports whether a and b are structurally the same code. Trivia is
// ignored, literals compare by value, and identifiers compare by the binding
// they resolve to. Locals declared inside the compared trees are matched up as
// the comparison meets their declarations.
func Equivalent(a, b *syntax.Node, opts Options) bool {
	e := &equiv{model: opts.Model, alias: make(map[*semantic.Binding]*semantic.Binding)}
	for x, y := range opts.Aliases {
		e.pair(x, y)
	}
	return e.eq(a, b)
}

type equiv struct {
	model *semantic.Model
	alias map[*semantic.Binding]*semantic.Binding
}

func (e *equiv) pair(x, y *semantic.Binding) {
	e.alias[x] = y
	e.alias[y] = x
}

func (e *equiv) same(x, y *semantic.Binding) bool {
	return x == y || e.alias[x] == y
}

func (e *equiv) eq(a, b *syntax.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	if syntax.IsLiteral(a.Kind) && syntax.IsLiteral(b.Kind) {
		va, oka := LiteralValue(a)
		vb, okb := LiteralValue(b)
		if oka && okb {
			return va == vb
		}
		return a.Kind == b.Kind && a.Content() == b.Content()
	}
	if a.Kind != b.Kind || a.Named != b.Named {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	if a.Kind == syntax.KindIdentifier {
		return e.identifiers(a, b)
	}
	if a.IsLeaf() {
		return a.Text == b.Text
	}
	for i := range a.Children {
		if a.Children[i].Field != b.Children[i].Field || !e.eq(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

func (e *equiv) identifiers(a, b *syntax.Node) bool {
	if e.model == nil {
		return a.Text == b.Text
	}
	if da, db := e.model.Declared(a), e.model.Declared(b); da != nil || db != nil {
		if da == nil || db == nil || da.Kind != db.Kind {
			return false
		}
		if da != db {
			e.pair(da, db)
		}
		return true
	}
	ra, rb := e.model.Resolve(a), e.model.Resolve(b)
	switch {
	case ra.OK() && rb.OK():
		return e.same(ra.Binding, rb.Binding)
	case ra.OK() || rb.OK():
		return false
	}
	return a.Text == b.Text
}

// LiteralValue returns a canonical form of a literal's value, so that 0x10 and
// 16 or "A" and "A" compare equal. Type suffixes stay significant.
func LiteralValue(n *syntax.Node) (string, bool) {
	text := n.Content()
	switch n.Kind {
	case syntax.KindDecimalInteger, syntax.KindHexInteger, syntax.KindOctalInteger, syntax.KindBinaryInteger:
		s := strings.ReplaceAll(text, "_", "")
		kind := "int"
		if strings.HasSuffix(s, "l") || strings.HasSuffix(s, "L") {
			s, kind = s[:len(s)-1], "long"
		}
		if len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9' {
			s = "0o" + s[1:]
		}
		v, err := strconv.ParseUint(strings.ToLower(s), 0, 64)
		if err != nil {
			return "", false
		}
		return kind + ":" + strconv.FormatUint(v, 10), true
	case syntax.KindDecimalFloat, syntax.KindHexFloat:
		s := strings.ReplaceAll(text, "_", "")
		kind := "double"
		switch s[len(s)-1] {
		case 'f', 'F':
			s, kind = s[:len(s)-1], "float"
		case 'd', 'D':
			s = s[:len(s)-1]
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return "", false
		}
		return kind + ":" + strconv.FormatFloat(v, 'g', -1, 64), true
	case syntax.KindString:
		v, ok := unquote(text, '"')
		return "string:" + v, ok
	case syntax.KindCharacter:
		v, ok := unquote(text, '\'')
		return "char:" + v, ok
	case syntax.KindTrue, syntax.KindFalse, syntax.KindNull:
		return text, true
	}
	return "", false
}

func unquote(text string, quote byte) (string, bool) {
	if len(text) < 2 || text[0] != quote || text[len(text)-1] != quote {
		return "", false
	}
	body := text[1 : len(text)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", false
		}
		switch c = body[i]; c {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 's':
			b.WriteByte(' ')
		case '\\', '\'', '"':
			b.WriteByte(c)
		case 'u':
			for i < len(body) && body[i] == 'u' {
				i++
			}
			if i+4 > len(body) {
				return "", false
			}
			r, err := strconv.ParseUint(body[i:i+4], 16, 32)
			if err != nil {
				return "", false
			}
			b.WriteRune(rune(r))
			i += 3
		default:
			if c < '0' || c > '7' {
				return "", false
			}
			j := i
			for j < len(body) && j < i+3 && body[j] >= '0' && body[j] <= '7' {
				j++
			}
			r, _ := strconv.ParseUint(body[i:j], 8, 32)
			b.WriteRune(rune(r))
			i = j - 1
		}
	}
	return b.String(), true
}
