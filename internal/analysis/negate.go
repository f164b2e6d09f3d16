package analysis

import (
	"jrewrite/internal/semantic"
	"jrewrite/internal/syntax"
)

var flipped = map[string]string{
	"==": "!=",
	"!=": "==",
	"<":  ">=",
	">=": "<",
	">":  "<=",
	"<=": ">",
}

// Negate returns the logical negation of a boolean expression for the shapes
// where it can be written without adding an operator: equality comparisons,
// relational comparisons of known non-floating operands, and !x. m types the
// operands; expr must belong to the tree m annotated. The result is meant for a
// parenthesized position such as an if condition.
func Negate(m *semantic.Model, expr *syntax.Node) (*syntax.Node, bool) {
	e := Unparenthesize(expr)
	if e == nil {
		return nil, false
	}
	switch e.Kind {
	case syntax.KindBinaryExpression:
		op := e.ChildByField("operator")
		if op == nil {
			return nil, false
		}
		to, ok := flipped[op.Text]
		if !ok {
			return nil, false
		}
		if op.Text != "==" && op.Text != "!=" {
			if m == nil || !integralOperand(m, e.ChildByField("left")) || !integralOperand(m, e.ChildByField("right")) {
				return nil, false
			}
		}
		return e.WithChild(e.IndexOf(op), syntax.Token(to, op.Leading)), true
	case syntax.KindUnaryExpression:
		op := e.ChildByField("operator")
		if op == nil || op.Text != "!" {
			return nil, false
		}
		operand := e.ChildByField("operand")
		if operand.Kind == syntax.KindParenthesized {
			if inner := Unparenthesize(operand); inner != nil && inner != operand {
				return inner.WithLeading(e.Leading), true
			}
		}
		return operand.WithLeading(e.Leading), true
	}
	return nil, false
}

// integralOperand reports whether a comparison operand is known to be a
// non-floating number, so that flipping the comparison is exact.
func integralOperand(m *semantic.Model, n *syntax.Node) bool {
	t := m.TypeOf(n)
	return t.Known() && t.IsIntegral()
}
