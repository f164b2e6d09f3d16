package analysis

import (
	"jrewrite/internal/syntax"
)

// HasSideEffects reports whether evaluating expr may do more than compute a
// value: call a method, allocate an object, or assign a variable. Casts,
// array accesses and division can throw but are treated as pure.
func HasSideEffects(expr *syntax.Node) bool {
	if expr == nil {
		return false
	}
	impure := false
	syntax.Walk(expr, func(n *syntax.Node) bool {
		switch n.Kind {
		case syntax.KindMethodInvocation, syntax.KindObjectCreation, syntax.KindAssignmentExpression,
			syntax.KindUpdateExpression, syntax.KindSwitchExpression, syntax.KindError,
			syntax.KindExplicitConstructorInv:
			impure = true
		case syntax.KindLambdaExpression, syntax.KindClassBody:
			// The body runs later, if ever.
			return false
		}
		return !impure
	})
	return impure
}

// IsStatementExpression reports whether expr may stand alone as an expression
// statement.
func IsStatementExpression(expr *syntax.Node) bool {
	if expr == nil {
		return false
	}
	switch expr.Kind {
	case syntax.KindAssignmentExpression, syntax.KindUpdateExpression,
		syntax.KindMethodInvocation, syntax.KindObjectCreation:
		return true
	}
	return false
}

// Unparenthesize strips enclosing parentheses from an expression.
func Unparenthesize(expr *syntax.Node) *syntax.Node {
	for expr != nil && expr.Kind == syntax.KindParenthesized {
		inner := expr.NamedChildren()
		if len(inner) != 1 {
			break
		}
		expr = inner[0]
	}
	return expr
}
