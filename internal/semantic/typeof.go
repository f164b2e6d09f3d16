package semantic

import (
	"strings"

	"jrewrite/internal/syntax"
)

// TypeOf returns the static type of an expression, or Unknown when it cannot be
// determined from the unit and the index.
func (m *Model) TypeOf(n *syntax.Node) Type {
	if n == nil {
		return Unknown
	}
	if t, ok := m.types[n]; ok {
		return t
	}
	t := m.typeOf(n)
	m.types[n] = t
	return t
}

func (m *Model) typeOf(n *syntax.Node) Type {
	switch n.Kind {
	case syntax.KindDecimalInteger, syntax.KindHexInteger, syntax.KindOctalInteger, syntax.KindBinaryInteger:
		if strings.HasSuffix(n.Text, "l") || strings.HasSuffix(n.Text, "L") {
			return Primitive("long")
		}
		return Int
	case syntax.KindDecimalFloat, syntax.KindHexFloat:
		if strings.HasSuffix(n.Text, "f") || strings.HasSuffix(n.Text, "F") {
			return Primitive("float")
		}
		return Primitive("double")
	case syntax.KindTrue, syntax.KindFalse:
		return Boolean
	case syntax.KindCharacter:
		return Primitive("char")
	case syntax.KindString, syntax.KindTextBlock:
		return StringType
	case syntax.KindNull:
		return NullType
	case syntax.KindIdentifier:
		if res := m.resolved[n]; res.OK() {
			return res.Binding.Type
		}
		return Unknown
	case syntax.KindThis:
		return m.ScopeAt(n).EnclosingClass().selfType()
	case syntax.KindParenthesized:
		if inner := n.NamedChildren(); len(inner) == 1 {
			return m.TypeOf(inner[0])
		}
	case syntax.KindCastExpression:
		return m.ResolveType(n.ChildByField("type"))
	case syntax.KindObjectCreation:
		return m.ResolveType(n.ChildByField("type"))
	case syntax.KindFieldAccess:
		return m.typeOfFieldAccess(n)
	case syntax.KindMethodInvocation:
		return m.typeOfInvocation(n)
	case syntax.KindArrayAccess:
		return m.TypeOf(n.ChildByField("array")).Elem()
	case syntax.KindBinaryExpression:
		return m.typeOfBinary(n)
	case syntax.KindUnaryExpression:
		op := n.ChildByField("operator")
		operand := m.TypeOf(n.ChildByField("operand"))
		if op != nil && op.Text == "!" {
			return Boolean
		}
		if operand.IsNumeric() {
			return promote(operand, Int)
		}
	case syntax.KindInstanceofExpression:
		return Boolean
	case syntax.KindAssignmentExpression:
		return m.TypeOf(n.ChildByField("left"))
	case syntax.KindUpdateExpression:
		if operand := n.NamedChildren(); len(operand) == 1 {
			return m.TypeOf(operand[0])
		}
	case syntax.KindTernaryExpression:
		a, b := m.TypeOf(n.ChildByField("consequence")), m.TypeOf(n.ChildByField("alternative"))
		if a.Same(b) {
			return a
		}
	}
	return Unknown
}

func (m *Model) typeOfBinary(n *syntax.Node) Type {
	op := n.ChildByField("operator")
	if op == nil {
		return Unknown
	}
	left, right := m.TypeOf(n.ChildByField("left")), m.TypeOf(n.ChildByField("right"))
	switch op.Text {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return Boolean
	case "+":
		if left.IsString() || right.IsString() {
			return StringType
		}
		return promote(left, right)
	case "-", "*", "/", "%":
		return promote(left, right)
	case "&", "|", "^":
		if left.IsBoolean() && right.IsBoolean() {
			return Boolean
		}
		if left.IsIntegral() && right.IsIntegral() {
			return promote(left, right)
		}
	case "<<", ">>", ">>>":
		if left.IsIntegral() {
			return promote(left, Int)
		}
	}
	return Unknown
}

// qualifierType types the object of a member access. A name that resolves to no
// variable is tried as a type name, which yields the type for static access.
func (m *Model) qualifierType(obj *syntax.Node) Type {
	if obj.Kind == syntax.KindIdentifier {
		res := m.resolved[obj]
		switch res.State {
		case Resolved:
			return res.Binding.Type
		case StateTypeUnknown:
			return Unknown
		}
		t := m.ResolveTypeName(m.ScopeAt(obj), obj.Text)
		if _, ok := m.Index.Lookup(t.Name); ok {
			return t
		}
		return Unknown
	}
	return m.TypeOf(obj)
}

func (m *Model) typeOfFieldAccess(n *syntax.Node) Type {
	obj, field := n.ChildByField("object"), n.ChildByField("field")
	if obj == nil || field == nil {
		return Unknown
	}
	if res := m.resolved[field]; res.OK() {
		return res.Binding.Type
	}
	qt := m.qualifierType(obj)
	if !qt.Known() {
		return Unknown
	}
	if qt.IsArray() {
		if field.Text == "length" {
			return Int
		}
		return Unknown
	}
	if mem, t := m.Index.FindField(qt.Name, field.Text); t == Yes {
		return mem.Type
	}
	return Unknown
}

func (m *Model) typeOfInvocation(n *syntax.Node) Type {
	obj, name := n.ChildByField("object"), n.ChildByField("name")
	if name == nil {
		return Unknown
	}
	if res := m.resolved[name]; res.OK() {
		return res.Binding.Type
	}
	if obj == nil || obj.Kind == syntax.KindSuper {
		return Unknown
	}
	qt := m.qualifierType(obj)
	if !qt.Known() || qt.IsArray() || qt.Kind == TypePrimitive {
		return Unknown
	}
	if mem, t := m.Index.FindMethod(qt.Name, name.Text); t == Yes {
		return mem.Type
	}
	return Unknown
}
