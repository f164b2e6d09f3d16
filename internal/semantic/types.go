package semantic

import (
	"strings"
)

// TypeKind classifies a Type.
type TypeKind uint8

const (
	TypeUnknown TypeKind = iota
	TypePrimitive
	TypeClass
	TypeInterface
	TypeEnum
	TypeArray
	TypeNull
	TypeVoid
)

var typeKindNames = [...]string{
	TypeUnknown:   "unknown",
	TypePrimitive: "primitive",
	TypeClass:     "class",
	TypeInterface: "interface",
	TypeEnum:      "enum",
	TypeArray:     "array",
	TypeNull:      "null",
	TypeVoid:      "void",
}

func (k TypeKind) String() string { return typeKindNames[k] }

// Type is a resolved type handle. For arrays Name is the element type's name and
// Dims the number of dimensions. Unknown is never equal to anything, itself
// included.
type Type struct {
	Kind TypeKind `json:"kind"`
	Name string   `json:"name,omitempty"`
	Dims int      `json:"dims,omitempty"`
	Args []Type   `json:"args,omitempty"`
}

var (
	Unknown    = Type{}
	NullType   = Type{Kind: TypeNull, Name: "null"}
	VoidType   = Type{Kind: TypeVoid, Name: "void"}
	StringType = ClassType("java.lang.String")
	Boolean    = Primitive("boolean")
	Int        = Primitive("int")
)

const (
	ObjectName    = "java.lang.Object"
	StringName    = "java.lang.String"
	ThrowableName = "java.lang.Throwable"
)

// Primitive returns the primitive type name.
func Primitive(name string) Type { return Type{Kind: TypePrimitive, Name: name} }

// ClassType returns a class type handle for a fully-qualified name.
func ClassType(fqn string) Type { return Type{Kind: TypeClass, Name: fqn} }

// ArrayOf returns t with dims more dimensions.
func ArrayOf(t Type, dims int) Type {
	if !t.Known() || dims == 0 {
		return t
	}
	return Type{Kind: TypeArray, Name: t.Name, Dims: t.Dims + dims, Args: t.Args}
}

// Known reports whether t was resolved.
func (t Type) Known() bool { return t.Kind != TypeUnknown }

// IsArray reports whether t is an array type.
func (t Type) IsArray() bool { return t.Dims > 0 }

// Elem returns the element type of an array type, or Unknown.
func (t Type) Elem() Type {
	if !t.IsArray() {
		return Unknown
	}
	if t.Dims > 1 {
		return Type{Kind: TypeArray, Name: t.Name, Dims: t.Dims - 1, Args: t.Args}
	}
	if isPrimitiveName(t.Name) {
		return Primitive(t.Name)
	}
	return Type{Kind: TypeClass, Name: t.Name, Args: t.Args}
}

// Same reports whether t and o are the same known type. Type arguments are
// ignored.
func (t Type) Same(o Type) bool {
	return t.Known() && o.Known() && t.Name == o.Name && t.Dims == o.Dims
}

// Is reports whether t is the non-array type fqn.
func (t Type) Is(fqn string) bool {
	return t.Known() && t.Dims == 0 && t.Name == fqn
}

func (t Type) IsString() bool { return t.Is(StringName) }

// IsReference reports whether t is a class, interface, enum or array type.
func (t Type) IsReference() bool {
	switch t.Kind {
	case TypeClass, TypeInterface, TypeEnum, TypeArray:
		return true
	}
	return false
}

// IsNumeric reports whether t is a primitive numeric type or its box.
func (t Type) IsNumeric() bool {
	return t.IsIntegral() || t.IsFloating()
}

// IsIntegral reports whether t is an integral primitive (char included) or its box.
func (t Type) IsIntegral() bool {
	if t.Dims > 0 {
		return false
	}
	switch unbox(t.Name) {
	case "byte", "short", "char", "int", "long":
		return true
	}
	return false
}

// IsFloating reports whether t is float or double, or one of their boxes.
func (t Type) IsFloating() bool {
	if t.Dims > 0 {
		return false
	}
	switch unbox(t.Name) {
	case "float", "double":
		return true
	}
	return false
}

// IsBoolean reports whether t is boolean or java.lang.Boolean.
func (t Type) IsBoolean() bool {
	return t.Dims == 0 && unbox(t.Name) == "boolean"
}

func (t Type) String() string {
	if !t.Known() {
		return "<unknown>"
	}
	var b strings.Builder
	b.WriteString(t.Name)
	if len(t.Args) > 0 {
		b.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteByte('>')
	}
	for i := 0; i < t.Dims; i++ {
		b.WriteString("[]")
	}
	return b.String()
}

var boxes = map[string]string{
	"java.lang.Byte":      "byte",
	"java.lang.Short":     "short",
	"java.lang.Character": "char",
	"java.lang.Integer":   "int",
	"java.lang.Long":      "long",
	"java.lang.Float":     "float",
	"java.lang.Double":    "double",
	"java.lang.Boolean":   "boolean",
}

func unbox(name string) string {
	if p, ok := boxes[name]; ok {
		return p
	}
	return name
}

func isPrimitiveName(name string) bool {
	switch name {
	case "byte", "short", "char", "int", "long", "float", "double", "boolean":
		return true
	}
	return false
}

// promote applies binary numeric promotion to two numeric types.
func promote(a, b Type) Type {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Unknown
	}
	x, y := unbox(a.Name), unbox(b.Name)
	for _, p := range []string{"double", "float", "long"} {
		if x == p || y == p {
			return Primitive(p)
		}
	}
	return Int
}

// Tri is a three-valued answer for queries that depend on complete type
// information.
type Tri uint8

const (
	Maybe Tri = iota
	Yes
	No
)

func (t Tri) String() string {
	switch t {
	case Yes:
		return "yes"
	case No:
		return "no"
	}
	return "unknown"
}
