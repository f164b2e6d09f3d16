package semantic

import (
	"sort"

	"jrewrite/internal/syntax"
)

// ScopeKind classifies a Scope.
type ScopeKind uint8

const (
	ScopeUnit ScopeKind = iota
	ScopeClass
	ScopeMethod
	ScopeStaticInit
	ScopeBlock
	ScopeLambda
	ScopeCatch
	ScopeFor
)

var scopeKindNames = [...]string{
	ScopeUnit:       "unit",
	ScopeClass:      "class",
	ScopeMethod:     "method",
	ScopeStaticInit: "static-init",
	ScopeBlock:      "block",
	ScopeLambda:     "lambda",
	ScopeCatch:      "catch",
	ScopeFor:        "for",
}

func (k ScopeKind) String() string { return scopeKindNames[k] }

// Scope is a lexical scope. Scopes are created by Annotate and read-only
// afterwards.
type Scope struct {
	ID     int
	Kind   ScopeKind
	Parent *Scope
	Node   *syntax.Node
	// Static is set for scopes whose code has no enclosing instance: static
	// methods and initializers, and static nested types.
	Static bool
	// Class is the fully-qualified name of the type a class scope declares. It
	// is empty for anonymous and local classes.
	Class string
	// Supers lists the direct supertypes of an anonymous class scope.
	Supers []string

	vars    map[string]*Binding
	methods map[string][]*Binding
	types   map[string]Type
}

func newScope(id int, kind ScopeKind, parent *Scope, node *syntax.Node) *Scope {
	return &Scope{
		ID:      id,
		Kind:    kind,
		Parent:  parent,
		Node:    node,
		vars:    make(map[string]*Binding),
		methods: make(map[string][]*Binding),
		types:   make(map[string]Type),
	}
}

// Variable returns the variable named name declared directly in s.
func (s *Scope) Variable(name string) *Binding { return s.vars[name] }

// Methods returns the overloads of name declared directly in s.
func (s *Scope) Methods(name string) []*Binding { return s.methods[name] }

// Variables returns the variables declared directly in s in declaration order.
func (s *Scope) Variables() []*Binding {
	out := make([]*Binding, 0, len(s.vars))
	for _, b := range s.vars {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pos < out[j].Pos })
	return out
}

// EnclosingClass returns the nearest class scope at or above s.
func (s *Scope) EnclosingClass() *Scope {
	for c := s; c != nil; c = c.Parent {
		if c.Kind == ScopeClass {
			return c
		}
	}
	return nil
}

func (s *Scope) declare(b *Binding) {
	b.Scope = s
	switch b.Kind {
	case BindingMethod:
		s.methods[b.Name] = append(s.methods[b.Name], b)
		return
	case BindingType:
		s.types[b.Name] = b.Type
		return
	}
	if _, dup := s.vars[b.Name]; dup {
		return
	}
	s.vars[b.Name] = b
}

// BindingKind classifies a Binding.
type BindingKind uint8

const (
	BindingLocal BindingKind = iota
	BindingParameter
	BindingField
	BindingMethod
	BindingType
	BindingCatchParameter
	BindingLambdaParameter
	BindingResource
)

var bindingKindNames = [...]string{
	BindingLocal:           "local",
	BindingParameter:       "parameter",
	BindingField:           "field",
	BindingMethod:          "method",
	BindingType:            "type",
	BindingCatchParameter:  "catch parameter",
	BindingLambdaParameter: "lambda parameter",
	BindingResource:        "resource",
}

func (k BindingKind) String() string { return bindingKindNames[k] }

// Access classifies a reference.
type Access uint8

const (
	Read Access = 1 << iota
	Write

	ReadWrite = Read | Write
)

// Ref is one occurrence of a binding's name.
type Ref struct {
	Node   *syntax.Node
	Access Access
}

// Binding is a declared name. Decl points at the declaring node (declarator,
// parameter or member declaration) and is nil for members inherited from
// indexed supertypes.
type Binding struct {
	Name    string
	Kind    BindingKind
	Type    Type
	Decl    *syntax.Node
	NameID  *syntax.Node
	Scope   *Scope
	Mutable bool
	Static  bool
	// Pos is the byte offset from which a local is visible.
	Pos int
	// Owner is the declaring type of a field or method, when known.
	Owner string
	Refs  []Ref
}

// IsLocal reports whether b is a variable owned by a method body: a local,
// parameter, catch or lambda parameter, or resource.
func (b *Binding) IsLocal() bool {
	switch b.Kind {
	case BindingLocal, BindingParameter, BindingCatchParameter, BindingLambdaParameter, BindingResource:
		return true
	}
	return false
}

// Reads counts the references that read b.
func (b *Binding) Reads() int {
	n := 0
	for _, r := range b.Refs {
		if r.Access&Read != 0 {
			n++
		}
	}
	return n
}

// Writes counts the references that assign b.
func (b *Binding) Writes() int {
	n := 0
	for _, r := range b.Refs {
		if r.Access&Write != 0 {
			n++
		}
	}
	return n
}

// ResolutionState is the outcome of a name lookup.
type ResolutionState uint8

const (
	Unresolved ResolutionState = iota
	Resolved
	// StateTypeUnknown marks a name that might be inherited from a supertype
	// missing from the index.
	StateTypeUnknown
)

// Resolution is the result of resolving a name.
type Resolution struct {
	Binding *Binding
	State   ResolutionState
}

// OK reports whether the name resolved to a binding.
func (r Resolution) OK() bool { return r.State == Resolved && r.Binding != nil }
