package semantic

import (
	"jrewrite/internal/syntax"
)

// Model is the semantic annotation of one unit: its scopes, bindings, name
// resolutions and expression types. It is built by Annotate and only read
// afterwards; it belongs to the goroutine that owns the unit.
type Model struct {
	Unit  *syntax.Unit
	Index *Index
	Ctx   *FileContext

	scopes    []*Scope
	opened    map[*syntax.Node]*Scope
	enclosing map[*syntax.Node]*Scope
	parents   map[*syntax.Node]*syntax.Node
	declared  map[*syntax.Node]*Binding
	resolved  map[*syntax.Node]Resolution
	bindings  []*Binding
	inherited map[string]*Binding
	types     map[*syntax.Node]Type
	tainted   map[*Scope]bool
}

// Root returns the root scope of the unit.
func (m *Model) Root() *Scope { return m.scopes[0] }

// Scopes returns every scope in creation order.
func (m *Model) Scopes() []*Scope { return m.scopes }

// ScopeOf returns the scope opened by n, or nil when n opens none.
func (m *Model) ScopeOf(n *syntax.Node) *Scope { return m.opened[n] }

// ScopeAt returns the innermost scope in effect at n.
func (m *Model) ScopeAt(n *syntax.Node) *Scope {
	for x := n; x != nil; x = m.parents[x] {
		if s, ok := m.enclosing[x]; ok {
			return s
		}
	}
	return m.Root()
}

// Parent returns the parent of n in the annotated tree.
func (m *Model) Parent(n *syntax.Node) *syntax.Node { return m.parents[n] }

// Declared returns the binding introduced by n. n may be the declaring node or
// its name identifier.
func (m *Model) Declared(n *syntax.Node) *Binding { return m.declared[n] }

// Resolve returns the resolution recorded for an identifier.
func (m *Model) Resolve(n *syntax.Node) Resolution { return m.resolved[n] }

// Bindings returns every binding declared in the unit in declaration order.
func (m *Model) Bindings() []*Binding { return m.bindings }

// Tainted reports whether the scope owning b contains a parse error, in which
// case b's references may be incomplete.
func (m *Model) Tainted(b *Binding) bool {
	if b == nil || b.Scope == nil {
		return true
	}
	s := b.Scope
	if t, ok := m.tainted[s]; ok {
		return t
	}
	t := s.Node != nil && syntax.ContainsError(s.Node)
	m.tainted[s] = t
	return t
}

// LookupAt resolves an unqualified variable name as seen from scope at byte
// offset pos. Locals declared after pos are not visible; instance fields are
// skipped once the lookup leaves a static context.
func (m *Model) LookupAt(scope *Scope, name string, pos int) Resolution {
	static := false
	for s := scope; s != nil; s = s.Parent {
		if b := s.vars[name]; b != nil && visible(b, pos) {
			if !(static && b.Kind == BindingField && !b.Static) {
				return Resolution{Binding: b, State: Resolved}
			}
		} else if s.Kind == ScopeClass {
			b, t := m.inheritedField(s, name)
			switch t {
			case Yes:
				if !(static && !b.Static) {
					return Resolution{Binding: b, State: Resolved}
				}
			case Maybe:
				return Resolution{State: StateTypeUnknown}
			}
		}
		if s.Static {
			static = true
		}
	}
	return Resolution{State: Unresolved}
}

// LookupMethod resolves an unqualified method name. Overloads are not told
// apart: the first declared one is returned.
func (m *Model) LookupMethod(scope *Scope, name string) Resolution {
	for s := scope; s != nil; s = s.Parent {
		if ms := s.methods[name]; len(ms) > 0 {
			return Resolution{Binding: ms[0], State: Resolved}
		}
		if s.Kind != ScopeClass {
			continue
		}
		result := No
		for _, sup := range s.Supers {
			mem, t := m.Index.FindMethod(sup, name)
			if t == Yes {
				return Resolution{Binding: m.inheritedBinding(BindingMethod, mem), State: Resolved}
			}
			if t == Maybe {
				result = Maybe
			}
		}
		if result == Maybe {
			return Resolution{State: StateTypeUnknown}
		}
	}
	return Resolution{State: Unresolved}
}

// SoleMethod resolves an unqualified method name to its declaration in this
// unit when the nearest class that declares or inherits the name has exactly
// one method by that name. It returns nil otherwise.
func (m *Model) SoleMethod(scope *Scope, name string) *Binding {
	for s := scope; s != nil; s = s.Parent {
		if s.Kind != ScopeClass {
			continue
		}
		ms := s.methods[name]
		inherited := No
		for _, sup := range s.Supers {
			if _, t := m.Index.FindMethod(sup, name); t != No {
				inherited = t
				break
			}
		}
		if len(ms) == 0 && inherited == No {
			continue
		}
		if len(ms) != 1 || inherited != No || ms[0].Decl == nil {
			return nil
		}
		return ms[0]
	}
	return nil
}

// Member resolves a field of the class scope s itself, declared or inherited,
// as accessed through this.
func (m *Model) Member(s *Scope, name string) Resolution {
	if s == nil {
		return Resolution{}
	}
	if b := s.vars[name]; b != nil && b.Kind == BindingField {
		return Resolution{Binding: b, State: Resolved}
	}
	b, t := m.inheritedField(s, name)
	switch t {
	case Yes:
		return Resolution{Binding: b, State: Resolved}
	case Maybe:
		return Resolution{State: StateTypeUnknown}
	}
	return Resolution{State: Unresolved}
}

func visible(b *Binding, pos int) bool {
	if !b.IsLocal() {
		return true
	}
	return b.Pos < 0 || pos < 0 || b.Pos <= pos
}

func (m *Model) inheritedField(s *Scope, name string) (*Binding, Tri) {
	result := No
	for _, sup := range s.Supers {
		mem, t := m.Index.FindField(sup, name)
		if t == Yes {
			return m.inheritedBinding(BindingField, mem), Yes
		}
		if t == Maybe {
			result = Maybe
		}
	}
	return nil, result
}

// inheritedBinding returns the single binding shared by every reference to an
// indexed member that is not declared in this unit.
func (m *Model) inheritedBinding(kind BindingKind, mem Member) *Binding {
	key := kind.String() + ":" + mem.Owner + "." + mem.Name
	if b, ok := m.inherited[key]; ok {
		return b
	}
	if d, ok := m.Index.Lookup(mem.Owner); ok && d.Origin == m.Unit.Path {
		// Declared in this unit but reached through the index: prefer the
		// binding collected from the tree.
		for _, b := range m.bindings {
			if b.Kind == kind && b.Owner == mem.Owner && b.Name == mem.Name {
				m.inherited[key] = b
				return b
			}
		}
	}
	b := &Binding{Name: mem.Name, Kind: kind, Type: mem.Type, Static: mem.Static, Owner: mem.Owner, Pos: -1}
	m.inherited[key] = b
	return b
}

// ResolveType resolves type syntax as seen from n's scope.
func (m *Model) ResolveType(n *syntax.Node) Type {
	return m.namerAt(m.ScopeAt(n)).resolve(n)
}

// ResolveTypeName resolves a possibly-qualified type name as seen from scope.
func (m *Model) ResolveTypeName(scope *Scope, name string) Type {
	namer := m.namerAt(scope)
	if t, ok := namer.local(name); ok {
		return t
	}
	return namer.named(name)
}

func (m *Model) namerAt(scope *Scope) typeNamer {
	return typeNamer{
		ctx:    m.Ctx,
		lookup: m.Index.kind,
		local: func(name string) (Type, bool) {
			for s := scope; s != nil; s = s.Parent {
				if t, ok := s.types[name]; ok {
					return t, true
				}
			}
			return Type{}, false
		},
	}
}
