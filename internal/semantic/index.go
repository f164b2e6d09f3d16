package semantic

import (
	"jrewrite/internal/syntax"
)

// DeclID addresses a type declaration in an Index.
type DeclID int

const NoDecl DeclID = -1

const OriginJDK = "jdk"

// Member is a field or method of an indexed type. For methods Type is the
// return type.
type Member struct {
	Name   string `json:"name"`
	Type   Type   `json:"type"`
	Static bool   `json:"static,omitempty"`
	Arity  int    `json:"arity,omitempty"`
	// Owner is the declaring type, filled in by the index.
	Owner string `json:"-"`
}

// TypeInfo is the persistable description of one declared type. Supers hold
// fully-qualified names; a name that is not declared in the index makes every
// hierarchy query through it indeterminate.
type TypeInfo struct {
	Name    string   `json:"name"`
	Kind    TypeKind `json:"kind"`
	Supers  []string `json:"supers,omitempty"`
	Fields  []Member `json:"fields,omitempty"`
	Methods []Member `json:"methods,omitempty"`
	Origin  string   `json:"origin,omitempty"`
}

// Decl is a type declaration inside an Index.
type Decl struct {
	TypeInfo
	ID DeclID

	supers  []DeclID
	partial bool
	fields  map[string]Member
	methods map[string][]Member
}

// Type returns the type handle of the declaration.
func (d *Decl) Type() Type { return Type{Kind: d.Kind, Name: d.Name} }

// Index is an immutable cross-unit table of type declarations. It is built once
// by an IndexBuilder and then shared read-only by every unit of a run.
type Index struct {
	decls  []*Decl
	byName map[string]DeclID
}

// Lookup finds a declaration by fully-qualified name.
func (x *Index) Lookup(fqn string) (*Decl, bool) {
	if x == nil {
		return nil, false
	}
	id, ok := x.byName[fqn]
	if !ok {
		return nil, false
	}
	return x.decls[id], true
}

// Decl returns the declaration with the given id.
func (x *Index) Decl(id DeclID) *Decl {
	if x == nil || id < 0 || int(id) >= len(x.decls) {
		return nil
	}
	return x.decls[id]
}

// Decls returns every declaration in insertion order.
func (x *Index) Decls() []*Decl {
	if x == nil {
		return nil
	}
	return x.decls
}

// Len returns the number of declarations.
func (x *Index) Len() int { return len(x.Decls()) }

// Infos returns the descriptions of all declarations that did not come from
// the built-in JDK seed.
func (x *Index) Infos() []TypeInfo {
	var out []TypeInfo
	for _, d := range x.Decls() {
		if d.Origin != OriginJDK {
			out = append(out, d.TypeInfo)
		}
	}
	return out
}

func (x *Index) kind(fqn string) (TypeKind, bool) {
	d, ok := x.Lookup(fqn)
	if !ok {
		return TypeUnknown, false
	}
	return d.Kind, true
}

// IsSubtype reports whether sub is sup or one of its subtypes. The answer is
// Maybe when sub is not indexed or some supertype on the way is missing.
func (x *Index) IsSubtype(sub, sup string) Tri {
	if sub == sup {
		return Yes
	}
	d, ok := x.Lookup(sub)
	if !ok {
		return Maybe
	}
	if sup == ObjectName {
		return Yes
	}
	result := No
	if d.partial {
		result = Maybe
	}
	x.walkSupers(d, func(s *Decl) bool {
		if s.Name == sup {
			result = Yes
			return false
		}
		if s.partial {
			result = Maybe
		}
		return true
	})
	return result
}

// Related reports whether one of a and b is a subtype of the other.
func (x *Index) Related(a, b string) Tri {
	ab, ba := x.IsSubtype(a, b), x.IsSubtype(b, a)
	switch {
	case ab == Yes || ba == Yes:
		return Yes
	case ab == No && ba == No:
		return No
	}
	return Maybe
}

// FindField looks a field up in owner and its supertypes.
func (x *Index) FindField(owner, name string) (Member, Tri) {
	return x.findMember(owner, func(d *Decl) (Member, bool) {
		m, ok := d.fields[name]
		return m, ok
	})
}

// FindMethod looks a method up in owner and its supertypes. Overloads are not
// distinguished; the first declared one wins.
func (x *Index) FindMethod(owner, name string) (Member, Tri) {
	m, t := x.findMember(owner, func(d *Decl) (Member, bool) {
		ms := d.methods[name]
		if len(ms) == 0 {
			return Member{}, false
		}
		return ms[0], true
	})
	if t == No && owner != ObjectName {
		if obj, ok := x.Lookup(ObjectName); ok {
			if ms := obj.methods[name]; len(ms) > 0 {
				return ms[0], Yes
			}
		}
	}
	return m, t
}

func (x *Index) findMember(owner string, get func(*Decl) (Member, bool)) (Member, Tri) {
	d, ok := x.Lookup(owner)
	if !ok {
		return Member{}, Maybe
	}
	if m, ok := get(d); ok {
		return m, Yes
	}
	var found Member
	result := No
	if d.partial {
		result = Maybe
	}
	x.walkSupers(d, func(s *Decl) bool {
		if m, ok := get(s); ok {
			found, result = m, Yes
			return false
		}
		if s.partial {
			result = Maybe
		}
		return true
	})
	return found, result
}

// walkSupers visits the proper supertypes of d breadth-first, each once, until
// fn returns false.
func (x *Index) walkSupers(d *Decl, fn func(*Decl) bool) {
	seen := map[DeclID]bool{d.ID: true}
	queue := append([]DeclID(nil), d.supers...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		s := x.decls[id]
		if !fn(s) {
			return
		}
		queue = append(queue, s.supers...)
	}
}

// Extend returns a new index holding x's declarations plus those of units.
// Declarations of the same name are replaced.
func (x *Index) Extend(units ...*syntax.Unit) *Index {
	b := &IndexBuilder{entries: make(map[string]*entry)}
	for _, d := range x.Decls() {
		b.Add(d.TypeInfo)
	}
	for _, u := range units {
		b.AddUnit(u)
	}
	return b.Build()
}

// Covers reports whether every member and top-level type declared in u is
// indexed.
func (x *Index) Covers(u *syntax.Unit) bool {
	ctx := NewFileContext(u.Root)
	covered := true
	collectTypeNames(u.Root, ctx.Package, func(_, fqn string, _ *syntax.Node) {
		if _, ok := x.Lookup(fqn); !ok {
			covered = false
		}
	})
	return covered
}
