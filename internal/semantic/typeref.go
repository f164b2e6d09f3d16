package semantic

import (
	"strings"

	"jrewrite/internal/syntax"
)

// typeNamer resolves type syntax against a file context and a view of the
// declared types. local, when set, answers for names bound in enclosing scopes
// such as type parameters and local classes.
type typeNamer struct {
	ctx    *FileContext
	lookup func(fqn string) (TypeKind, bool)
	local  func(name string) (Type, bool)
}

func (r typeNamer) resolve(n *syntax.Node) Type {
	if n == nil {
		return Unknown
	}
	switch n.Kind {
	case syntax.KindIntegralType, syntax.KindFloatingPointType, syntax.KindBooleanType:
		return Primitive(compact(n.Content()))
	case syntax.KindVoidType:
		return VoidType
	case syntax.KindTypeIdentifier:
		if r.local != nil {
			if t, ok := r.local(n.Text); ok {
				return t
			}
		}
		return r.named(n.Text)
	case syntax.KindScopedTypeIdent:
		return r.named(n.Content())
	case syntax.KindGenericType:
		base := n.FirstChildOfKind(syntax.KindTypeIdentifier, syntax.KindScopedTypeIdent)
		t := r.resolve(base)
		if !t.Known() {
			return t
		}
		if targs := n.FirstChildOfKind(syntax.KindTypeArguments); targs != nil {
			for _, a := range targs.NamedChildren() {
				t.Args = append(t.Args, r.resolve(a))
			}
		}
		return t
	case syntax.KindArrayType:
		elem := r.resolve(n.ChildByField("element"))
		return ArrayOf(elem, countDims(n.ChildByField("dimensions")))
	}
	return Unknown
}

func (r typeNamer) named(name string) Type {
	known := func(s string) bool {
		_, ok := r.lookup(s)
		return ok
	}
	fqn, ok := r.ctx.Qualify(name, known)
	if !ok {
		return Unknown
	}
	if k, ok := r.lookup(fqn); ok {
		return Type{Kind: k, Name: fqn}
	}
	return ClassType(fqn)
}

func countDims(n *syntax.Node) int {
	if n == nil {
		return 0
	}
	return strings.Count(n.Content(), "[")
}

// typeParams returns the names declared by a type_parameters child of decl.
func typeParams(decl *syntax.Node) []string {
	tp := decl.FirstChildOfKind("type_parameters")
	if tp == nil {
		return nil
	}
	var out []string
	for _, p := range tp.NamedChildren() {
		if id := p.FirstChildOfKind(syntax.KindTypeIdentifier, syntax.KindIdentifier); id != nil {
			out = append(out, id.Text)
		}
	}
	return out
}

// paramNames answers local lookups for a set of type parameter names, all of
// which resolve to Unknown.
func paramNames(params map[string]bool) func(string) (Type, bool) {
	return func(name string) (Type, bool) {
		if params[name] {
			return Unknown, true
		}
		return Type{}, false
	}
}

func withParams(base map[string]bool, names []string) map[string]bool {
	if len(names) == 0 {
		return base
	}
	out := make(map[string]bool, len(base)+len(names))
	for k := range base {
		out[k] = true
	}
	for _, n := range names {
		out[n] = true
	}
	return out
}

// hasModifier reports whether a declaration's modifiers include word.
func hasModifier(decl *syntax.Node, word string) bool {
	mods := decl.FirstChildOfKind(syntax.KindModifiers)
	if mods == nil {
		return false
	}
	for _, m := range mods.Children {
		if m.IsToken(word) {
			return true
		}
	}
	return false
}
