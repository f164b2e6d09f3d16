package semantic

import (
	"jrewrite/internal/syntax"
)

// IndexBuilder collects type declarations and produces an immutable Index.
// It is not safe for concurrent use.
type IndexBuilder struct {
	entries map[string]*entry
	order   []string
}

type entry struct {
	info TypeInfo
	raw  *rawDecl
}

// rawDecl is a declaration whose type names still need resolving against the
// complete set of declared names.
type rawDecl struct {
	ctx            *FileContext
	params         map[string]bool
	supers         []*syntax.Node
	implicitSupers []string
	members        []rawMember
}

type rawMember struct {
	name   string
	typ    *syntax.Node
	fixed  *Type
	dims   int
	static bool
	method bool
	arity  int
	params map[string]bool
}

// NewIndexBuilder returns a builder seeded with the JDK declarations.
func NewIndexBuilder() *IndexBuilder {
	b := &IndexBuilder{entries: make(map[string]*entry)}
	for _, info := range jdkTypes() {
		b.Add(info)
	}
	return b
}

// Add records a fully resolved declaration, replacing one of the same name.
func (b *IndexBuilder) Add(info TypeInfo) {
	b.put(info.Name, &entry{info: info})
}

func (b *IndexBuilder) put(name string, e *entry) {
	if _, ok := b.entries[name]; !ok {
		b.order = append(b.order, name)
	}
	b.entries[name] = e
}

// AddUnit records the top-level and member types declared in a parsed unit.
func (b *IndexBuilder) AddUnit(u *syntax.Unit) {
	ctx := NewFileContext(u.Root)
	outerParams := make(map[*syntax.Node]map[string]bool)
	collectTypeNames(u.Root, ctx.Package, func(_, fqn string, decl *syntax.Node) {
		params := withParams(outerParams[decl], typeParams(decl))
		raw := &rawDecl{ctx: ctx, params: params}
		info := TypeInfo{Name: fqn, Kind: declKind(decl.Kind), Origin: u.Path}

		switch decl.Kind {
		case syntax.KindClassDeclaration:
			if sc := decl.ChildByField("superclass"); sc != nil {
				raw.supers = append(raw.supers, sc.NamedChildren()...)
			} else {
				raw.implicitSupers = append(raw.implicitSupers, ObjectName)
			}
		case syntax.KindEnumDeclaration:
			raw.implicitSupers = append(raw.implicitSupers, "java.lang.Enum")
		case syntax.KindRecordDeclaration:
			raw.implicitSupers = append(raw.implicitSupers, "java.lang.Record")
		case syntax.KindAnnotationDeclaration:
			raw.implicitSupers = append(raw.implicitSupers, "java.lang.annotation.Annotation")
		}
		for _, ch := range decl.Children {
			if ch.Is(syntax.KindSuperInterfaces, syntax.KindExtendsInterfaces) {
				if list := ch.FirstChildOfKind(syntax.KindTypeList); list != nil {
					raw.supers = append(raw.supers, list.NamedChildren()...)
				}
			}
		}

		interfaceLike := info.Kind == TypeInterface
		if decl.Kind == syntax.KindRecordDeclaration {
			if ps := decl.ChildByField("parameters"); ps != nil {
				for _, p := range ps.NamedChildren() {
					if name := p.ChildByField("name"); name != nil {
						raw.members = append(raw.members, rawMember{name: name.Text, typ: p.ChildByField("type"), params: params})
					}
				}
			}
		}
		body := decl.ChildByField("body")
		if body == nil {
			b.put(fqn, &entry{info: info, raw: raw})
			return
		}
		members := body.Children
		if decl.Kind == syntax.KindEnumDeclaration {
			self := Type{Kind: TypeEnum, Name: fqn}
			for _, ch := range body.Children {
				if ch.Kind == "enum_constant" {
					if name := ch.ChildByField("name"); name != nil {
						raw.members = append(raw.members, rawMember{name: name.Text, fixed: &self, static: true})
					}
				}
			}
			if decls := body.FirstChildOfKind(syntax.KindEnumBodyDeclarations); decls != nil {
				members = decls.Children
			}
		}
		for _, m := range members {
			switch {
			case m.Is(syntax.KindFieldDeclaration, syntax.KindConstantDeclaration):
				static := interfaceLike || m.Kind == syntax.KindConstantDeclaration || hasModifier(m, "static")
				for _, d := range m.ChildrenByField("declarator") {
					if name := d.ChildByField("name"); name != nil {
						raw.members = append(raw.members, rawMember{
							name: name.Text, typ: m.ChildByField("type"),
							dims: countDims(d.ChildByField("dimensions")), static: static, params: params,
						})
					}
				}
			case m.Is(syntax.KindMethodDeclaration):
				name := m.ChildByField("name")
				if name == nil {
					continue
				}
				raw.members = append(raw.members, rawMember{
					name: name.Text, typ: m.ChildByField("type"),
					dims:   countDims(m.ChildByField("dimensions")),
					static: hasModifier(m, "static"), method: true,
					arity:  arity(m.ChildByField("parameters")),
					params: withParams(params, typeParams(m)),
				})
			case syntax.IsTypeDeclaration(m.Kind):
				if !hasModifier(m, "static") && m.Kind == syntax.KindClassDeclaration && !interfaceLike {
					outerParams[m] = params
				}
			}
		}
		b.put(fqn, &entry{info: info, raw: raw})
	})
}

// Build resolves pending type names and returns the immutable index. The
// builder may be reused afterwards.
func (b *IndexBuilder) Build() *Index {
	lookup := func(fqn string) (TypeKind, bool) {
		e, ok := b.entries[fqn]
		if !ok {
			return TypeUnknown, false
		}
		return e.info.Kind, true
	}

	x := &Index{byName: make(map[string]DeclID, len(b.order))}
	for _, name := range b.order {
		e := b.entries[name]
		info := e.info
		if e.raw != nil {
			info = e.raw.resolve(info, lookup)
		}
		d := &Decl{
			TypeInfo: info,
			ID:       DeclID(len(x.decls)),
			fields:   make(map[string]Member),
			methods:  make(map[string][]Member),
		}
		for _, f := range info.Fields {
			if _, dup := d.fields[f.Name]; !dup {
				f.Owner = name
				d.fields[f.Name] = f
			}
		}
		for _, m := range info.Methods {
			m.Owner = name
			d.methods[m.Name] = append(d.methods[m.Name], m)
		}
		x.byName[name] = d.ID
		x.decls = append(x.decls, d)
	}

	for _, d := range x.decls {
		for _, s := range d.Supers {
			if id, ok := x.byName[s]; ok {
				d.supers = append(d.supers, id)
			} else {
				d.partial = true
			}
		}
	}
	return x
}

func (r *rawDecl) resolve(info TypeInfo, lookup func(string) (TypeKind, bool)) TypeInfo {
	namer := typeNamer{ctx: r.ctx, lookup: lookup, local: paramNames(r.params)}
	info.Supers = append([]string(nil), r.implicitSupers...)
	for _, s := range r.supers {
		t := namer.resolve(s)
		if t.Known() {
			info.Supers = append(info.Supers, t.Name)
		} else {
			info.Supers = append(info.Supers, "?"+compact(s.Content()))
		}
	}
	info.Fields, info.Methods = nil, nil
	for _, m := range r.members {
		var t Type
		if m.fixed != nil {
			t = *m.fixed
		} else {
			namer.local = paramNames(m.params)
			t = ArrayOf(namer.resolve(m.typ), m.dims)
		}
		mem := Member{Name: m.name, Type: t, Static: m.static, Arity: m.arity}
		if m.method {
			info.Methods = append(info.Methods, mem)
		} else {
			info.Fields = append(info.Fields, mem)
		}
	}
	return info
}

func declKind(k syntax.Kind) TypeKind {
	switch k {
	case syntax.KindInterfaceDeclaration, syntax.KindAnnotationDeclaration:
		return TypeInterface
	case syntax.KindEnumDeclaration:
		return TypeEnum
	}
	return TypeClass
}

func arity(params *syntax.Node) int {
	if params == nil {
		return 0
	}
	n := 0
	for _, p := range params.NamedChildren() {
		if p.Is(syntax.KindFormalParameter, syntax.KindSpreadParameter) {
			n++
		}
	}
	return n
}
