package semantic

import (
	"jrewrite/internal/syntax"
)

// Annotate builds the semantic model of u in one pre-order pass over its tree.
// If index does not cover the unit's own declarations it is extended with them
// first; a nil index means the JDK seed alone.
func Annotate(u *syntax.Unit, index *Index) *Model {
	if index == nil {
		index = NewIndexBuilder().Build()
	}
	if !index.Covers(u) {
		index = index.Extend(u)
	}
	m := &Model{
		Unit:      u,
		Index:     index,
		Ctx:       NewFileContext(u.Root),
		opened:    make(map[*syntax.Node]*Scope),
		enclosing: make(map[*syntax.Node]*Scope),
		parents:   make(map[*syntax.Node]*syntax.Node),
		declared:  make(map[*syntax.Node]*Binding),
		resolved:  make(map[*syntax.Node]Resolution),
		inherited: make(map[string]*Binding),
		types:     make(map[*syntax.Node]Type),
		tainted:   make(map[*Scope]bool),
	}
	recordParents(u.Root, m.parents)

	a := &annotator{m: m}
	root := a.push(ScopeUnit, u.Root)
	root.Static = true

	// 1. Declare every named type and its members up front, so that forward
	// references and inherited members declared later in the file resolve.
	a.predeclare(u.Root, root, m.Ctx.Package, true)

	// 2. Walk bodies and resolve references.
	a.children(u.Root)
	a.pop()
	return m
}

func recordParents(n *syntax.Node, parents map[*syntax.Node]*syntax.Node) {
	for _, c := range n.Children {
		parents[c] = n
		recordParents(c, parents)
	}
}

type annotator struct {
	m     *Model
	stack []*Scope
}

func (a *annotator) scope() *Scope { return a.stack[len(a.stack)-1] }

func (a *annotator) push(kind ScopeKind, n *syntax.Node) *Scope {
	var parent *Scope
	if len(a.stack) > 0 {
		parent = a.scope()
	}
	s := newScope(len(a.m.scopes), kind, parent, n)
	a.m.scopes = append(a.m.scopes, s)
	a.m.opened[n] = s
	a.m.enclosing[n] = s
	a.stack = append(a.stack, s)
	return s
}

func (a *annotator) enter(s *Scope) {
	a.m.enclosing[s.Node] = s
	a.stack = append(a.stack, s)
}

func (a *annotator) pop() { a.stack = a.stack[:len(a.stack)-1] }

func (a *annotator) declare(b *Binding, decl, name *syntax.Node) *Binding {
	a.scope().declare(b)
	b.Decl, b.NameID = decl, name
	if decl != nil {
		a.m.declared[decl] = b
	}
	if name != nil {
		a.m.declared[name] = b
		if b.Pos == 0 && decl != nil {
			b.Pos = decl.Span.Start
		}
	}
	a.m.bindings = append(a.m.bindings, b)
	return b
}

// predeclare creates class scopes for the types declared directly in n together
// with their member bindings. Types below a local or anonymous class have no
// stable name, which named=false records.
func (a *annotator) predeclare(n *syntax.Node, outer *Scope, prefix string, named bool) {
	for _, decl := range n.Children {
		if !syntax.IsTypeDeclaration(decl.Kind) {
			continue
		}
		name := decl.ChildByField("name")
		if name == nil {
			continue
		}
		fqn := ""
		switch {
		case !named:
		case prefix != "":
			fqn = prefix + "." + name.Text
		default:
			fqn = name.Text
		}
		s := a.classScope(decl, outer, fqn)
		body := decl.ChildByField("body")
		if body == nil {
			continue
		}
		a.predeclare(body, s, fqn, named)
		if decls := body.FirstChildOfKind(syntax.KindEnumBodyDeclarations); decls != nil {
			a.predeclare(decls, s, fqn, named)
		}
	}
}

// classScope opens the scope of a class-like declaration, declares its
// members, and closes it again. The scope is re-entered when the walk reaches
// the declaration.
func (a *annotator) classScope(decl *syntax.Node, outer *Scope, fqn string) *Scope {
	name := decl.ChildByField("name")
	self := Type{Kind: declKind(decl.Kind), Name: fqn}
	if fqn == "" {
		self = Unknown
	}
	if name != nil {
		tb := &Binding{Name: name.Text, Kind: BindingType, Type: self, Static: true, Owner: fqn}
		outer.declare(tb)
		tb.Decl, tb.NameID = decl, name
		a.m.declared[decl] = tb
		a.m.declared[name] = tb
		a.m.bindings = append(a.m.bindings, tb)
	}

	a.stack = append(a.stack, outer)
	s := a.push(ScopeClass, decl)
	s.Class = fqn
	s.Static = outer.Kind == ScopeUnit || decl.Kind != syntax.KindClassDeclaration ||
		hasModifier(decl, "static") || (outer.Kind == ScopeClass && outer.Node.Kind == syntax.KindInterfaceDeclaration)
	for _, tp := range typeParams(decl) {
		s.types[tp] = Unknown
	}
	s.Supers = a.supers(decl, s)
	a.members(decl, decl.ChildByField("body"), fqn)
	a.pop()
	a.pop()
	return s
}

func (a *annotator) supers(decl *syntax.Node, s *Scope) []string {
	var out []string
	namer := a.m.namerAt(s)
	add := func(t *syntax.Node) {
		if rt := namer.resolve(t); rt.Known() {
			out = append(out, rt.Name)
		} else {
			out = append(out, "?"+compact(t.Content()))
		}
	}
	switch decl.Kind {
	case syntax.KindClassDeclaration:
		if sc := decl.ChildByField("superclass"); sc != nil {
			for _, t := range sc.NamedChildren() {
				add(t)
			}
		} else {
			out = append(out, ObjectName)
		}
	case syntax.KindEnumDeclaration:
		out = append(out, "java.lang.Enum")
	case syntax.KindRecordDeclaration:
		out = append(out, "java.lang.Record")
	}
	for _, ch := range decl.Children {
		if ch.Is(syntax.KindSuperInterfaces, syntax.KindExtendsInterfaces) {
			if list := ch.FirstChildOfKind(syntax.KindTypeList); list != nil {
				for _, t := range list.NamedChildren() {
					add(t)
				}
			}
		}
	}
	return out
}

// members declares the fields and methods of a class body into the current
// scope. decl is nil for anonymous classes.
func (a *annotator) members(decl, body *syntax.Node, fqn string) {
	s := a.scope()
	kind := syntax.KindClassDeclaration
	if decl != nil {
		kind = decl.Kind
	}
	interfaceLike := kind == syntax.KindInterfaceDeclaration || kind == syntax.KindAnnotationDeclaration
	if kind == syntax.KindRecordDeclaration {
		if ps := decl.ChildByField("parameters"); ps != nil {
			for _, p := range ps.NamedChildren() {
				name := p.ChildByField("name")
				if name == nil {
					continue
				}
				a.declare(&Binding{
					Name: name.Text, Kind: BindingField, Type: a.m.namerAt(s).resolve(p.ChildByField("type")),
					Owner: fqn, Pos: p.Span.Start,
				}, p, name)
			}
		}
	}
	if body == nil {
		return
	}
	members := body.Children
	if kind == syntax.KindEnumDeclaration {
		self := Type{Kind: TypeEnum, Name: fqn}
		for _, ch := range body.Children {
			if ch.Kind != "enum_constant" {
				continue
			}
			if name := ch.ChildByField("name"); name != nil {
				a.declare(&Binding{Name: name.Text, Kind: BindingField, Type: self, Static: true, Owner: fqn, Pos: ch.Span.Start}, ch, name)
			}
		}
		if decls := body.FirstChildOfKind(syntax.KindEnumBodyDeclarations); decls != nil {
			members = decls.Children
		}
	}
	namer := a.m.namerAt(s)
	for _, mem := range members {
		switch {
		case mem.Is(syntax.KindFieldDeclaration, syntax.KindConstantDeclaration):
			static := interfaceLike || mem.Kind == syntax.KindConstantDeclaration || hasModifier(mem, "static")
			t := namer.resolve(mem.ChildByField("type"))
			for _, d := range mem.ChildrenByField("declarator") {
				name := d.ChildByField("name")
				if name == nil {
					continue
				}
				a.declare(&Binding{
					Name: name.Text, Kind: BindingField, Type: ArrayOf(t, countDims(d.ChildByField("dimensions"))),
					Mutable: !interfaceLike && !hasModifier(mem, "final"), Static: static, Owner: fqn, Pos: d.Span.Start,
				}, d, name)
			}
		case mem.Is(syntax.KindMethodDeclaration):
			name := mem.ChildByField("name")
			if name == nil {
				continue
			}
			mnamer := namer
			params := typeParams(mem)
			if len(params) > 0 {
				outerLocal := namer.local
				set := withParams(nil, params)
				mnamer.local = func(n string) (Type, bool) {
					if set[n] {
						return Unknown, true
					}
					return outerLocal(n)
				}
			}
			rt := ArrayOf(mnamer.resolve(mem.ChildByField("type")), countDims(mem.ChildByField("dimensions")))
			a.declare(&Binding{
				Name: name.Text, Kind: BindingMethod, Type: rt,
				Static: hasModifier(mem, "static"), Owner: fqn, Pos: mem.Span.Start,
			}, mem, name)
		}
	}
}

func (a *annotator) children(n *syntax.Node) {
	for _, c := range n.Children {
		a.walk(c)
	}
}

func (a *annotator) walk(n *syntax.Node) {
	if n == nil {
		return
	}
	if _, ok := a.m.enclosing[n]; !ok {
		a.m.enclosing[n] = a.scope()
	}
	switch n.Kind {
	case syntax.KindPackageDeclaration, syntax.KindImportDeclaration,
		syntax.KindAnnotation, syntax.KindMarkerAnnotation, syntax.KindModifiers,
		syntax.KindScopedIdentifier, syntax.KindBreakStatement, syntax.KindContinueStatement,
		syntax.KindError:
		return
	case syntax.KindClassDeclaration, syntax.KindInterfaceDeclaration, syntax.KindEnumDeclaration,
		syntax.KindRecordDeclaration, syntax.KindAnnotationDeclaration:
		a.classDecl(n)
	case syntax.KindObjectCreation:
		a.objectCreation(n)
	case "enum_constant":
		a.enumConstant(n)
	case syntax.KindMethodDeclaration, syntax.KindConstructorDecl:
		a.method(n)
	case syntax.KindStaticInitializer:
		s := a.push(ScopeStaticInit, n)
		s.Static = true
		a.children(n)
		a.pop()
	case syntax.KindFieldDeclaration, syntax.KindConstantDeclaration:
		a.field(n)
	case syntax.KindBlock, syntax.KindConstructorBody, syntax.KindSwitchBlockGroup, "switch_rule":
		a.push(ScopeBlock, n)
		a.children(n)
		a.pop()
	case syntax.KindLambdaExpression:
		a.lambda(n)
	case syntax.KindCatchClause:
		a.catch(n)
	case syntax.KindForStatement:
		a.push(ScopeFor, n)
		a.children(n)
		a.pop()
	case syntax.KindEnhancedForStatement:
		a.enhancedFor(n)
	case syntax.KindTryWithResources:
		a.push(ScopeBlock, n)
		a.children(n)
		a.pop()
	case syntax.KindResource:
		a.resource(n)
	case syntax.KindLocalVariableDecl:
		a.local(n)
	case syntax.KindIdentifier:
		a.reference(n, Read)
	case syntax.KindMethodInvocation:
		a.invocation(n)
	case syntax.KindFieldAccess:
		a.fieldAccess(n, Read)
	case syntax.KindAssignmentExpression:
		a.assignment(n)
	case syntax.KindUpdateExpression:
		a.update(n)
	case syntax.KindLabeledStatement:
		for _, c := range n.Children {
			if c.Kind != syntax.KindIdentifier {
				a.walk(c)
			}
		}
	case syntax.KindMethodReference:
		if len(n.Children) > 0 {
			a.walk(n.Children[0])
		}
	case syntax.KindInstanceofExpression:
		a.instanceOf(n)
	default:
		a.children(n)
	}
}

func (a *annotator) classDecl(n *syntax.Node) {
	s, ok := a.m.opened[n]
	if !ok {
		// A local class: it has no stable name and was not predeclared.
		s = a.classScope(n, a.scope(), "")
		if body := n.ChildByField("body"); body != nil {
			a.predeclare(body, s, "", false)
		}
	}
	if n.Kind == syntax.KindAnnotationDeclaration {
		return
	}
	a.enter(s)
	a.walk(n.ChildByField("body"))
	a.pop()
}

func (a *annotator) objectCreation(n *syntax.Node) {
	var body *syntax.Node
	for _, c := range n.Children {
		if c.Kind == syntax.KindClassBody {
			body = c
			continue
		}
		a.walk(c)
	}
	if body == nil {
		return
	}
	a.anonymousClass(body, a.m.ResolveType(n.ChildByField("type")))
}

func (a *annotator) enumConstant(n *syntax.Node) {
	var body *syntax.Node
	for _, c := range n.Children {
		switch {
		case c.Kind == syntax.KindClassBody:
			body = c
		case c.Field == "name":
		default:
			a.walk(c)
		}
	}
	if body != nil {
		a.anonymousClass(body, a.scope().EnclosingClass().selfType())
	}
}

func (s *Scope) selfType() Type {
	if s == nil || s.Class == "" {
		return Unknown
	}
	return ClassType(s.Class)
}

// anonymousClass opens a class scope for body whose single supertype is super.
func (a *annotator) anonymousClass(body *syntax.Node, super Type) {
	s := a.push(ScopeClass, body)
	if super.Known() {
		s.Supers = []string{super.Name}
	} else {
		s.Supers = []string{"?anonymous"}
	}
	a.members(nil, body, "")
	a.pop()
	a.predeclare(body, s, "", false)
	a.enter(s)
	a.children(body)
	a.pop()
}

func (a *annotator) method(n *syntax.Node) {
	s := a.push(ScopeMethod, n)
	s.Static = hasModifier(n, "static")
	for _, tp := range typeParams(n) {
		s.types[tp] = Unknown
	}
	a.parameters(n.ChildByField("parameters"), BindingParameter)
	a.walk(n.ChildByField("body"))
	a.pop()
}

func (a *annotator) parameters(params *syntax.Node, kind BindingKind) {
	if params == nil {
		return
	}
	for _, p := range params.NamedChildren() {
		switch p.Kind {
		case syntax.KindFormalParameter:
			name := p.ChildByField("name")
			if name == nil {
				continue
			}
			t := ArrayOf(a.m.ResolveType(p.ChildByField("type")), countDims(p.ChildByField("dimensions")))
			a.declare(&Binding{Name: name.Text, Kind: kind, Type: t, Mutable: !hasModifier(p, "final"), Pos: p.Span.Start}, p, name)
		case syntax.KindSpreadParameter:
			d := p.FirstChildOfKind(syntax.KindVariableDeclarator)
			if d == nil {
				continue
			}
			name := d.ChildByField("name")
			var tnode *syntax.Node
			for _, c := range p.NamedChildren() {
				if c.Category() == syntax.CategoryType {
					tnode = c
					break
				}
			}
			t := ArrayOf(a.m.ResolveType(tnode), 1)
			a.declare(&Binding{Name: name.Text, Kind: kind, Type: t, Mutable: !hasModifier(p, "final"), Pos: p.Span.Start}, p, name)
		case syntax.KindIdentifier:
			a.declare(&Binding{Name: p.Text, Kind: kind, Mutable: true, Pos: p.Span.Start}, p, p)
		}
	}
}

func (a *annotator) lambda(n *syntax.Node) {
	a.push(ScopeLambda, n)
	params := n.ChildByField("parameters")
	if params != nil {
		switch params.Kind {
		case syntax.KindIdentifier:
			a.declare(&Binding{Name: params.Text, Kind: BindingLambdaParameter, Mutable: true, Pos: params.Span.Start}, params, params)
		case syntax.KindFormalParameters, syntax.KindInferredParameters:
			a.parameters(params, BindingLambdaParameter)
		}
	}
	a.walk(n.ChildByField("body"))
	a.pop()
}

func (a *annotator) catch(n *syntax.Node) {
	a.push(ScopeCatch, n)
	if param := n.FirstChildOfKind(syntax.KindCatchFormalParameter); param != nil {
		var types []*syntax.Node
		if ct := param.FirstChildOfKind(syntax.KindCatchType); ct != nil {
			types = ct.NamedChildren()
		}
		t := Unknown
		if len(types) == 1 {
			t = a.m.ResolveType(types[0])
		}
		if name := param.ChildByField("name"); name != nil {
			a.declare(&Binding{
				Name: name.Text, Kind: BindingCatchParameter, Type: t,
				Mutable: len(types) == 1 && !hasModifier(param, "final"), Pos: param.Span.Start,
			}, param, name)
		}
	}
	a.walk(n.ChildByField("body"))
	a.pop()
}

func (a *annotator) enhancedFor(n *syntax.Node) {
	a.push(ScopeFor, n)
	value := n.ChildByField("value")
	a.walk(value)
	if name := n.ChildByField("name"); name != nil {
		tnode := n.ChildByField("type")
		var t Type
		if isVar(tnode) {
			t = a.m.TypeOf(value).Elem()
		} else {
			t = ArrayOf(a.m.ResolveType(tnode), countDims(n.ChildByField("dimensions")))
		}
		a.declare(&Binding{Name: name.Text, Kind: BindingLocal, Type: t, Mutable: !hasModifier(n, "final"), Pos: name.Span.Start}, name, name)
	}
	a.walk(n.ChildByField("body"))
	a.pop()
}

func (a *annotator) resource(n *syntax.Node) {
	name := n.ChildByField("name")
	if name == nil {
		a.children(n)
		return
	}
	value := n.ChildByField("value")
	a.walk(value)
	tnode := n.ChildByField("type")
	t := a.m.ResolveType(tnode)
	if isVar(tnode) {
		t = a.m.TypeOf(value)
	}
	a.declare(&Binding{Name: name.Text, Kind: BindingResource, Type: t, Pos: n.Span.Start}, n, name)
}

func (a *annotator) local(n *syntax.Node) {
	tnode := n.ChildByField("type")
	inferred := isVar(tnode)
	t := Unknown
	if !inferred {
		t = a.m.ResolveType(tnode)
	}
	final := hasModifier(n, "final")
	for _, d := range n.ChildrenByField("declarator") {
		name := d.ChildByField("name")
		if name == nil {
			continue
		}
		b := a.declare(&Binding{
			Name: name.Text, Kind: BindingLocal, Type: ArrayOf(t, countDims(d.ChildByField("dimensions"))),
			Mutable: !final, Pos: d.Span.Start,
		}, d, name)
		a.m.enclosing[d] = a.scope()
		if v := d.ChildByField("value"); v != nil {
			a.walk(v)
			if inferred {
				b.Type = a.m.TypeOf(v)
			}
		}
	}
}

func (a *annotator) field(n *syntax.Node) {
	static := n.Kind == syntax.KindConstantDeclaration || hasModifier(n, "static")
	if static {
		s := a.push(ScopeStaticInit, n)
		s.Static = true
	}
	for _, d := range n.ChildrenByField("declarator") {
		a.walk(d.ChildByField("value"))
	}
	if static {
		a.pop()
	}
}

func (a *annotator) instanceOf(n *syntax.Node) {
	a.walk(n.ChildByField("left"))
	if name := n.ChildByField("name"); name != nil {
		t := a.m.ResolveType(n.ChildByField("right"))
		a.declare(&Binding{Name: name.Text, Kind: BindingLocal, Type: t, Pos: name.Span.Start}, name, name)
		return
	}
	syntax.Walk(n, func(x *syntax.Node) bool {
		if x.Kind == "type_pattern" {
			ids := x.ChildrenByField("name")
			if len(ids) == 0 {
				if id := x.FirstChildOfKind(syntax.KindIdentifier); id != nil {
					ids = append(ids, id)
				}
			}
			for _, id := range ids {
				a.declare(&Binding{Name: id.Text, Kind: BindingLocal, Pos: id.Span.Start}, id, id)
			}
			return false
		}
		return true
	})
}

func (a *annotator) reference(n *syntax.Node, access Access) {
	res := a.m.LookupAt(a.scope(), n.Text, n.Span.Start)
	a.m.resolved[n] = res
	if res.OK() {
		res.Binding.Refs = append(res.Binding.Refs, Ref{Node: n, Access: access})
	}
}

func (a *annotator) invocation(n *syntax.Node) {
	obj := n.ChildByField("object")
	name := n.ChildByField("name")
	if obj != nil {
		a.walk(obj)
	}
	if name != nil {
		var res Resolution
		switch {
		case obj == nil:
			res = a.m.LookupMethod(a.scope(), name.Text)
		case obj.Kind == syntax.KindThis:
			res = a.m.LookupMethod(a.scope().EnclosingClass(), name.Text)
		}
		a.m.resolved[name] = res
		if res.OK() {
			res.Binding.Refs = append(res.Binding.Refs, Ref{Node: name, Access: Read})
		}
	}
	a.walk(n.ChildByField("arguments"))
}

func (a *annotator) fieldAccess(n *syntax.Node, access Access) {
	obj := n.ChildByField("object")
	a.walk(obj)
	field := n.ChildByField("field")
	if field == nil || obj == nil || obj.Kind != syntax.KindThis {
		return
	}
	res := a.m.Member(a.scope().EnclosingClass(), field.Text)
	a.m.resolved[field] = res
	if res.OK() {
		res.Binding.Refs = append(res.Binding.Refs, Ref{Node: field, Access: access})
	}
}

func (a *annotator) assignment(n *syntax.Node) {
	left := n.ChildByField("left")
	access := Write
	if op := n.ChildByField("operator"); op != nil && op.Text != "=" {
		access = ReadWrite
	}
	a.target(left, access)
	a.walk(n.ChildByField("right"))
}

func (a *annotator) update(n *syntax.Node) {
	for _, c := range n.Children {
		if c.Named {
			a.target(c, ReadWrite)
		}
	}
}

func (a *annotator) target(n *syntax.Node, access Access) {
	if n == nil {
		return
	}
	a.m.enclosing[n] = a.scope()
	switch n.Kind {
	case syntax.KindIdentifier:
		a.reference(n, access)
	case syntax.KindFieldAccess:
		a.fieldAccess(n, access)
	case syntax.KindParenthesized:
		for _, c := range n.NamedChildren() {
			a.target(c, access)
		}
	default:
		a.walk(n)
	}
}

func isVar(t *syntax.Node) bool {
	return t != nil && t.Kind == syntax.KindTypeIdentifier && t.Text == "var"
}
