package recipes

import (
	"jrewrite/internal/analysis"
	"jrewrite/internal/recipe"
	"jrewrite/internal/semantic"
	"jrewrite/internal/syntax"
	"jrewrite/internal/visitor"
)

var catchDescriptor = recipe.Descriptor{
	Name:        "CombineSemanticallyEqualCatchBlocks",
	DisplayName: "Combine semantically equal catch blocks",
	Description: "Merges catch clauses with equivalent bodies into a single multi-catch clause.",
}

// CombineSemanticallyEqualCatchBlocks merges catch clauses whose bodies are
// equivalent once their exception variables are identified. A merged clause
// takes the position of the earliest one.
func CombineSemanticallyEqualCatchBlocks() recipe.Recipe {
	return recipe.Single(catchDescriptor, func() *visitor.Visitor {
		return &visitor.Visitor{
			Name: catchDescriptor.Name,
			Exit: map[syntax.Kind]visitor.Handler{
				syntax.KindTryStatement:     combineCatches,
				syntax.KindTryWithResources: combineCatches,
			},
		}
	})
}

// catchInfo describes one catch clause of the original tree.
type catchInfo struct {
	index  int // position among the try statement's children
	clause *syntax.Node
	types  []*syntax.Node
	names  []string
	param  *semantic.Binding
	mods   string
	usable bool
}

// catchSlot is a clause of the result: one or more merged original clauses.
type catchSlot struct {
	members []*catchInfo
}

func (s *catchSlot) names() []string {
	var out []string
	for _, m := range s.members {
		out = append(out, m.names...)
	}
	return out
}

func combineCatches(c *visitor.Cursor, n *syntax.Node) visitor.Result {
	orig := c.Node()
	m := c.Model()
	var slots []*catchSlot
	for i, ch := range orig.Children {
		if ch.Kind == syntax.KindCatchClause {
			slots = append(slots, &catchSlot{members: []*catchInfo{describeCatch(m, i, ch)}})
		}
	}
	if len(slots) < 2 {
		return visitor.Unchanged()
	}

	merged := false
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			if !canMerge(m, slots, i, j) {
				continue
			}
			slots[i].members = append(slots[i].members, slots[j].members...)
			slots = append(slots[:j], slots[j+1:]...)
			j--
			merged = true
		}
	}
	if !merged {
		return visitor.Unchanged()
	}

	// Rebuild from n so that rewrites inside the clauses are kept. A try
	// statement is not a sequence, so n's children line up with orig's.
	drop := make(map[int]bool)
	repl := make(map[int]*syntax.Node)
	for _, s := range slots {
		if len(s.members) == 1 {
			continue
		}
		target := s.members[0]
		var extra []*syntax.Node
		for _, mem := range s.members[1:] {
			drop[mem.index] = true
			extra = append(extra, mem.types...)
		}
		repl[target.index] = withCatchTypes(n.Children[target.index], extra)
	}
	children := make([]*syntax.Node, 0, len(n.Children))
	for i, ch := range n.Children {
		switch {
		case drop[i]:
		case repl[i] != nil:
			children = append(children, repl[i])
		default:
			children = append(children, ch)
		}
	}
	return visitor.Replace(n.WithChildren(children))
}

func describeCatch(m *semantic.Model, index int, clause *syntax.Node) *catchInfo {
	info := &catchInfo{index: index, clause: clause}
	param := clause.FirstChildOfKind(syntax.KindCatchFormalParameter)
	if param == nil || clause.ChildByField("body") == nil {
		return info
	}
	if mods := param.FirstChildOfKind(syntax.KindModifiers); mods != nil {
		info.mods = mods.Content()
	}
	if ct := param.FirstChildOfKind(syntax.KindCatchType); ct != nil {
		info.types = ct.NamedChildren()
	}
	if name := param.ChildByField("name"); name != nil {
		info.param = m.Declared(name)
	}
	if len(info.types) == 0 || info.param == nil || m.Tainted(info.param) {
		return info
	}
	for _, t := range info.types {
		rt := m.ResolveType(t)
		if !rt.Known() || rt.IsArray() {
			return info
		}
		info.names = append(info.names, rt.Name)
	}
	// A multi-catch parameter is implicitly final.
	info.usable = info.param.Writes() == 0
	return info
}

// canMerge reports whether slot j can be folded into slot i, which moves j's
// exception types up past the slots in between.
func canMerge(m *semantic.Model, slots []*catchSlot, i, j int) bool {
	a, b := slots[i], slots[j]
	for _, s := range []*catchSlot{a, b} {
		for _, mem := range s.members {
			if !mem.usable {
				return false
			}
		}
	}
	ra, rb := a.members[0], b.members[0]
	if ra.mods != rb.mods {
		return false
	}
	if !analysis.Equivalent(ra.clause.ChildByField("body"), rb.clause.ChildByField("body"), analysis.Options{
		Model:   m,
		Aliases: map[*semantic.Binding]*semantic.Binding{ra.param: rb.param},
	}) {
		return false
	}

	all := append(a.names(), b.names()...)
	for x := 0; x < len(all); x++ {
		for y := x + 1; y < len(all); y++ {
			if m.Index.Related(all[x], all[y]) != semantic.No {
				return false
			}
		}
	}
	// Moving b's types above a clause that catches one of their subtypes
	// would shadow it; a supertype in between makes the order significant.
	for k := i + 1; k < j; k++ {
		for _, t := range slots[k].names() {
			for _, u := range b.names() {
				if m.Index.Related(t, u) != semantic.No {
					return false
				}
			}
		}
	}
	for _, s := range []*catchSlot{a, b} {
		for _, mem := range s.members {
			if !paramUsesFit(m, mem.param, all) {
				return false
			}
		}
	}
	return true
}

// paramUsesFit reports whether every use of the exception variable stays
// valid when its static type widens to the union of types.
func paramUsesFit(m *semantic.Model, b *semantic.Binding, types []string) bool {
	for _, r := range b.Refs {
		p := m.Parent(r.Node)
		if p == nil {
			return false
		}
		switch p.Kind {
		case syntax.KindThrowStatement:
		case syntax.KindArgumentList:
			if !argumentFits(m, p, r.Node, types) {
				return false
			}
		case syntax.KindBinaryExpression:
			if op := p.ChildByField("operator"); op == nil || op.Text != "+" {
				return false
			}
		case syntax.KindMethodInvocation:
			if r.Node.Field != "object" {
				return false
			}
			name := p.ChildByField("name")
			if name == nil || !commonMethod(m.Index, types, name.Text) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// argumentFits reports whether arg, an element of args, can be passed as the
// union of types: the call must reach a single declaration in this unit whose
// parameter at arg's position accepts every type.
func argumentFits(m *semantic.Model, args, arg *syntax.Node, types []string) bool {
	call := m.Parent(args)
	if call == nil || call.Kind != syntax.KindMethodInvocation || call.ChildByField("object") != nil {
		return false
	}
	name := call.ChildByField("name")
	if name == nil {
		return false
	}
	method := m.SoleMethod(m.ScopeAt(call), name.Text)
	if method == nil {
		return false
	}
	var params []*syntax.Node
	if ps := method.Decl.ChildByField("parameters"); ps != nil {
		for _, p := range ps.NamedChildren() {
			switch p.Kind {
			case syntax.KindFormalParameter:
				params = append(params, p)
			case syntax.KindSpreadParameter:
				return false
			}
		}
	}
	values := args.NamedChildren()
	if len(values) != len(params) {
		return false
	}
	at := -1
	for i, v := range values {
		if v == arg {
			at = i
		}
	}
	if at < 0 || params[at].ChildByField("dimensions") != nil || params[at].ChildByField("type") == nil {
		return false
	}
	pt := m.ResolveType(params[at].ChildByField("type"))
	if (pt.Kind != semantic.TypeClass && pt.Kind != semantic.TypeInterface) || pt.IsArray() || len(pt.Args) > 0 {
		return false
	}
	for _, t := range types {
		if m.Index.IsSubtype(t, pt.Name) != semantic.Yes {
			return false
		}
	}
	return true
}

// commonMethod reports whether every type inherits name from the same
// declaring type.
func commonMethod(x *semantic.Index, types []string, name string) bool {
	owner := ""
	for _, t := range types {
		mem, ok := x.FindMethod(t, name)
		if ok != semantic.Yes {
			return false
		}
		if owner == "" {
			owner = mem.Owner
		} else if mem.Owner != owner {
			return false
		}
	}
	return true
}

// withCatchTypes appends alternatives to the catch type of clause.
func withCatchTypes(clause *syntax.Node, extra []*syntax.Node) *syntax.Node {
	pi := clause.IndexOf(clause.FirstChildOfKind(syntax.KindCatchFormalParameter))
	param := clause.Children[pi]
	ti := param.IndexOf(param.FirstChildOfKind(syntax.KindCatchType))
	ct := param.Children[ti]
	children := append([]*syntax.Node(nil), ct.Children...)
	for _, t := range extra {
		children = append(children, syntax.Token("|", " "), t.WithLeading(" "))
	}
	param = param.WithChild(ti, ct.WithChildren(children))
	return clause.WithChild(pi, param)
}
