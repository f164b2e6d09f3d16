package semantic

import (
	"strings"

	"jrewrite/internal/syntax"
)

// FileContext holds what a unit's header contributes to type name resolution.
type FileContext struct {
	Package   string
	Imports   map[string]string // simple name -> fully-qualified name
	Wildcards []string          // packages imported with .*
	// Local maps the simple names of types declared in the unit (nested ones
	// included) to their fully-qualified names.
	Local map[string]string
}

// NewFileContext reads the package, imports and declared types of a unit.
func NewFileContext(root *syntax.Node) *FileContext {
	c := &FileContext{
		Imports: make(map[string]string),
		Local:   make(map[string]string),
	}
	for _, n := range root.Children {
		switch n.Kind {
		case syntax.KindPackageDeclaration:
			if name := n.FirstChildOfKind(syntax.KindScopedIdentifier, syntax.KindIdentifier); name != nil {
				c.Package = compact(name.Content())
			}
		case syntax.KindImportDeclaration:
			c.addImport(n)
		}
	}
	collectTypeNames(root, c.Package, func(simple, fqn string, _ *syntax.Node) {
		if _, dup := c.Local[simple]; !dup {
			c.Local[simple] = fqn
		}
	})
	return c
}

func (c *FileContext) addImport(n *syntax.Node) {
	static := false
	var name *syntax.Node
	wildcard := false
	for _, ch := range n.Children {
		switch {
		case ch.IsToken("static"):
			static = true
		case ch.Is(syntax.KindScopedIdentifier, syntax.KindIdentifier):
			name = ch
		case ch.Is(syntax.KindAsterisk):
			wildcard = true
		}
	}
	if static || name == nil {
		return
	}
	fqn := compact(name.Content())
	if wildcard {
		c.Wildcards = append(c.Wildcards, fqn)
		return
	}
	c.Imports[simpleName(fqn)] = fqn
}

// Qualify turns a possibly-qualified type name into a fully-qualified one. known
// reports whether a name is declared in the index. The boolean result is false
// when the name cannot be attributed to any declaration.
func (c *FileContext) Qualify(name string, known func(string) bool) (string, bool) {
	name = compact(name)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		if known(name) {
			return name, true
		}
		head, rest := name[:i], name[i:]
		if q, ok := c.Qualify(head, known); ok {
			return q + rest, true
		}
		return name, false
	}
	if fqn, ok := c.Local[name]; ok {
		return fqn, true
	}
	if fqn, ok := c.Imports[name]; ok {
		return fqn, true
	}
	if c.Package != "" && known(c.Package+"."+name) {
		return c.Package + "." + name, true
	}
	if c.Package == "" && known(name) {
		return name, true
	}
	if known("java.lang." + name) {
		return "java.lang." + name, true
	}
	for _, w := range c.Wildcards {
		if known(w + "." + name) {
			return w + "." + name, true
		}
	}
	return name, false
}

// collectTypeNames reports every class-like declaration that has a stable
// fully-qualified name: top-level types and member types. Local and anonymous
// classes are skipped.
func collectTypeNames(root *syntax.Node, pkg string, fn func(simple, fqn string, decl *syntax.Node)) {
	var visit func(n *syntax.Node, prefix string)
	visit = func(n *syntax.Node, prefix string) {
		for _, ch := range n.Children {
			if !syntax.IsTypeDeclaration(ch.Kind) {
				continue
			}
			name := ch.ChildByField("name")
			if name == nil {
				continue
			}
			fqn := name.Text
			if prefix != "" {
				fqn = prefix + "." + name.Text
			}
			fn(name.Text, fqn, ch)
			if body := ch.ChildByField("body"); body != nil {
				visit(body, fqn)
				if decls := body.FirstChildOfKind(syntax.KindEnumBodyDeclarations); decls != nil {
					visit(decls, fqn)
				}
			}
		}
	}
	visit(root, pkg)
}

func simpleName(fqn string) string {
	if i := strings.LastIndexByte(fqn, '.'); i >= 0 {
		return fqn[i+1:]
	}
	return fqn
}

// compact drops whitespace and comments from a dotted name.
func compact(s string) string {
	var b strings.Builder
	for _, part := range strings.Split(s, ".") {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strings.TrimSpace(stripComments(part)))
	}
	return b.String()
}

func stripComments(s string) string {
	for {
		i := strings.Index(s, "/*")
		if i < 0 {
			break
		}
		j := strings.Index(s[i+2:], "*/")
		if j < 0 {
			return s[:i]
		}
		s = s[:i] + s[i+2+j+2:]
	}
	if i := strings.Index(s, "//"); i >= 0 {
		if j := strings.IndexByte(s[i:], '\n'); j >= 0 {
			return s[:i] + stripComments(s[i+j:])
		}
		return s[:i]
	}
	return s
}
