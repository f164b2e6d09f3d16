package analysis

import (
	"jrewrite/internal/semantic"
	"jrewrite/internal/syntax"
)

// Use splits the references of a binding into reads and writes. A compound
// assignment or an increment appears in both.
type Use struct {
	Reads  []semantic.Ref
	Writes []semantic.Ref
}

// Usage collects the references of b that are not inside one of the excluded
// subtrees.
func Usage(b *semantic.Binding, exclude []*syntax.Node) Use {
	var u Use
	for _, r := range b.Refs {
		if excluded(r.Node, exclude) {
			continue
		}
		if r.Access&semantic.Read != 0 {
			u.Reads = append(u.Reads, r)
		}
		if r.Access&semantic.Write != 0 {
			u.Writes = append(u.Writes, r)
		}
	}
	return u
}

// IsRead reports whether b is read outside the excluded subtrees.
func IsRead(b *semantic.Binding, exclude []*syntax.Node) bool {
	return len(Usage(b, exclude).Reads) > 0
}

func excluded(n *syntax.Node, exclude []*syntax.Node) bool {
	for _, x := range exclude {
		if x == n || x.Span.Contains(n.Span) {
			return true
		}
	}
	return false
}
