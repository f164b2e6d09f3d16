package pipeline

import (
	"context"
	"fmt"
	"sort"

	"jrewrite/internal/git"
	"jrewrite/internal/recipe"
	"jrewrite/internal/semantic"
	"jrewrite/internal/syntax"
)

// ImpactReport lists the units affected by a set of changed files.
type ImpactReport struct {
	// DirectlyAffected are changed units that still exist.
	DirectlyAffected []string
	// IndirectlyAffected are unchanged units that name a type declared in a
	// changed or deleted unit.
	IndirectlyAffected []string
	// Deleted are changed units that no longer exist.
	Deleted []string
}

// Paths returns every unit that needs rewriting, sorted.
func (r *ImpactReport) Paths() []string {
	out := append(append([]string(nil), r.DirectlyAffected...), r.IndirectlyAffected...)
	sort.Strings(out)
	return out
}

// AnalyzeImpact works out which of sources are affected by changes. Types that
// deleted files used to declare are taken from the type store, if any.
func (p *Pipeline) AnalyzeImpact(ctx context.Context, sources []recipe.Source, changes []git.ChangedFile) (*ImpactReport, error) {
	report := &ImpactReport{}
	present := make(map[string]bool, len(sources))
	for _, src := range sources {
		present[src.Path] = true
	}

	changed := make(map[string]bool)
	for _, c := range changes {
		if c.Deleted || !present[c.Path] {
			report.Deleted = append(report.Deleted, c.Path)
		} else {
			report.DirectlyAffected = append(report.DirectlyAffected, c.Path)
		}
		changed[c.Path] = true
	}

	// 1. Types declared by changed units
	b := semantic.NewIndexBuilder()
	units := make(map[string]*syntax.Unit, len(sources))
	for _, src := range sources {
		u, err := p.parser.Parse(ctx, src.Path, src.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", src.Path, err)
		}
		units[src.Path] = u
		b.AddUnit(u)
	}
	if p.types != nil {
		for _, path := range report.Deleted {
			infos, err := p.types.FindTypesByFile(ctx, path)
			if err != nil {
				return nil, fmt.Errorf("failed to load types of %s: %w", path, err)
			}
			for _, info := range infos {
				b.Add(info)
			}
		}
	}
	index := b.Build()

	touched := make(map[string]bool)
	for _, d := range index.Decls() {
		if changed[d.Origin] {
			touched[d.Name] = true
		}
	}
	if len(touched) == 0 {
		return report, nil
	}

	// 2. Units that refer to those types
	known := func(fqn string) bool {
		_, ok := index.Lookup(fqn)
		return ok
	}
	for _, src := range sources {
		if changed[src.Path] {
			continue
		}
		if refersTo(units[src.Path], touched, known) {
			report.IndirectlyAffected = append(report.IndirectlyAffected, src.Path)
		}
	}
	return report, nil
}

func refersTo(u *syntax.Unit, types map[string]bool, known func(string) bool) bool {
	fc := semantic.NewFileContext(u.Root)
	found := false
	syntax.Walk(u.Root, func(n *syntax.Node) bool {
		if found {
			return false
		}
		if n.Is(syntax.KindTypeIdentifier, syntax.KindIdentifier) {
			if fqn, ok := fc.Qualify(n.Text, known); ok && types[fqn] {
				found = true
			}
		}
		return true
	})
	return found
}

// RunSince rewrites only the units affected by the git changes under root since
// baseRef. Types still resolve against every source.
func (p *Pipeline) RunSince(ctx context.Context, root, baseRef string, sources []recipe.Source, rec recipe.Recipe) (*Report, *ImpactReport, error) {
	changes, err := git.ChangedJavaFiles(ctx, root, baseRef)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get git changes: %w", err)
	}
	p.logger.Info("detected changed files", "count", len(changes), "base", baseRef)

	impact, err := p.AnalyzeImpact(ctx, sources, changes)
	if err != nil {
		return nil, nil, err
	}
	if p.cache != nil && len(impact.Deleted) > 0 {
		if err := p.cache.DeleteRuns(ctx, impact.Deleted); err != nil {
			p.logger.Warn("failed to forget deleted units", "error", err)
		}
	}

	p.logger.Info("impact analyzed",
		"direct", len(impact.DirectlyAffected),
		"indirect", len(impact.IndirectlyAffected),
		"deleted", len(impact.Deleted))

	report, err := p.RunPaths(ctx, sources, impact.Paths(), rec)
	return report, impact, err
}
