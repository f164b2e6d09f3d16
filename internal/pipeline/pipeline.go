package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"jrewrite/internal/parser"
	"jrewrite/internal/recipe"
	"jrewrite/internal/semantic"
	"jrewrite/internal/storage"
)

// Pipeline applies one recipe to many units. Every unit is rewritten by its own
// goroutine against a single index built up front.
type Pipeline struct {
	parser      *parser.Parser
	logger      *slog.Logger
	parallelism int
	verify      bool
	types       storage.TypeStore
	cache       storage.RunCache
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithParallelism bounds the number of units rewritten at once. Values below
// one mean GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.parallelism = n
		}
	}
}

// WithVerify toggles the per-unit idempotence check.
func WithVerify(on bool) Option {
	return func(p *Pipeline) { p.verify = on }
}

// WithTypeStore merges the persisted type index into every run and saves the
// resulting index afterwards.
func WithTypeStore(s storage.TypeStore) Option {
	return func(p *Pipeline) { p.types = s }
}

// WithRunCache skips units recorded as unchanged by the same recipe.
func WithRunCache(c storage.RunCache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// New creates a pipeline. A nil logger discards output.
func New(p *parser.Parser, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	pl := &Pipeline{
		parser:      p,
		logger:      logger,
		parallelism: runtime.GOMAXPROCS(0),
		verify:      true,
	}
	for _, o := range opts {
		o(pl)
	}
	return pl
}

// Run rewrites every source with rec. A failing unit is recorded in its
// UnitResult and does not stop the others. The returned error is non-nil only
// when the index cannot be built or ctx is canceled; the report is returned
// either way.
func (p *Pipeline) Run(ctx context.Context, sources []recipe.Source, rec recipe.Recipe) (*Report, error) {
	return p.run(ctx, sources, sources, rec)
}

// RunPaths is Run restricted to the sources whose path is listed. Types still
// resolve against every source.
func (p *Pipeline) RunPaths(ctx context.Context, sources []recipe.Source, paths []string, rec recipe.Recipe) (*Report, error) {
	want := make(map[string]bool, len(paths))
	for _, path := range paths {
		want[path] = true
	}
	var targets []recipe.Source
	for _, src := range sources {
		if want[src.Path] {
			targets = append(targets, src)
		}
	}
	return p.run(ctx, sources, targets, rec)
}

func (p *Pipeline) run(ctx context.Context, indexed, targets []recipe.Source, rec recipe.Recipe) (*Report, error) {
	start := time.Now()
	report := &Report{
		Recipe:      rec.Descriptor().Name,
		Fingerprint: recipe.Fingerprint(rec),
		Units:       make([]UnitResult, len(targets)),
	}

	index, err := p.indexStage(ctx, indexed)
	if err != nil {
		return report, err
	}
	runner := recipe.NewRunner(p.parser, p.logger, recipe.WithIndex(index), recipe.WithIdempotenceCheck(p.verify))
	var digest string
	if p.cache != nil {
		if digest, err = indexDigest(index); err != nil {
			return report, err
		}
	}

	var g errgroup.Group
	g.SetLimit(p.parallelism)
	for i, src := range targets {
		g.Go(func() error {
			// Cancellation is only observed between units.
			if err := ctx.Err(); err != nil {
				report.Units[i] = UnitResult{Path: src.Path, Before: string(src.Text), After: string(src.Text), Err: err, Error: err.Error()}
				return err
			}
			report.Units[i] = p.rewriteStage(ctx, runner, rec, report.Fingerprint, digest, src)
			return nil
		})
	}
	err = g.Wait()
	report.Duration = time.Since(start)

	s := report.Summary()
	p.logger.Info("recipe run finished",
		"recipe", report.Fingerprint,
		"units", s.Units,
		"changed", s.Changed,
		"cached", s.Cached,
		"failed", s.Failed,
		"duration", report.Duration)
	return report, err
}

// indexStage builds the shared type index. Stored declarations are merged in
// first so that the current sources override them.
func (p *Pipeline) indexStage(ctx context.Context, sources []recipe.Source) (*semantic.Index, error) {
	b := semantic.NewIndexBuilder()

	if p.types != nil {
		current := make(map[string]bool, len(sources))
		for _, src := range sources {
			current[src.Path] = true
		}
		stored, err := p.types.LoadTypes(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load stored types: %w", err)
		}
		for _, info := range stored {
			if !current[info.Origin] {
				b.Add(info)
			}
		}
	}

	for _, src := range sources {
		unit, err := p.parser.Parse(ctx, src.Path, src.Text)
		if err != nil {
			p.logger.Warn("skipping unit in index", "unit", src.Path, "error", err)
			continue
		}
		b.AddUnit(unit)
	}
	index := b.Build()

	if p.types != nil {
		if err := p.types.SaveTypes(ctx, index.Infos()); err != nil {
			return nil, fmt.Errorf("failed to save types: %w", err)
		}
	}
	p.logger.Debug("type index built", "declarations", index.Len())
	return index, nil
}

// rewriteStage applies rec to one unit. The cache key covers the unit's text
// and the index digest, since a change to another unit's types can change the
// outcome.
func (p *Pipeline) rewriteStage(ctx context.Context, runner *recipe.Runner, rec recipe.Recipe, fingerprint, digest string, src recipe.Source) UnitResult {
	u := UnitResult{Path: src.Path, Before: string(src.Text), After: string(src.Text)}
	hash := contentHash([]byte(digest), src.Text)

	if p.cache != nil {
		hit, err := p.cache.LookupRun(ctx, src.Path, hash, fingerprint)
		if err != nil {
			p.logger.Warn("run cache lookup failed", "unit", src.Path, "error", err)
		} else if hit != nil && !hit.Changed {
			u.Cached = true
			return u
		}
	}

	res, err := runner.Run(ctx, rec, src)
	if res != nil {
		u.Passes = res.Passes
		u.ParseErrors = len(res.ParseErrors)
	}
	if err != nil {
		u.Err = err
		u.Error = err.Error()
		p.logger.Warn("recipe failed", "unit", src.Path, "error", err)
		return u
	}
	u.After = res.After
	u.Edits = len(res.Edits)
	u.Changed = res.Changed()

	if p.cache != nil {
		entry := storage.RunRecord{
			Path:        src.Path,
			ContentHash: hash,
			Fingerprint: fingerprint,
			Changed:     u.Changed,
			Edits:       u.Edits,
		}
		for _, ps := range res.Passes {
			entry.Passes = append(entry.Passes, ps.Name)
		}
		if err := p.cache.RecordRun(ctx, entry); err != nil {
			p.logger.Warn("run cache update failed", "unit", src.Path, "error", err)
		}
	}
	return u
}

// indexDigest hashes the non-JDK declarations of index in name order.
func indexDigest(index *semantic.Index) (string, error) {
	infos := index.Infos()
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	data, err := json.Marshal(infos)
	if err != nil {
		return "", fmt.Errorf("failed to encode type index: %w", err)
	}
	return contentHash(data), nil
}

func contentHash(parts ...[]byte) string {
	h := sha256.New()
	for _, b := range parts {
		h.Write(b)
	}
	return hex.EncodeToString(h.Sum(nil))
}
