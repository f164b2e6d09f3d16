package recipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"jrewrite/internal/parser"
	"jrewrite/internal/printer"
	"jrewrite/internal/semantic"
	"jrewrite/internal/syntax"
	"jrewrite/internal/visitor"
)

// Source is one compilation unit handed to the runner.
type Source struct {
	Path string
	Text []byte
}

// PassState tracks a pass through a run.
type PassState uint8

const (
	PassNotStarted PassState = iota
	PassVisiting
	PassCompleted
)

func (s PassState) String() string {
	switch s {
	case PassVisiting:
		return "visiting"
	case PassCompleted:
		return "completed"
	}
	return "not started"
}

func (s PassState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// PassRecord is the outcome of one pass over a unit.
type PassRecord struct {
	Name  string    `json:"name"`
	State PassState `json:"state"`
	Edits int       `json:"edits"`
}

// Result is the outcome of applying a recipe to one unit.
type Result struct {
	Path   string
	Recipe string
	Before string
	After  string
	Edits  []visitor.Edit
	Passes []PassRecord
	// ParseErrors are the parse errors of the input. Rewrites never touch the
	// error regions themselves.
	ParseErrors []syntax.ParseError
}

// Changed reports whether the recipe altered the unit's text.
func (r *Result) Changed() bool { return r.After != r.Before }

// Runner applies recipes to single units. A Runner is safe for concurrent use
// as long as its index is not rebuilt.
type Runner struct {
	parser *parser.Parser
	index  *semantic.Index
	logger *slog.Logger
	verify bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithIndex makes the runner resolve types against a shared cross-unit index.
func WithIndex(index *semantic.Index) RunnerOption {
	return func(r *Runner) { r.index = index }
}

// WithIdempotenceCheck toggles the second application run after every change.
// It is on by default.
func WithIdempotenceCheck(on bool) RunnerOption {
	return func(r *Runner) { r.verify = on }
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(p *parser.Parser, logger *slog.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Runner{parser: p, logger: logger, verify: true}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run parses src, applies every pass of rec in order and verifies the output.
// Cancellation is only observed before the unit starts.
func (r *Runner) Run(ctx context.Context, rec Recipe, src Source) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := rec.Descriptor().Name
	unit, err := r.parser.Parse(ctx, src.Path, src.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", src.Path, err)
	}
	res := &Result{
		Path:        src.Path,
		Recipe:      name,
		Before:      string(src.Text),
		After:       string(src.Text),
		ParseErrors: unit.Errors,
	}

	out, edits, passes, err := r.apply(ctx, rec, unit)
	res.Passes = passes
	if err != nil {
		return res, err
	}
	if len(edits) == 0 {
		return res, nil
	}
	res.After = out
	res.Edits = edits

	final, err := r.parser.Parse(ctx, src.Path, []byte(out))
	if err != nil {
		return res, fmt.Errorf("failed to reparse %s: %w", src.Path, err)
	}
	if len(final.Errors) > len(unit.Errors) {
		first := final.Errors[0]
		return res, &Error{
			Kind:   InvariantViolation,
			Recipe: name,
			Unit:   src.Path,
			Line:   first.Line,
			Column: first.Column,
			Msg:    fmt.Sprintf("output has %d parse error(s), input had %d", len(final.Errors), len(unit.Errors)),
		}
	}
	if !r.verify {
		return res, nil
	}

	again, edits2, _, err := r.apply(ctx, rec, final)
	if err != nil {
		return res, err
	}
	if again != out {
		e := &Error{Kind: NotIdempotent, Recipe: name, Unit: src.Path, Msg: "second application changed the output"}
		if len(edits2) > 0 {
			e.Line, e.Column = final.Position(edits2[0].Span.Start)
			e.Msg += " (" + edits2[0].String() + ")"
		}
		return res, e
	}
	r.logger.Debug("recipe applied", "recipe", name, "unit", src.Path, "edits", len(edits))
	return res, nil
}

// apply runs every pass of rec over unit. Each pass after a changing one gets
// a freshly parsed and annotated tree so that spans and bindings are current.
func (r *Runner) apply(ctx context.Context, rec Recipe, unit *syntax.Unit) (text string, all []visitor.Edit, records []PassRecord, err error) {
	name := rec.Descriptor().Name
	passes := rec.Passes()
	records = make([]PassRecord, len(passes))
	for i, p := range passes {
		records[i].Name = p.Name
	}
	text = unit.Text()

	defer func() {
		if v := recover(); v != nil {
			err = &Error{Kind: InternalError, Recipe: name, Unit: unit.Path, Msg: fmt.Sprintf("panic: %v", v)}
		}
	}()

	cur := unit
	dirty := false
	for i, p := range passes {
		if dirty {
			cur, err = r.parser.Parse(ctx, unit.Path, []byte(text))
			if err != nil {
				return "", nil, records, fmt.Errorf("failed to reparse %s: %w", unit.Path, err)
			}
			dirty = false
		}
		records[i].State = PassVisiting
		model := semantic.Annotate(cur, r.index)
		root, edits, werr := visitor.Walk(p.New(), cur, model)
		if werr != nil {
			return "", nil, records, internalError(name, cur, werr)
		}
		records[i].State = PassCompleted
		records[i].Edits = len(edits)
		r.logger.Debug("pass completed", "recipe", name, "pass", p.Name, "unit", unit.Path, "edits", len(edits))
		if len(edits) == 0 {
			continue
		}
		all = append(all, edits...)
		text = printer.Print(cur.WithRoot(root))
		dirty = true
	}
	return text, all, records, nil
}

func internalError(recipe string, u *syntax.Unit, err error) error {
	e := &Error{Kind: InternalError, Recipe: recipe, Unit: u.Path, Cause: err}
	var ne *visitor.NodeError
	if errors.As(err, &ne) && ne.Node != nil {
		e.Line, e.Column = u.Position(ne.Node.Span.Start)
		e.Msg = "pass " + ne.Pass
	}
	return e
}
