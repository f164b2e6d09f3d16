package pipeline

import (
	"time"

	"jrewrite/internal/recipe"
)

// UnitResult is the outcome of one unit in a run.
type UnitResult struct {
	Path        string              `json:"path"`
	Changed     bool                `json:"changed"`
	Cached      bool                `json:"cached,omitempty"`
	Edits       int                 `json:"edits"`
	Passes      []recipe.PassRecord `json:"passes,omitempty"`
	ParseErrors int                 `json:"parseErrors,omitempty"`
	Error       string              `json:"error,omitempty"`

	Before string `json:"-"`
	// After equals Before unless the unit changed without error.
	After string `json:"-"`
	Err   error  `json:"-"`
}

// Report collects the unit results of a run in source order.
type Report struct {
	Recipe      string        `json:"recipe"`
	Fingerprint string        `json:"fingerprint"`
	Units       []UnitResult  `json:"units"`
	Duration    time.Duration `json:"duration"`
}

// Summary counts the unit outcomes of a report.
type Summary struct {
	Units   int `json:"units"`
	Changed int `json:"changed"`
	Cached  int `json:"cached"`
	Failed  int `json:"failed"`
	Edits   int `json:"edits"`
}

func (r *Report) Summary() Summary {
	s := Summary{Units: len(r.Units)}
	for _, u := range r.Units {
		switch {
		case u.Err != nil:
			s.Failed++
		case u.Cached:
			s.Cached++
		case u.Changed:
			s.Changed++
		}
		s.Edits += u.Edits
	}
	return s
}

// Changed returns the units the recipe rewrote.
func (r *Report) Changed() []UnitResult {
	var out []UnitResult
	for _, u := range r.Units {
		if u.Changed && u.Err == nil {
			out = append(out, u)
		}
	}
	return out
}

// Failed returns the units that ended in an error.
func (r *Report) Failed() []UnitResult {
	var out []UnitResult
	for _, u := range r.Units {
		if u.Err != nil {
			out = append(out, u)
		}
	}
	return out
}
