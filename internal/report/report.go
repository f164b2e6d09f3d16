// Package report renders the outcome of a pipeline run for people and for
// machines.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"jrewrite/internal/diff"
	"jrewrite/internal/pipeline"
)

// Format selects how a report is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat accepts "text" and "json".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// Options controls what a report includes.
type Options struct {
	Format Format
	// Diffs adds a unified diff for every changed unit.
	Diffs bool
}

type document struct {
	Recipe      string           `json:"recipe"`
	Fingerprint string           `json:"fingerprint"`
	DurationMS  int64            `json:"durationMs"`
	Summary     pipeline.Summary `json:"summary"`
	Units       []unit           `json:"units"`
}

type unit struct {
	pipeline.UnitResult
	Diff string `json:"diff,omitempty"`
}

// Write renders r to w.
func Write(w io.Writer, r *pipeline.Report, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, r, opts)
	case FormatText, "":
		return writeText(w, r, opts)
	}
	return fmt.Errorf("unknown report format %q", opts.Format)
}

func writeJSON(w io.Writer, r *pipeline.Report, opts Options) error {
	doc := document{
		Recipe:      r.Recipe,
		Fingerprint: r.Fingerprint,
		DurationMS:  r.Duration.Milliseconds(),
		Summary:     r.Summary(),
		Units:       make([]unit, 0, len(r.Units)),
	}
	for _, u := range r.Units {
		entry := unit{UnitResult: u}
		if opts.Diffs && u.Changed && u.Err == nil {
			d, err := diff.Unified(u.Path, u.Before, u.After)
			if err != nil {
				return err
			}
			entry.Diff = d
		}
		doc.Units = append(doc.Units, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func writeText(w io.Writer, r *pipeline.Report, opts Options) error {
	for _, u := range r.Units {
		switch {
		case u.Err != nil:
			fmt.Fprintf(w, "FAIL %s: %v\n", u.Path, u.Err)
		case u.Changed:
			if opts.Diffs {
				d, err := diff.Unified(u.Path, u.Before, u.After)
				if err != nil {
					return err
				}
				io.WriteString(w, d)
			} else {
				fmt.Fprintf(w, "changed %s (%d edits)\n", u.Path, u.Edits)
			}
		}
	}
	s := r.Summary()
	_, err := fmt.Fprintf(w, "%s: %d units, %d changed, %d cached, %d failed, %d edits in %v\n",
		r.Fingerprint, s.Units, s.Changed, s.Cached, s.Failed, s.Edits, r.Duration.Round(time.Millisecond))
	return err
}
