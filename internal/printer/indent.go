package printer

import (
	"strings"

	"jrewrite/internal/syntax"
)

const defaultIndent = "    "

// DetectIndent infers the unit's indentation step: a tab, or the most common
// increase in leading spaces between consecutive code lines. It defaults to
// four spaces.
func DetectIndent(u *syntax.Unit) string {
	steps := make(map[int]int)
	tabs, spaced := 0, 0
	prev := 0
	for _, line := range strings.Split(string(u.Source), "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || strings.HasPrefix(trimmed, "*") {
			continue
		}
		ws := line[:len(line)-len(trimmed)]
		if strings.HasPrefix(ws, "\t") {
			tabs++
			continue
		}
		width := len(ws)
		if width > 0 {
			spaced++
		}
		if width > prev {
			steps[width-prev]++
		}
		prev = width
	}
	if tabs > spaced {
		return "\t"
	}
	best, count := 0, 0
	for step, c := range steps {
		if c > count || (c == count && step < best) {
			best, count = step, c
		}
	}
	if best == 0 {
		return defaultIndent
	}
	return strings.Repeat(" ", best)
}
