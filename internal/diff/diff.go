// Package diff renders the difference between a unit before and after a
// rewrite as a unified diff.
package diff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Unified returns a unified diff from old to new with three lines of context,
// labeled a/path and b/path. Identical inputs yield an empty string.
func Unified(path, old, new string) (string, error) {
	if old == new {
		return "", nil
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        lines(old),
		B:        lines(new),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("failed to diff %s: %w", path, err)
	}
	return fmt.Sprintf("diff a/%s b/%s\n%s", path, path, text), nil
}

// lines splits s after each newline. Unlike difflib.SplitLines it does not
// invent an empty last line for text that ends in a newline.
func lines(s string) []string {
	out := strings.SplitAfter(s, "\n")
	if out[len(out)-1] == "" {
		return out[:len(out)-1]
	}
	out[len(out)-1] += "\n"
	return out
}
