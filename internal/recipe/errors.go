package recipe

import (
	"fmt"
	"strings"
)

// ErrorKind classifies engine failures. A rewrite whose preconditions do not
// hold is not a failure; it leaves the code unchanged.
type ErrorKind uint8

const (
	// InvariantViolation means a rewrite produced code that no longer parses
	// as cleanly as its input.
	InvariantViolation ErrorKind = iota + 1
	// NotIdempotent means applying the recipe to its own output changed it.
	NotIdempotent
	// InternalError covers handler failures and broken tree invariants.
	InternalError
)

func (k ErrorKind) String() string {
	switch k {
	case InvariantViolation:
		return "invariant violation"
	case NotIdempotent:
		return "not idempotent"
	case InternalError:
		return "internal error"
	}
	return "unknown"
}

// Error is a fatal failure of a recipe on one unit.
type Error struct {
	Kind   ErrorKind
	Recipe string
	Unit   string
	Line   int
	Column int
	Msg    string
	Cause  error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "recipe %s: %s", e.Recipe, e.Unit)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d:%d", e.Line, e.Column)
	}
	fmt.Fprintf(&b, ": %s", e.Kind)
	if e.Msg != "" {
		b.WriteString(": " + e.Msg)
	}
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }
