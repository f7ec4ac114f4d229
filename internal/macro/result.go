package macro

import "strings"

// Result is the outcome of resolving a single command. A Result is either a
// resolved value or unavailable; the zero value is [Unavailable].
type Result struct {
	// Value is the resolved text. It is only meaningful when OK is true.
	Value string

	// OK is whether the provider produced a value at all.
	OK bool
}

// Unavailable is the Result of a command that could not be resolved.
var Unavailable = Result{}

// Resolved returns a Result holding the given value.
func Resolved(v string) Result {
	return Result{Value: v, OK: true}
}

// Empty returns whether r would contribute nothing to a message: it is either
// unavailable or its value is empty or consists only of whitespace.
func (r Result) Empty() bool {
	return !r.OK || strings.TrimSpace(r.Value) == ""
}

// String returns the resolved value, or the empty string if r is unavailable.
func (r Result) String() string {
	if !r.OK {
		return ""
	}
	return r.Value
}
