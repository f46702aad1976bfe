// Package debug holds small helpers shared by the compiler and the runtime:
// assertions, goroutine-confinement checks, and a filterable trace log.
//
// Grounded on buf.build/go/hyperpb's internal/debug package: same
// goroutine-local trace log built on github.com/timandy/routine, same
// build-tag split between a verbose debug build and a silent release build.
package debug

import "fmt"

// Enabled reports whether the binary was built with the pkdebug tag.
//
// The non-debug variant of this constant (and of Log) lives in
// debug_off.go; the pkdebug variants live in debug_on.go.
const Enabled = enabled

// Assert panics with a formatted message if cond is false.
//
// Assertions describe internal invariants (lexical addresses fit their
// frame, a type's completeness is known before codegen, ...) whose
// violation means the compiler itself has a bug, not that the input
// program is invalid.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic("pk: assertion failed: " + fmt.Sprintf(format, args...))
	}
}

// Unimplemented panics identifying a feature that is deliberately not yet
// built, as opposed to a violated invariant.
func Unimplemented(what string) {
	panic("pk: not implemented: " + what)
}
