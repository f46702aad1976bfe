//go:build !pkdebug

package debug

const enabled = false

// Log is a no-op in release builds; the formatting work and the stderr
// write are both elided so hot paths (the PVM's instruction dispatch loop)
// pay nothing for tracing support.
func Log(context []any, op, format string, args ...any) {}

// Confine and AssertConfined are no-ops outside of debug builds: the
// thread-confinement check is a development aid, not a runtime guarantee.
func Confine(owner any)       {}
func AssertConfined(o any)    {}
