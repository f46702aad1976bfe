//go:build pkdebug

package debug

import (
	"fmt"
	"os"
	"sync"

	"github.com/timandy/routine"
)

const enabled = true

var mu sync.Mutex

// Log writes a trace line to stderr, tagged with the logical operation name.
//
// context is printed before op so that related log lines (e.g. every op
// touching the same PVM frame) can be visually grouped, the same
// convention hyperpb's debug.Log uses.
func Log(context []any, op, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if len(context) > 0 {
		fmt.Fprintf(os.Stderr, context[0].(string)+" ", context[1:]...)
	}
	fmt.Fprintf(os.Stderr, "%s: "+format+"\n", append([]any{op}, args...)...)
}

// Confine binds owner, a goroutine-confined handle (typically a *Compiler),
// to the calling goroutine. AssertConfined then panics if called from any
// other goroutine, turning the single-thread rule on such handles (see
// SPEC_FULL.md, "thread-confinement assertion") into a named failure
// instead of silent data corruption.
func Confine(owner any) {
	mu.Lock()
	defer mu.Unlock()
	confined[owner] = routine.Goid()
}

func AssertConfined(o any) {
	mu.Lock()
	id, ok := confined[o]
	mu.Unlock()
	if ok {
		Assert(id == routine.Goid(), "handle used from a goroutine other than the one that created it")
	}
}

var confined = map[any]int64{}
