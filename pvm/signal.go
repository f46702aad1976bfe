package pvm

import (
	"os"
	"os/signal"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// interruptHook installs an os/signal.Notify around the extent of a
// RunInterruptible call, translating an asynchronous SIGINT into the
// SIGNAL exception at the VM's next safe point (checked once per
// instruction dispatch), per spec.md §4.4: "the executor installs and
// later restores a signal hook around each run". golang.org/x/sys/unix
// supplies the signal-mask save/restore the teacher's internal/xunsafe
// performs at a lower level for its own platform-specific concerns;
// here it guards against the interrupt being delivered while the
// notify channel itself is being torn down.
type interruptHook struct {
	ch    chan os.Signal
	flag  atomic.Bool
	mask  unix.Sigset_t
}

func newInterruptHook() *interruptHook {
	return &interruptHook{ch: make(chan os.Signal, 1)}
}

func (h *interruptHook) install() {
	unix.PthreadSigmask(unix.SIG_SETMASK, nil, &h.mask)
	signal.Notify(h.ch, unix.SIGINT)
	go func() {
		if _, ok := <-h.ch; ok {
			h.flag.Store(true)
		}
	}()
}

func (h *interruptHook) remove() {
	signal.Stop(h.ch)
	close(h.ch)
	unix.PthreadSigmask(unix.SIG_SETMASK, &h.mask, nil)
}

func (h *interruptHook) interrupted() bool { return h.flag.Load() }

// RunInterruptible behaves like Run, but checks for an async SIGINT at
// every instruction boundary and raises the SIGNAL exception at the next
// such safe point rather than letting the process terminate — the
// behavior a REPL host (pokec's interactive mode) needs so that Ctrl-C
// aborts only the statement in flight.
func (vm *VM) RunInterruptible(prog *Program, pc int) (Value, *Exception) {
	h := newInterruptHook()
	h.install()
	defer h.remove()
	vm.interrupt = h
	defer func() { vm.interrupt = nil }()
	return vm.Run(prog, pc)
}
