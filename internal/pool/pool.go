// Package pool provides a typed wrapper over sync.Pool, used to recycle
// the PVM's three stacks (main, return, exception) across calls to
// [pvm.VM.Run] instead of reallocating them every run.
//
// Grounded on buf.build/go/hyperpb's internal/sync2 package, which pools
// the parser's frame stack the same way, for the same reason: stack
// reallocation is the dominant allocation cost of a short-lived VM
// invocation (compiling one expression, evaluating one statement).
package pool

import "sync"

// Pool recycles values of type T, resetting them with Reset before each
// reuse (the zero Reset is a no-op, and Get may still return a freshly
// zeroed value on the first call).
type Pool[T any] struct {
	inner sync.Pool
	Reset func(*T)
}

// Get returns a recycled or freshly allocated *T.
func (p *Pool[T]) Get() *T {
	if v := p.inner.Get(); v != nil {
		return v.(*T)
	}
	return new(T)
}

// Put resets v (if Reset is set) and returns it to the pool.
func (p *Pool[T]) Put(v *T) {
	if p.Reset != nil {
		p.Reset(v)
	}
	p.inner.Put(v)
}
