package pvm

import "sync/atomic"

// Program is a compiled, immutable unit of PVM code: a flat instruction
// array plus the constant/type pool codegen emits alongside it (spec.md
// §4.9, "a pvm_program bundles code with the pointers the GC must trace").
//
// Closures capture a *Program rather than copying it, so a Program is
// reference counted (spec.md §9, Open Question 2): MakeClosure retains it
// for every closure created from it. The refcount starts at 1, owned by
// whoever compiled the program (normally the root façade's Compiler).
// Nothing in this repository calls release, so the count never falls and
// a Program's lifetime is left to the Go garbage collector.
type Program struct {
	Code   []Instruction
	Labels map[string]int
	Consts []Value // GC roots: boxed constants referenced by OpPush

	refs atomic.Int32
}

// NewProgram wraps code as a Program with an initial reference count of 1.
func NewProgram(code []Instruction, labels map[string]int, consts []Value) *Program {
	p := &Program{Code: code, Labels: labels, Consts: consts}
	p.refs.Store(1)
	return p
}

func (p *Program) retain() { p.refs.Add(1) }

// release decrements the refcount and reports whether it reached zero.
// It currently has no callers.
func (p *Program) release() bool { return p.refs.Add(-1) == 0 }

// Len returns the number of instructions.
func (p *Program) Len() int { return len(p.Code) }
