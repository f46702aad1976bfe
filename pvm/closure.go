package pvm

// ClosureValue binds a compiled Program, an entry point within it, and the
// runtime Environment captured at closure-creation time (spec.md §3.5).
type ClosureValue struct {
	Program *Program
	Entry   int
	Env     *Environment
	Type    Value // boxed TypeValue (CLOSURE)
}

// MakeClosure boxes a closure value and retains its program, resolving the
// open question in spec.md §9 ("closures can outlive the program that
// contains them ... the program must be kept alive for as long as any
// live closure references it") with reference counting rather than a
// cycle collector: see Program.retain/release.
func (c *Context) MakeClosure(prog *Program, entry int, env *Environment, typ Value) Value {
	prog.retain()
	return c.allocBox(box{k: bkClosure, cls: &ClosureValue{Program: prog, Entry: entry, Env: env, Type: typ}})
}

// ClosureOf returns the ClosureValue held by a TagBox/bkClosure Value.
func (c *Context) ClosureOf(v Value) *ClosureValue {
	return c.box(v).cls
}
