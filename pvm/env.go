package pvm

import "go.pokelang.org/pk/internal/symtab"

// Environment is the PVM's lexical runtime environment: a chain of Frames,
// innermost first (spec.md §4.3). The toplevel frame is the last link in
// the chain and is never popped by push_frame/pop_frame.
type Environment struct {
	top *Frame
}

// Frame is one lexical scope: a name-to-value table plus a link to its
// enclosing frame. Backed by symtab.Table rather than a linear slice since
// the toplevel frame only grows over a Compiler's lifetime (every Load
// adds its declarations) and is probed on every identifier reference.
type Frame struct {
	tab    *symtab.Table[Value]
	parent *Frame
}

func newFrame(parent *Frame) *Frame {
	return &Frame{tab: symtab.New[Value](8), parent: parent}
}

// NewEnvironment creates an environment with a single toplevel frame.
func NewEnvironment() *Environment {
	return &Environment{top: newFrame(nil)}
}

// PushFrame installs a fresh frame as the innermost scope, per spec.md
// §4.3's push_frame.
func (e *Environment) PushFrame() {
	e.top = newFrame(e.top)
}

// PopFrame discards the innermost frame. Popping the toplevel frame is a
// programming error in the compiler/VM and panics rather than silently
// corrupting the chain.
func (e *Environment) PopFrame() {
	if e.top.parent == nil {
		panic("pvm: pop_frame on toplevel environment")
	}
	e.top = e.top.parent
}

// Register binds name to val in the innermost frame, shadowing any
// outer binding of the same name (spec.md §4.3's register).
func (e *Environment) Register(name string, val Value) {
	e.top.tab.Put(name, val)
}

// Lookup searches from the innermost frame outward, per spec.md §4.3's
// lookup, returning the nearest binding.
func (e *Environment) Lookup(name string) (Value, bool) {
	for f := e.top; f != nil; f = f.parent {
		if v, ok := f.tab.Get(name); ok {
			return v, true
		}
	}
	return Null, false
}

// Set rebinds the nearest existing binding of name, reporting whether one
// was found (spec.md §4.3's set).
func (e *Environment) Set(name string, val Value) bool {
	for f := e.top; f != nil; f = f.parent {
		if _, ok := f.tab.Get(name); ok {
			f.tab.Put(name, val)
			return true
		}
	}
	return false
}

// ToplevelP reports whether the innermost frame is the toplevel frame
// (spec.md §4.3's toplevel_p).
func (e *Environment) ToplevelP() bool { return e.top.parent == nil }

// Toplevel returns the environment's outermost (toplevel) frame.
func (e *Environment) Toplevel() *Frame {
	f := e.top
	for f.parent != nil {
		f = f.parent
	}
	return f
}

// Names returns the variable names bound directly in f, innermost-bound
// first, letting a host (the root façade's DeclMap) enumerate a frame's
// bindings without reaching into the frame's table directly.
func (f *Frame) Names() []string {
	keys := f.tab.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[len(keys)-1-i] = k
	}
	return names
}

// Dup returns a new Environment sharing this one's frame chain, the
// capture operation a closure performs at creation time: later
// PushFrame/PopFrame calls against the original do not affect the
// closure's captured chain, since Frame nodes are themselves linked
// immutably (new frames cons a new node rather than mutating parent).
func (e *Environment) Dup() *Environment {
	return &Environment{top: e.top}
}
