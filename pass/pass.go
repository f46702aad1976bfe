// Package pass implements the generic multi-phase AST walker spec.md
// §4.7 describes: handlers registered per node code, per type code, and
// per operator, run in a fixed pre-order/post-order protocol around each
// node's children, with restart/replace/break/error outcomes.
//
// Grounded on the teacher's internal/tdp/compiler pass pipeline (several
// named phases — anal1-style, typify-style — each a function taking the
// shared `ir` tree and a mutable payload, run in sequence over the same
// tree) generalized from "protobuf descriptor layout passes" to "poke
// AST analysis passes."
package pass

import (
	"go.pokelang.org/pk/ast"
)

// Outcome is what a Handler asks the driver to do next.
type Outcome uint8

const (
	// Continue lets the remaining handlers for this node run normally.
	Continue Outcome = iota
	// Restart re-runs the node (and its eventual children) through the
	// remaining phases in the current Run, the "restart the subtree
	// with the remaining phases" case spec.md §4.7 names.
	Restart
	// Break skips the remaining handlers registered for this node in
	// the current phase, "break out (skip remaining handlers for this
	// node)".
	Break
)

// Handler inspects or transforms n. A non-nil replacement re-links n's
// parent to point at it, spec.md §4.7's "replace the current node."
type Handler func(n *ast.Node, p *Payload) (replacement *ast.Node, outcome Outcome)

// Payload is the shared, mutable state every phase's handlers see:
// spec.md §4.8's "all phases share a payload {error count, context
// stack}."
type Payload struct {
	Errors       int
	Warnings     int
	ErrorOnWarn  bool
	ContextStack []string

	// Extra lets a host package (sema) attach its own phase-shared state
	// — a type-resolution Context, a symbol table — without pass itself
	// knowing anything about it; handlers type-assert it back, the same
	// escape hatch context.Context.Value uses for request-scoped data.
	Extra any

	// abort is set by Fatal to trigger the try-scope non-local exit
	// spec.md §4.7 describes ("this protocol runs inside a try-scope so
	// that a hard compile error performs a non-local exit back to the
	// driver").
	abort bool
}

// PushContext/PopContext/InContext implement the "context stack [that]
// records whether we are inside a struct type, a method body, etc."
func (p *Payload) PushContext(ctx string) { p.ContextStack = append(p.ContextStack, ctx) }

func (p *Payload) PopContext() {
	if n := len(p.ContextStack); n > 0 {
		p.ContextStack = p.ContextStack[:n-1]
	}
}

func (p *Payload) InContext(ctx string) bool {
	for _, c := range p.ContextStack {
		if c == ctx {
			return true
		}
	}
	return false
}

// Fatal records a hard error and requests the non-local exit back to
// the driver once the current node's handlers finish unwinding.
func (p *Payload) Fatal(msg string) {
	p.Errors++
	p.abort = true
}

// Warn records a warning; promoted to a hard error when ErrorOnWarn is
// set, per spec.md §4.8: "a warning... demoted to an error when the
// compiler's error-on-warning flag is set."
func (p *Payload) Warn(msg string) {
	if p.ErrorOnWarn {
		p.Fatal(msg)
		return
	}
	p.Warnings++
}

// Ok reports whether no fatal error has been recorded yet.
func (p *Payload) Ok() bool { return !p.abort }

// Phase is one named pass: a set of handlers keyed by node code and by
// operator, plus optional pre-/post-order defaults run for every node
// regardless of key. There is no keying by type code.
type Phase struct {
	Name string

	PreDefault  Handler
	PostDefault Handler

	byCode map[ast.Code][]Handler
	byOp   map[string][]Handler
}

// NewPhase returns an empty, named Phase ready for handler registration.
func NewPhase(name string) *Phase {
	return &Phase{Name: name, byCode: map[ast.Code][]Handler{}, byOp: map[string][]Handler{}}
}

// OnCode registers h to run, in pre-order only, for nodes of code c.
func (ph *Phase) OnCode(c ast.Code, h Handler) {
	ph.byCode[c] = append(ph.byCode[c], h)
}

// OnOp registers h to run for Exp/AssStmt/IncrDecr nodes whose Op field
// equals op — the "per operator opcode" keying spec.md §4.7 names.
func (ph *Phase) OnOp(op string, h Handler) {
	ph.byOp[op] = append(ph.byOp[op], h)
}

// Run walks root through phases in order, applying this node's
// protocol at every node (spec.md §4.7's "Execution protocol, per
// node"): pre-order defaults, pre-order by code, pre-order by operator,
// recurse, post-order defaults. Handlers registered by code or by
// operator do not run in post-order, and nothing dispatches by type
// code. It stops early once p.abort is set (the try-scope non-local
// exit).
func Run(root *ast.Node, p *Payload, phases ...*Phase) *ast.Node {
	return walkOne(root, p, phases)
}

// walkOne drives a single node (and its children) through the ordered
// phase list, honoring Restart by re-running a phase's handlers on the
// (possibly replaced) node before moving on.
func walkOne(n *ast.Node, p *Payload, phases []*Phase) *ast.Node {
	if n == nil || !p.Ok() {
		return n
	}

	for _, ph := range phases {
		n = runPhaseOnNode(ph, n, p)
		if !p.Ok() {
			return n
		}
	}

	for c := n.FirstChild; c != nil; c = c.Next {
		replaced := walkOne(c, p, phases)
		if replaced != c {
			n.Replace(c, replaced)
			c = replaced
		}
		if !p.Ok() {
			return n
		}
	}

	for _, ph := range phases {
		n = postPhaseOnNode(ph, n, p)
		if !p.Ok() {
			return n
		}
	}

	return n
}

// runPhaseOnNode applies one phase's pre-order protocol to n: pre-order
// default, then the code-keyed handlers, then the operator-keyed
// handlers, in that order (spec.md §4.7's "pre-order defaults → pre-
// order by code → pre-order by opcode/type"). The matching post-order
// half runs from walkOne's postPhaseOnNode after children are visited.
func runPhaseOnNode(ph *Phase, n *ast.Node, p *Payload) *ast.Node {
	handlers := []Handler{}
	if ph.PreDefault != nil {
		handlers = append(handlers, ph.PreDefault)
	}
	handlers = append(handlers, ph.byCode[n.Code]...)
	if n.Op != "" {
		handlers = append(handlers, ph.byOp[n.Op]...)
	}

	for _, h := range handlers {
		repl, outcome := h(n, p)
		if repl != nil {
			n = repl
		}
		if !p.Ok() {
			return n
		}
		if outcome == Break {
			break
		}
		if outcome == Restart {
			return runPhaseOnNode(ph, n, p)
		}
	}
	return n
}

// postPhaseOnNode is runPhaseOnNode's post-order counterpart, run again
// after a node's children have all been walked.
func postPhaseOnNode(ph *Phase, n *ast.Node, p *Payload) *ast.Node {
	if ph.PostDefault == nil {
		return n
	}
	repl, _ := ph.PostDefault(n, p)
	if repl != nil {
		n = repl
	}
	return n
}
