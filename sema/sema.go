// Package sema implements the analysis and typing passes spec.md §4.8
// names: Anal1, Typify1, Typify2, Promo, Fold, Anal2, and AnalF, each
// built on top of the generic pass.Phase/pass.Run walker.
//
// Grounded on the teacher's internal/tdp/compiler pipeline, which runs
// several named, single-purpose passes over the same ir tree in a fixed
// order, each mutating/annotating nodes in place and sharing one payload
// of accumulated diagnostics — the same shape this package uses, with
// pass.Payload standing in for the teacher's per-pipeline error struct.
package sema

import (
	"go.pokelang.org/pk/ast"
	"go.pokelang.org/pk/pass"
	"go.pokelang.org/pk/pvm"
)

// Payload is sema's phases' shared state: pass.Payload's error
// count/context stack (reached via Base) plus the pvm.Context types are
// resolved against. It is attached to the underlying pass.Payload via
// Extra so that every phase's handlers, which only see a *pass.Payload,
// can recover it with payload(p).
//
// Types is the compile-time symbol table mapping a declared identifier
// to its (boxed) type. It reuses pvm.Environment rather than a
// bespoke map-of-maps: a declared type is itself a pvm.Value (a boxed
// TypeValue), so the same name-based lexical-frame chain the runtime
// uses for variable bindings (pvm/env.go) serves typify1/typify2
// unchanged, just holding types instead of values.
type Payload struct {
	Base  *pass.Payload
	Ctx   *pvm.Context
	Types *pvm.Environment
}

// NewPayload returns a Payload ready for a fresh compile; errorOnWarning
// mirrors the compiler's "error-on-warning" flag (spec.md §4.8).
func NewPayload(ctx *pvm.Context, errorOnWarning bool) *Payload {
	return NewPayloadWithTypes(ctx, pvm.NewEnvironment(), errorOnWarning)
}

// NewPayloadWithTypes is NewPayload against an existing type environment
// rather than a fresh one, letting a host compiler (the root façade)
// carry toplevel declarations across several successive Run calls —
// CompileBuffer, then a later CompileStatement referencing what it
// declared — the same way the VM's own Environment persists across the
// façade's separate Run calls.
func NewPayloadWithTypes(ctx *pvm.Context, types *pvm.Environment, errorOnWarning bool) *Payload {
	base := &pass.Payload{ErrorOnWarn: errorOnWarning}
	p := &Payload{Base: base, Ctx: ctx, Types: types}
	base.Extra = p
	return p
}

func (p *Payload) Ok() bool { return p.Base.Ok() }

// Declare binds name to t in the innermost type scope.
func (p *Payload) Declare(name string, t pvm.Value) { p.Types.Register(name, t) }

// Lookup resolves name's declared type, searching outward through
// enclosing scopes.
func (p *Payload) Lookup(name string) (pvm.Value, bool) { return p.Types.Lookup(name) }

// PushScope/PopScope bracket a lexically nested region (a struct body,
// a function body, a block) so identifiers declared inside it do not
// leak to sibling scopes.
func (p *Payload) PushScope() { p.Types.PushFrame() }
func (p *Payload) PopScope() {
	if !p.Types.ToplevelP() {
		p.Types.PopFrame()
	}
}

// payload recovers the sema Payload a phase handler's pass.Payload was
// built from.
func payload(p *pass.Payload) *Payload { return p.Extra.(*Payload) }

// Run drives root through every analysis phase in spec.md §4.8's order,
// stopping early if any phase records a hard error. It returns the
// (possibly rewritten, by Promo/Fold) root node.
func Run(root *ast.Node, p *Payload) *ast.Node {
	phases := []*pass.Phase{anal1Phase, typify1Phase, typify2Phase, promoPhase, foldPhase, anal2Phase, analfPhase}
	for _, ph := range phases {
		if !p.Ok() {
			break
		}
		root = pass.Run(root, p.Base, ph)
	}
	return root
}
