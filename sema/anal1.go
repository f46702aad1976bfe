package sema

import (
	"go.pokelang.org/pk/ast"
	"go.pokelang.org/pk/pass"
)

// anal1Phase implements these structural checks: no duplicated field
// names in a struct, no declarations after alternatives in a union,
// every break/continue inside a loop, every return inside a function,
// offset unit > 0. It does not check enum names, pinning of integral
// structs, or void array element types.
var anal1Phase = buildAnal1Phase()

func buildAnal1Phase() *pass.Phase {
	ph := pass.NewPhase("anal1")

	ph.OnCode(ast.LoopStmt, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		p.PushContext("loop")
		return nil, pass.Continue
	})
	ph.OnCode(ast.Func, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		p.PushContext("func")
		return nil, pass.Continue
	})
	ph.OnCode(ast.Lambda, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		p.PushContext("func")
		return nil, pass.Continue
	})
	ph.OnCode(ast.Struct, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		sp := payload(p)
		checkDuplicateFieldNames(n, sp)
		checkUnionDiscipline(n, sp)
		return nil, pass.Continue
	})

	ph.OnCode(ast.BreakStmt, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		if !p.InContext("loop") {
			p.Fatal("break outside a loop")
		}
		return nil, pass.Continue
	})
	ph.OnCode(ast.ContinueStmt, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		if !p.InContext("loop") {
			p.Fatal("continue outside a loop")
		}
		return nil, pass.Continue
	})
	ph.OnCode(ast.ReturnStmt, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		if !p.InContext("func") {
			p.Fatal("return outside a function")
		}
		return nil, pass.Continue
	})
	ph.OnCode(ast.Offset, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		if n.Unit == 0 {
			p.Fatal("offset unit must be > 0")
		}
		return nil, pass.Continue
	})
	// Array-element-type void checking needs a resolved Type, which does
	// not exist yet during anal1 (it runs before Typify1/Typify2); no later
	// phase performs it either.

	ph.PostDefault = func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		switch n.Code {
		case ast.LoopStmt, ast.Func, ast.Lambda:
			p.PopContext()
		}
		return nil, pass.Continue
	}

	return ph
}

// checkDuplicateFieldNames rejects a struct type declaring the same
// field or method name twice.
func checkDuplicateFieldNames(n *ast.Node, sp *Payload) {
	seen := map[string]bool{}
	for _, f := range n.Children() {
		if f.Code != ast.StructField || f.Name == "" {
			continue
		}
		if seen[f.Name] {
			sp.Base.Fatal("duplicate field name " + f.Name)
			return
		}
		seen[f.Name] = true
	}
}

// checkUnionDiscipline rejects a declaration appearing after the first
// alternative in a `struct union`, methods excepted (spec.md §4.8,
// testable property 7).
func checkUnionDiscipline(n *ast.Node, sp *Payload) {
	if !n.Union {
		return
	}
	seenAlternative := false
	for _, f := range n.Children() {
		if f.Code != ast.StructField {
			continue // methods are represented as separate Decl/Func nodes, exempt
		}
		if seenAlternative {
			sp.Base.Fatal("declaration after union alternative")
			return
		}
		seenAlternative = true
	}
}
