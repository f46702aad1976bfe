package sema

import (
	"go.pokelang.org/pk/ast"
	"go.pokelang.org/pk/pass"
)

// analfPhase is the pre-codegen pass spec.md §4.8 names analf: every
// array initializer element is annotated with its positional index,
// and every assignment/increment target is checked to be a valid
// l-value (a variable, a struct field reference, an array indexer, or
// a trimmer).
var analfPhase = buildAnalfPhase()

func buildAnalfPhase() *pass.Phase {
	ph := pass.NewPhase("analf")

	ph.OnCode(ast.ArrayInitializer, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		for i, elem := range n.Children() {
			elem.Index = i
			elem.IndexSet = true
		}
		return nil, pass.Continue
	})

	ph.OnCode(ast.AssStmt, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		requireLvalue(n.FirstChild, p)
		return nil, pass.Continue
	})
	ph.OnCode(ast.IncrDecr, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		requireLvalue(n.FirstChild, p)
		return nil, pass.Continue
	})

	return ph
}

// requireLvalue records a hard error if target is not one of the node
// kinds spec.md §4.8 allows as an assignment/increment target.
func requireLvalue(target *ast.Node, p *pass.Payload) {
	if target == nil {
		return
	}
	switch target.Code {
	case ast.Identifier, ast.StructRef, ast.Indexer, ast.Trimmer:
		return
	default:
		p.Fatal("invalid assignment target")
	}
}
