package sema

import (
	"go.pokelang.org/pk/ast"
	"go.pokelang.org/pk/pass"
	"go.pokelang.org/pk/pvm"
)

// promoPhase inserts the implicit promotion casts spec.md §4.8's promo
// pass requires: every binary arithmetic/relational/logical operator's
// operands are rewritten to share typify1's already-computed wide
// common type, by wrapping the narrower operand in a synthetic Cast
// node rather than mutating it in place.
var promoPhase = buildPromoPhase()

func buildPromoPhase() *pass.Phase {
	ph := pass.NewPhase("promo")

	ph.OnCode(ast.Exp, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		if !arithOps[n.Op] {
			return nil, pass.Continue
		}
		lhs, rhs := n.FirstChild, n.FirstChild.Next
		if lhs == nil || rhs == nil || lhs.Type == pvm.Null || rhs.Type == pvm.Null {
			return nil, pass.Continue
		}
		sp := payload(p)
		want := n.Type
		if want == pvm.Null {
			want = wideOf(sp.Ctx, lhs.Type, rhs.Type)
		}
		promoteOperand(n, lhs, want)
		promoteOperand(n, rhs, want)
		return nil, pass.Continue
	})

	return ph
}

// promoteOperand wraps operand in a Cast node to want when its own
// type differs, relinking it in operator's child chain. Replace must
// run before operand is re-parented under cast, since it reads
// operand's current Next to splice cast into the chain in its place.
func promoteOperand(operator, operand *ast.Node, want pvm.Value) {
	if operand.Type == want || want == pvm.Null {
		return
	}
	cast := ast.NewNode(ast.Cast, operand.Loc)
	cast.Type = want
	cast.Completeness = operand.Completeness
	operator.Replace(operand, cast)
	operand.Next = nil
	operand.Parent = cast
	cast.FirstChild = operand
}
