package sema

import (
	"go.pokelang.org/pk/ast"
	"go.pokelang.org/pk/pass"
	"go.pokelang.org/pk/pvm"
)

// foldPhase implements spec.md §4.8's fold pass: constant folding on
// pure integral expressions. It runs post-promo, so an operand may be
// wrapped in the Cast node promo just inserted; constNode unwraps it.
var foldPhase = buildFoldPhase()

func buildFoldPhase() *pass.Phase {
	ph := pass.NewPhase("fold")

	ph.PostDefault = func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		if n.Code != ast.Exp || !arithOps[n.Op] {
			return nil, pass.Continue
		}
		lhs, rhs := n.FirstChild, n.FirstChild.Next
		if lhs == nil || rhs == nil {
			return nil, pass.Continue
		}
		a, ok1 := constInt(lhs)
		b, ok2 := constInt(rhs)
		if !ok1 || !ok2 {
			return nil, pass.Continue
		}
		result, ok := foldArith(n.Op, a, b)
		if !ok {
			return nil, pass.Continue
		}
		folded := ast.NewNode(ast.Integer, n.Loc)
		folded.Type = n.Type
		folded.Completeness = pvm.Complete
		folded.IntVal = result
		folded.Signed = true
		if n.Type != pvm.Null {
			if tv := payload(p).Ctx.TypeOf(n.Type); tv != nil {
				folded.IntSize = tv.IntSize
				folded.Signed = tv.IntSigned
			}
		}
		return folded, pass.Continue
	}

	return ph
}

// constInt reports the literal value of n, unwrapping a single
// promo-inserted Cast around an Integer literal.
func constInt(n *ast.Node) (int64, bool) {
	if n.Code == ast.Cast && n.FirstChild != nil {
		n = n.FirstChild
	}
	if n.Code != ast.Integer {
		return 0, false
	}
	return n.IntVal, true
}

// foldArith computes a op b for the constant-foldable operator subset;
// div/mod by zero are left unfolded so the existing runtime
// EDivByZero path still fires instead of a compile-time panic.
func foldArith(op string, a, b int64) (int64, bool) {
	switch op {
	case "+":
		return a + b, true
	case "-":
		return a - b, true
	case "*":
		return a * b, true
	case "/":
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case "%":
		if b == 0 {
			return 0, false
		}
		return a % b, true
	case "&":
		return a & b, true
	case "|":
		return a | b, true
	case "^":
		return a ^ b, true
	case "<<":
		return a << uint64(b), true
	case ">>":
		return a >> uint64(b), true
	case "<":
		return boolInt(a < b), true
	case "<=":
		return boolInt(a <= b), true
	case ">":
		return boolInt(a > b), true
	case ">=":
		return boolInt(a >= b), true
	case "==":
		return boolInt(a == b), true
	case "!=":
		return boolInt(a != b), true
	case "&&":
		return boolInt(a != 0 && b != 0), true
	case "||":
		return boolInt(a != 0 || b != 0), true
	default:
		return 0, false
	}
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
