package sema

import (
	"github.com/samber/lo"

	"go.pokelang.org/pk/ast"
	"go.pokelang.org/pk/pass"
	"go.pokelang.org/pk/pvm"
)

// anal2Phase implements spec.md §4.8's anal2 checks, run after typify/
// promo/fold so every non-trivial node already carries a Type: a void
// expression may not appear as an operand, a named struct/array field's
// endianness annotation is useless unless the field is itself
// multi-byte, a union's alternatives after the first unconditional one
// (or one with a constant-false constraint) are unreachable, and
// optional fields are disallowed inside unions.
var anal2Phase = buildAnal2Phase()

func buildAnal2Phase() *pass.Phase {
	ph := pass.NewPhase("anal2")

	ph.OnCode(ast.Exp, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		sp := payload(p)
		for _, child := range n.Children() {
			if isVoid(sp.Ctx, child.Type) {
				p.Fatal("void value used inside an expression")
				return nil, pass.Continue
			}
		}
		return nil, pass.Continue
	})

	ph.OnCode(ast.StructTypeField, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		sp := payload(p)
		if n.HasEndian && n.Type != pvm.Null {
			if t := sp.Ctx.TypeOf(n.Type); t != nil && t.Code == pvm.TypeIntegral && t.IntSize <= 8 {
				p.Warn("useless endianness annotation on a single-byte field")
			}
		}
		return nil, pass.Continue
	})

	ph.OnCode(ast.Struct, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		if !n.Union {
			return nil, pass.Continue
		}
		fields := lo.Filter(n.Children(), func(f *ast.Node, _ int) bool {
			return f.Code == ast.StructField
		})
		unconditionalSeen := false
		for _, f := range fields {
			if f.Optional {
				p.Fatal("optional field not allowed in a union")
				continue
			}
			if unconditionalSeen {
				p.Warn("unreachable union alternative")
				continue
			}
			if fieldIsUnconditional(f) {
				unconditionalSeen = true
			}
		}
		return nil, pass.Continue
	})

	return ph
}

func isVoid(ctx *pvm.Context, t pvm.Value) bool {
	if t == pvm.Null {
		return false // untyped (e.g. a statement context), not itself void
	}
	tv := ctx.TypeOf(t)
	return tv != nil && tv.Code == pvm.TypeVoid
}

// fieldIsUnconditional reports whether f's constraint is absent or a
// constant-true predicate, the condition under which every alternative
// after it in a union is unreachable. A field with no constraint child
// beyond its type is always unconditional.
func fieldIsUnconditional(f *ast.Node) bool {
	for _, c := range f.Children() {
		if c.Code == ast.Exp && c.Op == "==" {
			return false // has an explicit tag/constraint: may or may not match
		}
	}
	return true
}
