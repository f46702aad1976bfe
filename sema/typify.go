package sema

import (
	"go.pokelang.org/pk/ast"
	"go.pokelang.org/pk/pass"
	"go.pokelang.org/pk/pvm"
)

// arithOps is the set of operators typify1 treats as ordinary binary
// arithmetic/relational/logical operators whose result type is derived
// from their (post-promo) operand type.
var arithOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"&": true, "|": true, "^": true, "<<": true, ">>": true,
	"<": true, "<=": true, ">": true, ">=": true, "==": true, "!=": true,
	"&&": true, "||": true,
}

// typify1Phase assigns a first-pass Type to every leaf and simple
// composite node (literals, identifiers via environment lookup, offset
// literals, and binary expressions whose operand types are already
// known) — spec.md §4.8's "assign types to every expression."
var typify1Phase = buildTypify1Phase()

func buildTypify1Phase() *pass.Phase {
	ph := pass.NewPhase("typify1")

	ph.OnCode(ast.Func, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		payload(p).PushScope()
		return nil, pass.Continue
	})
	ph.OnCode(ast.Lambda, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		payload(p).PushScope()
		return nil, pass.Continue
	})
	ph.OnCode(ast.CompStmt, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		payload(p).PushScope()
		return nil, pass.Continue
	})

	ph.OnCode(ast.Integer, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		sp := payload(p)
		size := n.IntSize
		if size == 0 {
			size = 32
		}
		n.Type = sp.Ctx.MakeType(pvm.TypeValue{Code: pvm.TypeIntegral, IntSize: size, IntSigned: n.Signed})
		n.Completeness = pvm.Complete
		return nil, pass.Continue
	})
	ph.OnCode(ast.String, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		sp := payload(p)
		n.Type = sp.Ctx.MakeType(pvm.TypeValue{Code: pvm.TypeString})
		n.Completeness = pvm.Complete
		return nil, pass.Continue
	})
	ph.OnCode(ast.Identifier, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		sp := payload(p)
		t, ok := sp.Lookup(n.Name)
		if !ok {
			p.Fatal("undeclared identifier " + n.Name)
			return nil, pass.Continue
		}
		n.Type = t
		return nil, pass.Continue
	})
	ph.PostDefault = func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		switch n.Code {
		case ast.Func, ast.Lambda, ast.CompStmt:
			payload(p).PopScope()
			return nil, pass.Continue
		case ast.Decl:
			// Post-order: the initializer child is only typed once its
			// own subtree has been visited by this same typify1 pass.
			sp := payload(p)
			if init := n.FirstChild; init != nil {
				sp.Declare(n.Name, init.Type)
				n.Type = init.Type
				n.Completeness = init.Completeness
			}
			return nil, pass.Continue
		}
		if n.Code != ast.Exp || !arithOps[n.Op] {
			return nil, pass.Continue
		}
		sp := payload(p)
		lhs, rhs := n.FirstChild, n.FirstChild.Next
		if lhs == nil || rhs == nil || lhs.Type == pvm.Null || rhs.Type == pvm.Null {
			return nil, pass.Continue
		}
		switch n.Op {
		case "<", "<=", ">", ">=", "==", "!=", "&&", "||":
			n.Type = sp.Ctx.MakeType(pvm.TypeValue{Code: pvm.TypeIntegral, IntSize: 32, IntSigned: true})
		default:
			n.Type = wideOf(sp.Ctx, lhs.Type, rhs.Type)
		}
		n.Completeness = pvm.Complete
		return nil, pass.Continue
	}

	return ph
}

// wideOf picks the operand type with the larger integral width, the
// "identical types" target promo later inserts casts to reach.
func wideOf(ctx *pvm.Context, a, b pvm.Value) pvm.Value {
	ta, tb := ctx.TypeOf(a), ctx.TypeOf(b)
	if ta.Code != pvm.TypeIntegral || tb.Code != pvm.TypeIntegral {
		return a
	}
	if tb.IntSize > ta.IntSize {
		return b
	}
	return a
}

// typify2Phase is the second typing pass: it resolves node kinds whose
// type depends on a child already typed by typify1 in a way a single
// pre-order/post-order sweep over Exp nodes cannot reach alone —
// StructRef field lookups and Isa checks against a declared type name
// (spec.md §4.8: "insert ISA checks").
var typify2Phase = buildTypify2Phase()

func buildTypify2Phase() *pass.Phase {
	ph := pass.NewPhase("typify2")

	ph.OnCode(ast.StructRef, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		sp := payload(p)
		base := n.FirstChild
		if base == nil || base.Type == pvm.Null {
			return nil, pass.Continue
		}
		bt := sp.Ctx.TypeOf(base.Type)
		if bt.Code != pvm.TypeStruct {
			p.Fatal("field reference on non-struct value")
			return nil, pass.Continue
		}
		for _, f := range bt.Fields {
			if f.Name == n.Name {
				n.Type = f.Type
				return nil, pass.Continue
			}
		}
		p.Fatal("no such field " + n.Name)
		return nil, pass.Continue
	})

	ph.OnCode(ast.Isa, func(n *ast.Node, p *pass.Payload) (*ast.Node, pass.Outcome) {
		sp := payload(p)
		n.Type = sp.Ctx.MakeType(pvm.TypeValue{Code: pvm.TypeIntegral, IntSize: 32, IntSigned: true})
		n.Completeness = pvm.Complete
		return nil, pass.Continue
	})

	// Cast nodes are only ever promo-inserted (spec.md's grammar has no
	// explicit cast syntax), and promo.go's promoteOperand sets a new
	// Cast node's Type at creation time, so typify2 never needs to type
	// one itself.

	return ph
}
