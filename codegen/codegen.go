package codegen

import (
	"fmt"

	"go.pokelang.org/pk/ast"
	"go.pokelang.org/pk/pvm"
)

// Flags is the context bitmap spec.md §4.9 says the code generator's
// payload carries: "in-mapper, in-constructor, in-writer, in-lvalue,
// in-comparator, in-printer, in-array-bounder, in-funcall, in-type,
// in-formatter, in-integrator, in-deintegrator, in-typifier,
// in-struct-decl." The expression/statement emitter below reads only
// InLvalue (an Identifier emitted while it is set produces no
// OpPushVar), and emitAssign clears it before emitting a compound
// assignment's operands; nothing in this package sets InLvalue, and the
// remaining flags, InFuncall included, are declared but neither read nor
// set here.
type Flags struct {
	InLvalue        bool
	InFuncall       bool
	InMapper        bool
	InConstructor   bool
	InWriter        bool
	InComparator    bool
	InPrinter       bool
	InArrayBounder  bool
	InType          bool
	InFormatter     bool
	InIntegrator    bool
	InDeintegrator  bool
	InTypifier      bool
	InStructDecl    bool
	Endian          pvm.Endian
}

// Payload is the code generator's per-compile state: the Context typed
// values are boxed against, the Assembler the current function/toplevel
// program is being emitted into, a stack of enclosing Assemblers (main
// vs. constructor, spec.md §4.9), the context bitmap, and accumulated
// error messages (codegen failures are invariant failures, not user
// diagnostics, per spec.md §7 — "internal compiler error ... not
// recoverable within the current compile").
type Payload struct {
	Ctx   *pvm.Context
	Asm   *Assembler
	Stack []*Assembler
	Flags Flags
	Errs  []string
}

func (p *Payload) fail(n *ast.Node, format string, args ...any) {
	p.Errs = append(p.Errs, fmt.Sprintf("codegen: %s (node %s)", fmt.Sprintf(format, args...), n.Code))
}

// PushAssembler/PopAssembler bracket emitting into a nested Program —
// a function literal's own body is a separate Assembler from its
// enclosing toplevel/constructor one, spec.md §4.9's "two stacks of
// open assemblers (main vs. constructor)" generalized to one stack
// since this tree's constructor closures are just ordinary nested
// functions rather than a distinct assembler kind.
func (p *Payload) PushAssembler() *Assembler {
	p.Stack = append(p.Stack, p.Asm)
	p.Asm = NewAssembler()
	return p.Asm
}

func (p *Payload) PopAssembler() *Assembler {
	finished := p.Asm
	p.Asm = p.Stack[len(p.Stack)-1]
	p.Stack = p.Stack[:len(p.Stack)-1]
	return finished
}

// Generate lowers root (already run through sema.Run) into a
// pvm.Program. root is typically a CompStmt (a function body or a
// top-level statement block) or a single expression (compile_expression,
// spec.md §4.10).
func Generate(root *ast.Node, ctx *pvm.Context) (*pvm.Program, []string) {
	p := &Payload{Ctx: ctx, Asm: NewAssembler()}
	emit(root, p)
	p.Asm.Emit(pvm.Instruction{Op: pvm.OpReturn})
	prog, err := p.Asm.Finish()
	if err != nil {
		p.Errs = append(p.Errs, err.Error())
	}
	return prog, p.Errs
}

// emit walks n, appending instructions to p.Asm. It is a direct
// recursive-descent emitter rather than a pass.Phase-driven walk: §4.9's
// own per-construct ordering (condition, then a jump, then the guarded
// body) needs to interleave instructions between a node's children in a
// way the generic pre-order/post-order protocol in package pass does
// not model, so codegen keeps its own explicit traversal, same as
// the teacher's internal/tdp/compiler field-layout pass does for its
// own multi-branch emission.
func emit(n *ast.Node, p *Payload) {
	if n == nil {
		return
	}
	switch n.Code {
	case ast.Program, ast.Src, ast.CompStmt:
		for _, c := range n.Children() {
			emit(c, p)
		}

	case ast.Integer:
		p.Asm.Push(pvm.MakeInt(n.IntVal, orDefault(n.IntSize, 32)))
	case ast.String:
		p.Asm.Push(p.Ctx.MakeString(n.StrVal))

	case ast.Identifier:
		if p.Flags.InLvalue {
			return // the assignment/incr handler itself emits OpSetVar
		}
		p.Asm.Emit(pvm.Instruction{Op: pvm.OpPushVar, Name: n.Name})

	case ast.Decl:
		if n.FirstChild != nil {
			if n.FirstChild.Code == ast.Func || n.FirstChild.Code == ast.Lambda {
				emitClosure(n.FirstChild, p)
			} else {
				emit(n.FirstChild, p)
			}
		}
		p.Asm.Emit(pvm.Instruction{Op: pvm.OpRegVar, Name: n.Name})

	case ast.Var:
		p.Asm.Emit(pvm.Instruction{Op: pvm.OpPushVar, Name: n.Name})

	case ast.Exp:
		emitExp(n, p)

	case ast.Cast:
		emit(n.FirstChild, p)
		// A cast to a target of identical runtime representation is a
		// pure typing fiction in this tree's value model (spec.md §3.1's
		// tag already encodes signedness/width on write); nothing
		// further needs emitting at run time.

	case ast.CondExp:
		kids := n.Children()
		if len(kids) != 3 {
			p.fail(n, "cond-exp needs 3 children, got %d", len(kids))
			return
		}
		p.Asm.IfThenElse(
			func() { emit(kids[0], p) },
			func() { emit(kids[1], p) },
			func() { emit(kids[2], p) },
		)

	case ast.IfStmt:
		kids := n.Children()
		var elseBody func()
		if len(kids) > 2 {
			elseBody = func() { emit(kids[2], p) }
		}
		p.Asm.IfThenElse(
			func() { emit(kids[0], p) },
			func() { emit(kids[1], p) },
			elseBody,
		)

	case ast.LoopStmt:
		kids := n.Children()
		switch len(kids) {
		case 1: // loop ... endloop (bare, relies on an inner break)
			p.Asm.Loop(func() { emit(kids[0], p) })
		case 2: // while (cond) body
			p.Asm.While(func() { emit(kids[0], p) }, func() { emit(kids[1], p) })
		case 4: // for (init; cond; step) body
			p.Asm.For(
				func() { emit(kids[0], p) },
				func() { emit(kids[1], p) },
				func() { emit(kids[2], p) },
				func() { emit(kids[3], p) },
			)
		default:
			p.fail(n, "unrecognized loop-stmt shape with %d children", len(kids))
		}

	case ast.LoopStmtIterator:
		kids := n.Children()
		if len(kids) < 2 {
			p.fail(n, "for-in-where needs at least an array and a body")
			return
		}
		body := kids[len(kids)-1]
		var where func()
		rest := kids[1 : len(kids)-1]
		if len(rest) > 0 {
			where = func() { emit(rest[0], p) }
		}
		p.Asm.ForInWhere(
			func() { emit(kids[0], p) },
			func() { p.Asm.Emit(pvm.Instruction{Op: pvm.OpRegVar, Name: n.Name}) },
			where,
			func() { emit(body, p) },
		)

	case ast.BreakStmt:
		if l, ok := p.Asm.BreakLabel(); ok {
			p.Asm.Jmp(l)
		} else {
			p.fail(n, "break outside a loop reached codegen")
		}
	case ast.ContinueStmt:
		if l, ok := p.Asm.ContinueLabel(); ok {
			p.Asm.Jmp(l)
		} else {
			p.fail(n, "continue outside a loop reached codegen")
		}

	case ast.ReturnStmt:
		if n.FirstChild != nil {
			emit(n.FirstChild, p)
		}
		p.Asm.Emit(pvm.Instruction{Op: pvm.OpReturn})

	case ast.ExpStmt:
		emit(n.FirstChild, p)
		if n.FirstChild != nil && n.FirstChild.Type != pvm.Null {
			p.Asm.Emit(pvm.Instruction{Op: pvm.OpPop})
		}

	case ast.AssStmt:
		emitAssign(n, p)
	case ast.IncrDecr:
		emitIncrDecr(n, p)

	case ast.TryCatchStmt:
		kids := n.Children()
		if len(kids) < 2 {
			p.fail(n, "try-catch-stmt needs a try body and a catch body")
			return
		}
		tryBody, catchBody := kids[0], kids[len(kids)-1]
		var codes []int32
		if len(kids) == 3 {
			// sema.fold already reduces a constant exception-code
			// expression to a literal by the time codegen runs; a
			// non-constant filter is a codegen invariant failure.
			if kids[1].Code == ast.Integer {
				codes = []int32{int32(kids[1].IntVal)}
			} else {
				p.fail(n, "catch exception filter did not fold to a constant")
			}
		}
		p.Asm.TryCatchEndtry(codes, func() { emit(tryBody, p) }, func() { emit(catchBody, p) })

	case ast.RaiseStmt:
		if n.FirstChild != nil {
			emit(n.FirstChild, p)
		}
		p.Asm.Emit(pvm.Instruction{Op: pvm.OpRaise})

	case ast.PrintStmt:
		for _, c := range n.Children() {
			emit(c, p)
			p.Asm.Emit(pvm.Instruction{Op: pvm.OpPrint})
		}

	case ast.Format, ast.FormatArg:
		for _, c := range n.Children() {
			emit(c, p)
		}
		p.Asm.Emit(pvm.Instruction{Op: pvm.OpFormat, Name: n.StrVal})

	case ast.Funcall:
		kids := n.Children()
		if len(kids) == 0 {
			p.fail(n, "funcall with no callee")
			return
		}
		for _, arg := range kids[1:] {
			emit(arg.FirstChild, p) // FuncallArg wraps the argument expression
		}
		emit(kids[0], p)
		p.Asm.Emit(pvm.Instruction{Op: pvm.OpCall, Imm: pvm.MakeInt(int64(len(kids)-1), 32)})

	case ast.Indexer:
		kids := n.Children()
		emit(kids[0], p)
		emit(kids[1], p)
		p.Asm.Emit(pvm.Instruction{Op: pvm.OpArrayElem})

	case ast.StructRef:
		emit(n.FirstChild, p)
		p.Asm.Emit(pvm.Instruction{Op: pvm.OpStructField, Name: n.Name})

	case ast.Offset:
		emit(n.FirstChild, p)
		p.Asm.Emit(pvm.Instruction{Op: pvm.OpPush, Imm: pvm.MakeUint(n.Unit, 32)})

	case ast.ArrayInitializer:
		for _, elem := range n.Children() {
			emit(elem, p)
		}
		p.Asm.Emit(pvm.Instruction{Op: pvm.OpMkArray, Imm: pvm.MakeInt(int64(len(n.Children())), 32)})

	case ast.Isa:
		emit(n.FirstChild, p)
		p.Asm.Emit(pvm.Instruction{Op: pvm.OpSizeof}) // placeholder runtime check, see DESIGN.md

	case ast.NullStmt:
		// nothing to emit

	default:
		p.fail(n, "no codegen rule for this node kind yet")
	}
}

func emitExp(n *ast.Node, p *Payload) {
	kids := n.Children()
	if len(kids) == 1 {
		emit(kids[0], p)
		if op, ok := unaryOps[n.Op]; ok {
			p.Asm.Emit(pvm.Instruction{Op: op})
		} else {
			p.fail(n, "unknown unary operator %q", n.Op)
		}
		return
	}
	if len(kids) != 2 {
		p.fail(n, "exp node with %d children", len(kids))
		return
	}
	emit(kids[0], p)
	emit(kids[1], p)
	op, ok := binaryOps[n.Op]
	if !ok {
		p.fail(n, "unknown binary operator %q", n.Op)
		return
	}
	p.Asm.Emit(pvm.Instruction{Op: op})
}

var unaryOps = map[string]pvm.Opcode{
	"-": pvm.OpNeg, "~": pvm.OpBNot, "!": pvm.OpNot,
}

var binaryOps = map[string]pvm.Opcode{
	"+": pvm.OpAdd, "-": pvm.OpSub, "*": pvm.OpMul, "/": pvm.OpDiv, "%": pvm.OpMod,
	"&": pvm.OpBAnd, "|": pvm.OpBOr, "^": pvm.OpBXor, "<<": pvm.OpShl, ">>": pvm.OpShr,
	"<": pvm.OpLt, ">": pvm.OpGt, "<=": pvm.OpLe, ">=": pvm.OpGe, "==": pvm.OpEq, "!=": pvm.OpNe,
}

func emitAssign(n *ast.Node, p *Payload) {
	target, value := n.FirstChild, n.FirstChild.Next
	if n.Op != "=" {
		// compound assignment (+=, -=, ...): desugar to target = target <op> value
		p.Flags.InLvalue = false
		emit(target, p)
		emit(value, p)
		if op, ok := binaryOps[compoundBase(n.Op)]; ok {
			p.Asm.Emit(pvm.Instruction{Op: op})
		} else {
			p.fail(n, "unknown compound assignment operator %q", n.Op)
		}
	} else {
		emit(value, p)
	}
	setTarget(target, p)
}

func compoundBase(op string) string {
	if len(op) >= 2 && op[len(op)-1] == '=' {
		return op[:len(op)-1]
	}
	return op
}

func setTarget(target *ast.Node, p *Payload) {
	switch target.Code {
	case ast.Identifier:
		p.Asm.Emit(pvm.Instruction{Op: pvm.OpSetVar, Name: target.Name})
	case ast.StructRef:
		emit(target.FirstChild, p)
		p.Asm.Emit(pvm.Instruction{Op: pvm.OpStructSet, Name: target.Name})
	case ast.Indexer:
		kids := target.Children()
		emit(kids[0], p)
		emit(kids[1], p)
		p.Asm.Emit(pvm.Instruction{Op: pvm.OpArraySet})
	default:
		p.fail(target, "invalid assignment target reached codegen")
	}
}

func emitIncrDecr(n *ast.Node, p *Payload) {
	target := n.FirstChild
	emit(target, p)
	p.Asm.Push(pvm.MakeInt(1, 32))
	if n.Op == "++" {
		p.Asm.Emit(pvm.Instruction{Op: pvm.OpAdd})
	} else {
		p.Asm.Emit(pvm.Instruction{Op: pvm.OpSub})
	}
	setTarget(target, p)
}

// emitClosure compiles a Func/Lambda node's body in its own Assembler,
// finishes it into a standalone Program, and pushes a closure value
// bound to the enclosing environment — the runtime counterpart of
// closure.go's MakeClosure. A Lambda's children are its FuncArg
// parameter list followed by a single body statement (the parser's
// parseLambda); the prologue registers each parameter name, popping
// them in the reverse of the caller's left-to-right push order since
// the rightmost argument ends up on top of the stack.
func emitClosure(fn *ast.Node, p *Payload) {
	kids := fn.Children()
	if len(kids) == 0 {
		p.fail(fn, "function literal with no body")
		return
	}
	params, body := kids[:len(kids)-1], kids[len(kids)-1]

	p.PushAssembler()
	for i := len(params) - 1; i >= 0; i-- {
		p.Asm.Emit(pvm.Instruction{Op: pvm.OpRegVar, Name: params[i].Name})
	}
	emit(body, p)
	p.Asm.Emit(pvm.Instruction{Op: pvm.OpReturn})
	inner := p.PopAssembler()
	prog, err := inner.Finish()
	if err != nil {
		p.Errs = append(p.Errs, err.Error())
		return
	}
	closureVal := p.Ctx.MakeClosure(prog, 0, pvm.NewEnvironment(), fn.Type)
	p.Asm.Push(closureVal)
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
