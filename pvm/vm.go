package pvm

import (
	"fmt"

	"go.pokelang.org/pk/internal/debug"
	"go.pokelang.org/pk/internal/pool"
)

// Stack buffers recycled across Run calls on a long-lived VM, so that
// repeated short compiles (one expression, one statement) against the
// same Compiler don't reallocate the main/return/exception stacks every
// time. Get always hands back a Reset buffer, so a stack left non-empty
// by an unhandled exception can never leak into the next Run.
var (
	mainStackPool = pool.Pool[[]Value]{Reset: func(s *[]Value) { *s = (*s)[:0] }}
	retStackPool  = pool.Pool[[]frame]{Reset: func(s *[]frame) { *s = (*s)[:0] }}
	excStackPool  = pool.Pool[[]handler]{Reset: func(s *[]handler) { *s = (*s)[:0] }}
)

// VM is the PVM executor: three stacks (main, return, exception) threaded
// through Run, operating against a single Context (spec.md §4.4).
//
// Grounded on buf.build/go/hyperpb's internal/tdp/vm package for the
// stack-discipline shape (a flat instruction array, explicit PC, a
// register-like top-of-stack cache) — re-targeted here at Poke's untyped,
// boxed-value stack machine rather than protobuf wire decoding.
type VM struct {
	Ctx *Context

	// main, ret, and exc are only valid during a Run call: borrowed from
	// the package's stack pools at entry, returned at exit.
	main []Value
	ret  []frame
	exc  []handler
	env  *Environment

	out       Printer
	interrupt *interruptHook
	Profiler  Profiler
}

// Profiler receives a tick for every instruction Run dispatches, letting a
// host build an opcode-frequency profile (spec.md §9's profiling note).
type Profiler interface {
	Tick(op Opcode)
}

// Printer is the sink for OpPrint/OpFormat output, letting a host (the
// root façade, the pokec CLI) capture or redirect VM output without the
// VM depending on any particular terminal package.
type Printer interface {
	Print(s string)
}

type frame struct {
	pc   int
	prog *Program
	env  *Environment
}

// handler is one installed catch frame (spec.md §4.9's push-handler
// macro): the exception codes it accepts (empty means "any"), the target
// PC of the catch body, and a snapshot of the stacks/environment to
// unwind to when it fires.
type handler struct {
	codes   []int32
	target  int
	env     *Environment
	mainLen int
	retLen  int
}

// NewVM creates an executor bound to ctx, with a fresh toplevel
// environment and output discarded.
func NewVM(ctx *Context) *VM {
	return &VM{Ctx: ctx, env: NewEnvironment(), out: discardPrinter{}}
}

type discardPrinter struct{}

func (discardPrinter) Print(string) {}

// SetOutput installs the sink for print/format output.
func (vm *VM) SetOutput(p Printer) { vm.out = p }

// Env returns the VM's current runtime environment, letting a host
// register toplevel bindings (e.g. a mapped variable from `.load`)
// before the first Run.
func (vm *VM) Env() *Environment { return vm.env }

// push/pop operate on the main data stack.
func (vm *VM) push(v Value) { vm.main = append(vm.main, v) }

func (vm *VM) pop() Value {
	n := len(vm.main) - 1
	v := vm.main[n]
	vm.main = vm.main[:n]
	return v
}

func (vm *VM) peek() Value { return vm.main[len(vm.main)-1] }

// Run executes prog starting at pc, returning the final value left on the
// stack (or Null if the program never pushed one) and any exception that
// escaped unhandled to the toplevel.
//
// Each instruction runs under its own recover so that a raised exception
// can be caught dynamically by the innermost matching handler installed
// with OpPushHandler (codegen's try/catch macro) and execution resumed at
// the catch body, rather than always unwinding Run entirely; only an
// exception with no matching handler propagates out to the outer recover
// below, which converts it into Run's own return value.
func (vm *VM) Run(prog *Program, pc int) (result Value, exc *Exception) {
	mainBuf, retBuf, excBuf := mainStackPool.Get(), retStackPool.Get(), excStackPool.Get()
	vm.main, vm.ret, vm.exc = *mainBuf, *retBuf, *excBuf
	defer func() {
		*mainBuf, *retBuf, *excBuf = vm.main, vm.ret, vm.exc
		mainStackPool.Put(mainBuf)
		retStackPool.Put(retBuf)
		excStackPool.Put(excBuf)
		vm.main, vm.ret, vm.exc = nil, nil, nil
	}()

	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*Exception); ok {
				exc = e
				return
			}
			panic(r)
		}
	}()

	for pc < len(prog.Code) {
		if vm.interrupt != nil && vm.interrupt.interrupted() {
			vm.raise(ESignal, "interrupted")
		}
		prog, pc = vm.step(prog, pc)
	}

	return vm.maybeTop(), nil
}

// step executes one instruction, returning the program and PC to resume
// at — ordinarily the next instruction, but a different program/entry
// point after OpCall/OpReturn, or a catch body's target after a raised
// exception is dynamically matched against the handler stack.
func (vm *VM) step(prog *Program, pc int) (nextProg *Program, next int) {
	nextProg, next = prog, pc+1

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		e, ok := r.(*Exception)
		if !ok {
			panic(r)
		}
		h, ok := vm.popMatchingHandler(e.Code)
		if !ok {
			panic(e)
		}
		vm.main = vm.main[:h.mainLen]
		vm.ret = vm.ret[:h.retLen]
		vm.env = h.env
		vm.push(e.Payload)
		nextProg, next = prog, h.target
	}()

	ins := &prog.Code[pc]
	if vm.Profiler != nil {
		vm.Profiler.Tick(ins.Op)
	}

	switch ins.Op {
	case OpNop, OpLabel:

	case OpPush:
		vm.push(ins.Imm)
	case OpPop:
		vm.pop()
	case OpDup:
		vm.push(vm.peek())
	case OpSwap:
		n := len(vm.main)
		vm.main[n-1], vm.main[n-2] = vm.main[n-2], vm.main[n-1]
	case OpRot:
		n := len(vm.main)
		vm.main[n-3], vm.main[n-2], vm.main[n-1] = vm.main[n-2], vm.main[n-1], vm.main[n-3]
	case OpOver:
		n := len(vm.main)
		vm.push(vm.main[n-2])

	case OpPushFrame:
		vm.env.PushFrame()
	case OpPopFrame:
		vm.env.PopFrame()
	case OpRegVar:
		vm.env.Register(ins.Name, vm.pop())
	case OpPushVar:
		// Per spec.md §4.3: "lexical addresses are emitted by the
		// compiler; the runtime does not validate them beyond bounds,
		// and invalid addresses are treated as fatal compiler bugs" —
		// an unresolved name here is a codegen defect, not a catchable
		// Poke-level exception.
		val, ok := vm.env.Lookup(ins.Name)
		debug.Assert(ok, "undefined variable %q (compiler bug)", ins.Name)
		vm.push(val)
	case OpSetVar:
		debug.Assert(vm.env.Set(ins.Name, vm.peek()), "undefined variable %q (compiler bug)", ins.Name)

	case OpAdd, OpSub, OpMul, OpDiv, OpMod,
		OpBAnd, OpBOr, OpBXor, OpShl, OpShr,
		OpLt, OpGt, OpLe, OpGe, OpEq, OpNe:
		b, a := vm.pop(), vm.pop()
		vm.push(vm.binop(ins.Op, a, b))
	case OpNeg:
		vm.push(vm.unop(ins.Op, vm.pop()))
	case OpBNot:
		vm.push(vm.unop(ins.Op, vm.pop()))
	case OpNot:
		v := vm.pop()
		if v.IsNull() || v.Kind(vm.Ctx) == KindInt && v.IntValue() == 0 {
			vm.push(MakeInt(1, 32))
		} else {
			vm.push(MakeInt(0, 32))
		}

	case OpSizeof:
		vm.push(vm.Ctx.MakeIntegral(int64(vm.Ctx.SizeOf(vm.pop())), 64, false))

	case OpMkArray:
		elemType := vm.pop()
		n := int(vm.Ctx.IntegralValue(vm.pop()))
		vm.push(vm.Ctx.MakeArray(n, elemType))
	case OpMkStruct:
		structType := vm.pop()
		n := int(vm.Ctx.IntegralValue(vm.pop()))
		vm.push(vm.Ctx.MakeStruct(n, structType))

	case OpStructField:
		name := ins.Name
		s := vm.Ctx.StructOf(vm.pop())
		f, ok := s.Field(name)
		if !ok {
			vm.raise(EInvalidElem, "no such field "+name)
		}
		vm.push(f.Value)
	case OpStructSet:
		val := vm.pop()
		s := vm.Ctx.StructOf(vm.pop())
		if !s.SetField(ins.Name, val) {
			vm.raise(EInvalidElem, "no such field "+ins.Name)
		}
	case OpArrayElem:
		idx := int(vm.Ctx.IntegralValue(vm.pop()))
		a := vm.Ctx.ArrayOf(vm.pop())
		if idx < 0 || idx >= len(a.Cells) {
			vm.raise(EOutOfBounds, "array index out of bounds")
		}
		vm.push(a.Cells[idx].Value)
	case OpArraySet:
		val := vm.pop()
		idx := int(vm.Ctx.IntegralValue(vm.pop()))
		a := vm.Ctx.ArrayOf(vm.pop())
		if idx < 0 || idx >= len(a.Cells) {
			vm.raise(EOutOfBounds, "array index out of bounds")
		}
		a.Cells[idx].Value = val

	case OpJmp:
		next = ins.Target
	case OpJmpFalse:
		v := vm.pop()
		if v.Kind(vm.Ctx) != KindInt || v.IntValue() == 0 {
			next = ins.Target
		}
	case OpJmpTrue:
		v := vm.pop()
		if v.Kind(vm.Ctx) == KindInt && v.IntValue() != 0 {
			next = ins.Target
		}

	case OpCall:
		// Operand convention: the nargs arguments are pushed
		// left-to-right and the closure last, on top of them; the
		// callee's own prologue (a run of OpRegVar instructions codegen
		// emits for each named parameter) pops the arguments back off
		// in reverse, so the args are left on the stack here rather
		// than consumed.
		nargs := int(ins.Imm.IntValue())
		closureVal := vm.pop()
		args := append([]Value(nil), vm.main[len(vm.main)-nargs:]...)
		vm.main = vm.main[:len(vm.main)-nargs]
		cl := vm.Ctx.ClosureOf(closureVal)

		vm.ret = append(vm.ret, frame{pc: next, prog: prog, env: vm.env})
		vm.env = cl.Env.Dup()
		vm.env.PushFrame()
		for _, a := range args {
			vm.push(a)
		}
		nextProg, next = cl.Program, cl.Entry

	case OpReturn:
		if len(vm.ret) == 0 {
			// signal Run to stop: return a PC past the end of prog.
			nextProg, next = prog, len(prog.Code)
			return
		}
		f := vm.ret[len(vm.ret)-1]
		vm.ret = vm.ret[:len(vm.ret)-1]
		vm.env = f.env
		nextProg, next = f.prog, f.pc

	case OpPushHandler:
		vm.exc = append(vm.exc, handler{
			codes: ins.Exceptions, target: ins.Target, env: vm.env,
			mainLen: len(vm.main), retLen: len(vm.ret),
		})
	case OpPopHandler:
		if len(vm.exc) > 0 {
			vm.exc = vm.exc[:len(vm.exc)-1]
		}
	case OpTryUntil:
		// marks the end of a try/until region; nothing to do on the
		// fallthrough (non-exceptional) path.

	case OpRaise:
		payload := vm.pop()
		code := ExceptionCode(ins.Imm.IntValue())
		vm.raiseValue(code, payload)

	case OpPeek:
		signed := vm.Ctx.IntegralValue(vm.pop()) != 0
		size := int(vm.Ctx.IntegralValue(vm.pop()))
		offset := uint64(vm.Ctx.IntegralValue(vm.pop()))
		iosID := int32(vm.Ctx.IntegralValue(vm.pop()))
		val, err := vm.Ctx.Peek(iosID, offset, size, signed)
		if err != nil {
			vm.raiseErr(err)
		}
		vm.push(val)
	case OpPoke:
		val := vm.pop()
		offset := uint64(vm.Ctx.IntegralValue(vm.pop()))
		iosID := int32(vm.Ctx.IntegralValue(vm.pop()))
		if err := vm.Ctx.Poke(iosID, offset, val); err != nil {
			vm.raiseErr(err)
		}

	case OpMap:
		v := vm.pop()
		offset := uint64(vm.Ctx.IntegralValue(vm.pop()))
		iosID := int32(vm.Ctx.IntegralValue(vm.pop()))
		vm.doMap(v, iosID, offset)
		vm.push(v)
	case OpUnmap:
		v := vm.peek()
		if err := vm.Ctx.Unmap(v); err != nil {
			vm.raise(ENoMap, err.Error())
		}
	case OpReloc:
		offset := uint64(vm.Ctx.IntegralValue(vm.pop()))
		v := vm.peek()
		vm.Ctx.Reloc(v, offset)
	case OpUreloc:
		vm.Ctx.Ureloc(vm.peek())

	case OpPrint:
		vm.out.Print(vm.printValue(vm.pop()))
	case OpFormat:
		vm.out.Print(vm.printValue(vm.pop()))

	default:
		panic(fmt.Sprintf("pvm: unimplemented opcode %d", ins.Op))
	}

	return nextProg, next
}

func (vm *VM) maybeTop() Value {
	if len(vm.main) == 0 {
		return Null
	}
	return vm.peek()
}

// popMatchingHandler pops and returns the innermost installed handler
// that accepts code, discarding (without running) any inner handlers it
// had to pop through — those catch frames belong to a dynamic extent the
// exception is already unwinding past. Handlers whose Exceptions list is
// empty catch any code, matching the parser's bare `catch { ... }` form.
func (vm *VM) popMatchingHandler(code ExceptionCode) (handler, bool) {
	for len(vm.exc) > 0 {
		h := vm.exc[len(vm.exc)-1]
		vm.exc = vm.exc[:len(vm.exc)-1]
		if len(h.codes) == 0 {
			return h, true
		}
		for _, c := range h.codes {
			if ExceptionCode(c) == code {
				return h, true
			}
		}
	}
	return handler{}, false
}

func (vm *VM) doMap(v Value, iosID int32, offset uint64) {
	switch v.Kind(vm.Ctx) {
	case KindArray:
		a := vm.Ctx.ArrayOf(v)
		a.Info = MapInfo{Mapped: true, IOS: iosID, Offset: offset}
	case KindStruct:
		s := vm.Ctx.StructOf(v)
		s.Info = MapInfo{Mapped: true, IOS: iosID, Offset: offset}
	}
}

// raise constructs and panics an *Exception; step's deferred recover
// either dispatches it to a matching handler installed by OpPushHandler
// or re-panics it up to Run's own recover, which converts it into Run's
// return value.
func (vm *VM) raise(code ExceptionCode, msg string) {
	panic(NewException(code, msg))
}

func (vm *VM) raiseValue(code ExceptionCode, payload Value) {
	panic(&Exception{Code: code, Name: code.Name(), ExitStatus: code.ExitStatus(), Payload: payload})
}

// raiseErr re-panics an error produced outside the VM (an IOS driver
// failure, an *Exception from Peek/Poke/Unmap) as the VM's own exception
// flow, wrapping anything not already an *Exception as EIO.
func (vm *VM) raiseErr(err error) {
	if exc, ok := err.(*Exception); ok {
		panic(exc)
	}
	panic(NewException(EIO, err.Error()))
}
