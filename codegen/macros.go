package codegen

import "go.pokelang.org/pk/pvm"

// IfThenElse emits `if (cond) then then_ else else_` as
//
//	<cond>
//	jmpf else
//	<then_>
//	jmp end
//	else:
//	<else_>
//	end:
//
// else_ may be nil for a then-only if. Each of cond/then_/else_ is
// called to emit its own body onto a.
func (a *Assembler) IfThenElse(cond, thenBody func(), elseBody func()) {
	elseLabel := a.FreshLabel("else")
	endLabel := a.FreshLabel("endif")

	cond()
	a.JmpFalse(elseLabel)
	thenBody()
	a.Jmp(endLabel)
	a.AppendLabel(elseLabel)
	if elseBody != nil {
		elseBody()
	}
	a.AppendLabel(endLabel)
}

// While emits a `while (cond) body` loop, registering break/continue
// labels around body.
func (a *Assembler) While(cond, body func()) {
	startLabel := a.FreshLabel("while")
	breakLabel := a.FreshLabel("endwhile")

	a.AppendLabel(startLabel)
	cond()
	a.JmpFalse(breakLabel)
	a.PushLoopLabels(breakLabel, startLabel)
	body()
	a.PopLoopLabels()
	a.Jmp(startLabel)
	a.AppendLabel(breakLabel)
}

// For emits a C-style `for (init; cond; step) body` loop: init runs
// once, then cond/body/step repeat, continue jumping to step rather
// than straight to cond (the conventional for-loop continue target).
func (a *Assembler) For(init, cond, step, body func()) {
	startLabel := a.FreshLabel("for")
	stepLabel := a.FreshLabel("forstep")
	breakLabel := a.FreshLabel("endfor")

	init()
	a.AppendLabel(startLabel)
	cond()
	a.JmpFalse(breakLabel)
	a.PushLoopLabels(breakLabel, stepLabel)
	body()
	a.PopLoopLabels()
	a.AppendLabel(stepLabel)
	step()
	a.Jmp(startLabel)
	a.AppendLabel(breakLabel)
}

// ForInWhere emits a `for (elem in array where cond) body` loop: array
// pushes the array to iterate, the macro keeps the index in its own
// fresh variables and pushes the current element each iteration, the
// caller-supplied bind closure registers that element under the loop
// variable's name, and where is an optional filter predicate run before
// body.
func (a *Assembler) ForInWhere(array func(), bind func(), where, body func()) {
	idxVar := a.FreshLabel("idx")
	startLabel := a.FreshLabel("forin")
	stepLabel := a.FreshLabel("forinstep")
	breakLabel := a.FreshLabel("endforin")

	array()
	a.Emit(pvm.Instruction{Op: pvm.OpRegVar, Name: idxVar})
	a.Push(pvm.MakeInt(0, 32))
	a.Emit(pvm.Instruction{Op: pvm.OpRegVar, Name: idxVar + "_i"})

	a.AppendLabel(startLabel)
	a.Emit(pvm.Instruction{Op: pvm.OpPushVar, Name: idxVar + "_i"})
	a.Emit(pvm.Instruction{Op: pvm.OpPushVar, Name: idxVar})
	a.Emit(pvm.Instruction{Op: pvm.OpSizeof})
	a.Emit(pvm.Instruction{Op: pvm.OpLt})
	a.JmpFalse(breakLabel)

	a.Emit(pvm.Instruction{Op: pvm.OpPushVar, Name: idxVar})
	a.Emit(pvm.Instruction{Op: pvm.OpPushVar, Name: idxVar + "_i"})
	a.Emit(pvm.Instruction{Op: pvm.OpArrayElem})
	bind()

	if where != nil {
		where()
		a.JmpFalse(stepLabel)
	}

	a.PushLoopLabels(breakLabel, stepLabel)
	body()
	a.PopLoopLabels()

	a.AppendLabel(stepLabel)
	a.Emit(pvm.Instruction{Op: pvm.OpPushVar, Name: idxVar + "_i"})
	a.Push(pvm.MakeInt(1, 32))
	a.Emit(pvm.Instruction{Op: pvm.OpAdd})
	a.Emit(pvm.Instruction{Op: pvm.OpSetVar, Name: idxVar + "_i"})
	a.Jmp(startLabel)
	a.AppendLabel(breakLabel)
}

// Loop emits an unconditional `loop ... endloop`, relying entirely on
// an inner break to exit.
func (a *Assembler) Loop(body func()) {
	startLabel := a.FreshLabel("loop")
	breakLabel := a.FreshLabel("endloop")

	a.AppendLabel(startLabel)
	a.PushLoopLabels(breakLabel, startLabel)
	body()
	a.PopLoopLabels()
	a.Jmp(startLabel)
	a.AppendLabel(breakLabel)
}

// TryCatchEndtry emits `try { tryBody } catch (codes) { catchBody }`
// using OpPushHandler/OpPopHandler, the handler-stack primitives
// pvm.VM's dynamic dispatch (pvm/vm.go's step/popMatchingHandler)
// consults at runtime. An empty codes slice is the catch-all form.
func (a *Assembler) TryCatchEndtry(codes []int32, tryBody, catchBody func()) {
	catchLabel := a.FreshLabel("catch")
	endLabel := a.FreshLabel("endtry")

	idx := a.Emit(pvm.Instruction{Op: pvm.OpPushHandler, Exceptions: codes})
	tryBody()
	a.Emit(pvm.Instruction{Op: pvm.OpPopHandler})
	a.Jmp(endLabel)
	a.AppendLabel(catchLabel)
	a.Patch(idx, a.labels[catchLabel])
	if catchBody != nil {
		catchBody()
	}
	a.AppendLabel(endLabel)
}

// CallByName resolves a closure bound to name in the environment and
// calls it with argc arguments already pushed by the caller.
func (a *Assembler) CallByName(name string, argc int) {
	a.Emit(pvm.Instruction{Op: pvm.OpPushVar, Name: name})
	a.Emit(pvm.Instruction{Op: pvm.OpCall, Imm: pvm.MakeInt(int64(argc), 32)})
}
