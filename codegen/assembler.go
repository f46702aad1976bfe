// Package codegen implements the code generator and assembler spec.md
// §4.9 describes: a direct recursive-descent emitter (not driven by
// package pass) that lowers a typed, analyzed AST into a pvm.Program,
// plus the macro/label-stack assembler the emitter writes instructions
// through.
package codegen

import (
	"fmt"

	"go.pokelang.org/pk/pvm"
)

// Assembler accumulates one pvm.Program's worth of instructions plus
// the label table and boxed-constant pool codegen needs while
// emitting it. It is the "small label stack so that break and continue
// resolve to the innermost enclosing entity" machinery spec.md §4.9
// names, generalized with fresh_label/append_label.
//
// Grounded on the teacher's internal/tdp/compiler code-generation
// pass, which likewise accumulates a flat instruction stream plus a
// side table (its field-layout plan) while walking a typed IR —
// generalized here from "protobuf wire-format thunks" to "PVM
// bytecode."
type Assembler struct {
	code   []pvm.Instruction
	labels map[string]int
	consts []pvm.Value

	labelSeq int
	// loopLabels is the break/continue label stack: each open
	// loop/for/while/loop-endloop macro pushes its (breakLabel,
	// continueLabel) pair, popped when the macro closes.
	loopLabels []loopLabelPair

	// SplitWideImmediates keeps the push-hi/push-lo 64-bit immediate
	// splitting spec.md §4.9 calls out as "confined to the assembler"
	// exercised even though this Go PVM's Value already fits in one
	// 64-bit Instruction.Imm — a 32-bit host profile can set this to
	// force the two-instruction sequence instead of a single push.
	SplitWideImmediates bool
}

type loopLabelPair struct {
	breakLabel, continueLabel string
}

// NewAssembler returns an empty Assembler ready for a single Program.
func NewAssembler() *Assembler {
	return &Assembler{labels: map[string]int{}}
}

// Emit appends instr and returns its index in the code stream.
func (a *Assembler) Emit(instr pvm.Instruction) int {
	a.code = append(a.code, instr)
	return len(a.code) - 1
}

// Here returns the index the next Emit call will use, the position a
// forward jump target resolves to once the jump's destination is
// eventually appended.
func (a *Assembler) Here() int { return len(a.code) }

// FreshLabel mints a new label name guaranteed unique within this
// Assembler, spec.md §4.9's fresh_label.
func (a *Assembler) FreshLabel(prefix string) string {
	a.labelSeq++
	return fmt.Sprintf("%s_%d", prefix, a.labelSeq)
}

// AppendLabel binds name to the current code position, spec.md §4.9's
// append_label, and emits an OpLabel marker so Disassemble can print
// it even though OpLabel is a no-op at runtime.
func (a *Assembler) AppendLabel(name string) {
	a.labels[name] = a.Here()
	a.Emit(pvm.Instruction{Op: pvm.OpLabel, Name: name})
}

// Patch backfills a previously emitted jump/call instruction's Target
// once its destination is known — needed for the forward branches
// if/then/else and while/for emit before their bodies exist.
func (a *Assembler) Patch(index, target int) {
	a.code[index].Target = target
}

// Push emits an immediate-value push, honoring SplitWideImmediates; a
// boxed Value is additionally registered in the constant pool so the
// finished Program's GC roots include it (pvm.Program.Consts' stated
// purpose).
func (a *Assembler) Push(v pvm.Value) {
	if v.Tag() == pvm.TagBox {
		a.consts = append(a.consts, v)
	}
	if !a.SplitWideImmediates {
		a.Emit(pvm.Instruction{Op: pvm.OpPush, Imm: v})
		return
	}
	hi := pvm.MakeUint(uint64(v)>>32, 32)
	lo := pvm.MakeUint(uint64(v)&0xffffffff, 32)
	a.Emit(pvm.Instruction{Op: pvm.OpPush, Imm: hi})
	a.Emit(pvm.Instruction{Op: pvm.OpPush, Imm: pvm.MakeInt(32, 32)})
	a.Emit(pvm.Instruction{Op: pvm.OpShl})
	a.Emit(pvm.Instruction{Op: pvm.OpPush, Imm: lo})
	a.Emit(pvm.Instruction{Op: pvm.OpBOr})
}

// PushLoopLabels installs the label pair a nested break/continue
// statement resolves against; PopLoopLabels discards the innermost
// pair once the enclosing macro closes.
func (a *Assembler) PushLoopLabels(breakLabel, continueLabel string) {
	a.loopLabels = append(a.loopLabels, loopLabelPair{breakLabel, continueLabel})
}

func (a *Assembler) PopLoopLabels() {
	a.loopLabels = a.loopLabels[:len(a.loopLabels)-1]
}

// BreakLabel/ContinueLabel resolve to the innermost enclosing loop's
// labels; ok is false outside any loop (anal1 already rejects that
// case, so callers may treat !ok as a codegen invariant failure).
func (a *Assembler) BreakLabel() (string, bool) {
	if len(a.loopLabels) == 0 {
		return "", false
	}
	return a.loopLabels[len(a.loopLabels)-1].breakLabel, true
}

func (a *Assembler) ContinueLabel() (string, bool) {
	if len(a.loopLabels) == 0 {
		return "", false
	}
	return a.loopLabels[len(a.loopLabels)-1].continueLabel, true
}

// Jmp/JmpFalse/JmpTrue emit an unresolved branch to label, recorded in
// the instruction's Name so a later linking pass (Finish) can resolve
// Target once every label is bound.
func (a *Assembler) Jmp(label string) int   { return a.Emit(pvm.Instruction{Op: pvm.OpJmp, Name: label}) }
func (a *Assembler) JmpFalse(label string) int {
	return a.Emit(pvm.Instruction{Op: pvm.OpJmpFalse, Name: label})
}
func (a *Assembler) JmpTrue(label string) int {
	return a.Emit(pvm.Instruction{Op: pvm.OpJmpTrue, Name: label})
}

// Finish resolves every branch instruction's Name against the label
// table and returns the assembled Program. Called once, after the
// whole tree has been walked.
func (a *Assembler) Finish() (*pvm.Program, error) {
	for i, instr := range a.code {
		switch instr.Op {
		case pvm.OpJmp, pvm.OpJmpFalse, pvm.OpJmpTrue:
			target, ok := a.labels[instr.Name]
			if !ok {
				return nil, fmt.Errorf("codegen: unresolved label %q", instr.Name)
			}
			a.code[i].Target = target
		}
	}
	return pvm.NewProgram(a.code, a.labels, a.consts), nil
}
