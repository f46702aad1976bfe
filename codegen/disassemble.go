package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"go.pokelang.org/pk/internal/asmfmt2"
	"go.pokelang.org/pk/internal/prettyasm"
	"go.pokelang.org/pk/pvm"
)

// Disassemble renders prog as a column-aligned `label: OPCODE operand`
// listing, spec.md §4.10's disassemble_function/disassemble_expression.
// It first tries asmfmt2 (the real github.com/klauspost/asmfmt
// formatter, fed a synthesized Go-asm-shaped rendering); when that
// rendering doesn't round-trip — the common case, since PVM mnemonics
// are not Go assembly — it falls back to internal/prettyasm's own
// structured alignment.
func Disassemble(prog *pvm.Program) string {
	lines := make([]prettyasm.Line, len(prog.Code))
	labelAt := map[int]string{}
	for name, idx := range prog.Labels {
		labelAt[idx] = name
	}

	rawLines := make([]string, len(prog.Code))
	for i, instr := range prog.Code {
		label := labelAt[i]
		operand := operandString(instr)
		lines[i] = prettyasm.Line{Label: label, Op: instr.Op.String(), Operand: operand}
		prefix := ""
		if label != "" {
			prefix = label + ":\n"
		}
		rawLines[i] = fmt.Sprintf("%s\t%s %s", prefix, asmMnemonic(instr.Op), operand)
	}

	if out, ok := asmfmt2.TryFormat(rawLines); ok {
		return out
	}
	return prettyasm.Format(lines)
}

// asmMnemonic upper-cases an opcode name the way Go plan9 assembly
// mnemonics are conventionally written, purely for the asmfmt2 best-
// effort pass; prettyasm's fallback output keeps the lower-case,
// hyphenated PVM mnemonic from Opcode.String().
func asmMnemonic(op pvm.Opcode) string {
	return strings.ToUpper(strings.ReplaceAll(op.String(), "-", "_"))
}

func operandString(instr pvm.Instruction) string {
	var parts []string
	if instr.Imm != 0 {
		parts = append(parts, "#"+strconv.FormatUint(uint64(instr.Imm), 10))
	}
	if instr.Name != "" {
		parts = append(parts, instr.Name)
	}
	if instr.Target != 0 {
		parts = append(parts, "->"+strconv.Itoa(instr.Target))
	}
	if len(instr.Exceptions) > 0 {
		codes := make([]string, len(instr.Exceptions))
		for i, c := range instr.Exceptions {
			codes[i] = strconv.Itoa(int(c))
		}
		parts = append(parts, "["+strings.Join(codes, ",")+"]")
	}
	return strings.Join(parts, " ")
}
