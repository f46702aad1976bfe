// Package prettyasm column-aligns a disassembly listing: labels in one
// column, mnemonics in the next, operands and a trailing comment in the
// last, the conventional shape of "objdump-style" output.
//
// Grounded on buf.build/go/hyperpb's internal/prettyasm package (which
// pretty-prints the TDP parser's generated thunk table the same way).
// codegen.Disassemble tries pk/internal/asmfmt2 (which drives the real
// github.com/klauspost/asmfmt formatter) first and falls back to this
// package's own tab alignment — built directly on already-structured
// [Line] values rather than re-parsed text — whenever asmfmt's
// Go-assembly parser doesn't accept a PVM mnemonic.
package prettyasm

import (
	"fmt"
	"strings"
)

// Line is one line of a disassembly listing.
type Line struct {
	Label   string // May be empty.
	Op      string
	Operand string
	Comment string // May be empty.
}

// Format renders lines as a column-aligned listing.
func Format(lines []Line) string {
	labelW, opW := 0, 0
	for _, l := range lines {
		labelW = max(labelW, len(l.Label))
		opW = max(opW, len(l.Op))
	}

	var b strings.Builder
	for _, l := range lines {
		label := l.Label
		if label != "" {
			label += ":"
		}
		fmt.Fprintf(&b, "%-*s  %-*s %s", labelW+1, label, opW, l.Op, l.Operand)
		if l.Comment != "" {
			fmt.Fprintf(&b, " ; %s", l.Comment)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
