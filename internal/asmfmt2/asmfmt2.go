// Package asmfmt2 adapts github.com/klauspost/asmfmt's column-alignment
// formatter — built to tidy Go plan9 assembly — to PVM disassembly
// listings, whose mnemonics (push, mkstruct, push-handler, ...) are not
// themselves Go asm syntax. asmfmt.Format still parses its input as Go
// assembly internally, so it is run as a best-effort first pass against
// a synthesized plan9-flavored rendering of the listing; when that
// rendering doesn't round-trip through asmfmt's parser (an operand
// shape asmfmt doesn't recognize), the caller's own structured
// alignment (internal/prettyasm) is the result instead.
package asmfmt2

import (
	"strings"

	"github.com/klauspost/asmfmt"
)

// TryFormat feeds a synthesized "TEXT ...; OP operand" rendering of
// lines through asmfmt.Format, returning the aligned text and true on
// success. It returns false whenever asmfmt's Go-asm parser rejects the
// input, which is expected for most PVM mnemonics.
func TryFormat(lines []string) (string, bool) {
	src := "TEXT ·pvm(SB), $0\n" + strings.Join(lines, "\n") + "\n"
	out, err := asmfmt.Format(strings.NewReader(src))
	if err != nil {
		return "", false
	}
	return string(out), true
}
