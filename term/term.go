// Package term implements the host terminal interface spec.md §6
// describes: the ten operations the PVM executor emits value printouts
// and completion UI through, plus a Default implementation detecting a
// real terminal via golang.org/x/term — the same dependency the
// teacher's internal/tools/test2 runner uses for its interactive
// password prompt (github.com/bufbuild/hyperpb), repurposed here from
// "read a password without echo" to "detect whether stdout is a tty
// worth emitting ANSI classes/hyperlinks to."
package term

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// Interface is the host-supplied terminal surface spec.md §6 lists:
// flush, puts, printf, indent(level, step), class/end_class,
// hyperlink/end_hyperlink, plus RGB color accessors.
type Interface interface {
	Flush() error
	Puts(s string)
	Printf(format string, args ...any)
	Indent(level, step int)
	Class(name string)
	EndClass(name string)
	Hyperlink(url, id string)
	EndHyperlink()
	SetRGB(r, g, b uint8)
	RGB() (r, g, b uint8)
}

// Default is a term.Interface backed by an io.Writer, emitting ANSI
// SGR classes and OSC-8 hyperlinks only when that writer is detected as
// an interactive terminal (golang.org/x/term.IsTerminal) — a plain
// file or pipe destination gets unadorned text, matching spec.md §6's
// framing of class/hyperlink as decorations a host may no-op.
type Default struct {
	w          io.Writer
	fd         int
	interactive bool
	r, g, b    uint8
}

// NewDefault wraps w, probing fd (typically the underlying file
// descriptor of w, e.g. os.Stdout.Fd()) to decide whether decorations
// are worth emitting.
func NewDefault(w io.Writer, fd int) *Default {
	return &Default{w: w, fd: fd, interactive: term.IsTerminal(fd)}
}

func (d *Default) Flush() error {
	if f, ok := d.w.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}

func (d *Default) Puts(s string) { fmt.Fprint(d.w, s) }

func (d *Default) Printf(format string, args ...any) { fmt.Fprintf(d.w, format, args...) }

func (d *Default) Indent(level, step int) {
	fmt.Fprint(d.w, strings.Repeat(" ", level*step))
}

func (d *Default) Class(name string) {
	if !d.interactive {
		return
	}
	fmt.Fprintf(d.w, "\x1b[%sm", classCode(name))
}

func (d *Default) EndClass(name string) {
	if !d.interactive {
		return
	}
	fmt.Fprint(d.w, "\x1b[0m")
}

func (d *Default) Hyperlink(url, id string) {
	if !d.interactive {
		return
	}
	fmt.Fprintf(d.w, "\x1b]8;id=%s;%s\x1b\\", id, url)
}

func (d *Default) EndHyperlink() {
	if !d.interactive {
		return
	}
	fmt.Fprint(d.w, "\x1b]8;;\x1b\\")
}

func (d *Default) SetRGB(r, g, b uint8) { d.r, d.g, d.b = r, g, b }
func (d *Default) RGB() (r, g, b uint8) { return d.r, d.g, d.b }

// classCode maps a semantic class name (spec.md §6 leaves the set
// host-defined; the disassembler/printer below use a small fixed
// vocabulary) to an ANSI SGR parameter.
func classCode(name string) string {
	switch name {
	case "error":
		return "31"
	case "warning":
		return "33"
	case "label":
		return "36"
	case "mnemonic":
		return "1"
	default:
		return "0"
	}
}
