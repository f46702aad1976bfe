package pvm

import (
	"fmt"
	"strings"
)

// printValue renders v the way Poke's default (non-pretty-printed) print
// statement does: integers/offsets in decimal, strings quoted, composites
// bracketed, per spec.md §4.1. The VM's OpPrint/OpFormat and
// Context.Print use it; codegen emits no per-type printer closures.
func (c *Context) printValue(v Value) string {
	switch v.Kind(c) {
	case KindNull:
		return "null"
	case KindInt:
		return fmt.Sprintf("%d", v.IntValue())
	case KindUint:
		return fmt.Sprintf("%dU", v.UintValue())
	case KindLong:
		return fmt.Sprintf("%dL", c.LongValue(v))
	case KindUlong:
		return fmt.Sprintf("%dUL", c.UlongValue(v))
	case KindString:
		return fmt.Sprintf("%q", c.StringValue(v))
	case KindOffset:
		o := c.OffsetOf(v)
		return fmt.Sprintf("%s#b", c.printValue(o.Magnitude))
	case KindArray:
		a := c.ArrayOf(v)
		parts := make([]string, len(a.Cells))
		for i, cell := range a.Cells {
			parts[i] = c.printValue(cell.Value)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case KindStruct:
		s := c.StructOf(v)
		var b strings.Builder
		b.WriteByte('{')
		first := true
		for i := range s.Fields {
			f := &s.Fields[i]
			if f.Absent() {
				continue
			}
			if !first {
				b.WriteByte(',')
			}
			first = false
			fmt.Fprintf(&b, "%s=%s", f.Name, c.printValue(f.Value))
		}
		b.WriteByte('}')
		return b.String()
	case KindType:
		return "<type>"
	case KindClosure:
		return "<closure>"
	default:
		return "?"
	}
}

// printValue is exposed on VM for the OpPrint/OpFormat dispatch in vm.go.
func (vm *VM) printValue(v Value) string { return vm.Ctx.printValue(v) }

// Print is the exported form of printValue, letting a host (the root
// façade's Result rendering) format a value the same way OpPrint does
// without going through a VM.
func (c *Context) Print(v Value) string { return c.printValue(v) }
