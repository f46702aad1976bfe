package pvm

import (
	"go.pokelang.org/pk/internal/arena"
	"go.pokelang.org/pk/ios"
)

// Context owns the box arena backing every boxed Value (strings, arrays,
// structs, types, closures, offsets, and wide long/ulong cells) produced
// by a single compiler/VM instance, plus the IO space registry those boxed
// values may be mapped against.
//
// Splitting this out from [VM] lets a host hold onto Values (e.g. a
// global variable's value, kept alive by [Environment]) independently of
// any particular Run call, while still scoping the arena to one compiler
// instance — multiple independent compilers have disjoint Contexts, per
// spec.md §5.
type Context struct {
	arena arena.Arena[box]
	IOS   *ios.Registry

	// Endianness/negative-encoding settings consulted by peek/poke and by
	// printers; see spec.md §4.4.
	Endian   Endian
	NegEnc   NegEncoding
}

// NewContext returns a fresh Context with its own arena and IO space
// registry.
func NewContext() *Context {
	return &Context{IOS: ios.NewRegistry(), Endian: LSB, NegEnc: TwosComplement}
}

// Endian selects byte order for peek/poke.
type Endian uint8

const (
	LSB Endian = iota
	MSB
)

// NegEncoding selects the representation of negative integers for
// peek/poke.
type NegEncoding uint8

const (
	TwosComplement NegEncoding = iota
	OnesComplement
)

func (c *Context) allocBox(b box) Value {
	i := c.arena.Alloc(b)
	return Value(uint64(i)<<3 | uint64(TagBox))
}

func (c *Context) box(v Value) *box {
	debugAssertTag(v, TagBox)
	return c.arena.Get(uint32(v >> 3))
}

func debugAssertTag(v Value, want Tag) {
	if v.Tag() != want {
		panic("pvm: value has wrong tag for this operation")
	}
}
