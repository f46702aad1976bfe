package pvm

// MakeLong builds a signed integer Value of a size in [33, 64] bits. Sizes
// in [1, 32] should use MakeInt instead, matching the original's
// unboxed/boxed split (libpoke/pvm-val.h).
func (c *Context) MakeLong(val int64, size int) Value {
	debugAssertSize(size, 64)
	return c.allocBox(box{k: bkLong, wide: wideInt{val: uint64(val), size: size}})
}

// LongValue returns the sign-extended value of a TagLong Value.
func (c *Context) LongValue(v Value) int64 {
	w := c.box(v).wide
	shift := uint(64 - w.size)
	return int64(w.val<<shift) >> shift
}

// MakeUlong builds an unsigned integer Value of a size in [33, 64] bits.
func (c *Context) MakeUlong(val uint64, size int) Value {
	debugAssertSize(size, 64)
	return c.allocBox(box{k: bkUlong, wide: wideInt{val: val, size: size}})
}

// UlongValue returns the zero-extended value of a TagUlong Value.
func (c *Context) UlongValue(v Value) uint64 {
	w := c.box(v).wide
	if w.size == 64 {
		return w.val
	}
	return w.val & (1<<uint(w.size) - 1)
}

// LongSize/UlongSize return the declared bit width of a wide integer.
func (c *Context) LongSize(v Value) int  { return c.box(v).wide.size }
func (c *Context) UlongSize(v Value) int { return c.box(v).wide.size }

// MakeIntegral is a convenience that picks the unboxed or boxed
// representation, and signed or unsigned tag, appropriate for size and
// signed, matching the INT/UINT vs. LONG/ULONG split at 32 bits (spec.md
// §3.1).
func (c *Context) MakeIntegral(val int64, size int, signed bool) Value {
	switch {
	case size <= 32 && signed:
		return MakeInt(val, size)
	case size <= 32 && !signed:
		return MakeUint(uint64(val), size)
	case signed:
		return c.MakeLong(val, size)
	default:
		return c.MakeUlong(uint64(val), size)
	}
}

// IntegralValue returns the value of any integral Value (INT/UINT/LONG/
// ULONG) as a signed int64, sign- or zero-extending per its own signedness.
func (c *Context) IntegralValue(v Value) int64 {
	switch v.Tag() {
	case TagInt:
		return v.IntValue()
	case TagUint:
		return int64(v.UintValue())
	case TagLong:
		return c.LongValue(v)
	case TagUlong:
		return int64(c.UlongValue(v))
	default:
		panic("pvm: not an integral value")
	}
}

// IntegralSize returns the declared bit width of any integral Value.
func (c *Context) IntegralSize(v Value) int {
	switch v.Tag() {
	case TagInt, TagUint:
		return v.IntSize()
	case TagLong, TagUlong:
		return c.box(v).wide.size
	default:
		panic("pvm: not an integral value")
	}
}

// IntegralSigned reports whether v's tag is one of the signed integral
// tags (INT/LONG).
func (c *Context) IntegralSigned(v Value) bool {
	switch v.Tag() {
	case TagInt, TagLong:
		return true
	default:
		return false
	}
}
