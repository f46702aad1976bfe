package pvm

// OffsetValue is the payload of a boxed offset: a magnitude (any integral
// Value) and a unit, in bits, which must be > 0 (spec.md §3.4).
type OffsetValue struct {
	Magnitude Value
	Unit      uint64
}

// MakeOffset builds an offset Value. Per spec.md §4.1 and the testable
// property in §8 invariant 2, a zero unit yields Null rather than a valid
// offset.
func (c *Context) MakeOffset(magnitude Value, unit uint64) Value {
	if unit == 0 {
		return Null
	}
	return c.allocBox(box{k: bkOffset, off: &OffsetValue{Magnitude: magnitude, Unit: unit}})
}

// OffsetOf returns the OffsetValue held by a TagBox/bkOffset Value.
func (c *Context) OffsetOf(v Value) *OffsetValue {
	return c.box(v).off
}

// Bits returns the offset's magnitude expressed in bits: magnitude * unit.
func (c *Context) Bits(v Value) uint64 {
	o := c.OffsetOf(v)
	return uint64(c.IntegralValue(o.Magnitude)) * o.Unit
}
