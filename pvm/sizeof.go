package pvm

// SizeOf returns the size of v's encoding in bits, the runtime behavior
// behind Poke's sizeof operator applied to a value rather than a type
// (spec.md §4.1, tested by §8 invariant 4: "sizeof is additive over
// struct fields and array elements, and zero for absent fields").
func (c *Context) SizeOf(v Value) uint64 {
	switch v.Kind(c) {
	case KindInt, KindUint:
		return uint64(v.IntSize())
	case KindLong, KindUlong:
		return uint64(c.IntegralSize(v))
	case KindString:
		// Encoded length includes the trailing NUL, per spec.md §3.1.
		return uint64(len(c.StringValue(v))+1) * 8
	case KindOffset:
		o := c.OffsetOf(v)
		return c.SizeOf(o.Magnitude)
	case KindArray:
		a := c.ArrayOf(v)
		var total uint64
		for _, cell := range a.Cells {
			if !cell.Value.IsNull() {
				total += c.SizeOf(cell.Value)
			}
		}
		return total
	case KindStruct:
		s := c.StructOf(v)
		var total uint64
		for i := range s.Fields {
			f := &s.Fields[i]
			if !f.Absent() {
				total += c.SizeOf(f.Value)
			}
		}
		return total
	default:
		return 0
	}
}
