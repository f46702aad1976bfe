package pvm

// Equal implements structural (deep) equality between two values, the
// semantics behind Poke's == operator on composite values (spec.md §3.1,
// tested by §8 invariant 3: "equal is reflexive, symmetric, and
// structural — it compares contents, not identity or mapinfo").
//
// Mapinfo (whether a value is mapped, and where) is deliberately excluded
// from the comparison: two array values with identical element contents
// are equal whether or not either is backed by an IO space.
func (c *Context) Equal(v1, v2 Value) bool {
	if v1 == v2 {
		return true
	}
	k1, k2 := v1.Kind(c), v2.Kind(c)
	if k1 != k2 {
		return false
	}
	switch k1 {
	case KindInt:
		return v1.IntValue() == v2.IntValue()
	case KindUint:
		return v1.UintValue() == v2.UintValue()
	case KindLong:
		return c.LongValue(v1) == c.LongValue(v2)
	case KindUlong:
		return c.UlongValue(v1) == c.UlongValue(v2)
	case KindString:
		return c.StringValue(v1) == c.StringValue(v2)
	case KindOffset:
		return c.Bits(v1) == c.Bits(v2)
	case KindArray:
		return c.arrayEqual(c.ArrayOf(v1), c.ArrayOf(v2))
	case KindStruct:
		return c.structEqual(c.StructOf(v1), c.StructOf(v2))
	case KindType:
		return c.typeEqual(c.TypeOf(v1), c.TypeOf(v2))
	case KindClosure:
		return false // closures compare equal only by identity, already handled above
	default:
		return true // both Null
	}
}

func (c *Context) arrayEqual(a1, a2 *ArrayValue) bool {
	if len(a1.Cells) != len(a2.Cells) {
		return false
	}
	for i := range a1.Cells {
		if !c.Equal(a1.Cells[i].Value, a2.Cells[i].Value) {
			return false
		}
	}
	return true
}

func (c *Context) structEqual(s1, s2 *StructValue) bool {
	if len(s1.Fields) != len(s2.Fields) {
		return false
	}
	for i := range s1.Fields {
		f1, f2 := &s1.Fields[i], &s2.Fields[i]
		if f1.Absent() != f2.Absent() {
			return false
		}
		if f1.Absent() {
			continue
		}
		if f1.Name != f2.Name || !c.Equal(f1.Value, f2.Value) {
			return false
		}
	}
	return true
}

func (c *Context) typeEqual(t1, t2 *TypeValue) bool {
	if t1.Code != t2.Code {
		return false
	}
	switch t1.Code {
	case TypeIntegral:
		return t1.IntSize == t2.IntSize && t1.IntSigned == t2.IntSigned
	case TypeString:
		return true
	case TypeArray:
		return c.typeEqual(c.TypeOf(t1.ElemType), c.TypeOf(t2.ElemType))
	case TypeStruct:
		return t1.Name == t2.Name
	case TypeOffset:
		return t1.OffsetUnit == t2.OffsetUnit && c.typeEqual(c.TypeOf(t1.OffsetBase), c.TypeOf(t2.OffsetBase))
	case TypeClosure:
		if len(t1.Args) != len(t2.Args) || t1.Vararg != t2.Vararg {
			return false
		}
		for i := range t1.Args {
			if !c.typeEqual(c.TypeOf(t1.Args[i]), c.TypeOf(t2.Args[i])) {
				return false
			}
		}
		return c.typeEqual(c.TypeOf(t1.Return), c.TypeOf(t2.Return))
	default:
		return true
	}
}
