package pvm

// TypeCode enumerates the Poke type constructors (spec.md §3.3).
type TypeCode uint8

const (
	TypeIntegral TypeCode = iota
	TypeString
	TypeArray
	TypeStruct
	TypeOffset
	TypeClosure
	TypeVoid
	TypeAny
)

// Completeness is the three-valued completeness flag spec.md §3.3
// requires on every type ("AstType.complete is three-valued: unknown /
// complete / incomplete; it must be known before code generation").
type Completeness uint8

const (
	CompleteUnknown Completeness = iota
	Complete
	Incomplete
)

// FieldType describes one named field of a struct type.
type FieldType struct {
	Name       string
	Type       Value // boxed TypeValue
	Optional   bool  // a conditional field (disallowed inside a union, §3.3)
}

// TypeValue is the payload of a boxed type (spec.md §3.3's type table).
type TypeValue struct {
	Code TypeCode

	// INTEGRAL
	IntSize   int
	IntSigned bool

	// ARRAY
	ElemType  Value // boxed TypeValue
	Bound     Value // integer bound, a closure Value, or Null (unbounded)

	// STRUCT
	Name      string
	Fields    []FieldType
	Union     bool
	Pinned    bool
	IntBacked Value // boxed TypeValue of the integral backing type, or Null

	// OFFSET
	OffsetBase Value  // boxed TypeValue, an INTEGRAL type
	OffsetUnit uint64

	// CLOSURE
	Return Value   // boxed TypeValue
	Args   []Value // boxed TypeValues; at most the last may be a vararg
	Vararg bool

	completeness Completeness
}

// MakeType boxes t.
func (c *Context) MakeType(t TypeValue) Value {
	return c.allocBox(box{k: bkType, typ: &t})
}

// TypeOf returns the TypeValue held by a TagBox/bkType Value.
func (c *Context) TypeOf(v Value) *TypeValue {
	return c.box(v).typ
}

// Typeof computes the type of an arbitrary Value, the runtime counterpart
// of the typeof operator (spec.md §4.1).
func (c *Context) Typeof(v Value) Value {
	switch v.Kind(c) {
	case KindInt:
		return c.MakeType(TypeValue{Code: TypeIntegral, IntSize: v.IntSize(), IntSigned: true, completeness: Complete})
	case KindUint:
		return c.MakeType(TypeValue{Code: TypeIntegral, IntSize: v.IntSize(), IntSigned: false, completeness: Complete})
	case KindLong:
		return c.MakeType(TypeValue{Code: TypeIntegral, IntSize: c.LongSize(v), IntSigned: true, completeness: Complete})
	case KindUlong:
		return c.MakeType(TypeValue{Code: TypeIntegral, IntSize: c.UlongSize(v), IntSigned: false, completeness: Complete})
	case KindString:
		return c.MakeType(TypeValue{Code: TypeString, completeness: Complete})
	case KindOffset:
		o := c.OffsetOf(v)
		return c.MakeType(TypeValue{Code: TypeOffset, OffsetBase: c.Typeof(o.Magnitude), OffsetUnit: o.Unit, completeness: Complete})
	case KindArray:
		a := c.ArrayOf(v)
		return c.MakeType(TypeValue{Code: TypeArray, ElemType: a.ElemType, completeness: Complete})
	case KindStruct:
		s := c.StructOf(v)
		return s.Type
	case KindType:
		return c.MakeType(TypeValue{Code: TypeAny, completeness: Complete})
	case KindClosure:
		cl := c.ClosureOf(v)
		return cl.Type
	default:
		return c.MakeType(TypeValue{Code: TypeVoid, completeness: Complete})
	}
}

// Completeness returns t's completeness, computing it on first use for
// composite types by recursively checking components — arrays are
// complete iff their element type is (an unbounded array is still
// complete: the bound is a run-time, not a type-completeness, concern),
// structs are complete iff every field type is and the struct is not
// itself mid-definition (callers of the sema package set completeness
// explicitly while a struct is being declared, to avoid infinite
// recursion through self-referential fields).
func (c *Context) Completeness(t *TypeValue) Completeness {
	if t.completeness != CompleteUnknown {
		return t.completeness
	}
	switch t.Code {
	case TypeArray:
		t.completeness = c.Completeness(c.TypeOf(t.ElemType))
	case TypeStruct:
		t.completeness = Complete
		for _, f := range t.Fields {
			if c.Completeness(c.TypeOf(f.Type)) == Incomplete {
				t.completeness = Incomplete
				break
			}
		}
	default:
		t.completeness = Complete
	}
	return t.completeness
}

// SetCompleteness explicitly marks t, used by sema while a struct type is
// still being declared (its own field list not yet attached) so that a
// self-referential field can be resolved without recursing into an
// incomplete type.
func SetCompleteness(t *TypeValue, c Completeness) { t.completeness = c }
