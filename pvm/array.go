package pvm

// ArrayCell is one element of an array, per spec.md §3.2: a relative bit
// offset, a cached decoded value, and a backup of the offset used to
// undo a relocation.
type ArrayCell struct {
	Offset uint64 // relative to the array's own offset, when mapped
	Value  Value
	backup mapInfoBackupOffset
}

type mapInfoBackupOffset struct {
	saved  bool
	offset uint64
}

// ArrayValue is the payload of a boxed array (spec.md §3.2).
type ArrayValue struct {
	Info MapInfo
	infoBackup mapInfoBackup

	ElemType Value // boxed TypeValue

	// Bound is mutually exclusive between element count and bit count, per
	// spec.md §3.2. BoundKind selects which, if either, applies.
	BoundKind ArrayBoundKind
	Bound     uint64

	Cells []ArrayCell

	Mapper Value // closure Value, or Null
	Writer Value // closure Value, or Null
}

// ArrayBoundKind selects how an array's mapping bound, if any, is
// expressed.
type ArrayBoundKind uint8

const (
	BoundNone ArrayBoundKind = iota
	BoundElements
	BoundBits
)

// MakeArray allocates an array value with nelem vacant (Null) cells and
// at least 16 slots of slack capacity, matching spec.md §4.1's
// make_array contract.
func (c *Context) MakeArray(nelem int, elemType Value) Value {
	cells := make([]ArrayCell, nelem, nelem+16)
	for i := range cells {
		cells[i].Value = Null
	}
	return c.allocBox(box{k: bkArray, arr: &ArrayValue{ElemType: elemType, Cells: cells}})
}

// ArrayOf returns the ArrayValue held by a TagBox/bkArray Value.
func (c *Context) ArrayOf(v Value) *ArrayValue {
	return c.box(v).arr
}

// NElem returns the number of (non-vacant) elements, per spec.md §3.2's
// invariant that the declared count equals the non-vacant cell count.
func (a *ArrayValue) NElem() int {
	n := 0
	for _, c := range a.Cells {
		if !c.Value.IsNull() {
			n++
		}
	}
	return n
}
