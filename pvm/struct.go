package pvm

// FieldCell is one field of a struct value (spec.md §3.2). A field with
// both Name == "" and Value == Null is absent — used for union
// alternatives that were not selected, and for optional fields that were
// not present — and is skipped by iteration, equality, and SizeOf.
type FieldCell struct {
	Name     string
	Value    Value
	Offset   uint64 // relative to the struct's own offset, when mapped
	Modified bool

	offsetBackup   mapInfoBackupOffset
	modifiedBackup bool
	hasModifiedBackup bool
}

// Absent reports whether this cell is a vacant union-alternative/optional
// slot.
func (f *FieldCell) Absent() bool { return f.Name == "" && f.Value.IsNull() }

// MethodCell is one method of a struct value: a name and the closure
// implementing it.
type MethodCell struct {
	Name    string
	Closure Value
}

// StructValue is the payload of a boxed struct (spec.md §3.2).
type StructValue struct {
	Info       MapInfo
	infoBackup mapInfoBackup

	Type Value // boxed TypeValue

	Fields  []FieldCell
	Methods []MethodCell

	Mapper Value
	Writer Value
}

// MakeStruct allocates a struct value with nfields vacant (absent)
// fields, per spec.md §4.1's make_struct contract.
func (c *Context) MakeStruct(nfields int, structType Value) Value {
	fields := make([]FieldCell, nfields)
	for i := range fields {
		fields[i].Value = Null
	}
	return c.allocBox(box{k: bkStruct, sct: &StructValue{
		Type:   structType,
		Fields: fields,
	}})
}

// StructOf returns the StructValue held by a TagBox/bkStruct Value.
func (c *Context) StructOf(v Value) *StructValue {
	return c.box(v).sct
}

// Field looks up a field by name, skipping absent cells, in declaration
// order (spec.md §3.2).
func (s *StructValue) Field(name string) (*FieldCell, bool) {
	for i := range s.Fields {
		f := &s.Fields[i]
		if !f.Absent() && f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Method looks up a method by name.
func (s *StructValue) Method(name string) (Value, bool) {
	for _, m := range s.Methods {
		if m.Name == name {
			return m.Closure, true
		}
	}
	return Null, false
}

// SetField assigns val to the named field, marking it modified (spec.md
// §3.2: "a modified flag transitions from 0 to 1 on assignment").
func (s *StructValue) SetField(name string, val Value) bool {
	f, ok := s.Field(name)
	if !ok {
		return false
	}
	f.Value = val
	f.Modified = true
	return true
}
