package pvm

import "github.com/tiendc/go-deepcopy"

// Reloc moves a mapped composite value to a new bit offset within the same
// IO space, snapshotting enough state that a later Ureloc restores the
// exact prior layout (spec.md §4.1, tested by §8 invariant 5: "reloc
// followed by ureloc is the identity on mapinfo and cell offsets").
//
// Only the top-level offset is rewritten eagerly; cell offsets, which are
// relative to it, are left untouched — but each cell's offset (and, for
// struct fields, its Modified flag) is saved first so Ureloc can undo any
// relocation a caller performed on individual cells in between (e.g. a
// partial re-mapping after a constraint failure).
func (c *Context) Reloc(v Value, newOffset uint64) {
	switch v.Kind(c) {
	case KindArray:
		a := c.ArrayOf(v)
		a.infoBackup = a.Info.snapshot()
		snapshotArrayCells(a)
		a.Info.Offset = newOffset
	case KindStruct:
		s := c.StructOf(v)
		s.infoBackup = s.Info.snapshot()
		snapshotStructCells(s)
		s.Info.Offset = newOffset
	}
}

func snapshotArrayCells(a *ArrayValue) {
	for i := range a.Cells {
		a.Cells[i].backup = mapInfoBackupOffset{saved: true, offset: a.Cells[i].Offset}
	}
}

func snapshotStructCells(s *StructValue) {
	for i := range s.Fields {
		s.Fields[i].offsetBackup = mapInfoBackupOffset{saved: true, offset: s.Fields[i].Offset}
		s.Fields[i].modifiedBackup = s.Fields[i].Modified
		s.Fields[i].hasModifiedBackup = true
	}
}

// Ureloc restores the mapinfo and cell offsets captured by the most recent
// Reloc, a no-op if v was never relocated.
func (c *Context) Ureloc(v Value) {
	switch v.Kind(c) {
	case KindArray:
		a := c.ArrayOf(v)
		a.infoBackup.restore(&a.Info)
		for i := range a.Cells {
			if a.Cells[i].backup.saved {
				a.Cells[i].Offset = a.Cells[i].backup.offset
			}
		}
	case KindStruct:
		s := c.StructOf(v)
		s.infoBackup.restore(&s.Info)
		for i := range s.Fields {
			f := &s.Fields[i]
			if f.offsetBackup.saved {
				f.Offset = f.offsetBackup.offset
			}
			if f.hasModifiedBackup {
				f.Modified = f.modifiedBackup
			}
		}
	}
}

// Unmap clears a composite value's mapinfo, detaching it from its IO
// space while leaving its decoded contents intact (spec.md §4.1's unmap).
// A deep copy of the cell contents is taken first so that a subsequent
// write through the (now-closed) IO space cannot be observed through a
// live alias of v, made with the go-deepcopy library.
func (c *Context) Unmap(v Value) error {
	switch v.Kind(c) {
	case KindArray:
		a := c.ArrayOf(v)
		var cells []ArrayCell
		if err := deepcopy.Copy(&cells, &a.Cells); err != nil {
			return err
		}
		a.Cells = cells
		a.Info = MapInfo{}
	case KindStruct:
		s := c.StructOf(v)
		var fields []FieldCell
		if err := deepcopy.Copy(&fields, &s.Fields); err != nil {
			return err
		}
		s.Fields = fields
		s.Info = MapInfo{}
	}
	return nil
}
