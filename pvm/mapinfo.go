package pvm

// MapInfo holds the properties shared by every map-able value (spec.md
// §3.2): whether it is mapped, whether strict integrity checking applies,
// which IO space it is mapped in, and the bit offset within that space.
type MapInfo struct {
	Mapped bool
	Strict bool
	IOS    int32 // valid iff Mapped
	Offset uint64
}

// mapInfoBackup is the undo record spec.md §3.2 calls mapinfo_back,
// letting Reloc/Ureloc round-trip exactly.
type mapInfoBackup struct {
	saved bool
	info  MapInfo
}

func (m *MapInfo) snapshot() mapInfoBackup {
	return mapInfoBackup{saved: true, info: *m}
}

func (b *mapInfoBackup) restore(m *MapInfo) {
	if b.saved {
		*m = b.info
	}
}
