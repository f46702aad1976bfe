// Package bitrange defines a half-open bit range, used by the IOS layer to
// bound a sub-space's window onto its base space.
//
// Grounded on buf.build/go/hyperpb's internal/zc package, which tracks a
// zero-copy (offset, length) byte range into the parse buffer so that
// strings and nested messages can be read back out without copying. Poke's
// equivalent is bit-, not byte-, granular (§3.4: offsets carry a unit that
// can be any bit multiple), so this port generalizes zc.Range's two
// uint32s to bit-addressed uint64s.
package bitrange

import "fmt"

// Range is a half-open range [Offset, Offset+Len) measured in bits.
type Range struct {
	Offset uint64
	Len    uint64
}

// End returns the bit offset one past the end of the range.
func (r Range) End() uint64 { return r.Offset + r.Len }

// Contains reports whether sub lies entirely within r.
func (r Range) Contains(sub Range) bool {
	return sub.Offset >= r.Offset && sub.End() <= r.End()
}

// Sub returns the range rel bits into r, which must fit within r; it is
// used to translate a sub-IOS-relative offset into its base space's
// coordinates.
func (r Range) Sub(rel Range) Range {
	return Range{Offset: r.Offset + rel.Offset, Len: rel.Len}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Offset, r.End())
}
