package ios

import (
	"fmt"
	"strconv"
	"strings"

	"go.pokelang.org/pk/internal/bitrange"
)

// subWindow is the Device a sub-space's synthetic "sub IOD" hands back: a
// bounded, offset window onto a base space already open in the same
// Registry. There is no backing IOD struct for sub-spaces; the Registry
// reads/writes the base space directly, through this window, using win's
// bitrange.Range arithmetic to translate a sub-relative address into the
// base space's coordinates.
type subWindow struct {
	base int32
	win  bitrange.Range
	name string
}

// ParseSubHandler parses a "sub://<base-id>/<hex offset>/<hex size>/<name>"
// handler, per spec.md §6's sub-IOS handler grammar.
func ParseSubHandler(handler string) (baseID int32, offset, size uint64, name string, ok bool) {
	rest, ok := strings.CutPrefix(handler, "sub://")
	if !ok {
		return 0, 0, 0, "", false
	}
	parts := strings.SplitN(rest, "/", 4)
	if len(parts) != 4 {
		return 0, 0, 0, "", false
	}
	base, err := strconv.ParseInt(parts[0], 10, 32)
	if err != nil {
		return 0, 0, 0, "", false
	}
	off, err := strconv.ParseUint(strings.TrimPrefix(parts[1], "0x"), 16, 64)
	if err != nil {
		return 0, 0, 0, "", false
	}
	sz, err := strconv.ParseUint(strings.TrimPrefix(parts[2], "0x"), 16, 64)
	if err != nil {
		return 0, 0, 0, "", false
	}
	return int32(base), off, sz, parts[3], true
}

// FormatSubHandler renders the handler a sub-space of baseID, offset bits
// into it, sized size bits, and named name, would have.
func FormatSubHandler(baseID int32, offset, size uint64, name string) string {
	return fmt.Sprintf("sub://%d/0x%x/0x%x/%s", baseID, offset, size, name)
}

func (r *Registry) openSub(handler string, flags Flags, setCur bool) (int32, error) {
	baseID, offset, size, _, ok := ParseSubHandler(handler)
	if !ok {
		return -1, newErr(EInval, "malformed sub-space handler: %q", handler)
	}
	base, ok := r.spaces[baseID]
	if !ok {
		return -1, newErr(EInval, "no such base IO space: %d", baseID)
	}
	win := bitrange.Range{Offset: offset, Len: size}
	if baseSize, ok := r.Size(baseID); ok && baseSize != 0 && !(bitrange.Range{Len: baseSize}).Contains(win) {
		return -1, newErr(EInval, "sub-space window exceeds base space size")
	}

	id := r.nextID
	r.nextID++
	sp := &Space{
		id:      id,
		handler: handler,
		flags:   base.flags & flags,
		iod:     nil,
		dev:     &subWindow{base: baseID, win: win, name: handler},
		subOf:   baseID,
	}
	r.spaces[id] = sp
	r.order = append(r.order, id)
	if setCur || r.cur == 0 {
		r.cur = id
	}
	return id, nil
}
