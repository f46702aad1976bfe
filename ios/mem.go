package ios

import "strings"

// memDevice is the Device handed back by MemIOD.Open.
type memDevice struct {
	buf   []byte
	flags Flags
}

// MemIOD is an in-memory backing-device driver. It recognizes handlers of
// the form "mem://<name>" and always opens a fresh, growable byte buffer:
// there is no persistence and no sharing between two Opens of the same
// name.
//
// Concrete backing-store drivers are out of scope for the core (spec.md
// §1); MemIOD exists purely so the testable properties in spec.md §8 (S3,
// S4, S6) — which all require *some* open IO space — have one to use,
// exactly as the original C implementation's own test suite constructs an
// in-memory ios for unit coverage rather than shelling out to a real file.
type MemIOD struct{}

var _ IOD = MemIOD{}

func (MemIOD) Name() string { return "mem" }

func (MemIOD) NormalizeHandler(handler string, flags Flags) (string, bool) {
	if !strings.HasPrefix(handler, "mem://") {
		return "", false
	}
	return handler, true
}

func (MemIOD) Open(handler string, flags Flags) (Device, error) {
	return &memDevice{flags: flags | FlagRead | FlagWrite}, nil
}

func (MemIOD) Close(dev Device) error { return nil }

func (MemIOD) Pread(dev Device, buf []byte, offset uint64) (int, PreadStatus) {
	d := dev.(*memDevice)
	if offset >= uint64(len(d.buf)) {
		if len(buf) == 0 {
			return 0, PreadOK
		}
		return 0, PreadEOF
	}
	n := copy(buf, d.buf[offset:])
	if n < len(buf) {
		return n, PreadEOF
	}
	return n, PreadOK
}

func (MemIOD) Pwrite(dev Device, buf []byte, offset uint64) (int, error) {
	d := dev.(*memDevice)
	end := offset + uint64(len(buf))
	if end > uint64(len(d.buf)) {
		grown := make([]byte, end)
		copy(grown, d.buf)
		d.buf = grown
	}
	copy(d.buf[offset:end], buf)
	return len(buf), nil
}

func (MemIOD) GetFlags(dev Device) Flags { return dev.(*memDevice).flags }

func (MemIOD) Size(dev Device) uint64 { return uint64(len(dev.(*memDevice).buf)) * 8 }

func (MemIOD) Flush(dev Device, offset uint64) error { return nil }

// OpenMem opens a fresh anonymous in-memory space pre-seeded with data,
// registering MemIOD on r first if it has not been already.
func (r *Registry) OpenMem(data []byte) (int32, error) {
	found := false
	for _, d := range r.drivers {
		if d.Name() == "mem" {
			found = true
			break
		}
	}
	if !found {
		r.RegisterIOD(MemIOD{})
	}

	id, err := r.Open(newAnonName("mem"), FlagRead|FlagWrite, true)
	if err != nil {
		return -1, err
	}
	if len(data) > 0 {
		if _, err := r.Pwrite(id, data, 0); err != nil {
			return -1, err
		}
	}
	return id, nil
}
