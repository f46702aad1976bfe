// Package ios implements the IO space layer (spec.md §4.2): a registry of
// open, bit-addressed backing stores ("IO spaces"), uniform pread/pwrite
// access to them, and sub-space composition.
//
// Grounded on the original C implementation's poke/pk-ios.c and
// libpoke/pvm-val.c (mapinfo holds an IOS id + bit offset), reworked in
// the style of buf.build/go/hyperpb's internal/tdp/dynamic package, which
// is the teacher's own "uniform access to externally-owned bytes" layer
// (there: the protobuf wire buffer being parsed; here: any backing store a
// driver can be written for).
package ios

import "fmt"

// Flags control how a space was opened, mirroring poke/pk-ios.c's
// IOS_F_READ / IOS_F_WRITE / IOS_F_TRUNCATE / IOS_F_CREATE.
type Flags uint32

const (
	FlagRead Flags = 1 << iota
	FlagWrite
	FlagTruncate
	FlagCreate
)

// ErrorKind is the error taxonomy a driver or the registry can report,
// matching spec.md §4.2's open() and the host-facing ios_error codes of
// spec.md §7.
type ErrorKind int

const (
	OK ErrorKind = iota
	EError
	ENoMem
	EEOF
	EInval
	EOpen
	EPerm
)

func (k ErrorKind) String() string {
	switch k {
	case OK:
		return "OK"
	case EError:
		return "ERROR"
	case ENoMem:
		return "ENOMEM"
	case EEOF:
		return "EOF"
	case EInval:
		return "EINVAL"
	case EOpen:
		return "EOPEN"
	case EPerm:
		return "EPERM"
	default:
		return "?"
	}
}

// Error wraps an ErrorKind with a human-readable message.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("ios: %s: %s", e.Kind, e.Msg) }

func newErr(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// PreadStatus is the outcome of a Pread call.
type PreadStatus int

const (
	PreadOK PreadStatus = iota
	PreadEOF
	PreadError
)

// Device is a driver's open handle, opaque to the registry.
type Device any

// IOD is a backing-device driver: the nine operations spec.md §4.2
// requires any concrete store (file, memory, NBD, /proc maps — all out of
// scope for the core, §1) to implement.
type IOD interface {
	// Name returns the driver's identifying name, e.g. "file" or "mem".
	Name() string

	// NormalizeHandler canonicalizes handler (resolving "." components,
	// defaulting a scheme, ...), or reports that handler is not valid for
	// this driver.
	NormalizeHandler(handler string, flags Flags) (canonical string, ok bool)

	// Open opens handler under flags and returns a driver-owned handle.
	Open(handler string, flags Flags) (Device, error)

	// Close releases dev. The registry guarantees Close is called at most
	// once per successful Open.
	Close(dev Device) error

	// Pread reads len(buf) bytes into buf starting at the given byte
	// offset; callers of the registry work in whole bytes only.
	Pread(dev Device, buf []byte, offset uint64) (int, PreadStatus)

	// Pwrite writes buf at the given byte offset.
	Pwrite(dev Device, buf []byte, offset uint64) (int, error)

	// GetFlags returns the flags the device was actually opened with (a
	// driver may grant fewer than requested).
	GetFlags(dev Device) Flags

	// Size returns the device's size in bits, or 0 if unknown/unbounded
	// (e.g. a stream).
	Size(dev Device) uint64

	// Flush commits pending writes up to offset (or the whole device, if
	// offset is the device's full size).
	Flush(dev Device, offset uint64) error
}
