package pvm

// boxKind is the per-object tag stored alongside a boxed value, matching
// the original C implementation's pvm_val_box.tag discriminating String /
// Array / Struct / Type / Closure / Offset (libpoke/pvm-val.h), plus two
// cases (long/ulong cells) that the original encodes as a bare two-word
// allocation rather than a tagged box, folded in here for uniformity.
type boxKind uint8

const (
	bkString boxKind = iota
	bkArray
	bkStruct
	bkType
	bkClosure
	bkOffset
	bkLong
	bkUlong
)

// box is the heap object a TagBox Value's arena index names.
type box struct {
	k   boxKind
	str string
	arr *ArrayValue
	sct *StructValue
	typ *TypeValue
	cls *ClosureValue
	off *OffsetValue
	wide wideInt
}

// wideInt is the payload of a boxed 33–64 bit integer (PVM_MAKE_LONG_ULONG
// in the original).
type wideInt struct {
	val  uint64
	size int // 1..64
}

func (b *box) kind() Kind {
	switch b.k {
	case bkString:
		return KindString
	case bkArray:
		return KindArray
	case bkStruct:
		return KindStruct
	case bkType:
		return KindType
	case bkClosure:
		return KindClosure
	case bkOffset:
		return KindOffset
	case bkLong:
		return KindLong
	case bkUlong:
		return KindUlong
	default:
		return KindNull
	}
}
