package pvm

import "go.pokelang.org/pk/ios"

// Peek reads a size-bit integral value out of the current IO space at the
// given bit offset, honoring ctx's endianness and negative-encoding
// settings (spec.md §4.1, §4.4: "the byte/bit semantics of read/write are
// controlled by the VM's current endianness ... and negative encoding").
//
// This is the value↔bits mapping engine's read side; the VM's OpPeek and
// OpPoke instructions call down into Peek/Poke rather than touching an IO
// space directly, so all integral reads and writes share this one
// bit-level implementation.
func (c *Context) Peek(iosID int32, bitOffset uint64, size int, signed bool) (Value, error) {
	nbytes := (size + 7) / 8
	buf := make([]byte, nbytes)
	byteOffset := bitOffset / 8
	bitShift := bitOffset % 8

	if bitShift == 0 {
		n, status, err := c.IOS.Pread(iosID, buf, byteOffset)
		if err != nil {
			return Null, err
		}
		if status != ios.PreadOK && status != ios.PreadEOF {
			return Null, newPeekError(status)
		}
		if n < nbytes {
			return Null, newPeekError(ios.PreadEOF)
		}
	} else {
		// Straddles a byte boundary: read one extra byte and shift down,
		// matching the original's bit-level pread loop rather than a
		// byte-aligned fast path.
		wide := make([]byte, nbytes+1)
		n, status, err := c.IOS.Pread(iosID, wide, byteOffset)
		if err != nil {
			return Null, err
		}
		if status != ios.PreadOK && status != ios.PreadEOF || n < len(wide) {
			return Null, newPeekError(ios.PreadEOF)
		}
		shiftBitsRight(wide, int(bitShift))
		copy(buf, wide[:nbytes])
	}

	val := decodeBytes(buf, c.Endian)
	val = maskBits(val, size)

	if signed && c.NegEnc == OnesComplement {
		val = onesComplementToTwos(val, size)
	}

	return c.MakeIntegral(int64(signExtend(val, size, signed)), size, signed), nil
}

// Poke writes v's size-bit integral encoding into the current IO space at
// the given bit offset, honoring endianness and negative encoding — the
// write side of Peek.
func (c *Context) Poke(iosID int32, bitOffset uint64, v Value) error {
	size := c.IntegralSize(v)
	signed := c.IntegralSigned(v)
	val := uint64(c.IntegralValue(v))
	val = maskBits(val, size)

	if signed && c.NegEnc == OnesComplement && int64(c.IntegralValue(v)) < 0 {
		val = twosComplementToOnes(val, size)
	}

	nbytes := (size + 7) / 8
	buf := encodeBytes(val, nbytes, c.Endian)
	byteOffset := bitOffset / 8
	bitShift := bitOffset % 8

	if bitShift == 0 {
		_, err := c.IOS.Pwrite(iosID, buf, byteOffset)
		return err
	}

	// Read-modify-write the straddled bytes so neighboring bits outside
	// this value's width are preserved.
	wide := make([]byte, nbytes+1)
	if _, _, err := c.IOS.Pread(iosID, wide, byteOffset); err != nil {
		return err
	}
	shiftBitsLeftInto(wide, buf, int(bitShift), size)
	_, err := c.IOS.Pwrite(iosID, wide, byteOffset)
	return err
}

func newPeekError(status ios.PreadStatus) error {
	if status == ios.PreadEOF {
		return NewException(EEOF, "peek past end of IO space")
	}
	return NewException(EIO, "peek failed")
}

func decodeBytes(buf []byte, e Endian) uint64 {
	var v uint64
	if e == LSB {
		for i := len(buf) - 1; i >= 0; i-- {
			v = v<<8 | uint64(buf[i])
		}
	} else {
		for _, b := range buf {
			v = v<<8 | uint64(b)
		}
	}
	return v
}

func encodeBytes(v uint64, nbytes int, e Endian) []byte {
	buf := make([]byte, nbytes)
	if e == LSB {
		for i := 0; i < nbytes; i++ {
			buf[i] = byte(v)
			v >>= 8
		}
	} else {
		for i := nbytes - 1; i >= 0; i-- {
			buf[i] = byte(v)
			v >>= 8
		}
	}
	return buf
}

func maskBits(v uint64, size int) uint64 {
	if size >= 64 {
		return v
	}
	return v & (1<<uint(size) - 1)
}

func signExtend(v uint64, size int, signed bool) int64 {
	if !signed || size >= 64 {
		return int64(v)
	}
	shift := uint(64 - size)
	return int64(v<<shift) >> shift
}

func onesComplementToTwos(v uint64, size int) uint64 {
	sign := uint64(1) << uint(size-1)
	if v&sign == 0 {
		return v
	}
	return maskBits(^v, size)
}

func twosComplementToOnes(v uint64, size int) uint64 {
	sign := uint64(1) << uint(size-1)
	if v&sign == 0 {
		return v
	}
	return maskBits(^(maskBits(^v, size) + 1), size)
}

// shiftBitsRight shifts buf right by n bits in place (bit 0 of buf[0] is
// the lowest-addressed bit), discarding the top n bits.
func shiftBitsRight(buf []byte, n int) {
	carry := byte(0)
	for i := 0; i < len(buf); i++ {
		next := buf[i] << (8 - uint(n))
		buf[i] = (buf[i] >> uint(n)) | carry
		carry = next
	}
}

// shiftBitsLeftInto merges payload (size significant bits) into dst at a
// bit-shift of n, preserving dst's bits outside [n, n+size).
func shiftBitsLeftInto(dst []byte, payload []byte, n, size int) {
	for i := 0; i < len(payload) && i < len(dst); i++ {
		mask := byte(0xff << uint(n))
		dst[i] = (dst[i] &^ mask) | (payload[i] << uint(n) & mask)
		if i+1 < len(dst) {
			dst[i+1] = (dst[i+1] &^ (0xff >> uint(8-n))) | (payload[i] >> uint(8-n))
		}
	}
}
