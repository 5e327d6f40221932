package bcachefsitem

import (
	"fmt"
	"math/bits"
)

// bytesTable[shift-1] is the total encoded length, in bytes, for a
// field whose length marker lives at the given shift; a value fits that
// length only if its bit width is strictly less than bitsTable[shift-1]
// (the marker bit itself never collides with a data bit because of
// this margin).
var (
	bytesTable = [8]int{1, 2, 3, 4, 6, 8, 10, 13}
	bitsTable  = [8]int{7, 14, 21, 28, 43, 58, 73, 96}
)

// errTruncated and errZeroMarker are the two ways decodeField can fail
// on malformed input; errOversizedField is a schema-level failure
// (field's bit width exceeds the declared width for that name).
var (
	errTruncated      = fmt.Errorf("truncated field")
	errZeroMarker     = fmt.Errorf("invalid length marker byte")
	errOversizedField = fmt.Errorf("field exceeds declared bit width")
)

// widthFor returns the shift (1..8) for a value of the given bit width,
// i.e. the smallest shift such that bits < bitsTable[shift-1].
func widthFor(bitWidth int) int {
	for shift := 1; shift <= 8; shift++ {
		if bitWidth < bitsTable[shift-1] {
			return shift
		}
	}
	panic("bcachefsitem: value too wide to encode")
}

// encodeField appends the self-delimiting encoding of v to out,
// returning the extended slice. v must fit in 64 bits; the wire format
// is general enough for 128-bit values (hence the last BITS_TABLE
// entry, beyond what any 64-bit field ever needs), but no field in
// this schema is ever wider than 64 bits.
func encodeField(out []byte, v uint64) []byte {
	shift := widthFor(bits.Len64(v))
	n := bytesTable[shift-1]

	var buf [16]byte
	for i := 0; i < 8; i++ {
		buf[15-i] = byte(v >> (8 * i))
	}
	start := len(out)
	out = append(out, buf[16-n:16]...)
	out[start] |= byte(0x100 >> shift)
	return out
}

// decodeField reads one self-delimiting field from the front of in,
// returning its value (the low 64 bits), its full bit width including
// any bits above 64 (for the caller's declared-width check), and the
// number of bytes consumed.
func decodeField(in []byte) (v uint64, bitWidth int, n int, err error) {
	if len(in) == 0 {
		return 0, 0, 0, errTruncated
	}
	if in[0] == 0 {
		return 0, 0, 0, errZeroMarker
	}

	// The marker bit is the highest set bit of the first byte; unlike
	// the 1-indexed fls used to pick a width when encoding, recovering
	// shift from the marker position is naturally 0-indexed (the
	// marker's value is 0x100>>shift, so shift = 8 - (0-indexed
	// position of that bit)).
	markerPos := bits.Len8(in[0]) - 1
	shift := 8 - markerPos
	n = bytesTable[shift-1]
	if len(in) < n {
		return 0, 0, 0, errTruncated
	}

	var buf [16]byte
	copy(buf[16-n:16], in[:n])
	buf[16-n] ^= byte(0x100 >> shift)

	var hi uint64
	for i := 0; i < 8; i++ {
		v |= uint64(buf[15-i]) << (8 * i)
		hi |= uint64(buf[7-i]) << (8 * i)
	}
	bitWidth = bits.Len64(v)
	if hi != 0 {
		bitWidth = 64 + bits.Len64(hi)
	}
	return v, bitWidth, n, nil
}
