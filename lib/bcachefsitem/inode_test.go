package bcachefsitem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsprim"
)

func TestPackUnpackBoundaryZero(t *testing.T) {
	// an all-zero inode packs to a zero-length tail.
	u := Unpacked{Inum: 4096, IHashSeed: 1, IFlags: 2, IMode: 0o644}
	out, err := Pack(u, 8, true)
	require.NoError(t, err)
	require.Len(t, out, FixedHeaderSize)

	got, err := Unpack(u.Inum, out)
	require.NoError(t, err)
	require.Equal(t, u, got)
}

func TestPackUnpackSaturated(t *testing.T) {
	// every field at its max; each 64-bit field costs 10 bytes.
	u := Unpacked{
		Inum:      4096,
		IHashSeed: 0xdeadbeefcafebabe,
		IFlags:    0xffffffff,
		IMode:     0xffff,

		ISize:       math.MaxUint64,
		ISectors:    math.MaxUint64,
		IUid:        math.MaxUint32,
		IGid:        math.MaxUint32,
		INlink:      math.MaxUint32,
		IGeneration: math.MaxUint32,
		IDev:        math.MaxUint32,
		IAtime:      math.MaxUint64,
		IMtime:      math.MaxUint64,
		ICtime:      math.MaxUint64,
		IOtime:      math.MaxUint64,
	}
	out, err := Pack(u, 8, true)
	require.NoError(t, err)

	got, err := Unpack(u.Inum, out)
	require.NoError(t, err)
	require.Equal(t, u, got)
}

func TestPackTrailingZeros(t *testing.T) {
	// only i_size set; NR_FIELDS stops right after it.
	u := Unpacked{Inum: 4096, ISize: 42}
	out, err := Pack(u, 8, true)
	require.NoError(t, err)

	nrFields := int(out[14]) | int(out[15])<<8
	require.Equal(t, FieldIndex("i_size")+1, nrFields)

	got, err := Unpack(u.Inum, out)
	require.NoError(t, err)
	require.Equal(t, u, got)
}

func TestUnpackDecodeTruncation(t *testing.T) {
	// first byte advertises a 13-byte field but only 5 follow.
	raw := make([]byte, FixedHeaderSize)
	raw[14], raw[15] = 1, 0 // NR_FIELDS = 1
	raw = append(raw, 0x01, 0, 0, 0, 0)

	_, err := Unpack(4096, raw)
	require.Error(t, err)

	err = Validate(TypeFS, bcachefsprim.Key{Inum: 4096}, raw)
	require.ErrorIs(t, err, errInvalidVarLenFields)
}

func TestPackAlignment(t *testing.T) {
	u := Unpacked{Inum: 4096, ISize: 1}
	out, err := Pack(u, 16, false)
	require.NoError(t, err)
	require.Equal(t, 0, len(out)%16)
	// Bytes past the minimal tail are zero.
	for i := FixedHeaderSize + 1; i < len(out); i++ {
		require.Zero(t, out[i], "byte %d", i)
	}
}

func TestForwardCompatibleTrailingBytes(t *testing.T) {
	// Appending unknown trailing bytes after a valid tail doesn't
	// disturb decoding the known fields.
	u := Unpacked{Inum: 4096, ISize: 7}
	out, err := Pack(u, 1, false)
	require.NoError(t, err)

	padded := append(append([]byte{}, out...), 0xAA, 0xBB, 0xCC)
	got, err := Unpack(u.Inum, padded)
	require.NoError(t, err)
	require.Equal(t, u, got)
}
