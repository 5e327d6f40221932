package bcachefsitem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldRoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 2, 42, 127, 128,
		1 << 13, 1<<13 - 1, 1 << 14,
		1 << 20, 1 << 27, 1<<28 - 1, 1 << 28,
		1<<42 - 1, 1 << 42, 1<<57 - 1, 1 << 57,
		1<<63 - 1, 1 << 63,
		math.MaxUint32,
		math.MaxUint64,
	}
	for _, v := range values {
		out := encodeField(nil, v)
		got, bitWidth, n, err := decodeField(out)
		require.NoError(t, err, "v=%d", v)
		require.Equal(t, len(out), n, "v=%d", v)
		require.Equal(t, v, got, "v=%d", v)
		if v == 0 {
			require.Equal(t, 0, bitWidth)
		} else {
			require.GreaterOrEqual(t, bitWidth, 1)
		}
	}
}

func TestFieldLengthTable(t *testing.T) {
	// Every length in BYTES_TABLE is reachable and self-describing:
	// for a value whose bit width sits just under each BITS_TABLE
	// threshold, the encoded length matches the table.
	for shift := 1; shift <= 7; shift++ { // shift 8 (13 bytes) needs >64 bits, unreachable from a uint64
		bitWidth := bitsTable[shift-1] - 1
		if bitWidth > 64 {
			bitWidth = 64
		}
		var v uint64
		if bitWidth > 0 {
			v = uint64(1) << (bitWidth - 1)
		}
		out := encodeField(nil, v)
		require.Len(t, out, bytesTable[shift-1], "shift=%d", shift)

		_, _, n, err := decodeField(out)
		require.NoError(t, err)
		require.Equal(t, len(out), n)
	}
}

func TestFieldDecodeTruncated(t *testing.T) {
	out := encodeField(nil, math.MaxUint64) // 10 bytes
	_, _, _, err := decodeField(out[:len(out)-1])
	require.ErrorIs(t, err, errTruncated)
}

func TestFieldDecodeEmpty(t *testing.T) {
	_, _, _, err := decodeField(nil)
	require.ErrorIs(t, err, errTruncated)
}

func TestFieldDecodeZeroMarker(t *testing.T) {
	_, _, _, err := decodeField([]byte{0x00, 0xff})
	require.ErrorIs(t, err, errZeroMarker)
}

func FuzzFieldRoundTrip(f *testing.F) {
	f.Add(uint64(0))
	f.Add(uint64(1))
	f.Add(uint64(math.MaxUint64))
	f.Fuzz(func(t *testing.T, v uint64) {
		out := encodeField(nil, v)
		got, _, n, err := decodeField(out)
		require.NoError(t, err)
		require.Equal(t, len(out), n)
		require.Equal(t, v, got)
	})
}
