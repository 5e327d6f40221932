package bcachefsitem

import (
	"encoding/binary"
	"fmt"

	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsprim"
)

// Bits [StrHashOffset, StrHashOffset+4) of i_flags carry the directory
// string-hash type selector.
const StrHashOffset = 20

// StrHashNR is the number of valid string-hash selector values; the
// validator rejects anything else.
const StrHashNR = 4

// FixedHeaderSize is the length, in bytes, of the fixed prefix of an
// INODE_FS value: i_hash_seed (8) + i_flags (4) + i_mode (2) + the
// packed NR_FIELDS count (2).
const FixedHeaderSize = 8 + 4 + 2 + 2

// Unpacked is the flat, schema-expanded inode record. Inum is
// carried here for convenience even though on the wire it lives in the
// B-tree key, not the value.
type Unpacked struct {
	Inum      bcachefsprim.Inum
	IHashSeed uint64
	IFlags    uint32
	IMode     uint16

	ISize       uint64
	ISectors    uint64
	IUid        uint32
	IGid        uint32
	INlink      uint32
	IGeneration uint32
	IDev        uint32
	IAtime      uint64
	IMtime      uint64
	ICtime      uint64
	IOtime      uint64
}

// StrHash returns the directory string-hash selector packed into IFlags.
func (u Unpacked) StrHash() uint32 {
	return (u.IFlags >> StrHashOffset) & 0xf
}

// SetStrHash overwrites the string-hash selector bits of IFlags.
func (u *Unpacked) SetStrHash(v uint32) {
	u.IFlags = (u.IFlags &^ (0xf << StrHashOffset)) | ((v & 0xf) << StrHashOffset)
}

// Pack encodes u into an INODE_FS value: fixed header, then the
// minimal variable-length tail (trailing zero fields stripped),
// zero-padded up to the next multiple of alignUnit (the B-tree
// value's natural alignment unit; a parameter of the collaborator,
// not this package).
//
// If debugRoundTrip is set, Pack immediately Unpacks its own output and
// returns an error if it doesn't reproduce u exactly — the Go analogue
// of bch2_inode_pack's CONFIG_BCACHEFS_DEBUG assertion.
func Pack(u Unpacked, alignUnit int, debugRoundTrip bool) ([]byte, error) {
	if alignUnit <= 0 {
		alignUnit = 1
	}

	out := make([]byte, FixedHeaderSize, FixedHeaderSize+96)
	binary.LittleEndian.PutUint64(out[0:8], u.IHashSeed)
	binary.LittleEndian.PutUint32(out[8:12], u.IFlags)
	binary.LittleEndian.PutUint16(out[12:14], u.IMode)
	// out[14:16] (NR_FIELDS) is filled in below.

	lastNonzeroLen := len(out)
	lastNonzeroFieldnr := 0

	for i, f := range schema {
		out = encodeField(out, f.get(&u))
		if f.get(&u) != 0 {
			lastNonzeroLen = len(out)
			lastNonzeroFieldnr = i + 1
		}
	}

	out = out[:lastNonzeroLen]
	nrFields := lastNonzeroFieldnr

	if padded := roundUp(len(out), alignUnit); padded > len(out) {
		out = append(out, make([]byte, padded-len(out))...)
	}
	binary.LittleEndian.PutUint16(out[14:16], uint16(nrFields))

	if debugRoundTrip {
		unpacked, err := Unpack(u.Inum, out)
		if err != nil {
			return nil, fmt.Errorf("bcachefsitem.Pack: debug round-trip: %w", err)
		}
		if unpacked != u {
			return nil, fmt.Errorf("bcachefsitem.Pack: debug round-trip mismatch: got %+v, want %+v", unpacked, u)
		}
	}

	return out, nil
}

func roundUp(n, unit int) int {
	if n%unit == 0 {
		return n
	}
	return n + (unit - n%unit)
}

// Unpack decodes an INODE_FS value back into an Unpacked record. inum
// comes from the B-tree key, not the value. Schema fields
// beyond NR_FIELDS are zeroed; bytes beyond the last decoded field
// (including the alignment padding) are ignored for forward
// compatibility with schemas that have grown new trailing fields.
func Unpack(inum bcachefsprim.Inum, raw []byte) (Unpacked, error) {
	if len(raw) < FixedHeaderSize {
		return Unpacked{}, fmt.Errorf("bcachefsitem.Unpack: value too short: %d < %d", len(raw), FixedHeaderSize)
	}

	u := Unpacked{
		Inum:      inum,
		IHashSeed: binary.LittleEndian.Uint64(raw[0:8]),
		IFlags:    binary.LittleEndian.Uint32(raw[8:12]),
		IMode:     binary.LittleEndian.Uint16(raw[12:14]),
	}
	nrFields := int(binary.LittleEndian.Uint16(raw[14:16]))

	in := raw[FixedHeaderSize:]
	for i, f := range schema {
		if i >= nrFields {
			break
		}
		v, bitWidth, n, err := decodeField(in)
		if err != nil {
			return Unpacked{}, fmt.Errorf("bcachefsitem.Unpack: field %s: %w", f.name, err)
		}
		if bitWidth > f.bits {
			return Unpacked{}, fmt.Errorf("bcachefsitem.Unpack: field %s: %w (%d > %d bits)", f.name, errOversizedField, bitWidth, f.bits)
		}
		f.set(&u, v)
		in = in[n:]
	}

	return u, nil
}
