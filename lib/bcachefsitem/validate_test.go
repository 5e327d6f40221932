package bcachefsitem

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsprim"
)

func TestValidateNonzeroOffset(t *testing.T) {
	err := Validate(TypeFS, bcachefsprim.Key{Inum: 4096, Offset: 1}, make([]byte, FixedHeaderSize))
	require.ErrorIs(t, err, errNonzeroOffset)
}

func TestValidateFSInodeInBlockdevRange(t *testing.T) {
	err := Validate(TypeFS, bcachefsprim.Key{Inum: 0}, make([]byte, FixedHeaderSize))
	require.ErrorIs(t, err, errFSInodeInBlockdevRange)
}

func TestValidateBlockdevInodeInFSRange(t *testing.T) {
	err := Validate(TypeBlockdev, bcachefsprim.Key{Inum: bcachefsprim.BlockdevInodeMax}, make([]byte, BlockdevSize))
	require.ErrorIs(t, err, errBlockdevInodeInFSRange)
}

func TestValidateIncorrectValueSize(t *testing.T) {
	err := Validate(TypeFS, bcachefsprim.Key{Inum: bcachefsprim.BlockdevInodeMax}, make([]byte, FixedHeaderSize-1))
	require.ErrorIs(t, err, errIncorrectValueSize)

	err = Validate(TypeBlockdev, bcachefsprim.Key{Inum: 0}, make([]byte, BlockdevSize-1))
	require.ErrorIs(t, err, errIncorrectValueSize)
}

func TestValidateInvalidStrHash(t *testing.T) {
	u := Unpacked{Inum: bcachefsprim.BlockdevInodeMax}
	u.SetStrHash(StrHashNR) // one past the last valid selector
	raw, err := Pack(u, 8, false)
	require.NoError(t, err)

	err = Validate(TypeFS, bcachefsprim.Key{Inum: u.Inum}, raw)
	require.ErrorIs(t, err, errInvalidStrHashType)
}

func TestValidateOK(t *testing.T) {
	u := Unpacked{Inum: bcachefsprim.BlockdevInodeMax, ISize: 123}
	raw, err := Pack(u, 8, false)
	require.NoError(t, err)

	require.NoError(t, Validate(TypeFS, bcachefsprim.Key{Inum: u.Inum}, raw))
	require.Contains(t, ToText(TypeFS, bcachefsprim.Key{Inum: u.Inum}, raw), "i_size 123")
}

func TestValidateNeverPanics(t *testing.T) {
	// Invariant 5: totality. Arbitrary input yields an error or nil, never a panic.
	inputs := [][]byte{
		nil,
		{},
		{0x00},
		make([]byte, FixedHeaderSize),
		append(make([]byte, FixedHeaderSize), 0xFF, 0xFF, 0xFF),
	}
	for _, in := range inputs {
		for _, typ := range []Type{TypeFS, TypeBlockdev, Type(99)} {
			require.NotPanics(t, func() {
				_ = Validate(typ, bcachefsprim.Key{Inum: bcachefsprim.BlockdevInodeMax}, in)
			})
		}
	}
}
