package bcachefsitem

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsprim"
)

// Type tags the two value variants sharing the inodes B-tree keyspace.
// Holes are not a Type: the holes-aware cursor in bcachefsfs reports
// them as bcachefsfs.KindHole, which orders below every real value kind.
type Type int

const (
	TypeBlockdev Type = iota
	TypeFS
)

// Validate classifies a raw inodes-tree key/value pair, returning a
// static error string on failure and nil on success. It never panics
// and never allocates an error wrapping a dynamic value — every
// message is a constant, matching the original C source's
// static-string error convention.
func Validate(typ Type, key bcachefsprim.Key, value []byte) error {
	if key.Offset != 0 {
		return errNonzeroOffset
	}

	switch typ {
	case TypeFS:
		if len(value) < FixedHeaderSize {
			return errIncorrectValueSize
		}
		if key.Inum < bcachefsprim.BlockdevInodeMax {
			return errFSInodeInBlockdevRange
		}
		flags := leUint32(value[8:12])
		strHash := (flags >> StrHashOffset) & 0xf
		if strHash >= StrHashNR {
			return errInvalidStrHashType
		}
		if _, err := Unpack(key.Inum, value); err != nil {
			return errInvalidVarLenFields
		}
		return nil

	case TypeBlockdev:
		if len(value) != BlockdevSize {
			return errIncorrectValueSize
		}
		if key.Inum >= bcachefsprim.BlockdevInodeMax {
			return errBlockdevInodeInFSRange
		}
		return nil

	default:
		return errInvalidType
	}
}

// Static validation errors: cheap, allocation-free sentinels, never
// dynamic strings.
var (
	errNonzeroOffset          = fmt.Errorf("nonzero offset")
	errIncorrectValueSize     = fmt.Errorf("incorrect value size")
	errFSInodeInBlockdevRange = fmt.Errorf("fs inode in blockdev range")
	errBlockdevInodeInFSRange = fmt.Errorf("blockdev inode in fs range")
	errInvalidStrHashType     = fmt.Errorf("invalid str hash type")
	errInvalidVarLenFields    = fmt.Errorf("invalid variable length fields")
	errInvalidType            = fmt.Errorf("invalid type")
)

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// ToText renders a key/value pair for diagnostics, mimicking
// bch2_inode_to_text: "i_size N" on a clean unpack, or a spew dump of
// the whole raw value when it doesn't unpack (so a corrupt inode still
// prints something useful to an fsck operator instead of an opaque
// error).
func ToText(typ Type, key bcachefsprim.Key, value []byte) string {
	if typ != TypeFS {
		return fmt.Sprintf("(blockdev inode %v)", key.Inum)
	}
	unpacked, err := Unpack(key.Inum, value)
	if err != nil {
		return fmt.Sprintf("(unpack error: %v)\n%s", err, spew.Sdump(value))
	}
	return fmt.Sprintf("i_size %d", unpacked.ISize)
}
