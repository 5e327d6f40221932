package bcachefsitem

import (
	"encoding/binary"
	"fmt"

	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsprim"
)

// CachedDevFlag marks a Blockdev record as representing an attached
// cached device.
const CachedDevFlag = 1 << 0

// BlockdevSize is the fixed on-disk size of an INODE_BLOCKDEV value:
// a 128-bit UUID plus an 8-byte flags word.
const BlockdevSize = 16 + 8

// Blockdev is the INODE_BLOCKDEV value variant: a distinct, fixed-size
// value storing a cached-device UUID, never variable-length like
// INODE_FS.
type Blockdev struct {
	Inum  bcachefsprim.Inum
	UUID  bcachefsprim.UUID
	Flags uint64
}

func (b Blockdev) Cached() bool {
	return b.Flags&CachedDevFlag != 0
}

// PackBlockdev encodes b as a fixed BlockdevSize-byte value.
func PackBlockdev(b Blockdev) []byte {
	out := make([]byte, BlockdevSize)
	copy(out[0:16], b.UUID[:])
	binary.LittleEndian.PutUint64(out[16:24], b.Flags)
	return out
}

// UnpackBlockdev decodes a fixed BlockdevSize-byte value.
func UnpackBlockdev(inum bcachefsprim.Inum, raw []byte) (Blockdev, error) {
	if len(raw) != BlockdevSize {
		return Blockdev{}, fmt.Errorf("bcachefsitem.UnpackBlockdev: incorrect value size: %d != %d", len(raw), BlockdevSize)
	}
	var b Blockdev
	b.Inum = inum
	copy(b.UUID[:], raw[0:16])
	b.Flags = binary.LittleEndian.Uint64(raw[16:24])
	return b, nil
}
