package bcachefsfs

import (
	"crypto/rand"
	"encoding/binary"
	"time"

	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsitem"
	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsprim"
)

// RandReader is the injected hash-seed RNG dependency: any reader of
// random bytes, so tests can substitute a deterministic stream.
// Options.Rand defaults to crypto/rand.Reader when nil.
type RandReader interface {
	Read(p []byte) (n int, err error)
}

// Options carries the caller-configured, per-filesystem-instance
// settings C4 and C5 need.
type Options struct {
	// StrHashType is OR'd into a freshly initialized inode's i_flags at
	// StrHashOffset.
	StrHashType uint32
	// Inodes32Bit clamps an allocator's max to 2^32-1 (the
	// "inodes_32bit" mount option).
	Inodes32Bit bool
	// DebugRoundTrip enables a pack-then-unpack equality assertion
	// inside Pack, the Go analogue of CONFIG_BCACHEFS_DEBUG.
	DebugRoundTrip bool
	// Rand is the hash-seed source; nil defaults to crypto/rand.
	Rand RandReader
}

func (o Options) rand() RandReader {
	if o.Rand != nil {
		return o.Rand
	}
	return rand.Reader
}

// Init populates a fresh unpacked inode with defaults: mode/uid/gid/
// rdev as given, all four timestamps set to now (converted to the
// filesystem epoch), the configured string-hash type OR'd into
// i_flags, and a fresh random hash seed.
func Init(opts Options, uid, gid uint32, mode uint16, rdev uint32, now time.Time) (bcachefsitem.Unpacked, error) {
	var u bcachefsitem.Unpacked

	u.IMode = mode
	u.IUid = uid
	u.IGid = gid
	u.IDev = rdev

	ts := bcachefsprim.FSEpoch(now)
	u.IAtime = ts
	u.IMtime = ts
	u.ICtime = ts
	u.IOtime = ts

	u.SetStrHash(opts.StrHashType)

	var seed [8]byte
	if _, err := opts.rand().Read(seed[:]); err != nil {
		return bcachefsitem.Unpacked{}, err
	}
	u.IHashSeed = binary.LittleEndian.Uint64(seed[:])

	return u, nil
}
