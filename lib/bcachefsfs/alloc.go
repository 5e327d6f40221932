package bcachefsfs

import (
	"context"
	"errors"
	"math"

	"github.com/datawire/dlib/dlog"

	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsitem"
	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsprim"
)

// ErrNoSpace is returned once the allocator has wrapped and still found
// nothing free.
var ErrNoSpace = errors.New("bcachefsfs: no space left in inode keyspace")

// Create searches [min, max) for an unused inode number, packs u at
// that number, and inserts it atomically, retrying on transaction
// conflict and wrapping once on exhaustion. hint is a
// caller-owned cache of "one past the last number this allocator
// handed out"; Create normalizes it, uses it as the starting point,
// and updates it in place on success.
//
// On success, u.Inum is set to the winning number and the packed value
// has already been inserted into tree's inodes keyspace.
func Create(ctx context.Context, tree Btree, opts Options, u *bcachefsitem.Unpacked, min, max bcachefsprim.Inum, hint *bcachefsprim.Inum, alignUnit int) error {
	if max == 0 {
		max = bcachefsprim.Inum(math.MaxUint64)
	}
	if opts.Inodes32Bit && max > bcachefsprim.Inum(math.MaxUint32) {
		max = bcachefsprim.Inum(math.MaxUint32)
	}

	if *hint >= max || *hint < min {
		*hint = min
	}
	searchedFromStart := *hint == min

	for {
		won, err := tryAllocateFrom(ctx, tree, opts, u, *hint, max, alignUnit)
		if err != nil {
			return err
		}
		if won {
			*hint = u.Inum + 1
			return nil
		}

		if searchedFromStart {
			return ErrNoSpace
		}
		*hint = min
		searchedFromStart = true
	}
}

// tryAllocateFrom runs one full left-to-right scan of [start, max),
// returning (true, nil) once it has committed u at a free slot, or
// (false, nil) if the scan reached max without finding one.
func tryAllocateFrom(ctx context.Context, tree Btree, opts Options, u *bcachefsitem.Unpacked, start, max bcachefsprim.Inum, alignUnit int) (bool, error) {
	cur, err := tree.IterInitWithHoles(ctx, TreeInodes, bcachefsprim.Key{Inum: start, Offset: 0})
	if err != nil {
		return false, err
	}
	defer cur.Unlock()

	for {
		peek, err := cur.Peek(ctx)
		if err != nil {
			return false, err
		}

		if peek.Pos.Inum >= max {
			return false, nil
		}

		if peek.Kind < KindFS {
			u.Inum = peek.Pos.Inum
			value, err := bcachefsitem.Pack(*u, alignUnit, opts.DebugRoundTrip)
			if err != nil {
				return false, err
			}

			dlog.Debugf(ctx, "bcachefsfs: inserting inode %v", u.Inum)
			err = cur.InsertAtomic(ctx, peek.Pos, KindFS, value)
			if errors.Is(err, ErrRetry) {
				continue
			}
			if err != nil {
				return false, err
			}
			return true, nil
		}

		if err := cur.Advance(ctx); err != nil {
			return false, err
		}
	}
}
