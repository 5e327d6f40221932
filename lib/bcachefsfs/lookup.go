package bcachefsfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/datawire/dlib/dlog"

	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsitem"
	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsprim"
)

// ErrNotFound is returned verbatim by FindByInum and FindBlockdevByUUID
// when the search comes up empty. It wraps fs.ErrNotExist so callers
// can use errors.Is(err, fs.ErrNotExist), the same idiom a tree-lookup
// miss uses elsewhere in this codebase.
var ErrNotFound = fmt.Errorf("inode not found: %w", fs.ErrNotExist)

// FindByInum looks up inode n by number. A hole (or any non-FS key) at
// (n, 0) is reported as ErrNotFound; any cursor error takes priority
// over ErrNotFound.
func FindByInum(ctx context.Context, tree Btree, n bcachefsprim.Inum) (bcachefsitem.Unpacked, error) {
	cur, err := tree.IterInitWithHoles(ctx, TreeInodes, bcachefsprim.Key{Inum: n, Offset: 0})
	if err != nil {
		return bcachefsitem.Unpacked{}, err
	}
	defer cur.Unlock()

	peek, err := cur.Peek(ctx)
	if err != nil {
		return bcachefsitem.Unpacked{}, err
	}
	if peek.Kind != KindFS {
		return bcachefsitem.Unpacked{}, ErrNotFound
	}
	return bcachefsitem.Unpack(n, peek.Value)
}

// FindBlockdevByUUID linearly scans the reserved blockdev-inode prefix
// [0, BlockdevInodeMax) for a CACHED_DEV blockdev inode whose UUID
// matches uuid, yielding cooperatively between iterations so it
// doesn't monopolize the transaction.
func FindBlockdevByUUID(ctx context.Context, tree Btree, uuid bcachefsprim.UUID) (bcachefsitem.Blockdev, error) {
	cur, err := tree.IterInit(ctx, TreeInodes, bcachefsprim.Key{Inum: 0, Offset: 0})
	if err != nil {
		return bcachefsitem.Blockdev{}, err
	}
	defer cur.Unlock()

	for {
		peek, err := cur.Peek(ctx)
		if errors.Is(err, ErrIterExhausted) {
			break
		}
		if err != nil {
			return bcachefsitem.Blockdev{}, err
		}
		if peek.Pos.Inum >= bcachefsprim.BlockdevInodeMax {
			break
		}

		if peek.Kind == KindBlockdev {
			bd, err := bcachefsitem.UnpackBlockdev(peek.Pos.Inum, peek.Value)
			if err != nil {
				return bcachefsitem.Blockdev{}, err
			}
			if bd.Cached() && bd.UUID.Compare(uuid) == 0 {
				dlog.Debugf(ctx, "bcachefsfs: found blockdev inode %v: %v", peek.Pos.Inum, bd.UUID)
				return bd, nil
			}
		}

		cur.CondResched(ctx)
		if err := cur.Advance(ctx); err != nil {
			return bcachefsitem.Blockdev{}, err
		}
	}

	return bcachefsitem.Blockdev{}, ErrNotFound
}
