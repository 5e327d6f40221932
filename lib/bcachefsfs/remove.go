package bcachefsfs

import (
	"context"
	"fmt"

	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsprim"
)

// Remove tears down everything belonging to inode n, in the order the
// original bch2_inode_rm does: discard its extents, delete its
// xattrs, delete its dirents (including stale hash-collision
// whiteouts — a known inefficiency, not a correctness bug, and
// preserved as-is), then tombstone the inode key itself with no-fail
// semantics.
//
// Each step is its own range or point operation on a crash-consistent
// B-tree, so partial progress from an interrupted Remove is durable
// and safe to replay: a second call is a no-op that returns success.
func Remove(ctx context.Context, tree Btree, n bcachefsprim.Inum) error {
	lo := bcachefsprim.Key{Inum: n, Offset: 0}
	hi := bcachefsprim.Key{Inum: n + 1, Offset: 0}

	if err := discardExtents(ctx, tree, n); err != nil {
		return fmt.Errorf("bcachefsfs.Remove: discarding extents: %w", err)
	}
	if err := tree.RangeDelete(ctx, TreeXattrs, lo, hi); err != nil {
		return fmt.Errorf("bcachefsfs.Remove: deleting xattrs: %w", err)
	}
	if err := tree.RangeDelete(ctx, TreeDirents, lo, hi); err != nil {
		return fmt.Errorf("bcachefsfs.Remove: deleting dirents: %w", err)
	}

	// Earlier steps already invalidated every other tree's reference to
	// n; this insert is declared no-fail because there is no longer a
	// consistent state to roll back to if it failed.
	if err := tree.PointInsertNoFail(ctx, TreeInodes, lo, KindHole, nil); err != nil {
		return fmt.Errorf("bcachefsfs.Remove: tombstoning inode: %w", err)
	}
	return nil
}

// discardExtents frees inode n's extent range, named distinctly from the
// xattr/dirent RangeDelete calls because it corresponds to
// bch2_inode_truncate's discard-to-new-size (here always 0), not a plain
// index-entry delete.
func discardExtents(ctx context.Context, tree Btree, n bcachefsprim.Inum) error {
	lo := bcachefsprim.Key{Inum: n, Offset: 0}
	hi := bcachefsprim.Key{Inum: n + 1, Offset: 0}
	return tree.DiscardRange(ctx, TreeExtents, lo, hi)
}
