// Package bcachefsfs implements the inode lifecycle that sits above
// the B-tree: initialization, allocation, removal and lookup. The
// B-tree itself — journal, transaction machinery, on-disk format — is
// an external collaborator, consumed here only through the
// Btree/Cursor contract below, which mirrors the shape of a
// tree-operator interface adapted to a holes-aware, intent-locked
// cursor.
package bcachefsfs

import (
	"context"
	"errors"

	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsprim"
)

// TreeID names one of the four ordered keyspaces an inode's lifecycle
// touches.
type TreeID int

const (
	TreeInodes TreeID = iota
	TreeExtents
	TreeXattrs
	TreeDirents
)

func (t TreeID) String() string {
	switch t {
	case TreeInodes:
		return "inodes"
	case TreeExtents:
		return "extents"
	case TreeXattrs:
		return "xattrs"
	case TreeDirents:
		return "dirents"
	default:
		return "unknown"
	}
}

// Kind classifies what a cursor's Peek landed on. The B-tree's
// holes-iterating cursor presents unoccupied positions as a synthetic
// KindHole, strictly below every real value kind — C5 relies on that
// ordering to recognize a free slot.
type Kind int

const (
	KindHole Kind = iota
	KindBlockdev
	KindFS
)

// PeekResult is what Cursor.Peek returns: the position and kind of
// whatever key the cursor currently sits at (hole or real value), and
// the raw value bytes when Kind != KindHole.
type PeekResult struct {
	Pos   bcachefsprim.Key
	Kind  Kind
	Value []byte
}

// ErrRetry signals a transaction conflict: the B-tree
// observed the cursor's position change out from under an
// InsertAtomic. It is always caught inside this package's retry loops
// and must never escape to a caller.
var ErrRetry = errors.New("bcachefsfs: transaction conflict, retry")

// ErrIterExhausted is returned by a plain (non-holes) cursor's Peek
// once it has run off the end of the tree: unlike a holes-aware
// cursor, a plain cursor has no synthetic key to report in that case.
var ErrIterExhausted = errors.New("bcachefsfs: iterator exhausted")

// Cursor is a position in one B-tree, holding an intent lock that makes
// a Peek-then-InsertAtomic pair atomic.
type Cursor interface {
	Peek(ctx context.Context) (PeekResult, error)
	Advance(ctx context.Context) error
	// InsertAtomic commits iff the cursor's observed position is still
	// live; otherwise it returns ErrRetry and the caller re-peeks.
	InsertAtomic(ctx context.Context, key bcachefsprim.Key, kind Kind, value []byte) error
	Unlock() error
	// CondResched is a cooperative yield point a long linear scan calls
	// between iterations so it doesn't monopolize the transaction.
	CondResched(ctx context.Context)
}

// Btree is the ordered key/value store collaborator:
// everything this module needs from the B-tree storage engine,
// nothing more.
type Btree interface {
	// IterInitWithHoles opens a cursor at pos that surfaces unoccupied
	// positions as synthetic KindHole peeks.
	IterInitWithHoles(ctx context.Context, tree TreeID, pos bcachefsprim.Key) (Cursor, error)
	// IterInit opens a plain cursor at pos; unoccupied positions simply
	// don't appear (Peek skips straight to the next real key).
	IterInit(ctx context.Context, tree TreeID, pos bcachefsprim.Key) (Cursor, error)
	// RangeDelete removes every key in [lo, hi) from tree.
	RangeDelete(ctx context.Context, tree TreeID, lo, hi bcachefsprim.Key) error
	// DiscardRange frees every key in [lo, hi) from tree, the way
	// truncating a file's extents down to a new size discards the
	// freed range rather than just deleting index entries: distinct
	// from RangeDelete so the inode remover can keep that distinction
	// visible at its extents-teardown call site.
	DiscardRange(ctx context.Context, tree TreeID, lo, hi bcachefsprim.Key) error
	// PointInsertNoFail inserts a single key/value with NOFAIL
	// semantics: it must not fail at the transaction layer.
	PointInsertNoFail(ctx context.Context, tree TreeID, key bcachefsprim.Key, kind Kind, value []byte) error
}
