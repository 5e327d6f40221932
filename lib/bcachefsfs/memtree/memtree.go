// Package memtree is an in-memory stand-in for the B-tree collaborator —
// not a deliverable of the inode subsystem itself (the real B-tree,
// journal and transaction machinery are out of scope here), but a
// reference double the CLI and this module's own tests drive bcachefsfs
// against, built the way small from-scratch tree-operator helpers get
// built atop a real tree-operator contract elsewhere in this codebase.
package memtree

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/exp/slices"

	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsfs"
	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsprim"
)

type record struct {
	key   bcachefsprim.Key
	kind  bcachefsfs.Kind
	value []byte
}

// Tree is a set of independently ordered keyspaces (extents, xattrs,
// dirents, inodes), each a plain sorted slice: these demo filesystems
// are small enough that a slice beats the complexity of a balanced
// tree structure.
type Tree struct {
	mu   sync.Mutex
	data map[bcachefsfs.TreeID][]record
}

func New() *Tree {
	return &Tree{data: make(map[bcachefsfs.TreeID][]record)}
}

var _ bcachefsfs.Btree = (*Tree)(nil)

func (t *Tree) search(id bcachefsfs.TreeID, key bcachefsprim.Key) (idx int, exact bool) {
	recs := t.data[id]
	idx = sort.Search(len(recs), func(i int) bool {
		return recs[i].key.Compare(key) >= 0
	})
	exact = idx < len(recs) && recs[idx].key.Compare(key) == 0
	return idx, exact
}

func (t *Tree) IterInitWithHoles(_ context.Context, id bcachefsfs.TreeID, pos bcachefsprim.Key) (bcachefsfs.Cursor, error) {
	return &cursor{tree: t, id: id, holes: true, pos: pos}, nil
}

func (t *Tree) IterInit(_ context.Context, id bcachefsfs.TreeID, pos bcachefsprim.Key) (bcachefsfs.Cursor, error) {
	return &cursor{tree: t, id: id, holes: false, pos: pos}, nil
}

func (t *Tree) RangeDelete(_ context.Context, id bcachefsfs.TreeID, lo, hi bcachefsprim.Key) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.removeRangeLocked(id, lo, hi)
	return nil
}

// DiscardRange frees [lo, hi) the way a file truncate discards extents: a
// distinct entry point from RangeDelete even though this in-memory double
// has no separate free-space accounting to distinguish them.
func (t *Tree) DiscardRange(_ context.Context, id bcachefsfs.TreeID, lo, hi bcachefsprim.Key) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.removeRangeLocked(id, lo, hi)
	return nil
}

// removeRangeLocked drops every record in [lo, hi) from id; must be called
// with t.mu held.
func (t *Tree) removeRangeLocked(id bcachefsfs.TreeID, lo, hi bcachefsprim.Key) {
	recs := t.data[id]
	kept := recs[:0:0]
	for _, r := range recs {
		if r.key.Compare(lo) >= 0 && r.key.Compare(hi) < 0 {
			continue
		}
		kept = append(kept, r)
	}
	t.data[id] = kept
}

func (t *Tree) PointInsertNoFail(_ context.Context, id bcachefsfs.TreeID, key bcachefsprim.Key, kind bcachefsfs.Kind, value []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setLocked(id, key, kind, value)
	return nil
}

// setLocked inserts, replaces, or (for a KindHole tombstone) removes
// the record at key; must be called with t.mu held.
func (t *Tree) setLocked(id bcachefsfs.TreeID, key bcachefsprim.Key, kind bcachefsfs.Kind, value []byte) {
	idx, exact := t.search(id, key)
	if kind == bcachefsfs.KindHole {
		if exact {
			t.data[id] = slices.Delete(t.data[id], idx, idx+1)
		}
		return
	}
	rec := record{key: key, kind: kind, value: value}
	if exact {
		t.data[id][idx] = rec
		return
	}
	t.data[id] = slices.Insert(t.data[id], idx, rec)
}
