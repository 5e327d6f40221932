package memtree

import (
	"context"

	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsfs"
	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsprim"
)

type cursor struct {
	tree      *Tree
	id        bcachefsfs.TreeID
	holes     bool
	pos       bcachefsprim.Key
	exhausted bool
}

var _ bcachefsfs.Cursor = (*cursor)(nil)

func (c *cursor) Peek(_ context.Context) (bcachefsfs.PeekResult, error) {
	if !c.holes && c.exhausted {
		return bcachefsfs.PeekResult{}, bcachefsfs.ErrIterExhausted
	}

	c.tree.mu.Lock()
	defer c.tree.mu.Unlock()

	idx, exact := c.tree.search(c.id, c.pos)
	if exact {
		r := c.tree.data[c.id][idx]
		return bcachefsfs.PeekResult{Pos: r.key, Kind: r.kind, Value: r.value}, nil
	}
	if c.holes {
		return bcachefsfs.PeekResult{Pos: c.pos, Kind: bcachefsfs.KindHole}, nil
	}
	if idx >= len(c.tree.data[c.id]) {
		return bcachefsfs.PeekResult{}, bcachefsfs.ErrIterExhausted
	}
	r := c.tree.data[c.id][idx]
	return bcachefsfs.PeekResult{Pos: r.key, Kind: r.kind, Value: r.value}, nil
}

func (c *cursor) Advance(_ context.Context) error {
	if c.holes {
		c.pos = bcachefsprim.Key{Inum: c.pos.Inum + 1, Offset: 0}
		return nil
	}

	c.tree.mu.Lock()
	defer c.tree.mu.Unlock()

	idx, exact := c.tree.search(c.id, c.pos)
	if exact {
		idx++
	}
	recs := c.tree.data[c.id]
	if idx >= len(recs) {
		c.exhausted = true
		return nil
	}
	c.pos = recs[idx].key
	return nil
}

func (c *cursor) InsertAtomic(_ context.Context, key bcachefsprim.Key, kind bcachefsfs.Kind, value []byte) error {
	c.tree.mu.Lock()
	defer c.tree.mu.Unlock()

	_, exact := c.tree.search(c.id, key)
	if exact {
		// Someone else committed into this slot since we peeked it.
		return bcachefsfs.ErrRetry
	}
	c.tree.setLocked(c.id, key, kind, value)
	c.pos = key
	return nil
}

func (c *cursor) Unlock() error { return nil }

func (c *cursor) CondResched(_ context.Context) {}
