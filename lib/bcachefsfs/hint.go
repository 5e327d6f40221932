package bcachefsfs

import (
	"git.lukeshu.com/go/typedsync"

	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsprim"
)

// HintStore is a concurrency-safe home for the caller-maintained
// allocator hint. Create's hint parameter is a
// plain *bcachefsprim.Inum because the allocator itself has no
// opinion about how a caller stores it across calls; HintStore keeps
// one hint per named keyspace. The map itself is safe for concurrent
// use, so concurrent callers asking for the same name get the same
// pointer; the *bcachefsprim.Inum it hands out is not synchronized,
// and Create reads and writes it without any locking.
type HintStore struct {
	m typedsync.Map[string, *bcachefsprim.Inum]
}

// Hint returns the stored hint for name, creating it at min if this is
// the first time name has been seen.
func (s *HintStore) Hint(name string, min bcachefsprim.Inum) *bcachefsprim.Inum {
	h := min
	actual, _ := s.m.LoadOrStore(name, &h)
	return actual
}
