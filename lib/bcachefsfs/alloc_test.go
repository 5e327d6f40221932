package bcachefsfs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsfs"
	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsfs/memtree"
	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsitem"
	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsprim"
)

func TestAllocateFindsFreeSlot(t *testing.T) {
	ctx := context.Background()
	tree := memtree.New()
	var hint bcachefsprim.Inum = 100

	u := bcachefsitem.Unpacked{ISize: 1}
	err := bcachefsfs.Create(ctx, tree, bcachefsfs.Options{}, &u, 100, 110, &hint, 8)
	require.NoError(t, err)
	require.Equal(t, bcachefsprim.Inum(100), u.Inum)
	require.Equal(t, bcachefsprim.Inum(101), hint)

	got, err := bcachefsfs.FindByInum(ctx, tree, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(1), got.ISize)
}

func TestAllocateSkipsOccupied(t *testing.T) {
	ctx := context.Background()
	tree := memtree.New()
	var hint bcachefsprim.Inum = 100

	for i := 0; i < 3; i++ {
		hint = 100
		u := bcachefsitem.Unpacked{}
		require.NoError(t, bcachefsfs.Create(ctx, tree, bcachefsfs.Options{}, &u, 100, 110, &hint, 8))
		require.Equal(t, bcachefsprim.Inum(100+i), u.Inum)
	}
}

func TestAllocateWrapsOnExhaustion(t *testing.T) {
	// min=100, max=110, slots 100..109 all occupied, hint=105:
	// scans 105..110, wraps, scans 100..110, returns ErrNoSpace.
	ctx := context.Background()
	tree := memtree.New()

	for n := bcachefsprim.Inum(100); n < 110; n++ {
		require.NoError(t, tree.PointInsertNoFail(ctx, bcachefsfs.TreeInodes,
			bcachefsprim.Key{Inum: n}, bcachefsfs.KindFS, make([]byte, bcachefsitem.FixedHeaderSize)))
	}

	hint := bcachefsprim.Inum(105)
	u := bcachefsitem.Unpacked{}
	err := bcachefsfs.Create(ctx, tree, bcachefsfs.Options{}, &u, 100, 110, &hint, 8)
	require.ErrorIs(t, err, bcachefsfs.ErrNoSpace)
}

func TestAllocateRespects32BitOption(t *testing.T) {
	ctx := context.Background()
	tree := memtree.New()
	var hint bcachefsprim.Inum

	u := bcachefsitem.Unpacked{}
	err := bcachefsfs.Create(ctx, tree, bcachefsfs.Options{Inodes32Bit: true}, &u, 0, 0, &hint, 8)
	require.NoError(t, err)
	require.LessOrEqual(t, uint64(u.Inum), uint64(1<<32-1))
}

func TestAllocateConcurrentUnique(t *testing.T) {
	// Invariant 6: concurrent allocators never collide.
	ctx := context.Background()
	tree := memtree.New()

	const n = 50
	results := make(chan bcachefsprim.Inum, n)
	for i := 0; i < n; i++ {
		go func() {
			hint := bcachefsprim.Inum(0)
			u := bcachefsitem.Unpacked{}
			require.NoError(t, bcachefsfs.Create(ctx, tree, bcachefsfs.Options{}, &u, 0, 1000, &hint, 8))
			results <- u.Inum
		}()
	}

	seen := make(map[bcachefsprim.Inum]bool, n)
	for i := 0; i < n; i++ {
		got := <-results
		require.False(t, seen[got], "duplicate allocation of %v", got)
		seen[got] = true
	}
}
