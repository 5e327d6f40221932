package main

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsfs"
	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsfs/memtree"
	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsitem"
	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsprim"
)

var printer = message.NewPrinter(language.English)

// newDemoCmd exercises initialization, allocation, removal and lookup
// end to end against an in-memory tree that lives only for the
// duration of the process: there is no real B-tree to persist to, so
// each invocation starts from scratch.
func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run inode lifecycle scenarios against an in-memory demonstration tree",
	}
	cmd.AddCommand(newDemoAllocCmd())
	cmd.AddCommand(newDemoFindBlockdevCmd())
	return cmd
}

func newDemoAllocCmd() *cobra.Command {
	var count int
	var min, max uint64

	cmd := &cobra.Command{
		Use:   "alloc",
		Short: "Allocate a run of inodes, remove the first one, and report the lifecycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			tree := memtree.New()
			opts := bcachefsfs.Options{StrHashType: 1}
			hint := bcachefsprim.Inum(min)

			allocated := make([]bcachefsprim.Inum, 0, count)
			for i := 0; i < count; i++ {
				u, err := bcachefsfs.Init(opts, 0, 0, 0o100644, 0, time.Now())
				if err != nil {
					return fmt.Errorf("initializing inode: %w", err)
				}
				if err := bcachefsfs.Create(ctx, tree, opts, &u, bcachefsprim.Inum(min), bcachefsprim.Inum(max), &hint, 8); err != nil {
					return fmt.Errorf("allocating inode: %w", err)
				}
				allocated = append(allocated, u.Inum)
				printer.Fprintf(cmd.OutOrStdout(), "allocated inode %v\n", number.Decimal(uint64(u.Inum)))
			}

			victim := allocated[0]
			if err := bcachefsfs.Remove(ctx, tree, victim); err != nil {
				return fmt.Errorf("removing inode %v: %w", victim, err)
			}
			printer.Fprintf(cmd.OutOrStdout(), "removed inode %v\n", number.Decimal(uint64(victim)))

			if _, err := bcachefsfs.FindByInum(ctx, tree, victim); err == nil {
				return fmt.Errorf("inode %v is still findable after removal", victim)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "confirmed removed inode is no longer found")
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 3, "number of inodes to allocate")
	cmd.Flags().Uint64Var(&min, "min", 4096, "lower bound (inclusive) of the allocation range")
	cmd.Flags().Uint64Var(&max, "max", 1<<20, "upper bound (exclusive) of the allocation range")
	return cmd
}

func newDemoFindBlockdevCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "find-blockdev",
		Short: "Seed N cached-device blockdev inodes and look each one up by UUID, caching results",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tree := memtree.New()
			cache := newUUIDCache[bcachefsprim.UUID, bcachefsitem.Blockdev](64)

			uuids := make([]bcachefsprim.UUID, 0, n)
			for i := 0; i < n; i++ {
				var u bcachefsprim.UUID
				if _, err := rand.Read(u[:]); err != nil {
					return fmt.Errorf("generating uuid: %w", err)
				}
				bd := bcachefsitem.Blockdev{Inum: bcachefsprim.Inum(i), UUID: u, Flags: bcachefsitem.CachedDevFlag}
				if err := tree.PointInsertNoFail(ctx, bcachefsfs.TreeInodes, bcachefsprim.Key{Inum: bd.Inum}, bcachefsfs.KindBlockdev, bcachefsitem.PackBlockdev(bd)); err != nil {
					return err
				}
				uuids = append(uuids, u)
			}

			for _, u := range uuids {
				if bd, ok := cache.Get(u); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "uuid %v -> inode %v (cache hit)\n", u, bd.Inum)
					continue
				}
				bd, err := bcachefsfs.FindBlockdevByUUID(ctx, tree, u)
				if err != nil {
					return fmt.Errorf("finding blockdev %v: %w", u, err)
				}
				cache.Add(u, bd)
				fmt.Fprintf(cmd.OutOrStdout(), "uuid %v -> inode %v\n", u, bd.Inum)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "count", 5, "number of blockdev inodes to seed and look up")
	return cmd
}
