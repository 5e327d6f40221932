package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"git.lukeshu.com/go/lowmemjson"
	"github.com/spf13/cobra"

	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsitem"
)

func newUnpackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpack INUM",
		Short: "Read a packed inode value from stdin and write its JSON record to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inum, err := parseInum(args[0])
			if err != nil {
				return err
			}

			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading packed value: %w", err)
			}

			u, err := bcachefsitem.Unpack(inum, raw)
			if err != nil {
				return fmt.Errorf("unpacking inode %v: %w", inum, err)
			}

			out := bufio.NewWriter(os.Stdout)
			defer out.Flush()
			return lowmemjson.Encode(&lowmemjson.ReEncoder{
				Out:                   out,
				Indent:                "\t",
				ForceTrailingNewlines: true,
			}, fromUnpacked(u))
		},
	}
	return cmd
}
