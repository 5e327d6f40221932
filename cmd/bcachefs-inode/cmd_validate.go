package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsitem"
	"git.lukeshu.com/bcachefs-progs-ng/lib/bcachefsprim"
)

func newValidateCmd() *cobra.Command {
	var blockdev bool

	cmd := &cobra.Command{
		Use:   "validate INUM",
		Short: "Validate a raw inodes-tree value from stdin and print it for diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInum(args[0])
			if err != nil {
				return err
			}
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading value: %w", err)
			}

			typ := bcachefsitem.TypeFS
			if blockdev {
				typ = bcachefsitem.TypeBlockdev
			}
			key := bcachefsprim.Key{Inum: n}

			fmt.Fprintln(cmd.OutOrStdout(), bcachefsitem.ToText(typ, key, raw))

			if err := bcachefsitem.Validate(typ, key, raw); err != nil {
				return fmt.Errorf("invalid inode %v: %w", n, err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&blockdev, "blockdev", false, "validate as an INODE_BLOCKDEV value instead of INODE_FS")
	return cmd
}
