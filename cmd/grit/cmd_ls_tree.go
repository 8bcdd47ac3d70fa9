package main

import (
	"fmt"
	"io"

	"github.com/grit-scm/grit/pkg/object"
	"github.com/grit-scm/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newLsTreeCmd() *cobra.Command {
	var nameOnly bool

	cmd := &cobra.Command{
		Use:   "ls-tree <tree-hash>",
		Short: "List the contents of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			o, err := r.Store.Open(args[0])
			if err != nil {
				return err
			}
			defer o.Close()

			it, err := object.NewTreeIter(o)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for it.Scan() {
				printTreeEntry(out, it.Entry(), nameOnly)
			}
			return it.Err()
		},
	}

	cmd.Flags().BoolVar(&nameOnly, "name-only", false, "list only filenames")

	return cmd
}

// printTreeEntry renders one entry in the zero-padded "<mode> <type>
// <hash>\t<name>" form, or just the name.
func printTreeEntry(w io.Writer, e object.TreeEntry, nameOnly bool) {
	if nameOnly {
		fmt.Fprintln(w, e.Name)
		return
	}
	fmt.Fprintf(w, "%06d %s %s\t%s\n", e.Mode, e.Mode.ObjectType(), e.Hash, e.Name)
}
