package main

import (
	"fmt"

	"github.com/grit-scm/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newWriteTreeCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "write-tree",
		Short: "Create a tree object from the working directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			h, err := r.Store.WriteTree(r.RootDir, !dryRun)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only print the hash, do not actually write the objects")

	return cmd
}
