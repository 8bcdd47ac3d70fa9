package main

import (
	"fmt"

	"github.com/grit-scm/grit/pkg/object"
	"github.com/grit-scm/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newHashObjectCmd() *cobra.Command {
	var typeName string
	var write bool

	cmd := &cobra.Command{
		Use:   "hash-object <file>",
		Short: "Compute object ID and optionally create an object from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := object.ParseType([]byte(typeName))
			if err != nil {
				return err
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			h, err := r.Store.EncodeFile(args[0], typ, write)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "blob", "type of object to be created")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "actually write the object into the object database")

	return cmd
}
