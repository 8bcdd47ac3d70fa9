package main

import (
	"fmt"

	"github.com/grit-scm/grit/pkg/object"
	"github.com/grit-scm/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newCatFileCmd() *cobra.Command {
	var printContent, printType, printSize, forceRaw bool

	cmd := &cobra.Command{
		Use:   "cat-file <object>",
		Short: "Provide content for repository objects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set := 0
			for _, f := range []bool{printContent, printType, printSize} {
				if f {
					set++
				}
			}
			if set != 1 {
				return fmt.Errorf("exactly one of -p, -t, -s is required")
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			o, err := r.Store.Open(args[0])
			if err != nil {
				return err
			}
			defer o.Close()

			out := cmd.OutOrStdout()
			switch {
			case printType:
				fmt.Fprintln(out, o.Type())
			case printSize:
				fmt.Fprintln(out, o.Size())
			case o.Type() == object.TypeTree && !forceRaw:
				it, err := object.NewTreeIter(o)
				if err != nil {
					return err
				}
				for it.Scan() {
					printTreeEntry(out, it.Entry(), false)
				}
				return it.Err()
			default:
				return o.Drain(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&printContent, "print", "p", false, "pretty-print object content")
	cmd.Flags().BoolVarP(&printType, "type", "t", false, "show object type")
	cmd.Flags().BoolVarP(&printSize, "size", "s", false, "show object size")
	cmd.Flags().BoolVar(&forceRaw, "force-raw", false, "output the unparsed deflated data for tree objects")

	return cmd
}
