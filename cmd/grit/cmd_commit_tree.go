package main

import (
	"fmt"
	"time"

	"github.com/grit-scm/grit/pkg/object"
	"github.com/grit-scm/grit/pkg/repo"
	"github.com/spf13/cobra"
)

func newCommitTreeCmd() *cobra.Command {
	var parent, message, signKey string

	cmd := &cobra.Command{
		Use:   "commit-tree <tree-hash>",
		Short: "Create a commit object from an existing tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return fmt.Errorf("commit message is required (-m)")
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			cfg, err := r.ReadConfig()
			if err != nil {
				return err
			}

			var signer object.CommitSigner
			if cmd.Flags().Changed("sign-key") {
				signer, _, err = newSSHCommitSigner(signKey)
				if err != nil {
					return err
				}
			}

			fields := object.CommitFields{
				Tree:      args[0],
				Parent:    parent,
				Message:   message,
				Author:    cfg.User.Name,
				Email:     cfg.User.Email,
				Timestamp: time.Now().Unix(),
				Timezone:  cfg.User.Timezone,
			}
			h, err := r.Store.WriteCommit(fields, true, signer)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent commit hash")
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringVar(&signKey, "sign-key", "", "SSH private key used to sign the commit (default key when empty)")

	return cmd
}
