package repo

import (
	"fmt"
	"strings"
	"time"

	"github.com/grit-scm/grit/pkg/object"
)

// Commit snapshots the worktree root as a tree and records a commit on top
// of the current HEAD, advancing the current branch. The identity comes
// from the repository config; signer may be nil.
func (r *Repo) Commit(message string, signer object.CommitSigner) (object.Hash, error) {
	cfg, err := r.ReadConfig()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	treeHash, err := r.Store.WriteTree(r.RootDir, true)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	parent, err := r.ResolveRef("HEAD")
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	fields := object.CommitFields{
		Tree:      string(treeHash),
		Parent:    string(parent),
		Message:   message,
		Author:    cfg.User.Name,
		Email:     cfg.User.Email,
		Timestamp: time.Now().Unix(),
		Timezone:  cfg.User.Timezone,
	}
	commitHash, err := r.Store.WriteCommit(fields, true, signer)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	ref := "HEAD"
	if strings.HasPrefix(head, "refs/") {
		ref = head
	}
	if err := r.UpdateRef(ref, commitHash); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return commitHash, nil
}
