package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grit-scm/grit/pkg/object"
)

// Head returns the content of HEAD: either a symbolic ref target like
// "refs/heads/main" or a detached commit hash.
func (r *Repo) Head() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.GritDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	head := strings.TrimSpace(string(data))
	if target, ok := strings.CutPrefix(head, "ref: "); ok {
		return strings.TrimSpace(target), nil
	}
	return head, nil
}

// ResolveRef resolves a ref name ("HEAD" or "refs/heads/<branch>") to a
// commit hash. An unborn branch (ref file missing) resolves to "".
func (r *Repo) ResolveRef(name string) (object.Hash, error) {
	if name == "HEAD" {
		head, err := r.Head()
		if err != nil {
			return "", err
		}
		if !strings.HasPrefix(head, "refs/") {
			return object.Hash(head), nil
		}
		name = head
	}

	data, err := os.ReadFile(filepath.Join(r.GritDir, filepath.FromSlash(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("resolve ref %q: %w", name, err)
	}
	return object.Hash(strings.TrimSpace(string(data))), nil
}

// UpdateRef points a ref at a commit hash. Single-writer assumption: no
// locking.
func (r *Repo) UpdateRef(name string, h object.Hash) error {
	path := filepath.Join(r.GritDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("update ref %q: mkdir: %w", name, err)
	}
	if err := os.WriteFile(path, []byte(string(h)+"\n"), 0o644); err != nil {
		return fmt.Errorf("update ref %q: %w", name, err)
	}
	return nil
}
