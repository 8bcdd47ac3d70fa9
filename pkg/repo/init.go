package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grit-scm/grit/pkg/object"
)

// defaultHead is the branch pointer written at bootstrap.
const defaultHead = "ref: refs/heads/main\n"

// Init creates a new grit repository at path: the .grit/ directory with
// objects/, refs/heads/ and a default HEAD. Returns an error if a .grit/
// directory already exists.
func Init(path string) (*Repo, error) {
	gritDir := filepath.Join(path, ControlDirName)

	if _, err := os.Stat(gritDir); err == nil {
		return nil, fmt.Errorf("init: repository already exists at %s", gritDir)
	}

	dirs := []string{
		filepath.Join(gritDir, "objects"),
		filepath.Join(gritDir, "refs", "heads"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	headPath := filepath.Join(gritDir, "HEAD")
	if err := os.WriteFile(headPath, []byte(defaultHead), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	return open(path, gritDir)
}

// Open searches upward from path for a .grit/ directory and opens the
// repository.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		gritDir := filepath.Join(cur, ControlDirName)
		info, err := os.Stat(gritDir)
		if err == nil && info.IsDir() {
			return open(cur, gritDir)
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: not a grit repository (or any parent up to /)")
		}
		cur = parent
	}
}

// open wires a Store configured from the repository config.
func open(rootDir, gritDir string) (*Repo, error) {
	r := &Repo{
		RootDir: rootDir,
		GritDir: gritDir,
		Store:   object.NewStore(gritDir),
	}
	cfg, err := r.ReadConfig()
	if err != nil {
		return nil, err
	}
	r.Store.SetMaxObjectSize(cfg.Core.MaxObjectSize)
	return r, nil
}
