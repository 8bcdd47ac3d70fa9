package repo

import (
	"github.com/grit-scm/grit/pkg/object"
)

// ControlDirName is the repository control directory created at the
// worktree root.
const ControlDirName = ".grit"

// Repo represents an opened grit repository.
type Repo struct {
	RootDir string        // working directory root
	GritDir string        // .grit/ directory
	Store   *object.Store // content-addressed object store
}
