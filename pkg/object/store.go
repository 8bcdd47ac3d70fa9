package object

import (
	"os"
	"path/filepath"
)

// DefaultMaxObjectSize is the ceiling applied to declared object sizes when
// decoding.
const DefaultMaxObjectSize = 1 << 30 // 1 GiB

// tempFileName is the single fixed-path temporary file used while
// persisting an object. Not safe under concurrent writers; the store
// assumes a single writer.
const tempFileName = "temp_file"

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123...
//
// All tunables (control directory, size ceiling) live on the Store value so
// operations never consult ambient state.
type Store struct {
	controlDir    string // e.g. /path/to/worktree/.grit
	maxObjectSize int64
}

// NewStore creates a Store whose objects/ directory lives inside the given
// control directory. The fan-out directories are created lazily on first
// write.
func NewStore(controlDir string) *Store {
	return &Store{
		controlDir:    controlDir,
		maxObjectSize: DefaultMaxObjectSize,
	}
}

// SetMaxObjectSize overrides the declared-size ceiling used while decoding.
// Values <= 0 restore the default.
func (s *Store) SetMaxObjectSize(n int64) {
	if n <= 0 {
		n = DefaultMaxObjectSize
	}
	s.maxObjectSize = n
}

// ControlDir returns the control directory the store lives in.
func (s *Store) ControlDir() string { return s.controlDir }

// ControlDirName returns the base name of the control directory. Tree
// building skips directory entries with this name.
func (s *Store) ControlDirName() string { return filepath.Base(s.controlDir) }

func (s *Store) objectsDir() string {
	return filepath.Join(s.controlDir, "objects")
}

// objectPath returns the filesystem path for a full hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.objectsDir(), string(h[:2]), string(h[2:]))
}

// tempPath returns the fixed path of the write-side temporary file.
func (s *Store) tempPath() string {
	return filepath.Join(s.controlDir, tempFileName)
}

// Has reports whether the store contains an object with the given full
// hash.
func (s *Store) Has(h Hash) bool {
	if len(h) != HashHexLen {
		return false
	}
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}
