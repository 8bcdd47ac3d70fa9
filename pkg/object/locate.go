package object

import (
	"fmt"
	"os"
	"path/filepath"
)

// Locate resolves a full or abbreviated hex hash to the single matching
// object, returning its full hash and filesystem path.
//
// The abbreviation must be 4 to 40 characters long. Zero matches yield
// ErrNotFound, more than one ErrAmbiguousHash.
func (s *Store) Locate(abbrev string) (Hash, string, error) {
	if len(abbrev) < MinAbbrevLen || len(abbrev) > HashHexLen {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidHashLength, abbrev)
	}

	dir := abbrev[:2]
	rest := abbrev[2:]
	dirPath := filepath.Join(s.objectsDir(), dir)

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", fmt.Errorf("%w: %s", ErrNotFound, abbrev)
		}
		return "", "", fmt.Errorf("locate %s: read dir %s: %w", abbrev, dirPath, err)
	}

	var found string
	for _, entry := range entries {
		name := entry.Name()
		if len(name) != HashHexLen-2 {
			continue
		}
		if len(name) < len(rest) || name[:len(rest)] != rest {
			continue
		}
		if found != "" {
			return "", "", fmt.Errorf("%w: %s", ErrAmbiguousHash, abbrev)
		}
		found = name
	}
	if found == "" {
		return "", "", fmt.Errorf("%w: %s", ErrNotFound, abbrev)
	}

	return Hash(dir + found), filepath.Join(dirPath, found), nil
}
