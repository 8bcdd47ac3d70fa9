package object

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// WriteTree recursively encodes the directory at dir as a tree object,
// bottom-up: blobs and subtrees first, then the sorted entry list. With
// persist unset the whole walk is a dry run that only computes hashes.
//
// Empty directories never appear: a subtree whose filtered entry list ends
// up empty (transitively included) is omitted from its parent. An empty
// root fails with ErrEmptyTree. Symlinks fail with ErrSymlinkUnsupported
// before any recursion happens, which also rules out walk cycles.
func (s *Store) WriteTree(dir string, persist bool) (Hash, error) {
	h, empty, err := s.buildTree(dir, persist)
	if err != nil {
		return "", err
	}
	if empty {
		return "", fmt.Errorf("%w: %s", ErrEmptyTree, dir)
	}
	return h, nil
}

// buildTree encodes one directory level. The empty result marks a subtree
// the parent must elide.
func (s *Store) buildTree(dir string, persist bool) (Hash, bool, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return "", false, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var entries []TreeEntry
	for _, de := range dirEntries {
		name := de.Name()
		if name == s.ControlDirName() {
			continue
		}
		path := filepath.Join(dir, name)
		info, err := de.Info()
		if err != nil {
			return "", false, fmt.Errorf("stat %s: %w", path, err)
		}

		switch fm := info.Mode(); {
		case fm&fs.ModeSymlink != 0:
			return "", false, fmt.Errorf("%w: %s", ErrSymlinkUnsupported, path)
		case fm.IsDir():
			child, empty, err := s.buildTree(path, persist)
			if err != nil {
				return "", false, err
			}
			if empty {
				continue
			}
			entries = append(entries, TreeEntry{Mode: ModeTree, Name: name, Hash: child})
		case fm.IsRegular():
			mode := ModeNormal
			if fm.Perm()&0o111 != 0 {
				mode = ModeExecutable
			}
			h, err := s.EncodeFile(path, TypeBlob, persist)
			if err != nil {
				return "", false, err
			}
			entries = append(entries, TreeEntry{Mode: mode, Name: name, Hash: h})
		default:
			return "", false, fmt.Errorf("%s: neither file nor directory", path)
		}
	}

	if len(entries) == 0 {
		return "", true, nil
	}

	slices.SortFunc(entries, CompareEntries)

	body, err := marshalEntries(entries)
	if err != nil {
		return "", false, fmt.Errorf("serialize tree for %s: %w", dir, err)
	}
	h, err := s.Encode(TypeTree, int64(len(body)), bytes.NewReader(body), persist)
	if err != nil {
		return "", false, err
	}
	return h, false, nil
}

// marshalEntries serializes sorted entries as
// "<mode> <name>\0<20-raw-bytes>" concatenated.
func marshalEntries(entries []TreeEntry) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range entries {
		raw, err := hex.DecodeString(string(e.Hash))
		if err != nil || len(raw) != HashRawLen {
			return nil, fmt.Errorf("entry %q: bad child hash %q", e.Name, e.Hash)
		}
		fmt.Fprintf(&buf, "%d %s\x00", e.Mode, e.Name)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

// CompareEntries is the total order tree entries are stored in. It matches
// git's path-component ordering rather than plain byte-string ordering:
// names compare bytewise over their shared prefix, and when one name is a
// strict prefix of the other the shorter name gets a synthetic trailing
// byte, '/' for a subtree and 0x00 otherwise. A subtree named "x" therefore
// sorts as "x/" next to siblings literally named "x" or "x.ext".
func CompareEntries(a, b TreeEntry) int {
	x, y := a.Name, b.Name
	n := min(len(x), len(y))
	for i := 0; i < n; i++ {
		if x[i] != y[i] {
			return int(x[i]) - int(y[i])
		}
	}
	return int(boundaryByte(a, n)) - int(boundaryByte(b, n))
}

// boundaryByte is the byte compared at position i, falling back to the
// synthetic terminator once the name is exhausted. Directory-listing names
// are unique and never contain '/' or NUL, so ties only happen between a
// name and itself.
func boundaryByte(e TreeEntry, i int) byte {
	if i < len(e.Name) {
		return e.Name[i]
	}
	if e.Mode.IsDir() {
		return '/'
	}
	return 0
}
