package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zlib"
)

// Encode computes the canonical hash of "<type> <size>\0<body>" and, when
// persist is set, stores the compressed bytes atomically under
// objects/<2-hex>/<38-hex>. With persist unset nothing touches the
// filesystem; the hash is a dry-run preview.
//
// Every byte is fed simultaneously to the SHA-1 accumulator and (when
// persisting) the zlib writer over the fixed-path temp file, which is then
// renamed into place. A failed persist leaves only the reusable temp file
// behind. Fails with ErrSizeMismatch when body yields a byte count other
// than size.
func (s *Store) Encode(typ Type, size int64, body io.Reader, persist bool) (Hash, error) {
	if !persist {
		return encodeInto(io.Discard, typ, size, body)
	}

	tmp := s.tempPath()
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create temp file %s: %w", tmp, err)
	}
	zw, err := zlib.NewWriterLevel(f, zlib.BestCompression)
	if err != nil {
		f.Close()
		return "", fmt.Errorf("compress into %s: %w", tmp, err)
	}

	h, encErr := encodeInto(zw, typ, size, body)
	closeErr := zw.Close()
	if err := f.Close(); err != nil && closeErr == nil {
		closeErr = err
	}
	if encErr != nil {
		return "", encErr
	}
	if closeErr != nil {
		return "", fmt.Errorf("flush temp file %s: %w", tmp, closeErr)
	}

	dir := filepath.Join(s.objectsDir(), string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create object directory %s: %w", dir, err)
	}
	dest := s.objectPath(h)
	if err := os.Rename(tmp, dest); err != nil {
		return "", fmt.Errorf("move object into place at %s: %w", dest, err)
	}
	return h, nil
}

// EncodeFile streams a file through Encode using its stat size as the
// declared size.
func (s *Store) EncodeFile(path string, typ Type, persist bool) (Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	return s.Encode(typ, info.Size(), f, persist)
}

// encodeInto hashes header+body while copying the same bytes into sink.
func encodeInto(sink io.Writer, typ Type, size int64, body io.Reader) (Hash, error) {
	hasher := sha1.New()
	w := io.MultiWriter(hasher, sink)

	if _, err := fmt.Fprintf(w, "%s %d\x00", typ.Canonical(), size); err != nil {
		return "", fmt.Errorf("write object header: %w", err)
	}
	copied, err := io.Copy(w, body)
	if err != nil {
		return "", fmt.Errorf("write object body: %w", err)
	}
	if copied != size {
		return "", fmt.Errorf("%w: declared %d, copied %d", ErrSizeMismatch, size, copied)
	}
	return Hash(hex.EncodeToString(hasher.Sum(nil))), nil
}
