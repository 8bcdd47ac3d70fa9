package object

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/klauspost/compress/zlib"
)

// Header field budgets, counted like the on-disk format: the delimiter must
// appear within this many bytes.
const (
	maxTypeFieldLen = 10
	maxSizeFieldLen = 20
)

// bodyState tracks the lifecycle of a LazyObject body stream.
type bodyState int

const (
	stateHeaderParsed bodyState = iota
	stateBodyInProgress
	stateExhausted
	stateFailed
)

// LazyObject is a decoded object whose body has not been read yet: the
// header is parsed and the decompressing stream is positioned at the first
// body byte. The body is forward-only and bounded to the declared size; it
// must be drained or the object discarded before any other read of the
// underlying file. Reading again after the body was consumed is an explicit
// error, not undefined behavior.
type LazyObject struct {
	path string
	hash Hash // full hash when opened through Locate, otherwise empty
	typ  Type
	size int64

	remaining   int64
	state       bodyState
	eofReturned bool

	br   *bufio.Reader
	zr   io.ReadCloser
	file *os.File
}

// Open locates an object by full or abbreviated hash, opens it through a
// decompressing stream and parses its header.
func (s *Store) Open(abbrev string) (*LazyObject, error) {
	hash, path, err := s.Locate(abbrev)
	if err != nil {
		return nil, err
	}
	o, err := s.openPath(path)
	if err != nil {
		return nil, err
	}
	o.hash = hash
	return o, nil
}

// openPath opens an object file directly and parses its header.
func (s *Store) openPath(path string) (*LazyObject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open object file %s: %w", path, err)
	}
	zr, err := zlib.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}
	br := bufio.NewReader(zr)

	typ, size, err := parseHeader(br, s.maxObjectSize, path)
	if err != nil {
		zr.Close()
		f.Close()
		return nil, err
	}

	return &LazyObject{
		path:      path,
		typ:       typ,
		size:      size,
		remaining: size,
		br:        br,
		zr:        zr,
		file:      f,
	}, nil
}

// parseHeader reads "<type> <decimal-size>\0" from the decompressed stream.
func parseHeader(br *bufio.Reader, maxSize int64, path string) (Type, int64, error) {
	typeTok, err := readField(br, ' ', maxTypeFieldLen)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %s: type field: %v", ErrMalformedHeader, path, err)
	}
	typ, err := ParseType(typeTok)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", path, err)
	}

	sizeTok, err := readField(br, 0, maxSizeFieldLen)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %s: size field: %v", ErrMalformedHeader, path, err)
	}
	size, err := strconv.ParseInt(string(sizeTok), 10, 64)
	if err != nil || size < 0 {
		return "", 0, fmt.Errorf("%w: %s: size %q is not a valid decimal", ErrMalformedHeader, path, sizeTok)
	}
	if size > maxSize {
		return "", 0, fmt.Errorf("%w: %s: declared %d, ceiling %d", ErrSizeTooLarge, path, size, maxSize)
	}
	return typ, size, nil
}

// errNoDelimiter reports a field whose delimiter did not appear within the
// byte budget or before end of input.
var errNoDelimiter = errors.New("delimiter not found")

// readField reads bytes from r until delim, consuming at most max bytes
// including the delimiter (max <= 0 means unbounded). The field bytes are
// returned without the delimiter. io.EOF is returned only when not a single
// byte could be read.
func readField(r io.ByteReader, delim byte, max int) ([]byte, error) {
	var field []byte
	for i := 0; max <= 0 || i < max; i++ {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if i == 0 {
					return nil, io.EOF
				}
				return field, errNoDelimiter
			}
			return field, err
		}
		if b == delim {
			return field, nil
		}
		field = append(field, b)
	}
	return field, errNoDelimiter
}

// Path returns the object's filesystem path.
func (o *LazyObject) Path() string { return o.path }

// Hash returns the object's full hash when known (opened via Open), or ""
// for objects opened directly by path.
func (o *LazyObject) Hash() Hash { return o.hash }

// Type returns the parsed header type.
func (o *LazyObject) Type() Type { return o.typ }

// Size returns the declared body size.
func (o *LazyObject) Size() int64 { return o.size }

// Read yields body bytes, bounded to the declared size. At the bound it
// returns io.EOF once; any read after that fails with ErrBodyConsumed.
func (o *LazyObject) Read(p []byte) (int, error) {
	if o.state == stateFailed {
		return 0, fmt.Errorf("%s: read after previous failure", o.path)
	}
	if o.remaining == 0 {
		if o.eofReturned {
			return 0, fmt.Errorf("%w: %s", ErrBodyConsumed, o.path)
		}
		o.eofReturned = true
		o.state = stateExhausted
		return 0, io.EOF
	}
	o.state = stateBodyInProgress
	if int64(len(p)) > o.remaining {
		p = p[:o.remaining]
	}
	n, err := o.br.Read(p)
	o.remaining -= int64(n)
	if err != nil && !errors.Is(err, io.EOF) {
		o.state = stateFailed
		return n, err
	}
	if errors.Is(err, io.EOF) && o.remaining > 0 {
		// The compressed stream ended before the declared size.
		o.state = stateFailed
		return n, io.EOF
	}
	if o.remaining == 0 {
		o.state = stateExhausted
	}
	return n, nil
}

// ReadByte yields a single body byte with the same bounds as Read.
func (o *LazyObject) ReadByte() (byte, error) {
	if o.state == stateFailed {
		return 0, fmt.Errorf("%s: read after previous failure", o.path)
	}
	if o.remaining == 0 {
		if o.eofReturned {
			return 0, fmt.Errorf("%w: %s", ErrBodyConsumed, o.path)
		}
		o.eofReturned = true
		o.state = stateExhausted
		return 0, io.EOF
	}
	o.state = stateBodyInProgress
	b, err := o.br.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			// Declared size not satisfied by the compressed stream.
			return 0, io.EOF
		}
		o.state = stateFailed
		return 0, err
	}
	o.remaining--
	if o.remaining == 0 {
		o.state = stateExhausted
	}
	return b, nil
}

// Drain copies the whole body into w and verifies the declared size: the
// copy must produce exactly Size() bytes and leave the decompressed stream
// empty. A short body fails with ErrSizeMismatch, extra bytes with
// ErrTrailingData. Drain consumes the object.
func (o *LazyObject) Drain(w io.Writer) error {
	if o.state != stateHeaderParsed {
		return fmt.Errorf("%w: %s", ErrBodyConsumed, o.path)
	}
	copied, err := io.Copy(w, o)
	if err != nil {
		return fmt.Errorf("drain %s: %w", o.path, err)
	}
	if copied != o.size {
		return fmt.Errorf("%w: %s: declared %d, read %d", ErrSizeMismatch, o.path, o.size, copied)
	}
	return o.expectExhausted()
}

// expectExhausted verifies that nothing follows the declared body size in
// the decompressed stream.
func (o *LazyObject) expectExhausted() error {
	if _, err := o.br.ReadByte(); err == nil {
		o.state = stateFailed
		return fmt.Errorf("%w: %s: declared %d", ErrTrailingData, o.path, o.size)
	}
	return nil
}

// Close releases the decompressing stream and the underlying file. It does
// not verify exhaustion; use Drain for that.
func (o *LazyObject) Close() error {
	var firstErr error
	if o.zr != nil {
		firstErr = o.zr.Close()
		o.zr = nil
	}
	if o.file != nil {
		if err := o.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		o.file = nil
	}
	return firstErr
}
