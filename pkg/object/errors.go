package object

import "errors"

// Failure taxonomy for lookup, format/size integrity, tree-body parsing and
// policy checks. Callers match with errors.Is; call sites wrap these with
// the offending path, hash or entry index.
var (
	// Lookup.
	ErrInvalidHashLength = errors.New("object: invalid hash length")
	ErrNotFound          = errors.New("object: not found")
	ErrAmbiguousHash     = errors.New("object: ambiguous hash prefix")

	// Format and size integrity.
	ErrMalformedHeader = errors.New("object: malformed header")
	ErrUnknownType     = errors.New("object: unknown object type")
	ErrSizeTooLarge    = errors.New("object: declared size exceeds ceiling")
	ErrSizeMismatch    = errors.New("object: declared size does not match body")
	ErrTrailingData    = errors.New("object: data past declared size")

	// Tree-body parsing.
	ErrParseTruncated = errors.New("object: tree body truncated")
	ErrEmptyField     = errors.New("object: empty name or mode in tree entry")

	// Policy checks.
	ErrWrongType          = errors.New("object: wrong object type")
	ErrSymlinkUnsupported = errors.New("object: symlinks are not supported")
	ErrEmptyTree          = errors.New("object: refusing to write empty tree")

	// Handle misuse: reading a lazy object body after it was drained.
	ErrBodyConsumed = errors.New("object: body already consumed")
)
