package object

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// TreeIter decodes a tree object's body into its stored sequence of
// entries: a forward-only, single pass over the shared decompression
// stream, capped at the declared size. Entries come back in physical
// order; they are never reordered on read.
//
// Usage follows bufio.Scanner:
//
//	it, err := object.NewTreeIter(o)
//	for it.Scan() {
//		e := it.Entry()
//		...
//	}
//	if err := it.Err(); err != nil { ... }
type TreeIter struct {
	obj   *LazyObject
	entry TreeEntry
	index int // 1-based entry number, for error context
	err   error
	done  bool
}

// NewTreeIter wraps a lazy object that must be of type tree.
func NewTreeIter(o *LazyObject) (*TreeIter, error) {
	if o.Type() != TypeTree {
		return nil, fmt.Errorf("%w: %s is a %s, want %s", ErrWrongType, o.Path(), o.Type(), TypeTree)
	}
	return &TreeIter{obj: o}, nil
}

// Scan advances to the next entry. It returns false at the end of the
// sequence or on error; the two are told apart through Err.
func (it *TreeIter) Scan() bool {
	if it.done || it.err != nil {
		return false
	}
	entry, err := it.parseEntry()
	if err != nil {
		it.err = err
		return false
	}
	if entry == nil {
		it.done = true
		return false
	}
	it.entry = *entry
	return true
}

// Entry returns the entry read by the last successful Scan.
func (it *TreeIter) Entry() TreeEntry { return it.entry }

// Err returns the first error hit while scanning. End of sequence is not an
// error.
func (it *TreeIter) Err() error { return it.err }

// parseEntry reads one "<mode> <name>\0<20-raw-bytes>" record. A nil entry
// with nil error is the clean end of the sequence: a zero-byte mode read
// with the declared size exactly consumed and the stream exhausted.
func (it *TreeIter) parseEntry() (*TreeEntry, error) {
	it.index++
	o := it.obj

	modeTok, err := readField(o, ' ', maxTypeFieldLen)
	if errors.Is(err, io.EOF) {
		if o.remaining == 0 {
			if err := o.expectExhausted(); err != nil {
				return nil, err
			}
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s: entry %d: %d declared bytes missing", ErrParseTruncated, o.path, it.index, o.remaining)
	}
	if err != nil {
		if errors.Is(err, errNoDelimiter) {
			return nil, fmt.Errorf("%w: %s: entry %d: mode delimiter not found", ErrParseTruncated, o.path, it.index)
		}
		return nil, fmt.Errorf("read mode for entry %d in %s: %w", it.index, o.path, err)
	}
	if len(modeTok) == 0 {
		return nil, fmt.Errorf("%w: %s: entry %d: empty mode", ErrEmptyField, o.path, it.index)
	}
	modeVal, err := strconv.Atoi(string(modeTok))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: entry %d: mode %q is not a valid decimal", ErrParseTruncated, o.path, it.index, modeTok)
	}
	mode, err := ParseMode(modeVal)
	if err != nil {
		return nil, fmt.Errorf("entry %d in %s: %w", it.index, o.path, err)
	}

	nameTok, err := readField(o, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: entry %d: name delimiter not found", ErrParseTruncated, o.path, it.index)
	}
	if len(nameTok) == 0 {
		return nil, fmt.Errorf("%w: %s: entry %d: empty name", ErrEmptyField, o.path, it.index)
	}

	var raw [HashRawLen]byte
	if _, err := io.ReadFull(o, raw[:]); err != nil {
		return nil, fmt.Errorf("%w: %s: entry %d: short hash: %v", ErrParseTruncated, o.path, it.index, err)
	}

	return &TreeEntry{
		Mode: mode,
		Name: string(nameTok),
		Hash: Hash(hex.EncodeToString(raw[:])),
	}, nil
}
