package object

import (
	"bytes"
	"fmt"
)

// CommitSigner signs the canonical unsigned commit body and returns an
// encoded signature string, embedded in a gpgsig header. A nil signer
// leaves the body unsigned.
type CommitSigner func(payload []byte) (string, error)

// CommitFields carries everything needed to assemble a commit body. Tree
// and Parent accept abbreviated hashes; the stored body always embeds the
// full 40-character forms.
type CommitFields struct {
	Tree      string // full or abbreviated tree hash
	Parent    string // optional full or abbreviated parent commit hash
	Message   string
	Author    string
	Email     string
	Timestamp int64
	Timezone  string // e.g. "+0400"
}

// AssembleCommit resolves and canonicalizes the referenced hashes, checks
// their types (ErrWrongType when the tree is not a tree or the parent not a
// commit) and renders the commit body:
//
//	tree <hash>
//	parent <hash>        (only with a parent)
//	author <name> <email> <ts> <tz>
//	committer <name> <email> <ts> <tz>
//	gpgsig <sig>         (only with a signer)
//
//	<message>
func (s *Store) AssembleCommit(f CommitFields, signer CommitSigner) ([]byte, error) {
	tree, err := s.resolveTyped(f.Tree, TypeTree)
	if err != nil {
		return nil, fmt.Errorf("commit tree: %w", err)
	}
	var parent Hash
	if f.Parent != "" {
		parent, err = s.resolveTyped(f.Parent, TypeCommit)
		if err != nil {
			return nil, fmt.Errorf("commit parent: %w", err)
		}
	}

	var hdr bytes.Buffer
	fmt.Fprintf(&hdr, "tree %s\n", tree)
	if parent != "" {
		fmt.Fprintf(&hdr, "parent %s\n", parent)
	}
	fmt.Fprintf(&hdr, "author %s <%s> %d %s\n", f.Author, f.Email, f.Timestamp, f.Timezone)
	fmt.Fprintf(&hdr, "committer %s <%s> %d %s\n", f.Author, f.Email, f.Timestamp, f.Timezone)

	tail := "\n" + f.Message + "\n"

	if signer != nil {
		payload := append(append([]byte{}, hdr.Bytes()...), tail...)
		sig, err := signer(payload)
		if err != nil {
			return nil, fmt.Errorf("sign commit: %w", err)
		}
		fmt.Fprintf(&hdr, "gpgsig %s\n", sig)
	}

	hdr.WriteString(tail)
	return hdr.Bytes(), nil
}

// WriteCommit assembles a commit body and routes it through the encoder.
func (s *Store) WriteCommit(f CommitFields, persist bool, signer CommitSigner) (Hash, error) {
	body, err := s.AssembleCommit(f, signer)
	if err != nil {
		return "", err
	}
	return s.Encode(TypeCommit, int64(len(body)), bytes.NewReader(body), persist)
}

// resolveTyped canonicalizes an abbreviated hash and verifies the object's
// header type.
func (s *Store) resolveTyped(abbrev string, want Type) (Hash, error) {
	full, path, err := s.Locate(abbrev)
	if err != nil {
		return "", err
	}
	o, err := s.openPath(path)
	if err != nil {
		return "", err
	}
	defer o.Close()
	if o.Type() != want {
		return "", fmt.Errorf("%w: %s is a %s, want %s", ErrWrongType, full, o.Type(), want)
	}
	return full, nil
}
