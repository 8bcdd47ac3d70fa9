package object

import "fmt"

// Hash is a 40-character hex-encoded SHA-1 digest. It doubles as the
// object's storage key under objects/<2-hex>/<38-hex>.
type Hash string

const (
	// HashHexLen is the length of a full hex-encoded hash.
	HashHexLen = 40
	// HashRawLen is the length of a raw binary hash.
	HashRawLen = 20
	// MinAbbrevLen is the shortest accepted abbreviated hash.
	MinAbbrevLen = 4
)

// Type identifies the kind of object stored.
type Type string

const (
	TypeBlob   Type = "blob"
	TypeTree   Type = "tree"
	TypeCommit Type = "commit"
	// TypeTag is accepted in headers but is an alias of blob: tagged
	// content is stored with a blob header.
	TypeTag Type = "tag"
)

// ParseType maps a header token to a Type.
func ParseType(token []byte) (Type, error) {
	switch string(token) {
	case "blob":
		return TypeBlob, nil
	case "tree":
		return TypeTree, nil
	case "commit":
		return TypeCommit, nil
	case "tag":
		return TypeTag, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, token)
	}
}

// Canonical returns the type word written into object headers. Tag is an
// alias of blob on disk.
func (t Type) Canonical() Type {
	if t == TypeTag {
		return TypeBlob
	}
	return t
}

// Mode is the decimal entry mode stored in tree bodies, compatible with
// git's canonical modes. Serialized without leading zeros (40000, not
// 040000).
type Mode int

const (
	ModeNormal     Mode = 100644
	ModeExecutable Mode = 100755
	ModeSymlink    Mode = 120000
	ModeTree       Mode = 40000
)

// ParseMode validates a decimal mode value from a tree body.
func ParseMode(v int) (Mode, error) {
	switch Mode(v) {
	case ModeNormal, ModeExecutable, ModeSymlink, ModeTree:
		return Mode(v), nil
	default:
		return 0, fmt.Errorf("unknown mode %d", v)
	}
}

// ObjectType returns the type of object a tree entry with this mode points
// at. Symlinks store their target path as a blob.
func (m Mode) ObjectType() Type {
	if m == ModeTree {
		return TypeTree
	}
	return TypeBlob
}

// IsDir reports whether the mode denotes a subtree.
func (m Mode) IsDir() bool { return m == ModeTree }

// TreeEntry is one entry in a tree object body.
type TreeEntry struct {
	Mode Mode
	Name string
	Hash Hash // hex-encoded child hash
}
