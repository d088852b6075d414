package types

import (
	"strings"
	"time"
)

// ImplementorRecord is one implementation entry in a generated index: the
// rendered signature text, whether the implementation was auto-derived, and
// the module path of the implementing type.
type ImplementorRecord struct {
	Text      string   `json:"text"`
	Synthetic bool     `json:"synthetic"`
	TypePath  []string `json:"types"`
}

// Validate checks that the record carries a signature rendering and a
// non-empty type path. Returns ErrInvalidText or ErrInvalidTypePath.
func (r ImplementorRecord) Validate() error {
	if r.Text == "" {
		return ErrInvalidText
	}
	if len(r.TypePath) == 0 {
		return ErrInvalidTypePath
	}
	for _, seg := range r.TypePath {
		if seg == "" {
			return ErrInvalidTypePath
		}
	}
	return nil
}

// Clone returns a deep copy of the record.
func (r ImplementorRecord) Clone() ImplementorRecord {
	cp := r
	cp.TypePath = make([]string, len(r.TypePath))
	copy(cp.TypePath, r.TypePath)
	return cp
}

// Equal reports whether two records are identical field by field.
func (r ImplementorRecord) Equal(other ImplementorRecord) bool {
	if r.Text != other.Text || r.Synthetic != other.Synthetic {
		return false
	}
	if len(r.TypePath) != len(other.TypePath) {
		return false
	}
	for i := range r.TypePath {
		if r.TypePath[i] != other.TypePath[i] {
			return false
		}
	}
	return true
}

// Trait is the stored form of one index key: a fully-qualified trait path
// such as "libx::clone::Clone".
type Trait struct {
	TraitID   string    // UUID v7, generated on creation.
	Name      string    // Fully-qualified trait path (required, unique).
	Crate     string    // Leading path segment; derived from Name when empty.
	CreatedAt time.Time // Timestamp of creation.
}

// Implementor is the stored form of one ImplementorRecord, keyed by trait
// name and ordered by Ordinal (discovery order in the generator output).
type Implementor struct {
	ImplementorID string    // UUID v7, generated on creation.
	TraitName     string    // Fully-qualified trait path this entry belongs to.
	Ordinal       int       // Position within the trait's record list.
	Text          string    // Rendered implementation signature.
	Synthetic     bool      // True for auto-derived implementations.
	TypePath      []string  // Module path of the implementing type.
	CreatedAt     time.Time // Timestamp of creation.
}

// Record converts the stored entity back to its index record form.
func (im *Implementor) Record() ImplementorRecord {
	path := make([]string, len(im.TypePath))
	copy(path, im.TypePath)
	return ImplementorRecord{
		Text:      im.Text,
		Synthetic: im.Synthetic,
		TypePath:  path,
	}
}

// TraitCrate returns the crate segment of a fully-qualified trait path:
// everything before the first "::", or the whole name if there is none.
func TraitCrate(name string) string {
	if i := strings.Index(name, "::"); i >= 0 {
		return name[:i]
	}
	return name
}
