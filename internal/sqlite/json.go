// JSON record structures for SQLite backend persistence.
// These structures define the JSONL record format for the data files.
package sqlite

// traitJSON represents a trait in traits.jsonl.
type traitJSON struct {
	TraitID   string `json:"trait_id"`
	Name      string `json:"name"`
	Crate     string `json:"crate"`
	CreatedAt string `json:"created_at"`
}

// implementorJSON represents an implementor in implementors.jsonl.
// TypePath is stored structurally, matching the generated data-file records.
type implementorJSON struct {
	ImplementorID string   `json:"implementor_id"`
	TraitName     string   `json:"trait_name"`
	Ordinal       int      `json:"ordinal"`
	Text          string   `json:"text"`
	Synthetic     bool     `json:"synthetic"`
	TypePath      []string `json:"type_path"`
	CreatedAt     string   `json:"created_at"`
}
