package types

import "errors"

// Standard table names.
const (
	TableTraits       = "traits"
	TableImplementors = "implementors"
)

// Store defines the interface for backend-agnostic index storage.
// Callers attach to a backend, access tables by name, and detach when done.
type Store interface {
	// GetTable returns the Table for the given name.
	// Returns ErrTableNotFound if the name is not a standard table.
	GetTable(name string) (Table, error)

	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist. Idempotent on first call;
	// returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations on tables return ErrStoreDetached.
	Detach() error
}

// IndexStore is a Store that converts between its tables and the in-memory
// index form handed to consumers.
type IndexStore interface {
	Store

	// BuildIndex reads the full store into an Index, records ordered as
	// discovered by the generator.
	BuildIndex() (Index, error)

	// LoadIndex ingests an index, replacing stored records for each trait
	// it names. The index is a trusted generator dump and is not validated.
	LoadIndex(Index) error
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrTableNotFound   = errors.New("table not found")
)
