// Package sqlite provides the public API for the SQLite traitdex backend.
// It exposes the factory function for creating backends while keeping the
// implementation internal.
package sqlite

import (
	"github.com/mesh-intelligence/traitdex/internal/sqlite"
	"github.com/mesh-intelligence/traitdex/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".traitdex-db",
//	})
//	defer backend.Detach()
func NewBackend() types.IndexStore {
	return sqlite.NewBackend()
}
