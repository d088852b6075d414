// Shared helpers for traitdex CLI commands.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/traitdex/internal/sqlite"
	"github.com/mesh-intelligence/traitdex/pkg/types"
)

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return backend, nil
}

// lookupTrait finds a trait entity by its fully-qualified name.
// Returns types.ErrNotFound when the trait is not stored.
func lookupTrait(backend *sqlite.Backend, name string) (*types.Trait, error) {
	table, err := backend.GetTable(types.TableTraits)
	if err != nil {
		return nil, fmt.Errorf("get traits table: %w", err)
	}

	matches, err := table.Fetch(map[string]any{"name": name})
	if err != nil {
		return nil, fmt.Errorf("fetch trait: %w", err)
	}
	if len(matches) == 0 {
		return nil, types.ErrNotFound
	}
	return matches[0].(*types.Trait), nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
