// Traits table accessor for the SQLite backend.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/traitdex/pkg/types"
)

// Compile-time interface check: traitsTable must implement Table.
var _ types.Table = (*traitsTable)(nil)

// timeFormat is the timestamp rendering used in SQLite rows and JSONL files.
const timeFormat = time.RFC3339

// traitsTable implements the Table interface for the trait entity type.
// Each operation hydrates between SQLite rows and *types.Trait structs, and
// persists changes to traits.jsonl atomically.
type traitsTable struct {
	backend *Backend
}

// Get retrieves a trait by ID.
func (tt *traitsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := tt.backend.db.QueryRow(
		"SELECT trait_id, name, crate, created_at FROM traits WHERE trait_id = ?", id)
	trait, err := hydrateTrait(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting trait %s: %w", id, err)
	}
	return trait, nil
}

// Set persists a trait. If id is empty, generates a UUID v7 and creates the
// trait; an empty Crate is derived from the name. Returns the actual ID.
// Trait names are unique: creating or renaming onto an existing name
// returns ErrDuplicateTrait.
func (tt *traitsTable) Set(id string, data any) (string, error) {
	trait, ok := data.(*types.Trait)
	if !ok {
		return "", types.ErrInvalidData
	}
	if trait.Name == "" {
		return "", types.ErrInvalidName
	}

	if id == "" {
		trait.TraitID = generateUUID()
		trait.CreatedAt = time.Now().UTC()
		id = trait.TraitID
	}
	if trait.Crate == "" {
		trait.Crate = types.TraitCrate(trait.Name)
	}

	// The name must not belong to a different trait.
	var holder string
	err := tt.backend.db.QueryRow(
		"SELECT trait_id FROM traits WHERE name = ?", trait.Name,
	).Scan(&holder)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("checking trait name: %w", err)
	}
	if err == nil && holder != id {
		return "", types.ErrDuplicateTrait
	}

	var exists bool
	err = tt.backend.db.QueryRow(
		"SELECT 1 FROM traits WHERE trait_id = ?", id,
	).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("checking trait existence: %w", err)
	}

	createdAtStr := trait.CreatedAt.UTC().Format(timeFormat)
	if exists {
		_, err = tt.backend.db.Exec(
			"UPDATE traits SET name = ?, crate = ?, created_at = ? WHERE trait_id = ?",
			trait.Name, trait.Crate, createdAtStr, id,
		)
	} else {
		_, err = tt.backend.db.Exec(
			"INSERT INTO traits (trait_id, name, crate, created_at) VALUES (?, ?, ?, ?)",
			id, trait.Name, trait.Crate, createdAtStr,
		)
	}
	if err != nil {
		return "", fmt.Errorf("persisting trait: %w", err)
	}

	if err := tt.backend.persistTraitsJSONL(); err != nil {
		return "", fmt.Errorf("persisting %s: %w", traitsJSONL, err)
	}

	return id, nil
}

// Delete removes a trait and cascades to its implementor records.
func (tt *traitsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	var name string
	err := tt.backend.db.QueryRow(
		"SELECT name FROM traits WHERE trait_id = ?", id,
	).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.ErrNotFound
		}
		return fmt.Errorf("checking trait existence: %w", err)
	}

	tx, err := tt.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM implementors WHERE trait_name = ?", name); err != nil {
		return fmt.Errorf("deleting trait implementors: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM traits WHERE trait_id = ?", id); err != nil {
		return fmt.Errorf("deleting trait: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing trait deletion: %w", err)
	}

	if err := tt.backend.persistTraitsJSONL(); err != nil {
		return fmt.Errorf("persisting %s: %w", traitsJSONL, err)
	}
	if err := tt.backend.persistImplementorsJSONL(); err != nil {
		return fmt.Errorf("persisting %s: %w", implementorsJSONL, err)
	}

	return nil
}

// Fetch queries traits matching the filter, ordered by name.
// Supported filter keys: "name" (string), "crate" (string).
func (tt *traitsTable) Fetch(filter map[string]any) ([]any, error) {
	query := "SELECT trait_id, name, crate, created_at FROM traits"
	var conditions []string
	var args []any

	if v, ok := filter["name"]; ok {
		name, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "name = ?")
		args = append(args, name)
	}
	if v, ok := filter["crate"]; ok {
		crate, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "crate = ?")
		args = append(args, crate)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name"

	rows, err := tt.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching traits: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		trait, err := hydrateTrait(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating trait row: %w", err)
		}
		results = append(results, trait)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trait rows: %w", err)
	}
	return results, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// hydrateTrait scans one traits row into a *types.Trait.
func hydrateTrait(row rowScanner) (*types.Trait, error) {
	var trait types.Trait
	var createdAt string
	if err := row.Scan(&trait.TraitID, &trait.Name, &trait.Crate, &createdAt); err != nil {
		return nil, err
	}
	ts, err := time.Parse(timeFormat, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	trait.CreatedAt = ts
	return &trait, nil
}
