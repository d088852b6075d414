// Implementors table accessor for the SQLite backend.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/traitdex/pkg/types"
)

// Compile-time interface check: implementorsTable must implement Table.
var _ types.Table = (*implementorsTable)(nil)

// implementorsTable implements the Table interface for the implementor
// entity type. Each operation hydrates between SQLite rows and
// *types.Implementor structs, and persists changes to implementors.jsonl
// atomically.
type implementorsTable struct {
	backend *Backend
}

// Get retrieves an implementor by ID.
func (it *implementorsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := it.backend.db.QueryRow(
		"SELECT implementor_id, trait_name, ordinal, text, synthetic, type_path, created_at "+
			"FROM implementors WHERE implementor_id = ?", id)
	im, err := hydrateImplementor(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting implementor %s: %w", id, err)
	}
	return im, nil
}

// Set persists an implementor. If id is empty, generates a UUID v7 and
// creates the entry; a negative Ordinal is assigned the next slot for the
// trait. A trait row is created on demand when the trait is not yet known.
// Returns the actual ID.
func (it *implementorsTable) Set(id string, data any) (string, error) {
	im, ok := data.(*types.Implementor)
	if !ok {
		return "", types.ErrInvalidData
	}
	if im.TraitName == "" {
		return "", types.ErrInvalidName
	}
	if err := im.Record().Validate(); err != nil {
		return "", err
	}

	isCreate := id == ""
	if isCreate {
		im.ImplementorID = generateUUID()
		im.CreatedAt = time.Now().UTC()
		id = im.ImplementorID

		if im.Ordinal < 0 {
			err := it.backend.db.QueryRow(
				"SELECT COALESCE(MAX(ordinal) + 1, 0) FROM implementors WHERE trait_name = ?",
				im.TraitName,
			).Scan(&im.Ordinal)
			if err != nil {
				return "", fmt.Errorf("assigning ordinal: %w", err)
			}
		}
	}

	var exists bool
	err := it.backend.db.QueryRow(
		"SELECT 1 FROM implementors WHERE implementor_id = ?", id,
	).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("checking implementor existence: %w", err)
	}

	pathJSON, err := json.Marshal(im.TypePath)
	if err != nil {
		return "", fmt.Errorf("encoding type path: %w", err)
	}

	tx, err := it.backend.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	traitCreated, err := ensureTrait(tx, im.TraitName)
	if err != nil {
		return "", fmt.Errorf("ensuring trait %s: %w", im.TraitName, err)
	}

	createdAtStr := im.CreatedAt.UTC().Format(timeFormat)
	if exists {
		_, err = tx.Exec(
			"UPDATE implementors SET trait_name = ?, ordinal = ?, text = ?, synthetic = ?, type_path = ?, created_at = ? "+
				"WHERE implementor_id = ?",
			im.TraitName, im.Ordinal, im.Text, im.Synthetic, string(pathJSON), createdAtStr, id,
		)
	} else {
		_, err = tx.Exec(
			"INSERT INTO implementors (implementor_id, trait_name, ordinal, text, synthetic, type_path, created_at) "+
				"VALUES (?, ?, ?, ?, ?, ?, ?)",
			id, im.TraitName, im.Ordinal, im.Text, im.Synthetic, string(pathJSON), createdAtStr,
		)
	}
	if err != nil {
		return "", fmt.Errorf("persisting implementor: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing implementor: %w", err)
	}

	if err := it.backend.persistImplementorsJSONL(); err != nil {
		return "", fmt.Errorf("persisting %s: %w", implementorsJSONL, err)
	}
	if traitCreated {
		if err := it.backend.persistTraitsJSONL(); err != nil {
			return "", fmt.Errorf("persisting %s: %w", traitsJSONL, err)
		}
	}

	return id, nil
}

// Delete removes an implementor record. The trait row stays even when its
// last implementor is removed.
func (it *implementorsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	res, err := it.backend.db.Exec("DELETE FROM implementors WHERE implementor_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting implementor: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deletion: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}

	if err := it.backend.persistImplementorsJSONL(); err != nil {
		return fmt.Errorf("persisting %s: %w", implementorsJSONL, err)
	}
	return nil
}

// Fetch queries implementors matching the filter, ordered by
// (trait_name, ordinal) so record order matches the generated index.
// Supported filter keys: "trait_name" (string), "crate" (string),
// "synthetic" (bool).
func (it *implementorsTable) Fetch(filter map[string]any) ([]any, error) {
	query := "SELECT implementors.implementor_id, implementors.trait_name, implementors.ordinal, " +
		"implementors.text, implementors.synthetic, implementors.type_path, implementors.created_at " +
		"FROM implementors"
	var conditions []string
	var args []any

	if v, ok := filter["trait_name"]; ok {
		name, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "implementors.trait_name = ?")
		args = append(args, name)
	}
	if v, ok := filter["crate"]; ok {
		crate, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		query += " INNER JOIN traits ON traits.name = implementors.trait_name"
		conditions = append(conditions, "traits.crate = ?")
		args = append(args, crate)
	}
	if v, ok := filter["synthetic"]; ok {
		synthetic, ok := v.(bool)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "implementors.synthetic = ?")
		args = append(args, synthetic)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY implementors.trait_name, implementors.ordinal"

	rows, err := it.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching implementors: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		im, err := hydrateImplementor(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating implementor row: %w", err)
		}
		results = append(results, im)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating implementor rows: %w", err)
	}
	return results, nil
}

// ensureTrait inserts a trait row for name if none exists, deriving the
// crate from the name. Returns true when a row was created.
func ensureTrait(tx *sql.Tx, name string) (bool, error) {
	var exists bool
	err := tx.QueryRow("SELECT 1 FROM traits WHERE name = ?", name).Scan(&exists)
	if err == nil {
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, err
	}

	_, err = tx.Exec(
		"INSERT INTO traits (trait_id, name, crate, created_at) VALUES (?, ?, ?, ?)",
		generateUUID(), name, types.TraitCrate(name), time.Now().UTC().Format(timeFormat),
	)
	if err != nil {
		return false, err
	}
	return true, nil
}

// hydrateImplementor scans one implementors row into a *types.Implementor.
func hydrateImplementor(row rowScanner) (*types.Implementor, error) {
	var im types.Implementor
	var pathJSON, createdAt string
	if err := row.Scan(&im.ImplementorID, &im.TraitName, &im.Ordinal,
		&im.Text, &im.Synthetic, &pathJSON, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(pathJSON), &im.TypePath); err != nil {
		return nil, fmt.Errorf("decoding type path: %w", err)
	}
	ts, err := time.Parse(timeFormat, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	im.CreatedAt = ts
	return &im, nil
}
