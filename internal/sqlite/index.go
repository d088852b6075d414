// Index assembly and ingestion: conversion between the stored tables and
// the in-memory types.Index handed to consumers.
package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/traitdex/pkg/types"
)

// BuildIndex reads the full store into a types.Index. Records appear in
// (trait, ordinal) order, reproducing the discovery order of the generator.
// Traits with no implementors are included with empty record lists.
func (b *Backend) BuildIndex() (types.Index, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	ix := types.NewIndex()

	rows, err := b.db.Query("SELECT name FROM traits ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying traits: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning trait name: %w", err)
		}
		ix[name] = []types.ImplementorRecord{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating trait names: %w", err)
	}
	rows.Close()

	rows, err = b.db.Query(
		"SELECT trait_name, text, synthetic, type_path FROM implementors ORDER BY trait_name, ordinal")
	if err != nil {
		return nil, fmt.Errorf("querying implementors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var trait, pathJSON string
		var rec types.ImplementorRecord
		if err := rows.Scan(&trait, &rec.Text, &rec.Synthetic, &pathJSON); err != nil {
			return nil, fmt.Errorf("scanning implementor row: %w", err)
		}
		if err := json.Unmarshal([]byte(pathJSON), &rec.TypePath); err != nil {
			return nil, fmt.Errorf("decoding type path: %w", err)
		}
		ix.Add(trait, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating implementor rows: %w", err)
	}

	return ix, nil
}

// LoadIndex ingests an index into the store. Each trait in the index
// replaces any previously stored records for that trait; traits not named
// in the index are untouched. Records are stored as-is: the index is a
// trusted generator dump and is not validated here.
func (b *Backend) LoadIndex(ix types.Index) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(timeFormat)
	for _, trait := range ix.Traits() {
		if _, err := ensureTrait(tx, trait); err != nil {
			return fmt.Errorf("ensuring trait %s: %w", trait, err)
		}
		if _, err := tx.Exec("DELETE FROM implementors WHERE trait_name = ?", trait); err != nil {
			return fmt.Errorf("replacing records for %s: %w", trait, err)
		}
		for ordinal, rec := range ix[trait] {
			pathJSON, err := json.Marshal(rec.TypePath)
			if err != nil {
				return fmt.Errorf("encoding type path: %w", err)
			}
			_, err = tx.Exec(
				"INSERT INTO implementors (implementor_id, trait_name, ordinal, text, synthetic, type_path, created_at) "+
					"VALUES (?, ?, ?, ?, ?, ?, ?)",
				generateUUID(), trait, ordinal, rec.Text, rec.Synthetic, string(pathJSON), now,
			)
			if err != nil {
				return fmt.Errorf("inserting record for %s: %w", trait, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}

	if err := b.persistTraitsJSONL(); err != nil {
		return fmt.Errorf("persisting %s: %w", traitsJSONL, err)
	}
	if err := b.persistImplementorsJSONL(); err != nil {
		return fmt.Errorf("persisting %s: %w", implementorsJSONL, err)
	}

	return nil
}
