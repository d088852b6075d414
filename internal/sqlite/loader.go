// JSONL loading for startup: DataDir files are the source of truth and are
// replayed into SQLite on every Attach.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
)

// loadAllJSONL reads each JSONL file from DataDir and inserts records into
// the corresponding SQLite tables. Loading is transactional: all succeed or
// the database remains empty. Malformed lines were already skipped by
// readJSONL; unknown JSON fields are silently ignored for forward
// compatibility across generator versions.
func (b *Backend) loadAllJSONL() error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	// Traits first: implementors reference them by name.
	traitRecords, err := readJSONL(filepath.Join(b.config.DataDir, traitsJSONL))
	if err != nil {
		return fmt.Errorf("reading %s: %w", traitsJSONL, err)
	}
	if err := insertTraits(tx, traitRecords); err != nil {
		return fmt.Errorf("loading %s: %w", traitsJSONL, err)
	}

	implRecords, err := readJSONL(filepath.Join(b.config.DataDir, implementorsJSONL))
	if err != nil {
		return fmt.Errorf("reading %s: %w", implementorsJSONL, err)
	}
	if err := insertImplementors(tx, implRecords); err != nil {
		return fmt.Errorf("loading %s: %w", implementorsJSONL, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertTraits inserts parsed trait records into the traits table.
func insertTraits(tx *sql.Tx, records []json.RawMessage) error {
	for _, raw := range records {
		var rec traitJSON
		if err := json.Unmarshal(raw, &rec); err != nil {
			// Structurally valid JSON of the wrong shape; skip like a
			// malformed line.
			continue
		}
		if rec.TraitID == "" || rec.Name == "" {
			continue
		}
		_, err := tx.Exec(
			"INSERT INTO traits (trait_id, name, crate, created_at) VALUES (?, ?, ?, ?)",
			rec.TraitID, rec.Name, rec.Crate, rec.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting trait %s: %w", rec.Name, err)
		}
	}
	return nil
}

// insertImplementors inserts parsed implementor records into the
// implementors table.
func insertImplementors(tx *sql.Tx, records []json.RawMessage) error {
	for _, raw := range records {
		var rec implementorJSON
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		if rec.ImplementorID == "" || rec.TraitName == "" {
			continue
		}
		pathJSON, err := json.Marshal(rec.TypePath)
		if err != nil {
			return fmt.Errorf("encoding type path: %w", err)
		}
		_, err = tx.Exec(
			"INSERT INTO implementors (implementor_id, trait_name, ordinal, text, synthetic, type_path, created_at) "+
				"VALUES (?, ?, ?, ?, ?, ?, ?)",
			rec.ImplementorID, rec.TraitName, rec.Ordinal, rec.Text,
			rec.Synthetic, string(pathJSON), rec.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting implementor for %s: %w", rec.TraitName, err)
		}
	}
	return nil
}
