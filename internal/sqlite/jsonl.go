// JSONL read/write helpers with atomic persistence for the SQLite backend.
package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONL file names under DataDir.
const (
	traitsJSONL       = "traits.jsonl"
	implementorsJSONL = "implementors.jsonl"
)

// jsonlFiles lists every JSONL file the backend maintains.
var jsonlFiles = []string{traitsJSONL, implementorsJSONL}

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			// Skip malformed lines; the next full persist rewrites the file.
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// initJSONLFiles creates empty JSONL files for any that do not exist yet.
func (b *Backend) initJSONLFiles() error {
	for _, name := range jsonlFiles {
		path := filepath.Join(b.config.DataDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", name, err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}
	}
	return nil
}

// persistTraitsJSONL dumps the traits table to traits.jsonl atomically.
func (b *Backend) persistTraitsJSONL() error {
	rows, err := b.db.Query(
		"SELECT trait_id, name, crate, created_at FROM traits ORDER BY name")
	if err != nil {
		return fmt.Errorf("querying traits for persist: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec traitJSON
		if err := rows.Scan(&rec.TraitID, &rec.Name, &rec.Crate, &rec.CreatedAt); err != nil {
			return fmt.Errorf("scanning trait row: %w", err)
		}
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding trait record: %w", err)
		}
		records = append(records, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating trait rows: %w", err)
	}

	return writeJSONL(filepath.Join(b.config.DataDir, traitsJSONL), records)
}

// persistImplementorsJSONL dumps the implementors table to implementors.jsonl
// atomically, in (trait, ordinal) order.
func (b *Backend) persistImplementorsJSONL() error {
	rows, err := b.db.Query(
		"SELECT implementor_id, trait_name, ordinal, text, synthetic, type_path, created_at " +
			"FROM implementors ORDER BY trait_name, ordinal")
	if err != nil {
		return fmt.Errorf("querying implementors for persist: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec implementorJSON
		var pathJSON string
		if err := rows.Scan(&rec.ImplementorID, &rec.TraitName, &rec.Ordinal,
			&rec.Text, &rec.Synthetic, &pathJSON, &rec.CreatedAt); err != nil {
			return fmt.Errorf("scanning implementor row: %w", err)
		}
		if err := json.Unmarshal([]byte(pathJSON), &rec.TypePath); err != nil {
			return fmt.Errorf("decoding type path: %w", err)
		}
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding implementor record: %w", err)
		}
		records = append(records, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating implementor rows: %w", err)
	}

	return writeJSONL(filepath.Join(b.config.DataDir, implementorsJSONL), records)
}
