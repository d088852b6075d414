// Tests for JSONL persistence in the SQLite backend.
package sqlite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mesh-intelligence/traitdex/pkg/types"
)

func TestImplementorPersistedToJSONL(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	tbl, _ := b.GetTable(types.TableImplementors)
	_, err := tbl.Set("", &types.Implementor{
		TraitName: "libx::ops::Drop",
		Text:      "impl Drop for Box<T>",
		TypePath:  []string{"libx", "boxed", "Box"},
	})
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, implementorsJSONL))
	if err != nil {
		t.Fatalf("failed to read %s: %v", implementorsJSONL, err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 JSONL line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], `"trait_name":"libx::ops::Drop"`) {
		t.Errorf("record missing trait name: %s", lines[0])
	}
	if !strings.Contains(lines[0], `"type_path":["libx","boxed","Box"]`) {
		t.Errorf("record missing type path: %s", lines[0])
	}
}

func TestMalformedJSONLLinesSkipped(t *testing.T) {
	tmpDir := t.TempDir()

	good := `{"trait_id":"0192d3e8-0000-7000-8000-000000000001","name":"libx::ops::Drop","crate":"libx","created_at":"2026-01-01T00:00:00Z"}`
	content := "not json\n" + good + "\n{broken\n"
	if err := os.WriteFile(filepath.Join(tmpDir, traitsJSONL), []byte(content), 0o644); err != nil {
		t.Fatalf("seeding %s: %v", traitsJSONL, err)
	}

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	tbl, _ := b.GetTable(types.TableTraits)
	all, err := tbl.Fetch(nil)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 trait from valid line, got %d", len(all))
	}
}

func TestWriteJSONLAtomicLeavesNoTempFiles(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	tbl, _ := b.GetTable(types.TableTraits)
	if _, err := tbl.Set("", &types.Trait{Name: "libx::ops::Drop"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("reading DataDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}
