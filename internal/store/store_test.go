package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "fieldgen-test.db")
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()

	// Test Put and Get
	err := s.Put("test", "sin(x)")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get("test")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "sin(x)" {
		t.Errorf("expected 'sin(x)', got '%s'", got)
	}

	// Test Delete
	err = s.Delete("test")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err = s.Get("test")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	path := tempDB(t)

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}

	// Test Put and Get
	err = s.Put("test", "gauss(x-0.5, 0.1)")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get("test")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "gauss(x-0.5, 0.1)" {
		t.Errorf("expected 'gauss(x-0.5, 0.1)', got '%s'", got)
	}

	_, err = s.Get("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Close and reopen to verify persistence
	s.Close()

	s2, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to reopen SQLite store: %v", err)
	}
	defer s2.Close()

	got, err = s2.Get("test")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got != "gauss(x-0.5, 0.1)" {
		t.Errorf("expected 'gauss(x-0.5, 0.1)' after reopen, got '%s'", got)
	}
}

func testList(t *testing.T, s Store) {
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Put(name, "x"); err != nil {
			t.Fatalf("Put %s: %v", name, err)
		}
	}
	names, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d]: expected %s, got %s", i, want[i], names[i])
		}
	}
}

func TestMemoryList(t *testing.T) {
	testList(t, NewMemory())
}

func TestSQLiteList(t *testing.T) {
	s, err := NewSQLite(tempDB(t))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()
	testList(t, s)
}

// testVersioning runs the same history checks against any backend.
func testVersioning(t *testing.T, s interface {
	Store
	HistoryStore
}) {
	// Put creates version 1
	s.Put("X", "first")
	got, _ := s.Get("X")
	if got != "first" {
		t.Errorf("expected 'first', got '%s'", got)
	}

	// Put again with different value creates version 2
	s.Put("X", "second")
	got, _ = s.Get("X")
	if got != "second" {
		t.Errorf("expected 'second', got '%s'", got)
	}

	// Put with same value is a no-op (dedup)
	s.Put("X", "second")

	// GetHistory returns newest-first
	entries, err := s.GetHistory("X", 0)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Version != 2 || entries[0].Value != "second" {
		t.Errorf("entry[0]: expected v2 'second', got v%d '%s'", entries[0].Version, entries[0].Value)
	}
	if entries[1].Version != 1 || entries[1].Value != "first" {
		t.Errorf("entry[1]: expected v1 'first', got v%d '%s'", entries[1].Version, entries[1].Value)
	}
	if entries[0].ID == entries[1].ID {
		t.Errorf("expected distinct version ids, both %s", entries[0].ID)
	}
	// Timestamps should be non-empty
	if entries[0].Ts == "" {
		t.Error("expected non-empty timestamp")
	}

	// GetHistory with limit
	entries, err = s.GetHistory("X", 1)
	if err != nil {
		t.Fatalf("GetHistory with limit failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry with limit, got %d", len(entries))
	}
	if entries[0].Version != 2 {
		t.Errorf("expected v2 with limit, got v%d", entries[0].Version)
	}

	// GetHistory on nonexistent is empty
	entries, err = s.GetHistory("nope", 0)
	if err != nil {
		t.Fatalf("GetHistory nonexistent failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries for nonexistent, got %v", entries)
	}

	// Delete removes all versions
	s.Delete("X")
	entries, err = s.GetHistory("X", 0)
	if err != nil {
		t.Fatalf("GetHistory after delete failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected 0 after delete, got %d", len(entries))
	}
}

func TestMemoryVersioning(t *testing.T) {
	testVersioning(t, NewMemory())
}

func TestSQLiteVersioning(t *testing.T) {
	s, err := NewSQLite(tempDB(t))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()
	testVersioning(t, s)
}

func TestSQLiteMigrationV1toV2(t *testing.T) {
	path := tempDB(t)

	// Create a v1 database manually
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	_, err = db.Exec(`
		CREATE TABLE formulas (name TEXT PRIMARY KEY, source TEXT NOT NULL);
		CREATE TABLE metadata (key TEXT PRIMARY KEY, value TEXT NOT NULL);
		INSERT INTO metadata (key, value) VALUES ('schema_version', '1');
		INSERT INTO formulas (name, source) VALUES ('blob', 'gauss(x-0.5, 0.1)');
	`)
	if err != nil {
		t.Fatalf("seed v1: %v", err)
	}
	db.Close()

	// Open with NewSQLite: should migrate to v2
	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite after migration: %v", err)
	}
	defer s.Close()

	// Verify existing data preserved
	got, err := s.Get("blob")
	if err != nil {
		t.Fatalf("Get after migration: %v", err)
	}
	if got != "gauss(x-0.5, 0.1)" {
		t.Errorf("expected 'gauss(x-0.5, 0.1)' after migration, got '%v'", got)
	}

	version, err := s.GetMetadata("schema_version")
	if err != nil {
		t.Fatalf("GetMetadata: %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("expected schema version %s, got %s", SchemaVersion, version)
	}

	// Verify history works (existing row became version 1)
	entries, err := s.GetHistory("blob", 0)
	if err != nil {
		t.Fatalf("GetHistory after migration: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after migration, got %d", len(entries))
	}
	if entries[0].Version != 1 || entries[0].Value != "gauss(x-0.5, 0.1)" {
		t.Errorf("unexpected entry: v%d '%s'", entries[0].Version, entries[0].Value)
	}

	// New puts should version correctly
	s.Put("blob", "gauss(x-0.5, 0.2)")
	entries, _ = s.GetHistory("blob", 0)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after update, got %d", len(entries))
	}
}

func TestSQLiteRejectsUnknownSchema(t *testing.T) {
	path := tempDB(t)
	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	if err := s.SetMetadata("schema_version", "99"); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}
	s.Close()

	if _, err := NewSQLite(path); err == nil {
		t.Fatal("expected error for unsupported schema version")
	}
}

func TestMemoryMetadata(t *testing.T) {
	s := NewMemory()
	if v, _ := s.GetMetadata("k"); v != "" {
		t.Errorf("expected empty metadata, got %q", v)
	}
	s.SetMetadata("k", "v")
	if v, _ := s.GetMetadata("k"); v != "v" {
		t.Errorf("expected 'v', got %q", v)
	}
}

func TestSQLitePutIsAtomic(t *testing.T) {
	s, err := NewSQLite(tempDB(t))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()

	if err := s.Put("wave", "sin(x)"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	_, err = s.db.Exec(`
		CREATE TRIGGER reject_versions BEFORE INSERT ON formula_versions
		BEGIN SELECT RAISE(ABORT, 'rejected'); END;
	`)
	if err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	if err := s.Put("wave", "cos(x)"); err == nil {
		t.Fatal("expected Put to fail when the version insert fails")
	}
	got, err := s.Get("wave")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "sin(x)" {
		t.Errorf("expected 'sin(x)' after failed Put, got %q", got)
	}
	entries, err := s.GetHistory("wave", 0)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry after failed Put, got %d", len(entries))
	}
}
