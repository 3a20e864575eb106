package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Current schema version
const SchemaVersion = "2"

// SQLite is a SQLite-backed store.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

var (
	_ Store         = (*SQLite)(nil)
	_ HistoryStore  = (*SQLite)(nil)
	_ MetadataStore = (*SQLite)(nil)
)

// NewSQLite creates a new SQLite store at the given path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// Create tables if not exists
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS formulas (
			name TEXT PRIMARY KEY,
			source TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	s := &SQLite{db: db}

	// Check/set schema version (use unlocked versions since we're in init)
	version, err := s.getMetadataUnlocked("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}

	if version == "" || version == "1" {
		// New DB or migrate from v1 to v2: add version history
		if err := s.migrateToV2(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate to v2: %w", err)
		}
		if err := s.setMetadataUnlocked("schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	} else if version != SchemaVersion {
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	return s, nil
}

// migrateToV2 creates the version history table and seeds it with the
// current contents of formulas.
func (s *SQLite) migrateToV2() error {
	rows, err := s.db.Query("SELECT name, source FROM formulas")
	if err != nil {
		return err
	}
	existing := make(map[string]string)
	for rows.Next() {
		var name, source string
		if err := rows.Scan(&name, &source); err != nil {
			rows.Close()
			return err
		}
		existing[name] = source
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS formula_versions (
			name TEXT NOT NULL,
			version INTEGER NOT NULL,
			id TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			ts TEXT NOT NULL,
			PRIMARY KEY (name, version)
		);
	`)
	if err != nil {
		return err
	}

	for name, source := range existing {
		if err := appendVersion(s.db, name, source); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a formula by name.
func (s *SQLite) Get(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getUnlocked(name)
}

func (s *SQLite) getUnlocked(name string) (string, error) {
	var source string
	err := s.db.QueryRow("SELECT source FROM formulas WHERE name = ?", name).Scan(&source)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return source, nil
}

// Put stores a formula by name and records a version when it changed.
func (s *SQLite) Put(name, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.getUnlocked(name)
	if err == nil && old == source {
		return nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO formulas (name, source) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET source = excluded.source
	`, name, source)
	if err != nil {
		return err
	}
	if err := appendVersion(tx, name, source); err != nil {
		return err
	}
	return tx.Commit()
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// appendVersion records source as the next version of name (caller must
// hold lock).
func appendVersion(db execer, name, source string) error {
	_, err := db.Exec(`
		INSERT INTO formula_versions (name, version, id, source, ts)
		SELECT ?, COALESCE(MAX(version), 0) + 1, ?, ?, ?
		FROM formula_versions WHERE name = ?
	`, name, uuid.NewString(), source, timestamp(), name)
	return err
}

// Delete removes a formula and all of its versions.
func (s *SQLite) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM formula_versions WHERE name = ?", name); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM formulas WHERE name = ?", name); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns every stored name, sorted.
func (s *SQLite) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query("SELECT name FROM formulas ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetHistory returns up to limit versions of name, newest first.
func (s *SQLite) GetHistory(name string, limit int) ([]VersionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT version, id, source, ts FROM formula_versions
		WHERE name = ? ORDER BY version DESC LIMIT ?
	`, name, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var history []VersionEntry
	for rows.Next() {
		var e VersionEntry
		var id string
		if err := rows.Scan(&e.Version, &id, &e.Value, &e.Ts); err != nil {
			return nil, err
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("version %d of %s: %w", e.Version, name, err)
		}
		history = append(history, e)
	}
	return history, rows.Err()
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetMetadata retrieves a metadata value by key.
func (s *SQLite) GetMetadata(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getMetadataUnlocked(key)
}

// getMetadataUnlocked retrieves metadata without locking (caller must hold lock).
func (s *SQLite) getMetadataUnlocked(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetMetadata stores a metadata value by key.
func (s *SQLite) SetMetadata(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setMetadataUnlocked(key, value)
}

// setMetadataUnlocked stores metadata without locking (caller must hold lock).
func (s *SQLite) setMetadataUnlocked(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
