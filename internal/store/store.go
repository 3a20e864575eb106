// Package store provides persistence for named field formulas.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get when no formula has the given name.
var ErrNotFound = errors.New("formula not found")

// Store is the interface for formula persistence.
type Store interface {
	// Get retrieves a formula's source by name.
	Get(name string) (string, error)
	// Put stores a formula by name, overwriting if it exists.
	Put(name, source string) error
	// Delete removes a formula by name.
	Delete(name string) error
	// List returns every stored name, sorted.
	List() ([]string, error)
	// Close releases resources.
	Close() error
}

// VersionEntry represents a single version of a persisted formula.
type VersionEntry struct {
	Version int
	ID      uuid.UUID
	Value   string
	Ts      string
}

// HistoryStore extends Store with version history queries.
type HistoryStore interface {
	// GetHistory returns up to limit versions of name, newest first.
	// A limit of zero or less returns every version.
	GetHistory(name string, limit int) ([]VersionEntry, error)
}

// MetadataStore extends Store with string key/value bookkeeping kept
// alongside the formulas.
type MetadataStore interface {
	// GetMetadata returns the value for key, or "" when it is unset.
	GetMetadata(key string) (string, error)
	SetMetadata(key, value string) error
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
