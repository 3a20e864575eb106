package store

import (
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-memory store for testing.
type Memory struct {
	mu       sync.RWMutex
	data     map[string]string
	versions map[string][]VersionEntry
	metadata map[string]string
}

var (
	_ Store         = (*Memory)(nil)
	_ HistoryStore  = (*Memory)(nil)
	_ MetadataStore = (*Memory)(nil)
)

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data:     make(map[string]string),
		versions: make(map[string][]VersionEntry),
		metadata: make(map[string]string),
	}
}

// Get retrieves a formula by name.
func (m *Memory) Get(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if source, ok := m.data[name]; ok {
		return source, nil
	}
	return "", ErrNotFound
}

// Put stores a formula by name and records a version when it changed.
func (m *Memory) Put(name, source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.data[name]; ok && old == source {
		return nil
	}
	m.data[name] = source
	m.versions[name] = append(m.versions[name], VersionEntry{
		Version: len(m.versions[name]) + 1,
		ID:      uuid.New(),
		Value:   source,
		Ts:      timestamp(),
	})
	return nil
}

// Delete removes a formula and all of its versions.
func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
	delete(m.versions, name)
	return nil
}

// List returns every stored name, sorted.
func (m *Memory) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.data))
	for name := range m.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetHistory returns up to limit versions of name, newest first.
func (m *Memory) GetHistory(name string, limit int) ([]VersionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	history := slices.Clone(m.versions[name])
	slices.Reverse(history)
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}

// GetMetadata retrieves a metadata value by key.
func (m *Memory) GetMetadata(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metadata[key], nil
}

// SetMetadata stores a metadata value by key.
func (m *Memory) SetMetadata(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[key] = value
	return nil
}
