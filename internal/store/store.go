// Package store persists the last applied state descriptor so the pattern
// survives daemon restarts.
package store

import "sync"

// Store saves and restores state descriptors keyed by LED name.
type Store interface {
	// Save records the descriptor for the named LED, replacing any
	// previous value.
	Save(name, descriptor string) error
	// Load returns the stored descriptor, or "" if none has been saved.
	Load(name string) (string, error)
	// Delete removes the stored descriptor, if any.
	Delete(name string) error
	Close() error
}

// MemoryStore is an in-memory Store for tests and for running without a
// database path configured.
type MemoryStore struct {
	mu          sync.RWMutex
	descriptors map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{descriptors: make(map[string]string)}
}

func (m *MemoryStore) Save(name, descriptor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.descriptors[name] = descriptor
	return nil
}

func (m *MemoryStore) Load(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.descriptors[name], nil
}

func (m *MemoryStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.descriptors, name)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
