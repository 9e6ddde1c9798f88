package store

import "sync"

// Memory is an in-process Store, used by the simulator and tests
type Memory struct {
	mu    sync.Mutex
	rec   Record
	saved bool
	saves int
}

// NewMemory returns an empty memory store
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWith returns a memory store pre-loaded with rec
func NewMemoryWith(rec Record) *Memory {
	return &Memory{rec: rec, saved: true}
}

// Load implements Store
func (m *Memory) Load() (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return Record{}, ErrNotFound
	}
	return m.rec, nil
}

// Save implements Store
func (m *Memory) Save(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = rec
	m.saved = true
	m.saves++
	return nil
}

// Saves returns how many times Save has been called
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
