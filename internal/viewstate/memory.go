package viewstate

import (
	"context"
	"sync"
)

// MemoryPrefs is a process-local Prefs. Nothing survives the process; it
// serves when the state database is unavailable.
type MemoryPrefs struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryPrefs creates an empty MemoryPrefs.
func NewMemoryPrefs() *MemoryPrefs {
	return &MemoryPrefs{values: make(map[string]string)}
}

func (m *MemoryPrefs) GetState(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryPrefs) SetState(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
