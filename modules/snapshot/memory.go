package snapshot

import (
	"context"
	"sync"
)

// memoryStore keeps encoded snapshots in process memory. Snapshots do not
// survive a restart.
type memoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) Load(_ context.Context, key string, dest any) (bool, error) {
	m.mu.RLock()
	data, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, decode(key, data, dest)
}

func (m *memoryStore) Save(_ context.Context, key string, value any) error {
	data, err := encode(key, value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = data
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Close() error {
	return nil
}
