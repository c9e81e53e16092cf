package formstate

import (
	"context"
	"sync"
)

// Persistence is the durable per-session slot the store writes through to.
type Persistence interface {
	// Save stores value under key, replacing any previous value.
	Save(ctx context.Context, key string, value []byte) error

	// Load returns the value stored under key. ok is false when the key
	// has never been saved or was deleted.
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// MemoryPersistence keeps slots in process memory.
type MemoryPersistence struct {
	mu     sync.Mutex
	slots  map[string][]byte
	writes int
}

// NewMemoryPersistence returns an empty in-memory slot set.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{slots: make(map[string][]byte)}
}

func (m *MemoryPersistence) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = append([]byte(nil), value...)
	m.writes++
	return nil
}

func (m *MemoryPersistence) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.slots[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryPersistence) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

// Writes returns the number of Save calls so far.
func (m *MemoryPersistence) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
