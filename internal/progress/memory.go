package progress

import (
	"context"
	"sync"
)

// MemoryPersister keeps the persisted bytes in memory. It backs tests and
// sessions started with persistence disabled.
type MemoryPersister struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	LoadErr error
	SaveErr error
}

// NewMemoryPersister returns a persister preloaded with data.
func NewMemoryPersister(data []byte) *MemoryPersister {
	return &MemoryPersister{data: append([]byte(nil), data...)}
}

func (m *MemoryPersister) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryPersister) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = append([]byte(nil), data...)
	m.saves++
	return nil
}

// Bytes returns the last saved bytes.
func (m *MemoryPersister) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// Saves returns how many successful saves happened.
func (m *MemoryPersister) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
