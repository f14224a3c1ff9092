package store

import (
	"context"
	"sync"

	"github.com/woodfy/workshop-api/internal/domain"
)

// Persister is the durable side of the store. Load is called once at
// startup; Save receives the full snapshot after every committed mutation.
type Persister interface {
	Load(ctx context.Context) (map[domain.Collection][]byte, error)
	Save(ctx context.Context, blobs map[domain.Collection][]byte) error
}

// MemoryPersister keeps the last saved snapshot in memory
type MemoryPersister struct {
	mu      sync.Mutex
	blobs   map[domain.Collection][]byte
	saves   int
	saveErr error
}

// NewMemoryPersister creates an empty in-memory persister
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{blobs: make(map[domain.Collection][]byte)}
}

// Load returns a copy of the last saved blobs
func (m *MemoryPersister) Load(ctx context.Context) (map[domain.Collection][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[domain.Collection][]byte, len(m.blobs))
	for k, v := range m.blobs {
		out[k] = append([]byte(nil), v...)
	}
	return out, nil
}

// Save replaces the stored blobs, or fails with the error set by FailWith
func (m *MemoryPersister) Save(ctx context.Context, blobs map[domain.Collection][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	m.blobs = make(map[domain.Collection][]byte, len(blobs))
	for k, v := range blobs {
		m.blobs[k] = append([]byte(nil), v...)
	}
	m.saves++
	return nil
}

// FailWith makes every following Save return err. Pass nil to recover.
func (m *MemoryPersister) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Saves returns how many snapshots were written
func (m *MemoryPersister) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
