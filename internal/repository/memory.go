package repository

import (
	"context"
	"sync"
)

// MemoryBlobStore keeps blobs in a map. Nothing survives a restart.
type MemoryBlobStore struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		Data: make(map[string][]byte),
	}
}

func (m *MemoryBlobStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok, nil
}

func (m *MemoryBlobStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = append([]byte(nil), value...)
	return nil
}
