package store

import (
	"context"
	"sync"
)

// MemoryKV keeps values in process memory. State is lost on restart; it
// backs tests and the fallback when no external store is reachable.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Apply builds the next map aside and swaps it in, so readers never see
// a partial write.
func (m *MemoryKV) Apply(_ context.Context, set map[string][]byte, del []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make(map[string][]byte, len(m.data)+len(set))
	for k, v := range m.data {
		next[k] = v
	}
	for k, v := range set {
		next[k] = append([]byte(nil), v...)
	}
	for _, k := range del {
		delete(next, k)
	}
	m.data = next
	return nil
}

func (m *MemoryKV) Close() error { return nil }
