package repository

import (
	"context"
	"net/url"
	"sync"
)

// MemoryParamStore is used when no Redis address is configured. Parameters
// live as long as the process.
type MemoryParamStore struct {
	mu     sync.RWMutex
	params map[string]string
}

func NewMemoryParamStore() *MemoryParamStore {
	return &MemoryParamStore{params: make(map[string]string)}
}

func (m *MemoryParamStore) Load(_ context.Context, id string) (url.Values, bool, error) {
	m.mu.RLock()
	raw, ok := m.params[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	values, _ := url.ParseQuery(raw)
	return values, true, nil
}

func (m *MemoryParamStore) Save(_ context.Context, id string, params url.Values) error {
	m.mu.Lock()
	m.params[id] = params.Encode()
	m.mu.Unlock()
	return nil
}

func (m *MemoryParamStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.params, id)
	m.mu.Unlock()
	return nil
}
