package helpers

import (
	"context"
	"encoding/json"
	"sync"
)

type cachedRoute struct {
	kind    string
	records json.RawMessage
}

// MockRouteCache is an in-memory route cache
type MockRouteCache struct {
	mu     sync.Mutex
	routes map[string]cachedRoute
	err    error
}

func NewMockRouteCache() *MockRouteCache {
	return &MockRouteCache{routes: make(map[string]cachedRoute)}
}

func (m *MockRouteCache) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockRouteCache) Get(ctx context.Context, key string) (string, json.RawMessage, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", nil, false, m.err
	}
	cached, ok := m.routes[key]
	return cached.kind, cached.records, ok, nil
}

func (m *MockRouteCache) Put(ctx context.Context, key, kind string, records json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.routes[key] = cachedRoute{kind: kind, records: records}
	return nil
}

// Keys returns the cached keys
func (m *MockRouteCache) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.routes))
	for key := range m.routes {
		keys = append(keys, key)
	}
	return keys
}
