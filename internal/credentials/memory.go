package credentials

import (
	"context"
	"sync"
)

// MemoryStore keeps the password in process memory. Tests use it to avoid
// touching persisted configuration.
type MemoryStore struct {
	mu       sync.RWMutex
	password string
	custom   bool
}

func NewMemoryStore(defaultPassword string) *MemoryStore {
	return &MemoryStore{password: defaultPassword}
}

func (m *MemoryStore) System(ctx context.Context) (Credential, error) {
	p, err := m.SystemPassword(ctx)
	return Credential{Password: p, Scope: ScopeSystem}, err
}

func (m *MemoryStore) SystemPassword(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.password, nil
}

func (m *MemoryStore) SetSystemPassword(_ context.Context, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.password = password
	m.custom = true
	return nil
}

func (m *MemoryStore) HasCustomPassword(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.custom, nil
}
