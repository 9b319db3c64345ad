package repository

import (
	"context"
	"sync"

	"github.com/projectpulse/pulse-backend/internal/apperr"
	"github.com/projectpulse/pulse-backend/internal/auth/domain"
)

// MemoryStore keeps users for the lifetime of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]domain.User)}
}

func (m *MemoryStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[username]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	return &u, nil
}

func (m *MemoryStore) Insert(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[u.Username]; exists {
		return ErrDuplicateUsername
	}
	m.users[u.Username] = *u
	return nil
}
