package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/projectpulse/pulse-backend/internal/apperr"
	"github.com/projectpulse/pulse-backend/internal/notifications/domain"
)

// MemoryStore keeps notifications in insertion order for the life of the
// process.
type MemoryStore struct {
	mu    sync.RWMutex
	items []domain.Notification
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) Insert(_ context.Context, n domain.Notification) (*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n.ID = uuid.NewString()
	n.Read = false
	n.CreatedAt = m.now().UTC()
	if k := len(m.items); k > 0 && !n.CreatedAt.After(m.items[k-1].CreatedAt) {
		n.CreatedAt = m.items[k-1].CreatedAt.Add(time.Microsecond)
	}
	m.items = append(m.items, n)
	return &n, nil
}

// ListRecent returns up to limit notifications, newest first.
func (m *MemoryStore) ListRecent(_ context.Context, limit int) ([]domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > len(m.items) {
		limit = len(m.items)
	}
	out := make([]domain.Notification, 0, limit)
	for i := len(m.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.items[i])
	}
	return out, nil
}

func (m *MemoryStore) MarkRead(_ context.Context, id string) (*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Read = true
			n := m.items[i]
			return &n, nil
		}
	}
	return nil, apperr.NotFound("notification")
}
