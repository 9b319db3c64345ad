package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/projectpulse/pulse-backend/internal/apperr"
	"github.com/projectpulse/pulse-backend/internal/projects/domain"
)

// MemoryStore is the ephemeral project store used while Postgres is absent
// or unreachable. Records are kept in insertion order.
type MemoryStore struct {
	mu       sync.RWMutex
	projects []domain.Project
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) Insert(_ context.Context, createdBy string, f domain.Fields) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	if n := len(m.projects); n > 0 && !now.After(m.projects[n-1].CreatedAt) {
		now = m.projects[n-1].CreatedAt.Add(time.Microsecond)
	}
	p := domain.Project{
		ID:          uuid.NewString(),
		Title:       f.Title,
		Description: f.Description,
		Status:      f.Status,
		Priority:    f.Priority,
		DueDate:     f.DueDate,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.projects = append(m.projects, p)
	return &p, nil
}

// List returns matching projects, newest first.
func (m *MemoryStore) List(_ context.Context, filter domain.Filter) ([]domain.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Project, 0, len(m.projects))
	for i := len(m.projects) - 1; i >= 0; i-- {
		if filter.Matches(m.projects[i]) {
			out = append(out, m.projects[i])
		}
	}
	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*domain.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, apperr.NotFound("project")
	}
	p := m.projects[i]
	return &p, nil
}

func (m *MemoryStore) Update(_ context.Context, id string, f domain.Fields) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, apperr.NotFound("project")
	}
	f.Apply(&m.projects[i], m.now().UTC())
	p := m.projects[i]
	return &p, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, apperr.NotFound("project")
	}
	p := m.projects[i]
	m.projects = append(m.projects[:i], m.projects[i+1:]...)
	return &p, nil
}

func (m *MemoryStore) indexOf(id string) int {
	for i := range m.projects {
		if m.projects[i].ID == id {
			return i
		}
	}
	return -1
}
