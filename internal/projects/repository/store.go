package repository

import (
	"context"

	"github.com/projectpulse/pulse-backend/internal/projects/domain"
)

// Store is the project record store. Get, Update and Delete return an error
// matching apperr.ErrNotFound for unknown ids.
type Store interface {
	Insert(ctx context.Context, createdBy string, f domain.Fields) (*domain.Project, error)
	List(ctx context.Context, filter domain.Filter) ([]domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Update(ctx context.Context, id string, f domain.Fields) (*domain.Project, error)
	Delete(ctx context.Context, id string) (*domain.Project, error)
}
