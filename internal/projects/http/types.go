package http

import (
	"context"

	authdomain "github.com/projectpulse/pulse-backend/internal/auth/domain"
	"github.com/projectpulse/pulse-backend/internal/projects/domain"
	"github.com/projectpulse/pulse-backend/internal/validation"
)

// Coordinator is the project service as seen by the handlers.
type Coordinator interface {
	List(ctx context.Context, p authdomain.Principal, q validation.QueryInput) ([]domain.Project, error)
	Create(ctx context.Context, p authdomain.Principal, in validation.ProjectInput) (*domain.Project, error)
	Update(ctx context.Context, p authdomain.Principal, id string, in validation.ProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, p authdomain.Principal, id string) error
}

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc Coordinator
}

func New(svc Coordinator) *Handler {
	return &Handler{svc: svc}
}
