package http

import (
	"context"

	authdomain "github.com/projectpulse/pulse-backend/internal/auth/domain"
	"github.com/projectpulse/pulse-backend/internal/notifications/domain"
)

// Feed is what the notification handlers need from the service.
type Feed interface {
	Recent(ctx context.Context, p authdomain.Principal) ([]domain.Notification, error)
	MarkRead(ctx context.Context, p authdomain.Principal, id string) (*domain.Notification, error)
}

// Handler bundles the dependencies for notification HTTP endpoints.
type Handler struct {
	feed Feed
}

func New(feed Feed) *Handler {
	return &Handler{feed: feed}
}
