package repository

import (
	"context"

	"github.com/projectpulse/pulse-backend/internal/notifications/domain"
)

// Store is the notification record store. Insert assigns the id and
// creation time; MarkRead returns apperr.ErrNotFound for unknown ids.
type Store interface {
	Insert(ctx context.Context, n domain.Notification) (*domain.Notification, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) (*domain.Notification, error)
}
