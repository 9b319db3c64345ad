package repository

import (
	"context"

	"github.com/projectpulse/pulse-backend/internal/notifications/domain"
	"github.com/projectpulse/pulse-backend/internal/storage"
)

// DualStore picks the Postgres or the memory store on every call.
type DualStore struct {
	modes *storage.DualMode[Store]
}

func NewDualStore(durable, fallback Store, probe storage.Probe) *DualStore {
	return &DualStore{modes: storage.NewDualMode(durable, fallback, probe)}
}

func (d *DualStore) Insert(ctx context.Context, n domain.Notification) (*domain.Notification, error) {
	return storage.Call(ctx, d.modes, "notifications.insert", func(s Store) (*domain.Notification, error) {
		return s.Insert(ctx, n)
	})
}

func (d *DualStore) ListRecent(ctx context.Context, limit int) ([]domain.Notification, error) {
	return storage.Call(ctx, d.modes, "notifications.list", func(s Store) ([]domain.Notification, error) {
		return s.ListRecent(ctx, limit)
	})
}

func (d *DualStore) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	return storage.Call(ctx, d.modes, "notifications.mark_read", func(s Store) (*domain.Notification, error) {
		return s.MarkRead(ctx, id)
	})
}
