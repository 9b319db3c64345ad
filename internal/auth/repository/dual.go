package repository

import (
	"context"

	"github.com/projectpulse/pulse-backend/internal/auth/domain"
	"github.com/projectpulse/pulse-backend/internal/storage"
)

// DualStore routes each call to Postgres or memory depending on whether the
// durable store is reachable at call time.
type DualStore struct {
	modes *storage.DualMode[Store]
}

func NewDualStore(durable, fallback Store, probe storage.Probe) *DualStore {
	return &DualStore{modes: storage.NewDualMode(durable, fallback, probe)}
}

func (d *DualStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return storage.Call(ctx, d.modes, "users.find", func(s Store) (*domain.User, error) {
		return s.FindByUsername(ctx, username)
	})
}

func (d *DualStore) Insert(ctx context.Context, u *domain.User) error {
	_, err := storage.Call(ctx, d.modes, "users.insert", func(s Store) (struct{}, error) {
		return struct{}{}, s.Insert(ctx, u)
	})
	return err
}
