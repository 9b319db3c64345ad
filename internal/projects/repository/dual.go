package repository

import (
	"context"

	"github.com/projectpulse/pulse-backend/internal/projects/domain"
	"github.com/projectpulse/pulse-backend/internal/storage"
)

// DualStore picks the Postgres or the memory store on every call.
type DualStore struct {
	modes *storage.DualMode[Store]
}

func NewDualStore(durable, fallback Store, probe storage.Probe) *DualStore {
	return &DualStore{modes: storage.NewDualMode(durable, fallback, probe)}
}

// Mode reports which backend the next call will use.
func (d *DualStore) Mode() string {
	return d.modes.Mode()
}

func (d *DualStore) Insert(ctx context.Context, createdBy string, f domain.Fields) (*domain.Project, error) {
	return storage.Call(ctx, d.modes, "projects.insert", func(s Store) (*domain.Project, error) {
		return s.Insert(ctx, createdBy, f)
	})
}

func (d *DualStore) List(ctx context.Context, filter domain.Filter) ([]domain.Project, error) {
	return storage.Call(ctx, d.modes, "projects.list", func(s Store) ([]domain.Project, error) {
		return s.List(ctx, filter)
	})
}

func (d *DualStore) Get(ctx context.Context, id string) (*domain.Project, error) {
	return storage.Call(ctx, d.modes, "projects.get", func(s Store) (*domain.Project, error) {
		return s.Get(ctx, id)
	})
}

func (d *DualStore) Update(ctx context.Context, id string, f domain.Fields) (*domain.Project, error) {
	return storage.Call(ctx, d.modes, "projects.update", func(s Store) (*domain.Project, error) {
		return s.Update(ctx, id, f)
	})
}

func (d *DualStore) Delete(ctx context.Context, id string) (*domain.Project, error) {
	return storage.Call(ctx, d.modes, "projects.delete", func(s Store) (*domain.Project, error) {
		return s.Delete(ctx, id)
	})
}
