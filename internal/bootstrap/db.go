package bootstrap

import (
	"context"
	"database/sql"
	"time"

	"github.com/projectpulse/pulse-backend/internal/storage"
)

type DBOptions struct {
	DSN           string
	ProbeSchedule string
	MigrateTO     time.Duration
}

// OpenDB opens the durable store and a monitor that probes it. Without a DSN
// both the handle and the monitor's pinger are nil and every store runs in
// memory. The schema is applied on the first successful probe.
func OpenDB(opt DBOptions) (*sql.DB, *storage.Monitor, error) {
	if opt.DSN == "" {
		return nil, storage.NewMonitor(nil), nil
	}
	if opt.MigrateTO == 0 {
		opt.MigrateTO = 10 * time.Second
	}

	db, err := storage.OpenPostgres(opt.DSN)
	if err != nil {
		return nil, nil, err
	}

	mon := storage.NewMonitor(db)
	mon.OnConnect(func(ctx context.Context) error {
		mctx, cancel := context.WithTimeout(ctx, opt.MigrateTO)
		defer cancel()
		return storage.Migrate(mctx, db)
	})
	return db, mon, nil
}
