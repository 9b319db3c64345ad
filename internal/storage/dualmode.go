package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/projectpulse/pulse-backend/internal/apperr"
	"github.com/projectpulse/pulse-backend/internal/logging"
)

const (
	ModeDurable = "durable"
	ModeMemory  = "memory"
)

// Probe reports whether the durable backend is reachable right now.
type Probe interface {
	Connected() bool
	MarkDown(err error)
}

// DualMode holds a durable and an in-memory implementation of the same store
// and picks one on every call.
type DualMode[S any] struct {
	durable  S
	fallback S
	probe    Probe
}

func NewDualMode[S any](durable, fallback S, probe Probe) *DualMode[S] {
	return &DualMode[S]{durable: durable, fallback: fallback, probe: probe}
}

// Mode returns the backend the next call would use.
func (d *DualMode[S]) Mode() string {
	if d.probe != nil && d.probe.Connected() {
		return ModeDurable
	}
	return ModeMemory
}

// Call runs fn against the selected backend. A connectivity failure on the
// durable backend marks it down and the call is repeated in memory.
func Call[S any, T any](ctx context.Context, d *DualMode[S], operation string, fn func(S) (T, error)) (T, error) {
	if d.Mode() == ModeDurable {
		v, err := fn(d.durable)
		if err == nil || !IsUnavailable(err) {
			return v, err
		}
		d.probe.MarkDown(err)
		logging.FromContext(ctx).Warnf(operation, "durable store unreachable, using memory: %v", err)
	}
	return fn(d.fallback)
}

// IsUnavailable reports whether err means the durable store could not be
// reached, as opposed to a query-level failure.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, apperr.ErrUnavailable) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
