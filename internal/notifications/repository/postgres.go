package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/projectpulse/pulse-backend/internal/apperr"
	"github.com/projectpulse/pulse-backend/internal/notifications/domain"
)

// PostgresStore persists notifications in the notifications table.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (r *PostgresStore) Insert(ctx context.Context, n domain.Notification) (*domain.Notification, error) {
	const q = `
INSERT INTO notifications (id, message, type, project_id, user_id, read, created_at)
VALUES ($1, $2, $3, $4, $5, FALSE, $6);
`
	n.ID = uuid.NewString()
	n.Read = false
	n.CreatedAt = r.now().UTC()

	if _, err := r.db.ExecContext(ctx, q, n.ID, n.Message, string(n.Type), n.ProjectID, n.UserID, n.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return &n, nil
}

func (r *PostgresStore) ListRecent(ctx context.Context, limit int) ([]domain.Notification, error) {
	const q = `
SELECT id, message, type, project_id, user_id, read, created_at
FROM notifications
ORDER BY created_at DESC
LIMIT $1;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Notification, 0, limit)
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.Message, &n.Type, &n.ProjectID, &n.UserID, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// MarkRead sets the read flag. Marking an already-read notification is a
// no-op that still returns the record.
func (r *PostgresStore) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	const q = `
UPDATE notifications
SET read = TRUE
WHERE id = $1
RETURNING id, message, type, project_id, user_id, read, created_at;
`
	var n domain.Notification
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&n.ID, &n.Message, &n.Type, &n.ProjectID, &n.UserID, &n.Read, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("notification")
	}
	if err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return &n, nil
}
