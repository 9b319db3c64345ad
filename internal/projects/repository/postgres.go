package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/projectpulse/pulse-backend/internal/apperr"
	"github.com/projectpulse/pulse-backend/internal/projects/domain"
)

const projectColumns = `id, title, description, status, priority, due_date, created_by, created_at, updated_at`

// PostgresStore persists projects in the projects table.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p   domain.Project
		due sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Status, &p.Priority, &due,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if due.Valid {
		d := domain.NewDate(due.Time)
		p.DueDate = &d
	}
	return &p, nil
}

func dueArg(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

func (r *PostgresStore) Insert(ctx context.Context, createdBy string, f domain.Fields) (*domain.Project, error) {
	q := `
INSERT INTO projects (id, title, description, status, priority, due_date, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
RETURNING ` + projectColumns + `;
`
	now := r.now().UTC()
	p, err := scanProject(r.db.QueryRowContext(ctx, q, uuid.NewString(), f.Title, f.Description,
		string(f.Status), string(f.Priority), dueArg(f.DueDate), createdBy, now))
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

// likeEscaper makes user search text match literally inside ILIKE.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *PostgresStore) List(ctx context.Context, filter domain.Filter) ([]domain.Project, error) {
	var (
		where []string
		args  []any
	)
	if filter.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(`(title ILIKE $%d ESCAPE '\' OR description ILIKE $%d ESCAPE '\')`, n, n))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, string(filter.Priority))
		where = append(where, fmt.Sprintf("priority = $%d", len(args)))
	}

	q := "SELECT " + projectColumns + " FROM projects"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

func (r *PostgresStore) Get(ctx context.Context, id string) (*domain.Project, error) {
	q := "SELECT " + projectColumns + " FROM projects WHERE id = $1;"
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("project")
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// Update overwrites the editable fields. updated_at never moves backwards,
// so a racing writer with a slower clock still produces a newer stamp.
func (r *PostgresStore) Update(ctx context.Context, id string, f domain.Fields) (*domain.Project, error) {
	q := `
UPDATE projects
SET title = $2, description = $3, status = $4, priority = $5, due_date = $6,
    updated_at = GREATEST($7, updated_at + interval '1 microsecond')
WHERE id = $1
RETURNING ` + projectColumns + `;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id, f.Title, f.Description,
		string(f.Status), string(f.Priority), dueArg(f.DueDate), r.now().UTC()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("project")
	}
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

func (r *PostgresStore) Delete(ctx context.Context, id string) (*domain.Project, error) {
	q := "DELETE FROM projects WHERE id = $1 RETURNING " + projectColumns + ";"
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("project")
	}
	if err != nil {
		return nil, fmt.Errorf("delete project: %w", err)
	}
	return p, nil
}
