package repository

import (
	"context"
	"errors"

	"github.com/projectpulse/pulse-backend/internal/auth/domain"
)

// ErrDuplicateUsername is returned by Insert when the username is taken.
var ErrDuplicateUsername = errors.New("username already exists")

// Store persists users. FindByUsername returns apperr.ErrNotFound (wrapped)
// for unknown names.
type Store interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Insert(ctx context.Context, u *domain.User) error
}
