package http

import (
	"context"

	"github.com/projectpulse/pulse-backend/internal/auth/domain"
	"github.com/projectpulse/pulse-backend/internal/validation"
)

// LoginService is the part of the auth service the handlers use.
type LoginService interface {
	Login(ctx context.Context, in validation.LoginInput) (*domain.Session, error)
}

type Handler struct {
	authService LoginService
}

func New(authService LoginService) *Handler {
	return &Handler{
		authService: authService,
	}
}

type loginResponse struct {
	Token     string            `json:"token"`
	User      domain.PublicUser `json:"user"`
	ExpiresAt string            `json:"expiresAt"`
}
