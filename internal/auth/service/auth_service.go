package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/projectpulse/pulse-backend/internal/apperr"
	"github.com/projectpulse/pulse-backend/internal/auth"
	"github.com/projectpulse/pulse-backend/internal/auth/domain"
	"github.com/projectpulse/pulse-backend/internal/auth/repository"
	"github.com/projectpulse/pulse-backend/internal/authz"
	"github.com/projectpulse/pulse-backend/internal/logging"
	"github.com/projectpulse/pulse-backend/internal/validation"
)

const DefaultBcryptCost = 10

type AuthService struct {
	users  repository.Store
	tokens *auth.TokenIssuer
	cost   int
	now    func() time.Time
}

func NewAuthService(users repository.Store, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		cost:   DefaultBcryptCost,
		now:    time.Now,
	}
}

// WithBcryptCost lowers the hashing cost; tests use bcrypt.MinCost.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// Login authenticates a username and password, registering the user on first
// sight with the requested role. For a known user the stored role is kept and
// the requested one is ignored.
func (s *AuthService) Login(ctx context.Context, in validation.LoginInput) (*domain.Session, error) {
	creds, err := validation.Login(in)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, creds.Username)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		user, err = s.register(ctx, creds)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("lookup user: %w", err)
	default:
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
			return nil, apperr.ErrInvalidCredentials
		}
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Infof("auth.login", "user=%s role=%s", user.Username, user.Role)
	return &domain.Session{Token: token, User: user.Public(), ExpiresAt: expiresAt}, nil
}

func (s *AuthService) register(ctx context.Context, creds validation.LoginInput) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     creds.Username,
		PasswordHash: string(hash),
		Role:         authz.Role(creds.Role),
		CreatedAt:    s.now().UTC(),
	}

	err = s.users.Insert(ctx, user)
	if errors.Is(err, repository.ErrDuplicateUsername) {
		// lost a race with a concurrent first login; authenticate against the winner
		existing, ferr := s.users.FindByUsername(ctx, creds.Username)
		if ferr != nil {
			return nil, fmt.Errorf("lookup user: %w", ferr)
		}
		if bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(creds.Password)) != nil {
			return nil, apperr.ErrInvalidCredentials
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	logging.FromContext(ctx).Infof("auth.register", "user=%s role=%s", user.Username, user.Role)
	return user, nil
}

// Authenticate resolves a session token to its principal.
func (s *AuthService) Authenticate(token string) (domain.Principal, error) {
	return s.tokens.Parse(token)
}
