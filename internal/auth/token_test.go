package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectpulse/pulse-backend/internal/apperr"
	"github.com/projectpulse/pulse-backend/internal/auth/domain"
	"github.com/projectpulse/pulse-backend/internal/authz"
)

func testUser() *domain.User {
	return &domain.User{ID: "user-1", Username: "alice", Role: authz.RoleAdmin}
}

func TestIssueAndParseToken(t *testing.T) {
	issuer := NewTokenIssuer("secret", 24*time.Hour)

	token, expiresAt, err := issuer.Issue(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	p, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Principal{UserID: "user-1", Username: "alice", Role: authz.RoleAdmin}, p)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	issuer := NewTokenIssuer("secret", 24*time.Hour).WithClock(func() time.Time { return now })

	token, _, err := issuer.Issue(testUser())
	require.NoError(t, err)

	now = start.Add(23 * time.Hour)
	_, err = issuer.Parse(token)
	require.NoError(t, err)

	now = start.Add(24*time.Hour + time.Second)
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	token, _, err := NewTokenIssuer("other", time.Hour).Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).Parse(token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestParseTokenRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{UserID: "user-1", Username: "alice", Role: "admin", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).Parse(token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestParseTokenRejectsUnknownRole(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, _, err := issuer.Issue(&domain.User{ID: "user-1", Username: "alice", Role: authz.Role("root")})
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}
