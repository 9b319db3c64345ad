package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/projectpulse/pulse-backend/internal/apperr"
	"github.com/projectpulse/pulse-backend/internal/auth"
	"github.com/projectpulse/pulse-backend/internal/auth/domain"
)

// Authenticator resolves a bearer token to the calling principal.
type Authenticator interface {
	Authenticate(token string) (domain.Principal, error)
}

// RequireAuth validates the session token and stores the principal in the
// gin context. allowQuery also accepts ?token= for clients that cannot set
// headers on a websocket upgrade.
func RequireAuth(authn Authenticator, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" && allowQuery {
			token = c.Query("token")
		}
		if token == "" {
			apperr.Respond(c, "auth.require", apperr.ErrUnauthenticated)
			c.Abort()
			return
		}

		principal, err := authn.Authenticate(token)
		if err != nil {
			apperr.Respond(c, "auth.require", err)
			c.Abort()
			return
		}

		auth.SetPrincipal(c, principal)
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.EqualFold(bearerToken[:7], "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
