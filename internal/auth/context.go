package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/projectpulse/pulse-backend/internal/auth/domain"
)

const (
	CtxPrincipal = "principal"
)

// SetPrincipal stores the authenticated caller on the gin context.
func SetPrincipal(c *gin.Context, p domain.Principal) {
	c.Set(CtxPrincipal, p)
}

// PrincipalFrom returns the caller set by the auth middleware.
func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(CtxPrincipal)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}
