package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/projectpulse/pulse-backend/internal/apperr"
	"github.com/projectpulse/pulse-backend/internal/auth"
	"github.com/projectpulse/pulse-backend/internal/validation"
)

// Login authenticates or registers a user and returns a session token.
func (h *Handler) Login(c *gin.Context) {
	var in validation.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	sess, err := h.authService.Login(c.Request.Context(), in)
	if err != nil {
		apperr.Respond(c, "auth.login", err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token:     sess.Token,
		User:      sess.User,
		ExpiresAt: sess.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Me returns the caller as identified by their token.
func (h *Handler) Me(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		apperr.Respond(c, "auth.me", apperr.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": p.Public()})
}
