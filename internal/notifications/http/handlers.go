package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projectpulse/pulse-backend/internal/apperr"
	"github.com/projectpulse/pulse-backend/internal/auth"
)

func (h *Handler) list(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		apperr.Respond(c, "notifications.list", apperr.ErrUnauthenticated)
		return
	}

	items, err := h.feed.Recent(c.Request.Context(), p)
	if err != nil {
		apperr.Respond(c, "notifications.list", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) markRead(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		apperr.Respond(c, "notifications.mark_read", apperr.ErrUnauthenticated)
		return
	}

	n, err := h.feed.MarkRead(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		apperr.Respond(c, "notifications.mark_read", err)
		return
	}
	c.JSON(http.StatusOK, n)
}
