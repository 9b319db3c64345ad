package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projectpulse/pulse-backend/internal/apperr"
	"github.com/projectpulse/pulse-backend/internal/auth"
	"github.com/projectpulse/pulse-backend/internal/validation"
)

func (h *Handler) list(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		apperr.Respond(c, "projects.list", apperr.ErrUnauthenticated)
		return
	}

	var q validation.QueryInput
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}

	items, err := h.svc.List(c.Request.Context(), p, q)
	if err != nil {
		apperr.Respond(c, "projects.list", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) create(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		apperr.Respond(c, "projects.create", apperr.ErrUnauthenticated)
		return
	}

	var in validation.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	project, err := h.svc.Create(c.Request.Context(), p, in)
	if err != nil {
		apperr.Respond(c, "projects.create", err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *Handler) update(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		apperr.Respond(c, "projects.update", apperr.ErrUnauthenticated)
		return
	}

	var in validation.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	project, err := h.svc.Update(c.Request.Context(), p, c.Param("id"), in)
	if err != nil {
		apperr.Respond(c, "projects.update", err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *Handler) delete(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		apperr.Respond(c, "projects.delete", apperr.ErrUnauthenticated)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		apperr.Respond(c, "projects.delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
