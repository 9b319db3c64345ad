package http

import "github.com/gin-gonic/gin"

// Register attaches notification routes to an authenticated group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.PUT("/:id/read", h.markRead)
}
