package http

import "github.com/gin-gonic/gin"

// Register mounts the login route on public and the identity route on
// authed, which must already carry the auth middleware. loginGuard runs in
// front of login only.
func (h *Handler) Register(public, authed *gin.RouterGroup, loginGuard ...gin.HandlerFunc) {
	public.POST("/auth/login", append(loginGuard, h.Login)...)
	authed.GET("/auth/me", h.Me)
}
