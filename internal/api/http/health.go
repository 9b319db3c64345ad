package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Store     string    `json:"store"`
	Sessions  int       `json:"sessions"`
}

// StoreModer reports which record store backend is in use.
type StoreModer interface {
	Mode() string
}

// SessionCounter reports the number of live realtime sessions.
type SessionCounter interface {
	Sessions() int
}

type HealthHandler struct {
	serviceName string
	version     string
	store       StoreModer
	sessions    SessionCounter
}

func NewHealthHandler(serviceName, version string, store StoreModer, sessions SessionCounter) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		store:       store,
		sessions:    sessions,
	}
}

// HealthCheck always answers 200: the service stays usable on the memory
// store while Postgres is down.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Store:     "memory",
	}
	if h.store != nil {
		resp.Store = h.store.Mode()
	}
	if h.sessions != nil {
		resp.Sessions = h.sessions.Sessions()
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
