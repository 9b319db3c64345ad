package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/projectpulse/pulse-backend/internal/api/http"
	apimw "github.com/projectpulse/pulse-backend/internal/api/http/middleware"
	authhttp "github.com/projectpulse/pulse-backend/internal/auth/http"
	authmw "github.com/projectpulse/pulse-backend/internal/auth/middleware"
	notifhttp "github.com/projectpulse/pulse-backend/internal/notifications/http"
	projecthttp "github.com/projectpulse/pulse-backend/internal/projects/http"
	"github.com/projectpulse/pulse-backend/internal/realtime"
)

type RouterDeps struct {
	ServiceName     string
	Version         string
	CORSOrigins     []string
	LoginRatePerMin int
	LoginBurst      int
	App             *App
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(apimw.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  len(dep.CORSOrigins) == 0,
		AllowOrigins:     dep.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", apimw.RequestIDHeader},
		ExposeHeaders:    []string{apimw.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	app := dep.App
	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, app.ProjectStore, app.Hub)
	healthHandler.RegisterRoutes(r)

	public := r.Group("/api")
	authed := r.Group("/api", authmw.RequireAuth(app.Auth, false))

	var loginGuard []gin.HandlerFunc
	if dep.LoginRatePerMin > 0 {
		loginGuard = append(loginGuard, apimw.NewIPRateLimiter(dep.LoginRatePerMin, dep.LoginBurst).Middleware())
	}
	authhttp.New(app.Auth).Register(public, authed, loginGuard...)

	projecthttp.New(app.Projects).Register(authed.Group("/projects"))
	notifhttp.New(app.Notifications).Register(authed.Group("/notifications"))

	// browsers cannot set headers on a websocket upgrade
	wsGroup := r.Group("/", authmw.RequireAuth(app.Auth, true))
	realtime.NewHandler(app.Hub, dep.CORSOrigins).Register(wsGroup)

	return r
}
