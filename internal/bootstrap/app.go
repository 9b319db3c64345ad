package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/projectpulse/pulse-backend/config"
	"github.com/projectpulse/pulse-backend/internal/auth"
	authrepo "github.com/projectpulse/pulse-backend/internal/auth/repository"
	authservice "github.com/projectpulse/pulse-backend/internal/auth/service"
	notifrepo "github.com/projectpulse/pulse-backend/internal/notifications/repository"
	notifservice "github.com/projectpulse/pulse-backend/internal/notifications/service"
	projectrepo "github.com/projectpulse/pulse-backend/internal/projects/repository"
	projectservice "github.com/projectpulse/pulse-backend/internal/projects/service"
	"github.com/projectpulse/pulse-backend/internal/realtime"
	"github.com/projectpulse/pulse-backend/internal/storage"
)

// App holds the long-lived services of one API process.
type App struct {
	DB      *sql.DB
	Monitor *storage.Monitor
	Hub     *realtime.Hub
	Redis   *redis.Client
	Relay   *realtime.RedisRelay

	ProjectStore  *projectrepo.DualStore
	Auth          *authservice.AuthService
	Projects      *projectservice.ProjectService
	Notifications *notifservice.NotificationService

	cancel context.CancelFunc
}

// NewApp wires stores, services and the broadcast path from cfg. Nothing is
// contacted until Start.
func NewApp(cfg *config.Config) (*App, error) {
	db, mon, err := OpenDB(DBOptions{DSN: cfg.Database.DSN, ProbeSchedule: cfg.Database.ProbeSchedule})
	if err != nil {
		return nil, err
	}

	a := &App{DB: db, Monitor: mon, Hub: realtime.NewHub(realtime.DefaultQueueSize)}

	var (
		users         authrepo.Store    = authrepo.NewMemoryStore()
		projects      projectrepo.Store = projectrepo.NewMemoryStore()
		notifications notifrepo.Store   = notifrepo.NewMemoryStore()
	)
	if db != nil {
		users = authrepo.NewDualStore(authrepo.NewPostgresStore(db), users, mon)
		notifications = notifrepo.NewDualStore(notifrepo.NewPostgresStore(db), notifications, mon)
		a.ProjectStore = projectrepo.NewDualStore(projectrepo.NewPostgresStore(db), projects, mon)
	} else {
		a.ProjectStore = projectrepo.NewDualStore(projects, projects, mon)
	}

	var pub realtime.Publisher = a.Hub
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		a.Redis = redis.NewClient(opts)
		a.Relay = realtime.NewRedisRelay(a.Redis, cfg.Redis.Channel, a.Hub)
		pub = a.Relay
	}

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	a.Auth = authservice.NewAuthService(users, issuer)
	a.Notifications = notifservice.NewNotificationService(notifications)
	a.Projects = projectservice.NewProjectService(a.ProjectStore, a.Notifications, pub)

	return a, nil
}

// Start begins probing the durable store and, with Redis configured,
// relaying events between instances.
func (a *App) Start(ctx context.Context, probeSchedule string) error {
	if err := a.Monitor.Start(probeSchedule); err != nil {
		return err
	}

	if a.Relay != nil {
		rctx, cancel := context.WithCancel(ctx)
		a.cancel = cancel
		go func() {
			if err := a.Relay.Run(rctx); err != nil {
				log.Printf("[error] operation=realtime.relay stopped: %v", err)
			}
		}()
	}
	return nil
}

// Close stops background work and releases connections.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	a.Monitor.Stop()
	a.Hub.Close()
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
