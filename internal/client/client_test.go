package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectpulse/pulse-backend/config"
	"github.com/projectpulse/pulse-backend/internal/apperr"
	"github.com/projectpulse/pulse-backend/internal/bootstrap"
	"github.com/projectpulse/pulse-backend/internal/realtime"
	"github.com/projectpulse/pulse-backend/internal/realtime/reconcile"
	"github.com/projectpulse/pulse-backend/internal/validation"
)

func startServer(t *testing.T) *httptest.Server {
	srv, _ := startApp(t)
	return srv
}

func startApp(t *testing.T) (*httptest.Server, *bootstrap.App) {
	t.Helper()
	bootstrap.SetGinMode("test")

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: "0"},
		Database: config.DatabaseConfig{ProbeSchedule: "@every 5s"},
		Auth:     config.AuthConfig{JWTSecret: "client-test", TokenTTL: time.Hour},
	}
	app, err := bootstrap.NewApp(cfg)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	srv := httptest.NewServer(bootstrap.BuildRouter(bootstrap.RouterDeps{ServiceName: "pulse", App: app}))
	t.Cleanup(srv.Close)
	return srv, app
}

func str(s string) *string { return &s }

func TestClient_ProjectFlow(t *testing.T) {
	srv := startServer(t)
	ctx := context.Background()

	c := New(srv.URL)
	sess, err := c.Login(ctx, validation.LoginInput{Username: "alice", Password: "secret123", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.User.Username)
	assert.Equal(t, sess.Token, c.Token())

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	p, err := c.CreateProject(ctx, validation.ProjectInput{
		Title:       str("Launch Plan"),
		Description: str("Coordinate the launch across teams"),
		Priority:    str("high"),
	})
	require.NoError(t, err)
	assert.Equal(t, "planning", string(p.Status))

	list, err := c.ListProjects(ctx, validation.QueryInput{Search: "launch"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	u, err := c.UpdateProject(ctx, p.ID, validation.ProjectInput{
		Title:       str("Launch Plan"),
		Description: str("Coordinate the launch across teams"),
		Status:      str("completed"),
		Priority:    str("high"),
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", string(u.Status))

	notes, err := c.Notifications(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2)

	read, err := c.MarkRead(ctx, notes[0].ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	require.NoError(t, c.DeleteProject(ctx, p.ID))
	err = c.DeleteProject(ctx, p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestClient_ServerErrors(t *testing.T) {
	srv := startServer(t)
	ctx := context.Background()

	viewer := New(srv.URL)
	_, err := viewer.Login(ctx, validation.LoginInput{Username: "vic", Password: "secret123", Role: "viewer"})
	require.NoError(t, err)

	_, err = viewer.CreateProject(ctx, validation.ProjectInput{
		Title: str("Launch Plan"), Description: str("Coordinate the launch across teams"),
	})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = New(srv.URL).Login(ctx, validation.LoginInput{Username: "vic", Password: "wrongpass", Role: "viewer"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = New(srv.URL).ListProjects(ctx, validation.QueryInput{})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestClient_AdvisoryValidationSkipsRoundTrip(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("t"))
	_, err := c.CreateProject(context.Background(), validation.ProjectInput{Title: str("ab"), Description: str("short")})
	require.True(t, IsValidation(err))

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"title", "description"}, verr.Fields())
	assert.Zero(t, hits.Load())
}

func TestClient_DecodesServerValidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Validation failed","details":[{"field":"dueDate","message":"Due date cannot be in the past"}]}`))
	}))
	defer srv.Close()

	// the server's clock disagrees with ours about "today"
	c := New(srv.URL, WithToken("t"))
	_, err := c.CreateProject(context.Background(), validation.ProjectInput{
		Title: str("Launch Plan"), Description: str("Coordinate the launch across teams"),
	})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"dueDate"}, verr.Fields())
}

func TestClient_WatchReconciles(t *testing.T) {
	srv, app := startApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	admin := New(srv.URL)
	_, err := admin.Login(ctx, validation.LoginInput{Username: "alice", Password: "secret123", Role: "admin"})
	require.NoError(t, err)

	watcher := New(srv.URL)
	_, err = watcher.Login(ctx, validation.LoginInput{Username: "bob", Password: "secret123", Role: "viewer"})
	require.NoError(t, err)

	mirror := reconcile.NewProjects()
	events := make(chan realtime.Event, 8)
	done := make(chan error, 1)
	go func() {
		done <- watcher.Watch(ctx, func(ev realtime.Event) {
			mirror.Apply(ev)
			events <- ev
		})
	}()

	require.Eventually(t, func() bool { return app.Hub.Sessions() == 1 }, 2*time.Second, 10*time.Millisecond)

	p, err := admin.CreateProject(ctx, validation.ProjectInput{
		Title: str("Launch Plan"), Description: str("Coordinate the launch across teams"),
	})
	require.NoError(t, err)
	created := p.ID

	select {
	case ev := <-events:
		assert.Equal(t, realtime.KindProjectCreated, ev.Kind)
		assert.Equal(t, created, ev.ProjectID)
	case <-time.After(2 * time.Second):
		t.Fatal("no create event")
	}
	require.Len(t, mirror.Snapshot(), 1)

	require.NoError(t, admin.DeleteProject(ctx, created))
	select {
	case ev := <-events:
		assert.Equal(t, realtime.KindProjectDeleted, ev.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("no delete event")
	}

	assert.Zero(t, mirror.Len())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWebsocketURL(t *testing.T) {
	u, err := New("https://pulse.example/base/").websocketURL()
	require.NoError(t, err)
	assert.Equal(t, "wss://pulse.example/base/ws", u)
}
