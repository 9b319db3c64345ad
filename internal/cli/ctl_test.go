package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectpulse/pulse-backend/config"
	"github.com/projectpulse/pulse-backend/internal/bootstrap"
)

func startAPI(t *testing.T) string {
	t.Helper()
	bootstrap.SetGinMode("test")

	app, err := bootstrap.NewApp(&config.Config{
		Database: config.DatabaseConfig{ProbeSchedule: "@every 5s"},
		Auth:     config.AuthConfig{JWTSecret: "cli-test", TokenTTL: time.Hour},
	})
	require.NoError(t, err)
	t.Cleanup(app.Close)

	srv := httptest.NewServer(bootstrap.BuildRouter(bootstrap.RouterDeps{ServiceName: serviceName, App: app}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func runCtl(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewCtlCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCtl_LoginCreateList(t *testing.T) {
	server := startAPI(t)

	out, _, err := runCtl(t, "--server", server, "login", "-u", "alice", "-p", "secret123", "-r", "admin")
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	require.NotEmpty(t, token)

	out, _, err = runCtl(t, "--server", server, "--token", token, "create",
		"--title", "Launch Plan", "--description", "Coordinate the launch across teams", "--priority", "high")
	require.NoError(t, err)
	assert.Contains(t, out, `"Launch Plan"`)

	out, _, err = runCtl(t, "--server", server, "--token", token, "--format", "json", "list", "--search", "launch")
	require.NoError(t, err)
	var list []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "planning", list[0]["status"])
	assert.Equal(t, "high", list[0]["priority"])

	out, _, err = runCtl(t, "--server", server, "--token", token, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Launch Plan")
}

func TestCtl_CreateReportsValidation(t *testing.T) {
	_, stderr, err := runCtl(t, "--server", "http://127.0.0.1:1", "--token", "x", "create", "--title", "ab", "--description", "short")
	require.Error(t, err)
	assert.Contains(t, stderr, "title:")
	assert.Contains(t, stderr, "description:")
}

func TestCtl_RejectsUnknownFormat(t *testing.T) {
	_, _, err := runCtl(t, "--format", "yaml", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestAPICommand_HasSubcommands(t *testing.T) {
	cmd := NewAPICommand()
	names := make([]string, 0)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")
}
