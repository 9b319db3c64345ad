package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedMode string

func (m fixedMode) Mode() string { return string(m) }

type fixedSessions int

func (s fixedSessions) Sessions() int { return int(s) }

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		handler   *HealthHandler
		wantStore string
		wantSess  int
	}{
		{"durable", NewHealthHandler("pulse", "1.2.3", fixedMode("durable"), fixedSessions(3)), "durable", 3},
		{"no store wired", NewHealthHandler("pulse", "1.2.3", nil, nil), "memory", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			tt.handler.RegisterRoutes(r)

			for _, path := range []string{"/health", "/healthz"} {
				w := httptest.NewRecorder()
				r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
				require.Equal(t, http.StatusOK, w.Code)

				var resp HealthResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "healthy", resp.Status)
				assert.Equal(t, "1.2.3", resp.Version)
				assert.Equal(t, tt.wantStore, resp.Store)
				assert.Equal(t, tt.wantSess, resp.Sessions)
			}
		})
	}
}
