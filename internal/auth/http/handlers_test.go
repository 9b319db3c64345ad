package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/projectpulse/pulse-backend/internal/auth"
	"github.com/projectpulse/pulse-backend/internal/auth/middleware"
	"github.com/projectpulse/pulse-backend/internal/auth/repository"
	"github.com/projectpulse/pulse-backend/internal/auth/service"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	issuer := auth.NewTokenIssuer("secret", time.Hour)
	svc := service.NewAuthService(repository.NewMemoryStore(), issuer).WithBcryptCost(bcrypt.MinCost)

	r := gin.New()
	authed := r.Group("/", middleware.RequireAuth(svc, false))
	New(svc).Register(r.Group("/"), authed)
	return r
}

func doJSON(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginAndMe(t *testing.T) {
	r := setupRouter()

	w := doJSON(r, http.MethodPost, "/auth/login", `{"username":"alice","password":"secret1","role":"admin","extra":1}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotContains(t, w.Body.String(), "password")

	w = doJSON(r, http.MethodGet, "/auth/me", "", resp.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestLogin_Errors(t *testing.T) {
	r := setupRouter()

	w := doJSON(r, http.MethodPost, "/auth/login", `{"username":"al","password":"1","role":"owner"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Validation failed")
	assert.NotContains(t, w.Body.String(), `"value":"1"`)

	w = doJSON(r, http.MethodPost, "/auth/login", `{"username":42,"password":"secret1","role":"admin"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"details"`)
	assert.Contains(t, w.Body.String(), "Username must be a string")

	w = doJSON(r, http.MethodPost, "/auth/login", `{"username":`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/login", `{"username":"bob","password":"secret1","role":"viewer"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPost, "/auth/login", `{"username":"bob","password":"secret2","role":"viewer"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestMe_RequiresToken(t *testing.T) {
	r := setupRouter()
	w := doJSON(r, http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

var _ LoginService = (*service.AuthService)(nil)
