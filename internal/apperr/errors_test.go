package apperr

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: &ValidationError{Details: []FieldError{{Field: "title"}}}, want: http.StatusBadRequest},
		{name: "wrapped validation", err: fmt.Errorf("create: %w", &ValidationError{}), want: http.StatusBadRequest},
		{name: "credentials", err: ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "unauthenticated", err: ErrUnauthenticated, want: http.StatusUnauthorized},
		{name: "forbidden", err: ErrForbidden, want: http.StatusForbidden},
		{name: "not found", err: NotFound("project"), want: http.StatusNotFound},
		{name: "wrapped not found", err: fmt.Errorf("update: %w", NotFound("project")), want: http.StatusNotFound},
		{name: "unexpected", err: fmt.Errorf("boom"), want: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Status(tc.err))
		})
	}
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(err error) (int, map[string]any) {
		rr := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rr)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		Respond(c, "test", err)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		return rr.Code, body
	}

	t.Run("validation carries details", func(t *testing.T) {
		code, body := run(&ValidationError{Details: []FieldError{
			{Field: "title", Message: "Title must be at least 3 characters long", Value: "ab"},
			{Field: "description", Message: "Description must be at least 10 characters long", Value: "short"},
		}})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Validation failed", body["error"])
		details, ok := body["details"].([]any)
		require.True(t, ok)
		assert.Len(t, details, 2)
	})

	t.Run("not found names the kind", func(t *testing.T) {
		code, body := run(NotFound("project"))
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Project not found", body["error"])
	})

	t.Run("unexpected is generic", func(t *testing.T) {
		code, body := run(fmt.Errorf("pq: relation does not exist"))
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "Internal server error", body["error"])
	})
}
