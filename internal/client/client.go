// Package client talks to the pulse API over HTTP and follows its websocket
// feed. Payloads are checked locally before they are sent so obvious mistakes
// never cost a round trip; the server still validates everything.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/projectpulse/pulse-backend/internal/apperr"
	authdomain "github.com/projectpulse/pulse-backend/internal/auth/domain"
	notifdomain "github.com/projectpulse/pulse-backend/internal/notifications/domain"
	projectdomain "github.com/projectpulse/pulse-backend/internal/projects/domain"
	"github.com/projectpulse/pulse-backend/internal/validation"
)

// APIError is a non-2xx answer from the server. It unwraps to the matching
// apperr sentinel so callers can use errors.Is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		if e.Message == "Invalid credentials" {
			return apperr.ErrInvalidCredentials
		}
		return apperr.ErrUnauthenticated
	case http.StatusForbidden:
		return apperr.ErrForbidden
	case http.StatusNotFound:
		return apperr.ErrNotFound
	default:
		return nil
	}
}

// Session is the result of Login.
type Session struct {
	Token     string                `json:"token"`
	User      authdomain.PublicUser `json:"user"`
	ExpiresAt time.Time             `json:"expiresAt"`
}

type Client struct {
	baseURL string
	http    *http.Client
	gate    *validation.Gate
	token   string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithGate replaces the local validation gate.
func WithGate(g *validation.Gate) Option {
	return func(c *Client) { c.gate = g }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for the server at baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		gate:    validation.New(time.Now),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string { return c.token }

// Login authenticates and keeps the token for later calls.
func (c *Client) Login(ctx context.Context, in validation.LoginInput) (*Session, error) {
	if _, err := c.gate.Login(in); err != nil {
		return nil, err
	}

	var sess Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", in, &sess); err != nil {
		return nil, err
	}
	c.token = sess.Token
	return &sess, nil
}

func (c *Client) Me(ctx context.Context) (*authdomain.PublicUser, error) {
	var out struct {
		User authdomain.PublicUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ListProjects(ctx context.Context, q validation.QueryInput) ([]projectdomain.Project, error) {
	if _, err := c.gate.ProjectQuery(q); err != nil {
		return nil, err
	}

	params := url.Values{}
	for key, v := range map[string]string{"search": q.Search, "status": q.Status, "priority": q.Priority} {
		if v != "" {
			params.Set(key, v)
		}
	}
	path := "/api/projects"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var out []projectdomain.Project
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProject(ctx context.Context, in validation.ProjectInput) (*projectdomain.Project, error) {
	if _, err := c.gate.ProjectCreate(in); err != nil {
		return nil, err
	}

	var out projectdomain.Project
	if err := c.do(ctx, http.MethodPost, "/api/projects", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProject(ctx context.Context, id string, in validation.ProjectInput) (*projectdomain.Project, error) {
	if _, err := c.gate.ProjectUpdate(in); err != nil {
		return nil, err
	}

	var out projectdomain.Project
	if err := c.do(ctx, http.MethodPut, "/api/projects/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Notifications(ctx context.Context) ([]notifdomain.Notification, error) {
	var out []notifdomain.Notification
	if err := c.do(ctx, http.MethodGet, "/api/notifications", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MarkRead(ctx context.Context, id string) (*notifdomain.Notification, error) {
	var out notifdomain.Notification
	if err := c.do(ctx, http.MethodPut, "/api/notifications/"+url.PathEscape(id)+"/read", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	var body struct {
		Error   string              `json:"error"`
		Details []apperr.FieldError `json:"details"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		body.Error = http.StatusText(status)
	}
	if status == http.StatusBadRequest && len(body.Details) > 0 {
		return &apperr.ValidationError{Details: body.Details}
	}
	return &APIError{Status: status, Message: body.Error}
}

// IsValidation reports whether err lists field problems.
func IsValidation(err error) bool {
	var verr *apperr.ValidationError
	return errors.As(err, &verr)
}
