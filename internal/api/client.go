// Package api is the client for the remote todo collection service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okaret/todoview/internal/model"
)

const defaultTimeout = 10 * time.Second

// Client wraps an http.Client for the todo REST API.
// All calls are single-shot: no retry, no backoff.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *slog.Logger
}

// New creates a Client for the service at baseURL.
// A zero timeout falls back to the default. A nil logger uses slog.Default.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		log:     logger,
	}
}

// ListTodos fetches the first limit todos.
func (c *Client) ListTodos(ctx context.Context, limit int) ([]model.Todo, error) {
	var todos []model.Todo
	path := fmt.Sprintf("/todos?_limit=%d", limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &todos); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// ListUsers fetches the first limit users.
func (c *Client) ListUsers(ctx context.Context, limit int) ([]model.User, error) {
	var users []model.User
	path := fmt.Sprintf("/users?_limit=%d", limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateTodo posts a new incomplete todo and returns the record the server
// stored, now carrying its assigned id.
func (c *Client) CreateTodo(ctx context.Context, userID model.ID, title string) (model.Todo, error) {
	body := model.Todo{UserID: userID, Title: title, Completed: false}
	var created model.Todo
	if err := c.do(ctx, http.MethodPost, "/todos", body, &created); err != nil {
		return model.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return created, nil
}

// SetCompleted patches only the completion flag of the given todo.
func (c *Client) SetCompleted(ctx context.Context, id model.ID, completed bool) error {
	body := struct {
		Completed bool `json:"completed"`
	}{Completed: completed}
	if err := c.do(ctx, http.MethodPatch, "/todos/"+url.PathEscape(id.String()), body, nil); err != nil {
		return fmt.Errorf("update todo %s: %w", id, err)
	}
	return nil
}

// DeleteTodo removes the given todo on the server.
func (c *Client) DeleteTodo(ctx context.Context, id model.ID) error {
	if err := c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id.String()), nil, nil); err != nil {
		return fmt.Errorf("delete todo %s: %w", id, err)
	}
	return nil
}

// StatusError reports a non-2xx response on an otherwise completed request.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Code)
}

// do performs one request. Success means a 2xx status; the body is decoded
// into out when out is non-nil. Responses are trusted to be well-formed JSON,
// a decode failure surfaces like any other request error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}
	req.Header.Set("Accept", "application/json")

	reqID := uuid.NewString()[:8]
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request done",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", reqID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
