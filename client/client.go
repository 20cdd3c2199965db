// Package client is a typed HTTP client for the task tracker REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Task is the wire representation of a task record.
type Task struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateTaskInput is the payload for creating a task.
type CreateTaskInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// UpdateTaskInput is a partial update payload. Nil fields are omitted
// from the request and leave the stored values untouched.
type UpdateTaskInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// ListOptions controls the list window. Zero values fall back to the
// server defaults (limit 10, skip 0, incomplete only).
type ListOptions struct {
	Limit     int
	Skip      int
	Completed *bool
}

// APIError is an error response from the server, carrying the HTTP
// status and the detail message from the body.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Detail)
}

// IsNotFound reports whether the error is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsValidation reports whether the error is a 400 from the server.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest
}

// Client is a thin HTTP client for the task tracker API. It handles
// JSON marshaling and maps error responses to APIError values.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API at baseURL
// (e.g., http://localhost:3000).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Create creates a new task.
func (c *Client) Create(ctx context.Context, input CreateTaskInput) (*Task, error) {
	var t Task
	if err := c.do(ctx, http.MethodPost, "/tasks", input, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Get retrieves a task by ID.
func (c *Client) Get(ctx context.Context, id uint) (*Task, error) {
	var t Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// List retrieves a window of tasks, newest first.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]Task, error) {
	params := make([]string, 0, 3)
	if opts.Limit > 0 {
		params = append(params, "limit="+strconv.Itoa(opts.Limit))
	}
	if opts.Skip > 0 {
		params = append(params, "skip="+strconv.Itoa(opts.Skip))
	}
	if opts.Completed != nil {
		params = append(params, "completed="+strconv.FormatBool(*opts.Completed))
	}

	path := "/tasks"
	if len(params) > 0 {
		path += "?" + strings.Join(params, "&")
	}

	var tasks []Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update applies a partial update to a task.
func (c *Client) Update(ctx context.Context, id uint, input UpdateTaskInput) (*Task, error) {
	var t Task
	if err := c.do(ctx, http.MethodPut, taskPath(id), input, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Complete marks a task as done.
func (c *Client) Complete(ctx context.Context, id uint) (*Task, error) {
	var t Task
	if err := c.do(ctx, http.MethodPost, taskPath(id)+"/complete", nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes a task permanently.
func (c *Client) Delete(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

// do builds the request, sends it, and decodes either the result or an
// APIError from the response. Transport failures are wrapped, not
// converted to APIError: only responses the server actually produced
// become APIError values.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Detail: "unexpected error"}
		var wire struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(respBody, &wire) == nil && wire.Detail != "" {
			apiErr.Detail = wire.Detail
		}
		return apiErr
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}
	return nil
}

func taskPath(id uint) string {
	return "/tasks/" + strconv.FormatUint(uint64(id), 10)
}
