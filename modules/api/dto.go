package api

import "time"

// CreateTaskRequest is the HTTP request for creating a task.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
}

// UpdateTaskRequest is the HTTP request for a partial update. Absent
// fields stay nil and leave the stored values untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}

// TaskResponse is the HTTP response for a single task.
type TaskResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HomeResponse is the HTTP response for the root endpoint.
type HomeResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// MessageResponse is the HTTP response for operations that return a
// confirmation message rather than a record.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the HTTP response for health check.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the HTTP response for errors.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
