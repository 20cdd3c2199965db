// Package task provides the domain entity and repository for tasks.
package task

import (
	"time"
)

// Priority represents the urgency of a task.
type Priority string

const (
	// PriorityLow indicates a low-urgency task.
	PriorityLow Priority = "Low"
	// PriorityModerate is the default urgency.
	PriorityModerate Priority = "Moderate"
	// PriorityHigh indicates a high-urgency task.
	PriorityHigh Priority = "High"
)

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityModerate, PriorityHigh:
		return true
	default:
		return false
	}
}

// Status represents the progress state of a task.
type Status string

const (
	// StatusNotStarted indicates the task has not been worked on yet.
	StatusNotStarted Status = "Not Started"
	// StatusInProgress indicates the task is being worked on.
	StatusInProgress Status = "In Progress"
	// StatusCompleted indicates the task is done.
	StatusCompleted Status = "Completed"
)

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// Field length limits, matching the column sizes.
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 1000
)

// Task represents a todo item. IDs are auto-assigned by the store and
// never reused. Rows are hard-deleted; there is no tombstone column.
type Task struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"size:255;not null;index" json:"title"`
	Description *string   `gorm:"size:1000" json:"description"`
	Completed   bool      `gorm:"not null;default:false;index" json:"completed"`
	Priority    Priority  `gorm:"size:16;not null;default:Moderate" json:"priority"`
	Status      Status    `gorm:"size:16;not null;default:'Not Started'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}

// CreateTaskRequest represents the request to create a task.
// Priority and Status default to Moderate / Not Started when omitted.
type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	Status      Status   `json:"status,omitempty"`
}

// UpdateTaskRequest represents a partial update. Only non-nil fields
// are applied; updated_at is bumped even when the patch is empty.
type UpdateTaskRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Completed   *bool     `json:"completed,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Status      *Status   `json:"status,omitempty"`
}

// IsEmpty returns true when the patch carries no fields.
func (r *UpdateTaskRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Completed == nil &&
		r.Priority == nil && r.Status == nil
}
