package task

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// BeforeSave keeps the completed flag and the status column consistent:
// a task is completed exactly when its status is Completed. The hook
// runs on both inserts and updates, so the invariant holds no matter
// which path mutated the row.
func (t *Task) BeforeSave(_ *gorm.DB) error {
	t.Completed = t.Status == StatusCompleted
	return nil
}

// Repository provides access to task storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the tasks table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&Task{})
}

// Create saves a new task. The title must be non-empty after trimming;
// priority and status fall back to their defaults when unset.
func (r *Repository) Create(ctx context.Context, t *Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if len(t.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if t.Description != nil && len(*t.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if t.Priority == "" {
		t.Priority = PriorityModerate
	}
	if t.Status == "" {
		t.Status = StatusNotStarted
	}

	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetByID retrieves a task by its ID.
func (r *Repository) GetByID(ctx context.Context, id uint) (*Task, error) {
	var t Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// List retrieves tasks ordered newest-first (created_at descending,
// id descending on ties). A nil completed filter restricts the result
// to incomplete tasks, which is the primary read of the system.
func (r *Repository) List(ctx context.Context, limit, offset int, completed *bool) ([]Task, error) {
	q := r.db.WithContext(ctx).Model(&Task{})
	if completed != nil {
		q = q.Where("completed = ?", *completed)
	} else {
		q = q.Where("completed = ?", false)
	}

	var tasks []Task
	err := q.Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Update persists the full mutable state of an existing task. The id
// and created_at columns are never written; updated_at is bumped even
// when the new values equal the old ones.
func (r *Repository) Update(ctx context.Context, t *Task) error {
	t.Completed = t.Status == StatusCompleted

	result := r.db.WithContext(ctx).Model(&Task{}).
		Where("id = ?", t.ID).
		Select("title", "description", "completed", "priority", "status", "updated_at").
		Updates(t)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by ID. The delete is hard: the row is gone and
// a second delete of the same id fails with ErrTaskNotFound.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Count returns the total number of task rows.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Task{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}
