package task

import "strings"

// Validate checks the create request against the field constraints.
// The title must be non-empty after trimming surrounding whitespace.
func (r *CreateTaskRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrEmptyTitle
	}
	if len(r.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if r.Description != nil && len(*r.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if r.Priority != "" && !r.Priority.IsValid() {
		return ErrInvalidPriority
	}
	if r.Status != "" && !r.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// Validate checks the provided fields of a partial update. Absent
// fields are not constrained; an empty patch is valid.
func (r *UpdateTaskRequest) Validate() error {
	if r.Title != nil {
		if strings.TrimSpace(*r.Title) == "" {
			return ErrEmptyTitle
		}
		if len(*r.Title) > MaxTitleLength {
			return ErrTitleTooLong
		}
	}
	if r.Description != nil && len(*r.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if r.Priority != nil && !r.Priority.IsValid() {
		return ErrInvalidPriority
	}
	if r.Status != nil && !r.Status.IsValid() {
		return ErrInvalidStatus
	}
	if r.Completed != nil && r.Status != nil {
		if *r.Completed != (*r.Status == StatusCompleted) {
			return ErrInconsistentStatus
		}
	}
	return nil
}
