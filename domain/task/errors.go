package task

import "errors"

var (
	// ErrTaskNotFound indicates the task does not exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrEmptyTitle indicates the title was missing or whitespace-only.
	ErrEmptyTitle = errors.New("title cannot be empty")
	// ErrTitleTooLong indicates the title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title exceeds maximum length")
	// ErrDescriptionTooLong indicates the description exceeds MaxDescriptionLength.
	ErrDescriptionTooLong = errors.New("description exceeds maximum length")
	// ErrInvalidPriority indicates an unknown priority value.
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrInvalidStatus indicates an unknown status value.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInconsistentStatus indicates a patch supplied completed and status
	// values that contradict each other.
	ErrInconsistentStatus = errors.New("completed flag contradicts status")
)

// IsValidation returns true for errors caused by bad input rather than
// missing records or storage failures.
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrEmptyTitle),
		errors.Is(err, ErrTitleTooLong),
		errors.Is(err, ErrDescriptionTooLong),
		errors.Is(err, ErrInvalidPriority),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInconsistentStatus):
		return true
	default:
		return false
	}
}
