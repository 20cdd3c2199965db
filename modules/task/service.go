package task

import (
	"context"
	"fmt"
	"log"
	"strconv"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/cache"
	"golang.org/x/sync/singleflight"
)

// Service provides task operations over the repository, with optional
// cache-aside reads. A nil CacheService degrades to direct DB access.
type Service struct {
	repo    *domain.Repository
	cache   cache.CacheService
	sfGroup singleflight.Group // prevents cache stampede on concurrent misses
}

// NewService creates a new task service.
func NewService(repo *domain.Repository, c cache.CacheService) *Service {
	return &Service{
		repo:  repo,
		cache: c,
	}
}

// cacheKeyByID returns the cache key for a task by ID.
func cacheKeyByID(id uint) string {
	return "id:" + strconv.FormatUint(uint64(id), 10)
}

// cacheKeyList returns the cache key for a list window. The nil filter
// and an explicit completed=false share a key since they produce the
// same rows.
func cacheKeyList(limit, offset int, completed *bool) string {
	filter := "incomplete"
	if completed != nil && *completed {
		filter = "completed"
	}
	return fmt.Sprintf("list:%s:%d:%d", filter, limit, offset)
}

// Create validates the request and persists a new task. The cache is
// invalidated since the new task may belong in any list window.
func (s *Service) Create(ctx context.Context, req *domain.CreateTaskRequest) (*domain.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return t, nil
}

// GetByID retrieves a task with cache-aside reads. The second return
// value reports whether the record came from the cache.
func (s *Service) GetByID(ctx context.Context, id uint) (*domain.Task, bool, error) {
	if s.cache != nil {
		var cached domain.Task
		found, err := s.cache.Get(ctx, cacheKeyByID(id), &cached)
		if err != nil {
			log.Printf("[task] Cache error for ID=%d: %v", id, err)
			// fall through to the database on cache errors
		}
		if found {
			return &cached, true, nil
		}
	}

	sfKey := "task:" + strconv.FormatUint(uint64(id), 10)
	val, err, _ := s.sfGroup.Do(sfKey, func() (any, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, false, err
	}
	t := val.(*domain.Task)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKeyByID(id), t); err != nil {
			log.Printf("[task] Warning: failed to cache task ID=%d: %v", id, err)
		}
	}
	return t, false, nil
}

// List returns a window of tasks, newest first, incomplete-only unless
// an explicit completed filter is given. Results are cached per window.
func (s *Service) List(ctx context.Context, limit, offset int, completed *bool) ([]domain.Task, bool, error) {
	key := cacheKeyList(limit, offset, completed)

	if s.cache != nil {
		var cached []domain.Task
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Printf("[task] Cache error for list: %v", err)
		}
		if found {
			return cached, true, nil
		}
	}

	tasks, err := s.repo.List(ctx, limit, offset, completed)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, tasks); err != nil {
			log.Printf("[task] Warning: failed to cache task list: %v", err)
		}
	}
	return tasks, false, nil
}

// Update applies a partial patch to an existing task and returns the
// canonical stored record. The updated_at column is bumped even when
// the patch is empty or repeats the current values. The completed flag
// and status are reconciled so that completed == (status == Completed):
// a provided status wins; a bare completed=true forces Completed; a
// bare completed=false on a completed task resets it to Not Started.
func (s *Service) Update(ctx context.Context, id uint, req *domain.UpdateTaskRequest) (*domain.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.Completed != nil && req.Status == nil {
		if *req.Completed {
			t.Status = domain.StatusCompleted
		} else if t.Status == domain.StatusCompleted {
			t.Status = domain.StatusNotStarted
		}
	}
	t.Completed = t.Status == domain.StatusCompleted

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	// Re-read so the caller gets the stored timestamps, not the stale
	// in-memory copy.
	return s.repo.GetByID(ctx, id)
}

// Complete marks a task as done.
func (s *Service) Complete(ctx context.Context, id uint) (*domain.Task, error) {
	done := true
	return s.Update(ctx, id, &domain.UpdateTaskRequest{Completed: &done})
}

// Delete removes a task permanently.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// invalidate drops all cached entries after a mutation. Failures are
// logged and swallowed; the database remains the source of truth.
func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Printf("[task] Warning: failed to invalidate cache: %v", err)
	}
}
