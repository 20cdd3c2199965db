package task

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestRepo creates a repository over an in-memory SQLite database.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	repo := NewRepository(db)
	if err := repo.Migrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return repo
}

func mustCreate(t *testing.T, repo *Repository, title string) *Task {
	t.Helper()

	task := &Task{Title: title}
	if err := repo.Create(context.Background(), task); err != nil {
		t.Fatalf("Create(%q) error = %v", title, err)
	}
	return task
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	desc := "Milk, eggs"
	task := &Task{Title: "Buy groceries", Description: &desc}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if task.ID == 0 {
		t.Error("expected ID to be assigned on create")
	}
	if task.Priority != PriorityModerate {
		t.Errorf("expected default priority %q, got %q", PriorityModerate, task.Priority)
	}
	if task.Status != StatusNotStarted {
		t.Errorf("expected default status %q, got %q", StatusNotStarted, task.Status)
	}

	found, err := repo.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Title != "Buy groceries" {
		t.Errorf("expected title %q, got %q", "Buy groceries", found.Title)
	}
	if found.Completed {
		t.Error("expected new task to be incomplete")
	}
	if !found.CreatedAt.Equal(found.UpdatedAt) {
		t.Errorf("expected created_at == updated_at on a fresh task, got %v / %v",
			found.CreatedAt, found.UpdatedAt)
	}
}

func TestRepository_CreateValidation(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	longDesc := strings.Repeat("y", MaxDescriptionLength+1)
	tests := []struct {
		name    string
		task    *Task
		wantErr error
	}{
		{"empty title", &Task{Title: ""}, ErrEmptyTitle},
		{"whitespace title", &Task{Title: "   "}, ErrEmptyTitle},
		{"title too long", &Task{Title: strings.Repeat("x", MaxTitleLength+1)}, ErrTitleTooLong},
		{"description too long", &Task{Title: "ok", Description: &longDesc}, ErrDescriptionTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := repo.Count(ctx)
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}

			if err := repo.Create(ctx, tt.task); !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}

			// No record may be persisted on a failed create.
			after, err := repo.Count(ctx)
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if after != before {
				t.Errorf("row count changed on failed create: %d -> %d", before, after)
			}
		})
	}
}

func TestRepository_GetByIDNotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.GetByID(context.Background(), 999)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("GetByID() error = %v, want %v", err, ErrTaskNotFound)
	}
}

func TestRepository_ListOrderingAndWindow(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	var ids []uint
	for i := 0; i < 7; i++ {
		task := mustCreate(t, repo, "task")
		ids = append(ids, task.ID)
	}

	t.Run("newest first with limit", func(t *testing.T) {
		tasks, err := repo.List(ctx, 5, 0, nil)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(tasks) != 5 {
			t.Fatalf("expected 5 tasks, got %d", len(tasks))
		}
		// Same created_at is possible within the loop, so the id
		// tiebreaker must still produce strict newest-first order.
		for i := 0; i < len(tasks)-1; i++ {
			if tasks[i].CreatedAt.Before(tasks[i+1].CreatedAt) {
				t.Errorf("tasks out of created_at order at %d", i)
			}
			if tasks[i].CreatedAt.Equal(tasks[i+1].CreatedAt) && tasks[i].ID < tasks[i+1].ID {
				t.Errorf("id tiebreaker not descending at %d", i)
			}
		}
		if tasks[0].ID != ids[len(ids)-1] {
			t.Errorf("expected newest task %d first, got %d", ids[len(ids)-1], tasks[0].ID)
		}
	})

	t.Run("offset skips from the head", func(t *testing.T) {
		tasks, err := repo.List(ctx, 5, 5, nil)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(tasks) != 2 {
			t.Errorf("expected 2 tasks after skipping 5 of 7, got %d", len(tasks))
		}
	})

	t.Run("empty window is not an error", func(t *testing.T) {
		tasks, err := repo.List(ctx, 5, 100, nil)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(tasks) != 0 {
			t.Errorf("expected 0 tasks, got %d", len(tasks))
		}
	})
}

func TestRepository_ListCompletedFilter(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	open := mustCreate(t, repo, "open task")
	done := mustCreate(t, repo, "done task")

	done.Status = StatusCompleted
	done.Completed = true
	if err := repo.Update(ctx, done); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	t.Run("default excludes completed", func(t *testing.T) {
		tasks, err := repo.List(ctx, 10, 0, nil)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != open.ID {
			t.Errorf("expected only the open task, got %v", tasks)
		}
	})

	t.Run("explicit completed filter", func(t *testing.T) {
		completed := true
		tasks, err := repo.List(ctx, 10, 0, &completed)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != done.ID {
			t.Errorf("expected only the completed task, got %v", tasks)
		}
	})
}

func TestRepository_UpdateBumpsTimestamp(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	task := mustCreate(t, repo, "Buy groceries")
	original := task.UpdatedAt

	time.Sleep(10 * time.Millisecond)

	task.Status = StatusCompleted
	if err := repo.Update(ctx, task); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := repo.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !found.Completed {
		t.Error("expected completed flag to follow Completed status")
	}
	if !found.UpdatedAt.After(original) {
		t.Errorf("expected updated_at to advance: %v -> %v", original, found.UpdatedAt)
	}
	if found.UpdatedAt.Before(found.CreatedAt) {
		t.Error("updated_at must never precede created_at")
	}
}

func TestRepository_UpdateNotFound(t *testing.T) {
	repo := setupTestRepo(t)

	ghost := &Task{ID: 999, Title: "missing", Priority: PriorityModerate, Status: StatusNotStarted}
	if err := repo.Update(context.Background(), ghost); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Update() error = %v, want %v", err, ErrTaskNotFound)
	}
}

func TestRepository_CompletedFollowsStatus(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	task := &Task{Title: "done on arrival", Status: StatusCompleted}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	// The save hook derives the flag from the status column.
	if !found.Completed {
		t.Error("expected completed = true for a task created with Completed status")
	}

	found.Status = StatusInProgress
	if err := repo.Update(ctx, found); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	reread, err := repo.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if reread.Completed {
		t.Error("expected completed = false after moving back to In Progress")
	}
}

func TestRepository_DeleteIsHardAndFinal(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	task := mustCreate(t, repo, "to be deleted")

	if err := repo.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := repo.GetByID(ctx, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("GetByID() after delete error = %v, want %v", err, ErrTaskNotFound)
	}

	// Hard delete: the second delete of the same id also fails.
	if err := repo.Delete(ctx, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("second Delete() error = %v, want %v", err, ErrTaskNotFound)
	}
}
