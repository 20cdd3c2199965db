// Package viewmodel is an explicit state container for the task list
// UI. All transitions go through reducer-style methods so concurrent
// UI events cannot corrupt the list silently.
package viewmodel

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/example/task-tracker/client"
	"github.com/google/uuid"
)

// DefaultMaxTasks bounds the local list to the server's default window.
const DefaultMaxTasks = 10

// ListPhase is the load state of the task list.
type ListPhase string

const (
	ListIdle    ListPhase = "idle"
	ListLoading ListPhase = "loading"
	ListLoaded  ListPhase = "loaded"
	ListErrored ListPhase = "errored"
)

// ActionPhase is the state of the most recent mutating action. It is
// tracked independently of the list load state.
type ActionPhase string

const (
	ActionIdle       ActionPhase = "idle"
	ActionSubmitting ActionPhase = "submitting"
	ActionSettled    ActionPhase = "settled"
	ActionFailed     ActionPhase = "failed"
)

// Notification is a transient message surfaced to the user.
type Notification struct {
	ID      string
	Kind    string // "error" or "info"
	Message string
	At      time.Time
}

// TaskAPI is the slice of the HTTP client the view-model drives.
// *client.Client satisfies it.
type TaskAPI interface {
	Create(ctx context.Context, input client.CreateTaskInput) (*client.Task, error)
	List(ctx context.Context, opts client.ListOptions) ([]client.Task, error)
	Update(ctx context.Context, id uint, input client.UpdateTaskInput) (*client.Task, error)
	Complete(ctx context.Context, id uint) (*client.Task, error)
	Delete(ctx context.Context, id uint) error
}

var _ TaskAPI = (*client.Client)(nil)

// ViewModel mirrors the server's recent-incomplete view in a bounded
// local list. Errors never drop the previous list: failed loads and
// mutations leave local state intact and surface a notification.
type ViewModel struct {
	api      TaskAPI
	maxTasks int

	mu            sync.Mutex
	listPhase     ListPhase
	actionPhase   ActionPhase
	tasks         []client.Task
	notifications []Notification
}

// New creates a view-model over the given API with the default window.
func New(api TaskAPI) *ViewModel {
	return NewWithLimit(api, DefaultMaxTasks)
}

// NewWithLimit creates a view-model holding at most maxTasks entries.
func NewWithLimit(api TaskAPI, maxTasks int) *ViewModel {
	if maxTasks < 1 {
		maxTasks = DefaultMaxTasks
	}
	return &ViewModel{
		api:         api,
		maxTasks:    maxTasks,
		listPhase:   ListIdle,
		actionPhase: ActionIdle,
	}
}

// Load fetches the first window of incomplete tasks. On failure the
// previous list stays visible (stale-but-visible) and the phase moves
// to Errored.
func (vm *ViewModel) Load(ctx context.Context) error {
	vm.mu.Lock()
	vm.listPhase = ListLoading
	vm.mu.Unlock()

	tasks, err := vm.api.List(ctx, client.ListOptions{Limit: vm.maxTasks})

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if err != nil {
		vm.listPhase = ListErrored
		vm.notifyError(err)
		return err
	}

	vm.listPhase = ListLoaded
	vm.tasks = tasks
	return nil
}

// Create validates the title locally before any request, mirroring the
// server check to save a round trip. On success the new task is
// prepended and the list truncated to the window size.
func (vm *ViewModel) Create(ctx context.Context, input client.CreateTaskInput) error {
	if strings.TrimSpace(input.Title) == "" {
		vm.mu.Lock()
		defer vm.mu.Unlock()
		vm.actionPhase = ActionFailed
		vm.pushNotification("error", "Title cannot be empty")
		return &client.APIError{StatusCode: 400, Detail: "Title cannot be empty"}
	}

	vm.mu.Lock()
	vm.actionPhase = ActionSubmitting
	vm.mu.Unlock()

	created, err := vm.api.Create(ctx, input)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if err != nil {
		vm.actionPhase = ActionFailed
		vm.notifyError(err)
		return err
	}

	vm.actionPhase = ActionSettled
	vm.tasks = append([]client.Task{*created}, vm.tasks...)
	if len(vm.tasks) > vm.maxTasks {
		vm.tasks = vm.tasks[:vm.maxTasks]
	}
	vm.pushNotification("info", "Task created")
	return nil
}

// Complete marks a task done. The list only shows incomplete tasks, so
// a settled completion removes the entry. Failure leaves the list
// unchanged.
func (vm *ViewModel) Complete(ctx context.Context, id uint) error {
	vm.mu.Lock()
	vm.actionPhase = ActionSubmitting
	vm.mu.Unlock()

	_, err := vm.api.Complete(ctx, id)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if err != nil {
		vm.actionPhase = ActionFailed
		vm.notifyError(err)
		return err
	}

	vm.actionPhase = ActionSettled
	vm.removeLocked(id)
	vm.pushNotification("info", "Task completed")
	return nil
}

// Delete removes a task. The local entry goes away only after the
// server confirms.
func (vm *ViewModel) Delete(ctx context.Context, id uint) error {
	vm.mu.Lock()
	vm.actionPhase = ActionSubmitting
	vm.mu.Unlock()

	err := vm.api.Delete(ctx, id)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if err != nil {
		vm.actionPhase = ActionFailed
		vm.notifyError(err)
		return err
	}

	vm.actionPhase = ActionSettled
	vm.removeLocked(id)
	vm.pushNotification("info", "Task deleted")
	return nil
}

// UpdateStatus applies the new status to the local copy immediately,
// then confirms with the server. A failed request rolls the local copy
// back to the snapshot; a confirmed Completed status drops the entry
// from the incomplete-only list.
func (vm *ViewModel) UpdateStatus(ctx context.Context, id uint, status string) error {
	vm.mu.Lock()
	idx := vm.indexLocked(id)
	if idx < 0 {
		vm.mu.Unlock()
		return &client.APIError{StatusCode: 404, Detail: "Task not found"}
	}
	snapshot := vm.tasks[idx]

	vm.actionPhase = ActionSubmitting
	vm.tasks[idx].Status = status
	vm.tasks[idx].Completed = status == "Completed"
	vm.mu.Unlock()

	updated, err := vm.api.Update(ctx, id, client.UpdateTaskInput{Status: &status})

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if err != nil {
		vm.actionPhase = ActionFailed
		if idx := vm.indexLocked(id); idx >= 0 {
			vm.tasks[idx] = snapshot
		}
		vm.notifyError(err)
		return err
	}

	vm.actionPhase = ActionSettled
	if updated.Completed {
		vm.removeLocked(id)
	} else if idx := vm.indexLocked(id); idx >= 0 {
		// Reconcile with the canonical record, not the optimistic copy.
		vm.tasks[idx] = *updated
	}
	return nil
}

// Tasks returns a snapshot of the local list.
func (vm *ViewModel) Tasks() []client.Task {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	out := make([]client.Task, len(vm.tasks))
	copy(out, vm.tasks)
	return out
}

// ListPhase returns the current list load state.
func (vm *ViewModel) ListPhase() ListPhase {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.listPhase
}

// ActionPhase returns the state of the most recent mutating action.
func (vm *ViewModel) ActionPhase() ActionPhase {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.actionPhase
}

// Notifications returns a snapshot of pending notifications.
func (vm *ViewModel) Notifications() []Notification {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	out := make([]Notification, len(vm.notifications))
	copy(out, vm.notifications)
	return out
}

// Dismiss removes a notification by ID.
func (vm *ViewModel) Dismiss(id string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	for i := range vm.notifications {
		if vm.notifications[i].ID == id {
			vm.notifications = append(vm.notifications[:i], vm.notifications[i+1:]...)
			return
		}
	}
}

// notifyError converts an error to a user-facing notification. Server
// errors carry their detail message; transport failures collapse to a
// generic connectivity message.
func (vm *ViewModel) notifyError(err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		vm.pushNotification("error", apiErr.Detail)
		return
	}
	vm.pushNotification("error", "Cannot reach the server")
}

func (vm *ViewModel) pushNotification(kind, message string) {
	vm.notifications = append(vm.notifications, Notification{
		ID:      uuid.NewString(),
		Kind:    kind,
		Message: message,
		At:      time.Now(),
	})
}

func (vm *ViewModel) indexLocked(id uint) int {
	for i := range vm.tasks {
		if vm.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (vm *ViewModel) removeLocked(id uint) {
	if idx := vm.indexLocked(id); idx >= 0 {
		vm.tasks = append(vm.tasks[:idx], vm.tasks[idx+1:]...)
	}
}
