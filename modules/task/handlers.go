package task

import (
	"context"
	"log"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/events"
	"github.com/go-monolith/mono"
)

// createTask handles the create service request.
func (m *Module) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	created, err := m.service.Create(ctx, &domain.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		Status:      domain.Status(req.Status),
	})
	if err != nil {
		return TaskResponse{}, err
	}

	if m.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    created.ID,
			Title:     created.Title,
			Priority:  string(created.Priority),
			CreatedAt: created.CreatedAt,
		}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			// Event publishing is best-effort; the task is already stored.
			log.Printf("[task] Warning: failed to publish TaskCreated event for task %d: %v", created.ID, err)
		}
	}

	return toTaskResponse(created, false), nil
}

// getTask handles the get service request.
func (m *Module) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, fromCache, err := m.service.GetByID(ctx, req.ID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t, fromCache), nil
}

// listTasks handles the list service request.
func (m *Module) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, fromCache, err := m.service.List(ctx, req.Limit, req.Skip, req.Completed)
	if err != nil {
		return ListTasksResponse{}, err
	}

	resp := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for i := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(&tasks[i], fromCache))
	}
	return resp, nil
}

// updateTask handles the update service request.
func (m *Module) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	patch := &domain.UpdateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Status != nil {
		st := domain.Status(*req.Status)
		patch.Status = &st
	}

	updated, err := m.service.Update(ctx, req.ID, patch)
	if err != nil {
		return TaskResponse{}, err
	}

	m.publishUpdateEvents(updated)
	return toTaskResponse(updated, false), nil
}

// deleteTask handles the delete service request.
func (m *Module) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.Delete(ctx, req.ID); err != nil {
		return DeleteTaskResponse{Deleted: false, ID: req.ID}, err
	}

	if m.eventBus != nil {
		event := events.TaskDeletedEvent{
			TaskID:    req.ID,
			DeletedAt: time.Now(),
		}
		if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskDeleted event for task %d: %v", req.ID, err)
		}
	}

	return DeleteTaskResponse{Deleted: true, ID: req.ID}, nil
}

// completeTask handles the complete service request.
func (m *Module) completeTask(ctx context.Context, req CompleteTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	completed, err := m.service.Complete(ctx, req.ID)
	if err != nil {
		return TaskResponse{}, err
	}

	m.publishUpdateEvents(completed)
	return toTaskResponse(completed, false), nil
}

// publishUpdateEvents emits TaskUpdated for every mutation and
// TaskCompleted when the task is now done.
func (m *Module) publishUpdateEvents(t *domain.Task) {
	if m.eventBus == nil {
		return
	}

	updated := events.TaskUpdatedEvent{
		TaskID:    t.ID,
		Status:    string(t.Status),
		UpdatedAt: t.UpdatedAt,
	}
	if err := events.TaskUpdatedV1.Publish(m.eventBus, updated, nil); err != nil {
		log.Printf("[task] Warning: failed to publish TaskUpdated event for task %d: %v", t.ID, err)
	}

	if t.Completed {
		done := events.TaskCompletedEvent{
			TaskID:      t.ID,
			Title:       t.Title,
			CompletedAt: t.UpdatedAt,
		}
		if err := events.TaskCompletedV1.Publish(m.eventBus, done, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskCompleted event for task %d: %v", t.ID, err)
		}
	}
}

// toTaskResponse converts a domain Task to a TaskResponse.
func toTaskResponse(t *domain.Task, fromCache bool) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		FromCache:   fromCache,
	}
}
