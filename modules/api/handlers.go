package api

import (
	"errors"
	"strconv"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/task"
	"github.com/gofiber/fiber/v2"
)

// List window bounds. Out-of-range values are clamped, not rejected.
const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes() {
	m.app.Get("/", m.homeHandler)
	m.app.Get("/health", m.healthHandler)

	tasks := m.app.Group("/tasks")
	tasks.Post("/", m.createTask)
	tasks.Get("/", m.listTasks)
	tasks.Get("/:id", m.getTask)
	tasks.Put("/:id", m.updateTask)
	tasks.Delete("/:id", m.deleteTask)
	tasks.Post("/:id/complete", m.completeTask)
}

// homeHandler handles GET /.
func (m *APIModule) homeHandler(c *fiber.Ctx) error {
	return c.JSON(HomeResponse{
		Message: "Todo API - Ready",
		Version: APIVersion,
	})
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module": "api",
			"port":   m.port,
		},
	})
}

// createTask handles POST /tasks.
func (m *APIModule) createTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	// Validate before crossing the service boundary so bad input maps
	// to 400 rather than a generic service failure.
	create := domain.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		Status:      domain.Status(req.Status),
	}
	if err := create.Validate(); err != nil {
		return badRequest(c, validationDetail(err))
	}

	resp, err := m.taskAdapter.CreateTask(c.Context(), &task.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Detail: "Failed to create task",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(toWireTask(resp))
}

// listTasks handles GET /tasks. The response is a bare array, newest
// first. Without an explicit completed filter only incomplete tasks
// are returned.
func (m *APIModule) listTasks(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultListLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	skip := c.QueryInt("skip", 0)
	if skip < 0 {
		skip = 0
	}

	var completed *bool
	if raw := c.Query("completed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "Completed must be a boolean")
		}
		completed = &v
	}

	resp, err := m.taskAdapter.ListTasks(c.Context(), &task.ListTasksRequest{
		Limit:     limit,
		Skip:      skip,
		Completed: completed,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Detail: "Failed to list tasks",
		})
	}

	out := make([]TaskResponse, 0, len(resp.Tasks))
	for i := range resp.Tasks {
		out = append(out, toWireTask(&resp.Tasks[i]))
	}
	return c.JSON(out)
}

// getTask handles GET /tasks/:id.
func (m *APIModule) getTask(c *fiber.Ctx) error {
	id, ok := parseTaskID(c)
	if !ok {
		return notFound(c)
	}

	resp, err := m.taskAdapter.GetTask(c.Context(), id)
	if err != nil {
		return serviceError(c, err, "Failed to fetch task")
	}

	return c.JSON(toWireTask(resp))
}

// updateTask handles PUT /tasks/:id.
func (m *APIModule) updateTask(c *fiber.Ctx) error {
	id, ok := parseTaskID(c)
	if !ok {
		return notFound(c)
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	patch := domain.UpdateTaskRequest{
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
	if err := patch.Validate(); err != nil {
		return badRequest(c, validationDetail(err))
	}

	resp, err := m.taskAdapter.UpdateTask(c.Context(), &task.UpdateTaskRequest{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		return serviceError(c, err, "Failed to update task")
	}

	return c.JSON(toWireTask(resp))
}

// deleteTask handles DELETE /tasks/:id.
func (m *APIModule) deleteTask(c *fiber.Ctx) error {
	id, ok := parseTaskID(c)
	if !ok {
		return notFound(c)
	}

	if err := m.taskAdapter.DeleteTask(c.Context(), id); err != nil {
		return serviceError(c, err, "Failed to delete task")
	}

	return c.JSON(MessageResponse{Message: "Task deleted successfully"})
}

// completeTask handles POST /tasks/:id/complete.
func (m *APIModule) completeTask(c *fiber.Ctx) error {
	id, ok := parseTaskID(c)
	if !ok {
		return notFound(c)
	}

	resp, err := m.taskAdapter.CompleteTask(c.Context(), id)
	if err != nil {
		return serviceError(c, err, "Failed to complete task")
	}

	return c.JSON(toWireTask(resp))
}

// parseTaskID extracts the numeric task ID from the path. Non-numeric
// or non-positive IDs can never match a stored task.
func parseTaskID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, false
	}
	return uint(id), true
}

// validationDetail maps domain validation errors to wire messages.
func validationDetail(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyTitle):
		return "Title cannot be empty"
	case errors.Is(err, domain.ErrTitleTooLong):
		return "Title must be at most 255 characters"
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return "Description must be at most 1000 characters"
	case errors.Is(err, domain.ErrInvalidPriority):
		return "Priority must be one of: Low, Moderate, High"
	case errors.Is(err, domain.ErrInvalidStatus):
		return "Status must be one of: Not Started, In Progress, Completed"
	case errors.Is(err, domain.ErrInconsistentStatus):
		return "Completed flag contradicts status"
	default:
		return "Invalid request"
	}
}

func badRequest(c *fiber.Ctx, detail string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Detail: detail})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Detail: "Task not found"})
}

// serviceError maps a missing task to 404 and every other adapter
// failure to 500, so internal faults never masquerade as missing rows.
func serviceError(c *fiber.Ctx, err error, detail string) error {
	if errors.Is(err, domain.ErrTaskNotFound) {
		return notFound(c)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Detail: detail})
}

// toWireTask converts a service-layer task to the HTTP response shape.
func toWireTask(t *task.TaskResponse) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
