package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/henningcullin/service-system/internal/apperrors"
	"github.com/henningcullin/service-system/internal/middleware"
	"github.com/henningcullin/service-system/internal/service"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// NewTaskRequest represents a task creation request. Type and status carry
// vocabulary row ids.
type NewTaskRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description" validate:"required"`
	TaskType    uuid.UUID  `json:"task_type" validate:"required"`
	Status      uuid.UUID  `json:"status" validate:"required"`
	Machine     *uuid.UUID `json:"machine,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
}

// UpdateTaskRequest represents a partial task update.
type UpdateTaskRequest struct {
	ID          uuid.UUID  `json:"id" validate:"required"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	TaskType    *uuid.UUID `json:"task_type,omitempty"`
	Status      *uuid.UUID `json:"status,omitempty"`
	Archived    *bool      `json:"archived,omitempty"`
	Machine     *uuid.UUID `json:"machine,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
}

// TaskExecutorRequest links a user to a task as an executor.
type TaskExecutorRequest struct {
	TaskID uuid.UUID `json:"task_id" validate:"required"`
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// Details returns one task.
func (h *TaskHandler) Details(c echo.Context) error {
	id, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	task, err := h.taskService.Get(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusOK, task)
}

// Index lists all tasks.
func (h *TaskHandler) Index(c echo.Context) error {
	tasks, err := h.taskService.List(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// Create registers a new task with the current user as creator.
func (h *TaskHandler) Create(c echo.Context) error {
	var req NewTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Missing required field", Code: "VALIDATION_FAILED",
		})
	}

	task, err := h.taskService.Create(c.Request().Context(), middleware.CurrentUser(c), service.NewTaskInput{
		Title:       req.Title,
		Description: req.Description,
		TaskTypeID:  req.TaskType,
		StatusID:    req.Status,
		MachineID:   req.Machine,
		DueAt:       req.DueAt,
	})
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusCreated, task)
}

// Update applies a partial task update.
func (h *TaskHandler) Update(c echo.Context) error {
	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Missing required field", Code: "VALIDATION_FAILED",
		})
	}

	err := h.taskService.Update(c.Request().Context(), middleware.CurrentUser(c), service.UpdateTaskInput{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		TaskTypeID:  req.TaskType,
		StatusID:    req.Status,
		Archived:    req.Archived,
		MachineID:   req.Machine,
		DueAt:       req.DueAt,
	})
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignExecutor adds a user to a task's executor list.
func (h *TaskHandler) AssignExecutor(c echo.Context) error {
	var req TaskExecutorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Missing required field", Code: "VALIDATION_FAILED",
		})
	}

	if err := h.taskService.AssignExecutor(c.Request().Context(), middleware.CurrentUser(c), req.TaskID, req.UserID); err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.NoContent(http.StatusCreated)
}

// RemoveExecutor removes a user from a task's executor list.
func (h *TaskHandler) RemoveExecutor(c echo.Context) error {
	var req TaskExecutorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Missing required field", Code: "VALIDATION_FAILED",
		})
	}

	if err := h.taskService.RemoveExecutor(c.Request().Context(), middleware.CurrentUser(c), req.TaskID, req.UserID); err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a task.
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.taskService.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
