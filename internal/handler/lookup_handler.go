package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/henningcullin/service-system/internal/apperrors"
	"github.com/henningcullin/service-system/internal/middleware"
	"github.com/henningcullin/service-system/internal/model"
	"github.com/henningcullin/service-system/internal/service"
)

// LookupHandler serves one id+name vocabulary table.
type LookupHandler[T any] struct {
	svc service.LookupService[T]
}

// NewLookupHandler creates a handler over a vocabulary service.
func NewLookupHandler[T any](svc service.LookupService[T]) *LookupHandler[T] {
	return &LookupHandler[T]{svc: svc}
}

// LookupSet bundles the six vocabulary handlers for route registration.
type LookupSet struct {
	MachineTypes    *LookupHandler[model.MachineType]
	MachineStatuses *LookupHandler[model.MachineStatus]
	TaskTypes       *LookupHandler[model.TaskType]
	TaskStatuses    *LookupHandler[model.TaskStatus]
	ReportTypes     *LookupHandler[model.ReportType]
	ReportStatuses  *LookupHandler[model.ReportStatus]
}

// NewLookupRequest represents a vocabulary row creation request.
type NewLookupRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateLookupRequest renames a vocabulary row.
type UpdateLookupRequest struct {
	ID   uuid.UUID `json:"id" validate:"required"`
	Name string    `json:"name" validate:"required"`
}

// Details returns one row.
func (h *LookupHandler[T]) Details(c echo.Context) error {
	id, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	row, err := h.svc.Get(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusOK, row)
}

// Index lists all rows.
func (h *LookupHandler[T]) Index(c echo.Context) error {
	rows, err := h.svc.List(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusOK, rows)
}

// Create adds a row.
func (h *LookupHandler[T]) Create(c echo.Context) error {
	var req NewLookupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Missing required field", Code: "VALIDATION_FAILED",
		})
	}

	row, err := h.svc.Create(c.Request().Context(), middleware.CurrentUser(c), req.Name)
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusCreated, row)
}

// Update renames a row.
func (h *LookupHandler[T]) Update(c echo.Context) error {
	var req UpdateLookupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Missing required field", Code: "VALIDATION_FAILED",
		})
	}

	if err := h.svc.Rename(c.Request().Context(), middleware.CurrentUser(c), req.ID, req.Name); err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a row.
func (h *LookupHandler[T]) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.svc.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
