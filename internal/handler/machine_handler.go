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

// MachineHandler handles machine endpoints.
type MachineHandler struct {
	machineService service.MachineService
}

// NewMachineHandler creates a new machine handler.
func NewMachineHandler(machineService service.MachineService) *MachineHandler {
	return &MachineHandler{machineService: machineService}
}

// NewMachineRequest represents a machine creation request. Type and status
// carry vocabulary row ids.
type NewMachineRequest struct {
	Name        string     `json:"name" validate:"required"`
	Make        *string    `json:"make,omitempty"`
	MachineType uuid.UUID  `json:"machine_type" validate:"required"`
	Status      uuid.UUID  `json:"status" validate:"required"`
	Image       *string    `json:"image,omitempty"`
	Facility    *uuid.UUID `json:"facility,omitempty"`
}

// UpdateMachineRequest represents a partial machine update.
type UpdateMachineRequest struct {
	ID          uuid.UUID  `json:"id" validate:"required"`
	Name        *string    `json:"name,omitempty"`
	Make        *string    `json:"make,omitempty"`
	MachineType *uuid.UUID `json:"machine_type,omitempty"`
	Status      *uuid.UUID `json:"status,omitempty"`
	Image       *string    `json:"image,omitempty"`
	Facility    *uuid.UUID `json:"facility,omitempty"`
}

// Details returns one machine.
func (h *MachineHandler) Details(c echo.Context) error {
	id, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	machine, err := h.machineService.Get(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusOK, machine)
}

// Index lists all machines.
func (h *MachineHandler) Index(c echo.Context) error {
	machines, err := h.machineService.List(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusOK, machines)
}

// Create registers a new machine.
func (h *MachineHandler) Create(c echo.Context) error {
	var req NewMachineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Missing required field", Code: "VALIDATION_FAILED",
		})
	}

	machine := &model.Machine{
		Name:          req.Name,
		Make:          req.Make,
		MachineTypeID: req.MachineType,
		StatusID:      req.Status,
		Image:         req.Image,
		FacilityID:    req.Facility,
	}

	created, err := h.machineService.Create(c.Request().Context(), middleware.CurrentUser(c), machine)
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Update applies a partial machine update.
func (h *MachineHandler) Update(c echo.Context) error {
	var req UpdateMachineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Missing required field", Code: "VALIDATION_FAILED",
		})
	}

	err := h.machineService.Update(c.Request().Context(), middleware.CurrentUser(c), service.UpdateMachineInput{
		ID:            req.ID,
		Name:          req.Name,
		Make:          req.Make,
		MachineTypeID: req.MachineType,
		StatusID:      req.Status,
		Image:         req.Image,
		FacilityID:    req.Facility,
	})
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a machine.
func (h *MachineHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.machineService.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
