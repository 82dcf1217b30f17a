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

// FacilityHandler handles facility endpoints.
type FacilityHandler struct {
	facilityService service.FacilityService
}

// NewFacilityHandler creates a new facility handler.
func NewFacilityHandler(facilityService service.FacilityService) *FacilityHandler {
	return &FacilityHandler{facilityService: facilityService}
}

// NewFacilityRequest represents a facility creation request.
type NewFacilityRequest struct {
	Name    string  `json:"name" validate:"required"`
	Address *string `json:"address,omitempty"`
}

// UpdateFacilityRequest represents a partial facility update.
type UpdateFacilityRequest struct {
	ID      uuid.UUID `json:"id" validate:"required"`
	Name    *string   `json:"name,omitempty"`
	Address *string   `json:"address,omitempty"`
}

// Details returns one facility.
func (h *FacilityHandler) Details(c echo.Context) error {
	id, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	facility, err := h.facilityService.Get(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusOK, facility)
}

// Index lists all facilities.
func (h *FacilityHandler) Index(c echo.Context) error {
	facilities, err := h.facilityService.List(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusOK, facilities)
}

// Create registers a new facility.
func (h *FacilityHandler) Create(c echo.Context) error {
	var req NewFacilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Missing required field", Code: "VALIDATION_FAILED",
		})
	}

	facility := &model.Facility{
		Name:    req.Name,
		Address: req.Address,
	}

	created, err := h.facilityService.Create(c.Request().Context(), middleware.CurrentUser(c), facility)
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Update applies a partial facility update.
func (h *FacilityHandler) Update(c echo.Context) error {
	var req UpdateFacilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Missing required field", Code: "VALIDATION_FAILED",
		})
	}

	err := h.facilityService.Update(c.Request().Context(), middleware.CurrentUser(c), service.UpdateFacilityInput{
		ID:      req.ID,
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a facility.
func (h *FacilityHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.facilityService.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
