package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/henningcullin/service-system/internal/apperrors"
	"github.com/henningcullin/service-system/internal/middleware"
	"github.com/henningcullin/service-system/internal/service"
)

// ReportHandler handles report endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// NewReportRequest represents a report creation request. Type and status
// carry vocabulary row ids.
type NewReportRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	ReportType  uuid.UUID `json:"report_type" validate:"required"`
	Status      uuid.UUID `json:"status" validate:"required"`
	Archived    *bool     `json:"archived,omitempty"`
}

// UpdateReportRequest represents a partial report update.
type UpdateReportRequest struct {
	ID          uuid.UUID  `json:"id" validate:"required"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	ReportType  *uuid.UUID `json:"report_type,omitempty"`
	Status      *uuid.UUID `json:"status,omitempty"`
	Archived    *bool      `json:"archived,omitempty"`
}

// Details returns one report.
func (h *ReportHandler) Details(c echo.Context) error {
	id, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	report, err := h.reportService.Get(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusOK, report)
}

// Index lists all reports.
func (h *ReportHandler) Index(c echo.Context) error {
	reports, err := h.reportService.List(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusOK, reports)
}

// Create files a new report with the current user as creator.
func (h *ReportHandler) Create(c echo.Context) error {
	var req NewReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Missing required field", Code: "VALIDATION_FAILED",
		})
	}

	report, err := h.reportService.Create(c.Request().Context(), middleware.CurrentUser(c), service.NewReportInput{
		Title:        req.Title,
		Description:  req.Description,
		ReportTypeID: req.ReportType,
		StatusID:     req.Status,
		Archived:     req.Archived,
	})
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusCreated, report)
}

// Update applies a partial report update.
func (h *ReportHandler) Update(c echo.Context) error {
	var req UpdateReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Missing required field", Code: "VALIDATION_FAILED",
		})
	}

	err := h.reportService.Update(c.Request().Context(), middleware.CurrentUser(c), service.UpdateReportInput{
		ID:           req.ID,
		Title:        req.Title,
		Description:  req.Description,
		ReportTypeID: req.ReportType,
		StatusID:     req.Status,
		Archived:     req.Archived,
	})
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a report.
func (h *ReportHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.reportService.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
