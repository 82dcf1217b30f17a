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

// RoleHandler handles role administration endpoints.
type RoleHandler struct {
	roleService service.RoleService
}

// NewRoleHandler creates a new role handler.
func NewRoleHandler(roleService service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// NewRoleRequest represents a role creation request. Omitted flags default
// to false, so a new role starts with no capabilities.
type NewRoleRequest struct {
	Name        string `json:"name" validate:"required"`
	Level       int    `json:"level" validate:"required"`
	HasPassword bool   `json:"has_password"`

	UserView   bool `json:"user_view"`
	UserCreate bool `json:"user_create"`
	UserEdit   bool `json:"user_edit"`
	UserDelete bool `json:"user_delete"`

	MachineView   bool `json:"machine_view"`
	MachineCreate bool `json:"machine_create"`
	MachineEdit   bool `json:"machine_edit"`
	MachineDelete bool `json:"machine_delete"`

	TaskView   bool `json:"task_view"`
	TaskCreate bool `json:"task_create"`
	TaskEdit   bool `json:"task_edit"`
	TaskDelete bool `json:"task_delete"`

	ReportView   bool `json:"report_view"`
	ReportCreate bool `json:"report_create"`
	ReportEdit   bool `json:"report_edit"`
	ReportDelete bool `json:"report_delete"`

	FacilityView   bool `json:"facility_view"`
	FacilityCreate bool `json:"facility_create"`
	FacilityEdit   bool `json:"facility_edit"`
	FacilityDelete bool `json:"facility_delete"`
}

// UpdateRoleRequest represents a partial role update.
type UpdateRoleRequest struct {
	ID          uuid.UUID `json:"id" validate:"required"`
	Name        *string   `json:"name,omitempty"`
	Level       *int      `json:"level,omitempty"`
	HasPassword *bool     `json:"has_password,omitempty"`

	UserView   *bool `json:"user_view,omitempty"`
	UserCreate *bool `json:"user_create,omitempty"`
	UserEdit   *bool `json:"user_edit,omitempty"`
	UserDelete *bool `json:"user_delete,omitempty"`

	MachineView   *bool `json:"machine_view,omitempty"`
	MachineCreate *bool `json:"machine_create,omitempty"`
	MachineEdit   *bool `json:"machine_edit,omitempty"`
	MachineDelete *bool `json:"machine_delete,omitempty"`

	TaskView   *bool `json:"task_view,omitempty"`
	TaskCreate *bool `json:"task_create,omitempty"`
	TaskEdit   *bool `json:"task_edit,omitempty"`
	TaskDelete *bool `json:"task_delete,omitempty"`

	ReportView   *bool `json:"report_view,omitempty"`
	ReportCreate *bool `json:"report_create,omitempty"`
	ReportEdit   *bool `json:"report_edit,omitempty"`
	ReportDelete *bool `json:"report_delete,omitempty"`

	FacilityView   *bool `json:"facility_view,omitempty"`
	FacilityCreate *bool `json:"facility_create,omitempty"`
	FacilityEdit   *bool `json:"facility_edit,omitempty"`
	FacilityDelete *bool `json:"facility_delete,omitempty"`
}

func (r *UpdateRoleRequest) flagColumns() map[string]*bool {
	return map[string]*bool{
		"user_view":   r.UserView,
		"user_create": r.UserCreate,
		"user_edit":   r.UserEdit,
		"user_delete": r.UserDelete,

		"machine_view":   r.MachineView,
		"machine_create": r.MachineCreate,
		"machine_edit":   r.MachineEdit,
		"machine_delete": r.MachineDelete,

		"task_view":   r.TaskView,
		"task_create": r.TaskCreate,
		"task_edit":   r.TaskEdit,
		"task_delete": r.TaskDelete,

		"report_view":   r.ReportView,
		"report_create": r.ReportCreate,
		"report_edit":   r.ReportEdit,
		"report_delete": r.ReportDelete,

		"facility_view":   r.FacilityView,
		"facility_create": r.FacilityCreate,
		"facility_edit":   r.FacilityEdit,
		"facility_delete": r.FacilityDelete,
	}
}

// Details godoc
// @Summary Get one role
// @Tags roles
// @Produce json
// @Param id query string true "Role id"
// @Success 200 {object} model.Role
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /role [get]
func (h *RoleHandler) Details(c echo.Context) error {
	id, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	role, err := h.roleService.Get(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusOK, role)
}

// Index godoc
// @Summary List roles
// @Tags roles
// @Produce json
// @Success 200 {array} model.Role
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /roles [get]
func (h *RoleHandler) Index(c echo.Context) error {
	roles, err := h.roleService.List(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusOK, roles)
}

// Create godoc
// @Summary Create a role
// @Tags roles
// @Accept json
// @Produce json
// @Param request body NewRoleRequest true "Role data"
// @Success 201 {object} model.Role
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /role [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req NewRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Missing required field", Code: "VALIDATION_FAILED",
		})
	}

	role := &model.Role{
		Name:        req.Name,
		Level:       req.Level,
		HasPassword: req.HasPassword,

		UserView:   req.UserView,
		UserCreate: req.UserCreate,
		UserEdit:   req.UserEdit,
		UserDelete: req.UserDelete,

		MachineView:   req.MachineView,
		MachineCreate: req.MachineCreate,
		MachineEdit:   req.MachineEdit,
		MachineDelete: req.MachineDelete,

		TaskView:   req.TaskView,
		TaskCreate: req.TaskCreate,
		TaskEdit:   req.TaskEdit,
		TaskDelete: req.TaskDelete,

		ReportView:   req.ReportView,
		ReportCreate: req.ReportCreate,
		ReportEdit:   req.ReportEdit,
		ReportDelete: req.ReportDelete,

		FacilityView:   req.FacilityView,
		FacilityCreate: req.FacilityCreate,
		FacilityEdit:   req.FacilityEdit,
		FacilityDelete: req.FacilityDelete,
	}

	created, err := h.roleService.Create(c.Request().Context(), middleware.CurrentUser(c), role)
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Update godoc
// @Summary Update a role
// @Tags roles
// @Accept json
// @Param request body UpdateRoleRequest true "Fields to update"
// @Success 204
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /role [put]
func (h *RoleHandler) Update(c echo.Context) error {
	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Missing required field", Code: "VALIDATION_FAILED",
		})
	}

	err := h.roleService.Update(c.Request().Context(), middleware.CurrentUser(c), service.UpdateRoleInput{
		ID:          req.ID,
		Name:        req.Name,
		Level:       req.Level,
		HasPassword: req.HasPassword,
		Flags:       req.flagColumns(),
	})
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete a role
// @Tags roles
// @Param id query string true "Role id"
// @Success 204
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /role [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.roleService.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
