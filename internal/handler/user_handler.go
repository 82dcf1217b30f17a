package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/henningcullin/service-system/internal/apperrors"
	"github.com/henningcullin/service-system/internal/middleware"
	"github.com/henningcullin/service-system/internal/service"
)

// UserHandler handles user administration endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// NewUserRequest represents a user creation request.
type NewUserRequest struct {
	FirstName  string     `json:"first_name" validate:"required"`
	LastName   string     `json:"last_name" validate:"required"`
	Email      string     `json:"email" validate:"required,email"`
	Password   *string    `json:"password,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	Role       uuid.UUID  `json:"role" validate:"required"`
	Active     *bool      `json:"active,omitempty"`
	Occupation *string    `json:"occupation,omitempty"`
	Image      *string    `json:"image,omitempty"`
	Facility   *uuid.UUID `json:"facility,omitempty"`
}

// UpdateUserRequest represents a partial user update.
type UpdateUserRequest struct {
	ID         uuid.UUID  `json:"id" validate:"required"`
	FirstName  *string    `json:"first_name,omitempty"`
	LastName   *string    `json:"last_name,omitempty"`
	Email      *string    `json:"email,omitempty" validate:"omitempty,email"`
	Password   *string    `json:"password,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	Role       *uuid.UUID `json:"role,omitempty"`
	Active     *bool      `json:"active,omitempty"`
	Occupation *string    `json:"occupation,omitempty"`
	Image      *string    `json:"image,omitempty"`
	Facility   *uuid.UUID `json:"facility,omitempty"`
}

// Details godoc
// @Summary Get one user
// @Tags users
// @Produce json
// @Param id query string true "User id"
// @Success 200 {object} model.User
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /user [get]
func (h *UserHandler) Details(c echo.Context) error {
	id, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	user, err := h.userService.Get(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Index godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} model.User
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) Index(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusOK, users)
}

// Create godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body NewUserRequest true "User data"
// @Success 201 {object} model.User
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /user [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req NewUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Invalid email", Code: "VALIDATION_FAILED",
		})
	}

	user, err := h.userService.Create(c.Request().Context(), middleware.CurrentUser(c), service.NewUserInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		RoleID:     req.Role,
		Active:     req.Active,
		Occupation: req.Occupation,
		Image:      req.Image,
		FacilityID: req.Facility,
	})
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Update godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Param request body UpdateUserRequest true "Fields to update"
// @Success 204
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /user [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Invalid email", Code: "VALIDATION_FAILED",
		})
	}

	err := h.userService.Update(c.Request().Context(), middleware.CurrentUser(c), service.UpdateUserInput{
		ID:         req.ID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		RoleID:     req.Role,
		Active:     req.Active,
		Occupation: req.Occupation,
		Image:      req.Image,
		FacilityID: req.Facility,
	})
	if err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete a user
// @Tags users
// @Param id query string true "User id"
// @Success 204
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /user [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.QueryParam("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.userService.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return apperrors.MapToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
