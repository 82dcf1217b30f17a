package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/henningcullin/service-system/internal/apperrors"
	"github.com/henningcullin/service-system/internal/auth"
	"github.com/henningcullin/service-system/internal/middleware"
	"github.com/henningcullin/service-system/internal/service"
)

// Cookie names. The session cookie and the pre-auth cookie are distinct so
// a half-finished OTP login never shadows an existing session.
const (
	sessionCookieName = "token"
	preAuthCookieName = "auth_token"
)

// AuthHandler handles the login endpoints and cookie emission.
type AuthHandler struct {
	authService service.AuthService
	sessionTTL  time.Duration
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, sessionTTL: sessionTTL}
}

// InitiateRequest asks which login path applies to an account.
type InitiateRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// InitiateResponse tells the client which second step to present.
type InitiateResponse struct {
	Kind service.LoginKind `json:"kind"`
}

// PasswordLoginRequest carries password-path credentials.
type PasswordLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// OTPLoginRequest carries the one-time code for the OTP path.
type OTPLoginRequest struct {
	Code string `json:"code" validate:"required"`
}

// Initiate godoc
// @Summary Start a login, resolving which path applies to the account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body InitiateRequest true "Account email"
// @Success 200 {object} InitiateResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Initiate(c echo.Context) error {
	var req InitiateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Invalid email", Code: "VALIDATION_FAILED",
		})
	}

	kind, preAuthToken, err := h.authService.Initiate(c.Request().Context(), req.Email)
	if err != nil {
		return apperrors.MapToHTTP(err)
	}

	if kind == service.LoginKindPassword {
		// Overwrite any stale pre-auth cookie from an earlier OTP attempt.
		c.SetCookie(clearCookie(preAuthCookieName))
	} else {
		c.SetCookie(newCookie(preAuthCookieName, preAuthToken, auth.PreAuthExpiry))
	}

	return c.JSON(http.StatusOK, InitiateResponse{Kind: kind})
}

// LoginPassword godoc
// @Summary Complete a password-path login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body PasswordLoginRequest true "Credentials"
// @Success 200
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /login/password [post]
func (h *AuthHandler) LoginPassword(c echo.Context) error {
	var req PasswordLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "Invalid email", Code: "VALIDATION_FAILED",
		})
	}

	token, err := h.authService.LoginPassword(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return apperrors.MapToHTTP(err)
	}

	c.SetCookie(newCookie(sessionCookieName, token, h.sessionTTL))
	return c.NoContent(http.StatusOK)
}

// LoginOTP godoc
// @Summary Complete an OTP-path login with the delivered code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body OTPLoginRequest true "One-time code"
// @Success 200
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /login/otp [post]
func (h *AuthHandler) LoginOTP(c echo.Context) error {
	preAuth, err := c.Cookie(preAuthCookieName)
	if err != nil || preAuth.Value == "" {
		return apperrors.MapToHTTP(apperrors.ErrUnauthorized)
	}

	var req OTPLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "No code supplied", Code: "VALIDATION_FAILED",
		})
	}

	token, err := h.authService.LoginOTP(c.Request().Context(), preAuth.Value, req.Code)
	if err != nil {
		return apperrors.MapToHTTP(err)
	}

	c.SetCookie(newCookie(sessionCookieName, token, h.sessionTTL))
	c.SetCookie(clearCookie(preAuthCookieName))
	return c.NoContent(http.StatusOK)
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags auth
// @Success 200
// @Router /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	// Sessions are stateless; expiring the cookie is the whole operation.
	c.SetCookie(clearCookie(sessionCookieName))
	return c.NoContent(http.StatusOK)
}

// Me godoc
// @Summary Return the authenticated user
// @Tags auth
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return apperrors.MapToHTTP(apperrors.ErrUnauthorized)
	}
	return c.JSON(http.StatusOK, user)
}

func newCookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func clearCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
