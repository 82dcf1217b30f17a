package apperrors

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var (
	// ErrUnauthorized is returned when no credentials accompany a request.
	ErrUnauthorized = errors.New("not logged in")
	// ErrInvalidToken is returned for any token that fails decoding, has a
	// bad signature, or is expired. The variants are never distinguished to
	// the client.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingPermission is returned when a capability flag or the
	// hierarchy guard denies an action.
	ErrMissingPermission = errors.New("missing permission")
	// ErrAccountDeactivated is returned when the account's active flag is false.
	ErrAccountDeactivated = errors.New("account deactivated")
	// ErrIncorrectPassword is returned when password verification fails.
	ErrIncorrectPassword = errors.New("incorrect password")
	// ErrIncorrectCode is returned when a one-time code does not match the
	// hash embedded in the pre-auth token.
	ErrIncorrectCode = errors.New("incorrect code")
	// ErrEmailTaken is returned when creating a user with an existing email.
	ErrEmailTaken = errors.New("email taken")
	// ErrNoPasswordSupplied is returned when a password role is created or
	// assigned without a password.
	ErrNoPasswordSupplied = errors.New("no password supplied")
	// ErrPasswordNotAllowed is returned when a password is set on an account
	// whose role logs in with one-time codes.
	ErrPasswordNotAllowed = errors.New("password not allowed")
	// ErrNoFieldsToUpdate is returned when an update carries no fields.
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// MapToHTTP is the single boundary between domain errors and transport.
// Every variant maps to a fixed status code and a fixed, non-leaking
// message; internal detail is logged here and nowhere else.
func MapToHTTP(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, ErrorResponse{
			Error: "You are not logged in", Code: "UNAUTHORIZED",
		})
	case errors.Is(err, ErrInvalidToken):
		return echo.NewHTTPError(http.StatusUnauthorized, ErrorResponse{
			Error: "Invalid token", Code: "INVALID_TOKEN",
		})
	case errors.Is(err, ErrMissingPermission):
		return echo.NewHTTPError(http.StatusForbidden, ErrorResponse{
			Error: "You lack permission to do this action", Code: "MISSING_PERMISSION",
		})
	case errors.Is(err, ErrAccountDeactivated):
		return echo.NewHTTPError(http.StatusForbidden, ErrorResponse{
			Error: "Your account has been deactivated", Code: "ACCOUNT_DEACTIVATED",
		})
	case errors.Is(err, ErrIncorrectPassword):
		return echo.NewHTTPError(http.StatusForbidden, ErrorResponse{
			Error: "Incorrect password", Code: "INCORRECT_PASSWORD",
		})
	case errors.Is(err, ErrIncorrectCode):
		return echo.NewHTTPError(http.StatusForbidden, ErrorResponse{
			Error: "Incorrect code", Code: "INCORRECT_CODE",
		})
	case errors.Is(err, ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, ErrorResponse{
			Error: "This email is already taken", Code: "EMAIL_TAKEN",
		})
	case errors.Is(err, ErrNoPasswordSupplied):
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{
			Error: "No password supplied", Code: "NO_PASSWORD_SUPPLIED",
		})
	case errors.Is(err, ErrPasswordNotAllowed):
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{
			Error: "This account's role does not use a password", Code: "PASSWORD_NOT_ALLOWED",
		})
	case errors.Is(err, ErrNoFieldsToUpdate):
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{
			Error: "No fields to update provided", Code: "NO_FIELDS_TO_UPDATE",
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Printf("record not found: %v", err)
		return echo.NewHTTPError(http.StatusNotFound, ErrorResponse{
			Error: "Not found", Code: "NOT_FOUND",
		})
	default:
		log.Printf("internal error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error", Code: "INTERNAL_ERROR",
		})
	}
}
