// Package middleware resolves inbound requests to an authenticated, active
// user before any protected handler runs.
package middleware

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/henningcullin/service-system/internal/apperrors"
	"github.com/henningcullin/service-system/internal/auth"
	"github.com/henningcullin/service-system/internal/model"
	"github.com/henningcullin/service-system/internal/repository"
)

const currentUserKey = "currentUser"

// SessionJWT extracts and verifies the session token: the "token" cookie
// first, then an Authorization bearer header. Every extraction or
// verification failure becomes a 401 without further detail.
func SessionJWT(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(secret),
		TokenLookup: "cookie:token,header:Authorization:Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.SessionClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, echojwt.ErrJWTMissing) {
				return apperrors.MapToHTTP(apperrors.ErrUnauthorized)
			}
			return apperrors.MapToHTTP(apperrors.ErrInvalidToken)
		},
	})
}

// ResolveUser loads the user the verified session claims point at, rejects
// deactivated accounts, and stores the user in the request context. It
// performs no writes; last-login bumps happen at login only.
func ResolveUser(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return apperrors.MapToHTTP(apperrors.ErrUnauthorized)
			}

			claims, ok := token.Claims.(*auth.SessionClaims)
			if !ok {
				return apperrors.MapToHTTP(apperrors.ErrInvalidToken)
			}

			id, err := uuid.Parse(claims.Subject)
			if err != nil {
				return apperrors.MapToHTTP(apperrors.ErrInvalidToken)
			}

			user, err := users.FindByID(c.Request().Context(), id)
			if err != nil {
				// A stale id means a stale token, not a missing resource.
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.MapToHTTP(apperrors.ErrInvalidToken)
				}
				return apperrors.MapToHTTP(err)
			}

			if !user.Active {
				return apperrors.MapToHTTP(apperrors.ErrAccountDeactivated)
			}

			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the resolved user for a request, or nil when called
// outside a protected route.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(currentUserKey).(*model.User)
	return user
}
