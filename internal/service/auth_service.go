package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/henningcullin/service-system/internal/apperrors"
	"github.com/henningcullin/service-system/internal/auth"
	"github.com/henningcullin/service-system/internal/mailer"
	"github.com/henningcullin/service-system/internal/repository"
)

// LoginKind tells the client which second step applies to the account.
type LoginKind string

const (
	// LoginKindPassword means the account logs in with its stored password.
	LoginKindPassword LoginKind = "Password"
	// LoginKindOTP means a one-time code has been issued and delivered.
	LoginKindOTP LoginKind = "OTP"
)

// AuthService drives the dual-path login flow. Which path applies is a
// property of the account's role (HasPassword), not of the request.
type AuthService interface {
	// Initiate resolves the login path for an email. For OTP accounts it
	// also returns a signed pre-auth token to be set as a cookie; for
	// password accounts the token is empty and any stale pre-auth cookie
	// should be cleared.
	Initiate(ctx context.Context, email string) (LoginKind, string, error)
	// LoginPassword verifies a password and returns a signed session token.
	LoginPassword(ctx context.Context, email, password string) (string, error)
	// LoginOTP verifies a one-time code against the pre-auth token issued by
	// Initiate and returns a signed session token.
	LoginOTP(ctx context.Context, preAuthToken, code string) (string, error)
}

type authService struct {
	users  repository.UserRepository
	codec  *auth.TokenCodec
	mailer mailer.Mailer
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, codec *auth.TokenCodec, m mailer.Mailer) AuthService {
	return &authService{users: users, codec: codec, mailer: m}
}

func (s *authService) Initiate(ctx context.Context, email string) (LoginKind, string, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return "", "", err
	}

	if !user.Active {
		return "", "", apperrors.ErrAccountDeactivated
	}

	if user.Role.HasPassword {
		return LoginKindPassword, "", nil
	}

	code, err := auth.GenerateCode()
	if err != nil {
		return "", "", err
	}

	hash, err := auth.HashSecret(code)
	if err != nil {
		return "", "", fmt.Errorf("hash login code: %w", err)
	}

	token, err := s.codec.IssuePreAuth(user.Email, hash)
	if err != nil {
		return "", "", err
	}

	if err := s.mailer.SendLoginCode(ctx, user.Email, code); err != nil {
		return "", "", fmt.Errorf("deliver login code: %w", err)
	}

	return LoginKindOTP, token, nil
}

func (s *authService) LoginPassword(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return "", err
	}

	// Wrong path for this account; OTP accounts have no password to check.
	if !user.Role.HasPassword {
		return "", apperrors.ErrMissingPermission
	}

	if !user.Active {
		return "", apperrors.ErrAccountDeactivated
	}

	if user.Password == nil {
		return "", fmt.Errorf("user %s has a password role but no stored hash", user.ID)
	}

	if !auth.VerifySecret(password, *user.Password) {
		return "", apperrors.ErrIncorrectPassword
	}

	// Concurrent logins race on this write; last one wins, nothing depends
	// on the ordering.
	_ = s.users.UpdateLastLogin(ctx, user.ID, time.Now())

	return s.codec.IssueSession(user.ID)
}

func (s *authService) LoginOTP(ctx context.Context, preAuthToken, code string) (string, error) {
	claims, err := s.codec.VerifyPreAuth(preAuthToken)
	if err != nil {
		return "", err
	}

	if !auth.VerifySecret(code, claims.Hash) {
		return "", apperrors.ErrIncorrectCode
	}

	// The pre-auth token carries the email, not the id; if the account's
	// email changed since Initiate the token dangles until it expires.
	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		return "", err
	}

	if !user.Active {
		return "", apperrors.ErrAccountDeactivated
	}

	_ = s.users.UpdateLastLogin(ctx, user.ID, time.Now())

	return s.codec.IssueSession(user.ID)
}
