package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/henningcullin/service-system/internal/auth"
	"github.com/henningcullin/service-system/internal/model"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockUserRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	args := m.Called(ctx, id, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

const (
	sessionSecret = "session-secret"
	preAuthSecret = "pre-auth-secret"
)

// serve runs a request through SessionJWT + ResolveUser into a handler
// that echoes the resolved user's email.
func serve(t *testing.T, repo *mockUserRepo, decorate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	handler := func(c echo.Context) error {
		user := CurrentUser(c)
		assert.NotNil(t, user)
		return c.String(http.StatusOK, user.Email)
	}
	wrapped := SessionJWT(sessionSecret)(ResolveUser(repo)(handler))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := wrapped(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func activeUser(id uuid.UUID) *model.User {
	return &model.User{
		ID:     id,
		Email:  "admin@example.com",
		Active: true,
		Role:   model.Role{ID: uuid.New(), Level: 1},
	}
}

func TestSessionJWTMissingToken(t *testing.T) {
	rec := serve(t, new(mockUserRepo), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionJWTGarbageToken(t *testing.T) {
	rec := serve(t, new(mockUserRepo), func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionJWTRejectsPreAuthToken(t *testing.T) {
	codec := auth.NewTokenCodec(sessionSecret, preAuthSecret, time.Hour)
	preAuth, err := codec.IssuePreAuth("worker@example.com", "hash")
	assert.NoError(t, err)

	rec := serve(t, new(mockUserRepo), func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: preAuth})
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResolveUserFromCookie(t *testing.T) {
	codec := auth.NewTokenCodec(sessionSecret, preAuthSecret, time.Hour)
	userID := uuid.New()
	token, err := codec.IssueSession(userID)
	assert.NoError(t, err)

	repo := new(mockUserRepo)
	repo.On("FindByID", mock.Anything, userID).Return(activeUser(userID), nil)

	rec := serve(t, repo, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin@example.com", rec.Body.String())
	repo.AssertExpectations(t)
}

func TestResolveUserFromBearerHeader(t *testing.T) {
	codec := auth.NewTokenCodec(sessionSecret, preAuthSecret, time.Hour)
	userID := uuid.New()
	token, err := codec.IssueSession(userID)
	assert.NoError(t, err)

	repo := new(mockUserRepo)
	repo.On("FindByID", mock.Anything, userID).Return(activeUser(userID), nil)

	rec := serve(t, repo, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestResolveUserDeactivated(t *testing.T) {
	codec := auth.NewTokenCodec(sessionSecret, preAuthSecret, time.Hour)
	userID := uuid.New()
	token, err := codec.IssueSession(userID)
	assert.NoError(t, err)

	user := activeUser(userID)
	user.Active = false

	repo := new(mockUserRepo)
	repo.On("FindByID", mock.Anything, userID).Return(user, nil)

	rec := serve(t, repo, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestResolveUserStaleID(t *testing.T) {
	codec := auth.NewTokenCodec(sessionSecret, preAuthSecret, time.Hour)
	userID := uuid.New()
	token, err := codec.IssueSession(userID)
	assert.NoError(t, err)

	repo := new(mockUserRepo)
	repo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

	rec := serve(t, repo, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	})
	// A deleted account makes the token invalid, not the resource missing.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
