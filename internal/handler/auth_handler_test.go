package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/henningcullin/service-system/internal/apperrors"
	"github.com/henningcullin/service-system/internal/service"
)

// MockAuthService is a mock implementation of AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Initiate(ctx context.Context, email string) (service.LoginKind, string, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(service.LoginKind), args.String(1), args.Error(2)
}

func (m *MockAuthService) LoginPassword(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) LoginOTP(ctx context.Context, preAuthToken, code string) (string, error) {
	args := m.Called(ctx, preAuthToken, code)
	return args.String(0), args.Error(1)
}

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}
	return e
}

func post(e *echo.Echo, body string, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func run(e *echo.Echo, c echo.Context, fn echo.HandlerFunc) {
	if err := fn(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
}

func TestAuthHandler_InitiateOTPSetsPreAuthCookie(t *testing.T) {
	e := newTestEcho()
	mockAuth := new(MockAuthService)
	mockAuth.On("Initiate", mock.Anything, "worker@example.com").
		Return(service.LoginKindOTP, "pre-auth-token", nil)

	h := NewAuthHandler(mockAuth, time.Hour)
	c, rec := post(e, `{"email":"worker@example.com"}`)
	run(e, c, h.Initiate)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"OTP"`)

	cookie := cookieByName(rec, "auth_token")
	assert.NotNil(t, cookie)
	assert.Equal(t, "pre-auth-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 300, cookie.MaxAge)

	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_InitiatePasswordClearsPreAuthCookie(t *testing.T) {
	e := newTestEcho()
	mockAuth := new(MockAuthService)
	mockAuth.On("Initiate", mock.Anything, "admin@example.com").
		Return(service.LoginKindPassword, "", nil)

	h := NewAuthHandler(mockAuth, time.Hour)
	c, rec := post(e, `{"email":"admin@example.com"}`)
	run(e, c, h.Initiate)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"Password"`)

	cookie := cookieByName(rec, "auth_token")
	assert.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestAuthHandler_InitiateRejectsBadEmail(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(new(MockAuthService), time.Hour)

	c, rec := post(e, `{"email":"not-an-email"}`)
	run(e, c, h.Initiate)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_LoginPasswordSetsSessionCookie(t *testing.T) {
	e := newTestEcho()
	mockAuth := new(MockAuthService)
	mockAuth.On("LoginPassword", mock.Anything, "admin@example.com", "secret").
		Return("session-token", nil)

	h := NewAuthHandler(mockAuth, 90*time.Minute)
	c, rec := post(e, `{"email":"admin@example.com","password":"secret"}`)
	run(e, c, h.LoginPassword)

	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := cookieByName(rec, "token")
	assert.NotNil(t, cookie)
	assert.Equal(t, "session-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 90*60, cookie.MaxAge)

	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_LoginPasswordIncorrect(t *testing.T) {
	e := newTestEcho()
	mockAuth := new(MockAuthService)
	mockAuth.On("LoginPassword", mock.Anything, "admin@example.com", "wrong").
		Return("", apperrors.ErrIncorrectPassword)

	h := NewAuthHandler(mockAuth, time.Hour)
	c, rec := post(e, `{"email":"admin@example.com","password":"wrong"}`)
	run(e, c, h.LoginPassword)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, cookieByName(rec, "token"))
}

func TestAuthHandler_LoginOTP(t *testing.T) {
	preAuthCookie := &http.Cookie{Name: "auth_token", Value: "pre-auth-token"}

	t.Run("success swaps the pre-auth cookie for a session", func(t *testing.T) {
		e := newTestEcho()
		mockAuth := new(MockAuthService)
		mockAuth.On("LoginOTP", mock.Anything, "pre-auth-token", "A1B2C3").
			Return("session-token", nil)

		h := NewAuthHandler(mockAuth, time.Hour)
		c, rec := post(e, `{"code":"A1B2C3"}`, preAuthCookie)
		run(e, c, h.LoginOTP)

		assert.Equal(t, http.StatusOK, rec.Code)

		session := cookieByName(rec, "token")
		assert.NotNil(t, session)
		assert.Equal(t, "session-token", session.Value)

		cleared := cookieByName(rec, "auth_token")
		assert.NotNil(t, cleared)
		assert.Negative(t, cleared.MaxAge)

		mockAuth.AssertExpectations(t)
	})

	t.Run("missing pre-auth cookie", func(t *testing.T) {
		e := newTestEcho()
		h := NewAuthHandler(new(MockAuthService), time.Hour)

		c, rec := post(e, `{"code":"A1B2C3"}`)
		run(e, c, h.LoginOTP)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("incorrect code leaves the pre-auth cookie alone", func(t *testing.T) {
		e := newTestEcho()
		mockAuth := new(MockAuthService)
		mockAuth.On("LoginOTP", mock.Anything, "pre-auth-token", "000000").
			Return("", apperrors.ErrIncorrectCode)

		h := NewAuthHandler(mockAuth, time.Hour)
		c, rec := post(e, `{"code":"000000"}`, preAuthCookie)
		run(e, c, h.LoginOTP)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Nil(t, cookieByName(rec, "auth_token"))
		assert.Nil(t, cookieByName(rec, "token"))
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(new(MockAuthService), time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	run(e, c, h.Logout)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := cookieByName(rec, "token")
	assert.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
