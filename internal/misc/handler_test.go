package misc

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/evolvefit/fatiguecore/internal/auth"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPasswordHash = "$2a$14$6Gmhg85si2etd3K9oB8nYu1cxfbrdmhkg6wI6OXsa88IF4L2r/L9i" // testpass

func newTestHandler(t *testing.T) (*Handler, redismock.ClientMock) {
	t.Helper()
	rdb, mock := redismock.NewClientMock()
	t.Cleanup(func() {
		_ = rdb.Close()
	})
	authService := auth.NewAuthService(&auth.Admin{
		Username:     "admin",
		PasswordHash: testPasswordHash,
	}, time.Hour, rdb)
	authService.RandStringFunc = func(s int) (string, error) {
		return "test_token", nil
	}
	return NewHandler("v1.2.3", authService), mock
}

func TestHandler_Version(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.handleGetVersionInfo(rec, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1.2.3", rec.Body.String())
}

func TestHandler_Root(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.handleRoot(rec, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_Login_WrongCredentials(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest("POST", "/a/login", strings.NewReader("username=admin&password=nope"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.handleLogin(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Login_EmptyUsername(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest("POST", "/a/login", strings.NewReader(`{"username":"","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.handleLogin(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Logout_NoToken(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/a/logout", nil)
	rec := httptest.NewRecorder()

	h.handleLogout(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
