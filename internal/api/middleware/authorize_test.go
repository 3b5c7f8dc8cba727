package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/auth"
	"inkwell/internal/authz"
)

type fakeAuthorizer struct {
	err        error
	lastToken  string
	lastMethod string
	lastPath   string
	calls      int
}

func (f *fakeAuthorizer) Authorize(ctx context.Context, token, method, path string) error {
	f.calls++
	f.lastToken = token
	f.lastMethod = method
	f.lastPath = path
	return f.err
}

func runRequest(t *testing.T, engine *fakeAuthorizer, method, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := NewAuthorizeMiddleware(engine, true)
	handler := mw.Middleware()(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "ok"})
	})
	require.NoError(t, handler(c))
	return rec
}

func TestMiddlewareSkipsOpenPaths(t *testing.T) {
	open := []string{
		"/api/auth/login",
		"/api/auth/session",
		"/api/users/abc-123",
		"/api/permissions/userpermission",
		"/api/menu/items",
		"/api/astroblog",
		"/api/astroblog/trending",
	}

	for _, path := range open {
		engine := &fakeAuthorizer{err: authz.ErrForbidden}
		rec := runRequest(t, engine, http.MethodGet, path, nil)

		assert.Equal(t, http.StatusOK, rec.Code, "path %s", path)
		assert.Zero(t, engine.calls, "path %s should bypass the engine", path)
	}
}

func TestMiddlewareGatesUsersCollection(t *testing.T) {
	// "/api/users/" detail routes are open, the collection is not.
	engine := &fakeAuthorizer{err: authz.ErrNoSession}
	rec := runRequest(t, engine, http.MethodGet, "/api/users", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 1, engine.calls)
}

func TestMiddlewareDecisionMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"allowed", nil, http.StatusOK, "ok"},
		{"no session", authz.ErrNoSession, http.StatusUnauthorized, "Unauthorized: No session ID provided"},
		{"invalid session", authz.ErrSessionInvalid, http.StatusUnauthorized, "Unauthorized: Invalid session or user not found"},
		{"expired session", authz.ErrSessionExpired, http.StatusUnauthorized, "Session expired"},
		{"no grants", authz.ErrNoGrants, http.StatusForbidden, "Forbidden: No roles or permissions assigned"},
		{"denied", authz.ErrForbidden, http.StatusForbidden, "Forbidden: Access denied"},
		{"store fault", errors.New("connection refused"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeAuthorizer{err: tt.err}
			cookie := &http.Cookie{Name: auth.SessionCookie, Value: "tok-1"}
			rec := runRequest(t, engine, http.MethodDelete, "/api/blog/abc", cookie)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
		})
	}
}

func TestMiddlewarePassesRequestDetails(t *testing.T) {
	engine := &fakeAuthorizer{}
	cookie := &http.Cookie{Name: auth.SessionCookie, Value: "tok-42"}
	runRequest(t, engine, http.MethodPatch, "/api/settings", cookie)

	assert.Equal(t, "tok-42", engine.lastToken)
	assert.Equal(t, http.MethodPatch, engine.lastMethod)
	assert.Equal(t, "/api/settings", engine.lastPath)
}

func TestMiddlewareMissingCookie(t *testing.T) {
	engine := &fakeAuthorizer{err: authz.ErrNoSession}
	runRequest(t, engine, http.MethodGet, "/api/blog", nil)

	assert.Empty(t, engine.lastToken)
}

func TestMiddlewareClearsCookieOnExpiry(t *testing.T) {
	engine := &fakeAuthorizer{err: authz.ErrSessionExpired}
	cookie := &http.Cookie{Name: auth.SessionCookie, Value: "stale"}
	rec := runRequest(t, engine, http.MethodGet, "/api/blog", cookie)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cleared := cookies[0]
	assert.Equal(t, auth.SessionCookie, cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)
	assert.True(t, cleared.HttpOnly)
	assert.True(t, cleared.Secure)
}
