package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"inkwell/internal/auth"
	"inkwell/internal/authz"
	"inkwell/internal/utils/logger"
)

var log = logger.New("authorize_middleware")

// Authorizer is the decision engine behind the request gate.
type Authorizer interface {
	Authorize(ctx context.Context, token, method, path string) error
}

// AuthorizeMiddleware gates every API request on the session cookie and the
// caller's role grants. A handful of paths stay open so login, the permission
// snapshot fetch and the public blog feed work without a validated session.
type AuthorizeMiddleware struct {
	engine       Authorizer
	secureCookie bool
}

func NewAuthorizeMiddleware(engine Authorizer, secureCookie bool) *AuthorizeMiddleware {
	return &AuthorizeMiddleware{engine: engine, secureCookie: secureCookie}
}

// skipAuthorize lists the paths served without a gate decision. The user
// detail prefix requires the trailing slash on purpose: the users collection
// itself stays gated.
func skipAuthorize(path string) bool {
	return strings.HasPrefix(path, "/api/auth") ||
		strings.HasPrefix(path, "/api/users/") ||
		path == "/api/permissions/userpermission" ||
		path == "/api/menu/items" ||
		strings.HasPrefix(path, "/api/astroblog")
}

func (m *AuthorizeMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if skipAuthorize(path) {
				return next(c)
			}

			var token string
			if cookie, err := c.Cookie(auth.SessionCookie); err == nil {
				token = cookie.Value
			}

			err := m.engine.Authorize(c.Request().Context(), token, c.Request().Method, path)
			if err == nil {
				return next(c)
			}

			switch {
			case errors.Is(err, authz.ErrNoSession):
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized: No session ID provided"})
			case errors.Is(err, authz.ErrSessionInvalid):
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized: Invalid session or user not found"})
			case errors.Is(err, authz.ErrSessionExpired):
				m.clearSessionCookie(c)
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Session expired"})
			case errors.Is(err, authz.ErrNoGrants):
				return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden: No roles or permissions assigned"})
			case errors.Is(err, authz.ErrForbidden):
				return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden: Access denied"})
			default:
				log.Error("Authorization error", err)
				return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
			}
		}
	}
}

func (m *AuthorizeMiddleware) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secureCookie,
	})
}
