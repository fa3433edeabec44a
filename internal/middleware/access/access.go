// Package access adapts the guard decision table to echo middleware.
package access

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"dinehub/internal/guard"
	"dinehub/internal/logging"
	"dinehub/internal/session"
)

// TokenFrom reads the access token from the auth cookie, falling back to a
// bearer header for API callers.
func TokenFrom(c echo.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}

// Require resolves the session and applies the guard. Redirects are issued
// as 302s; a pending session passes through optimistically and the handler
// behind it re-verifies whatever it actually serves.
func Require(m *session.Manager, required guard.Required) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := TokenFrom(c)

			// resolution is given a bounded window; past it the guard
			// re-evaluates with whatever is known
			ctx, cancel := context.WithTimeout(c.Request().Context(), guard.PendingWait)
			s := m.Resolve(ctx, token)
			cancel()

			d := guard.Decide(required, guard.Session{
				Role:     s.Role,
				HasToken: token != "",
				Resolved: s.Resolved,
			})

			switch d.State {
			case guard.Redirect:
				return c.Redirect(http.StatusFound, d.Target)
			case guard.Pending:
				logging.FromContext(c.Request().Context()).Warn("access_pending",
					"path", c.Path(), "required", int(required))
			}

			if s.Resolved && s.UserID != 0 {
				c.Set("userID", s.UserID)
				c.Set("role", s.Role)
				if s.RestaurantID != 0 {
					c.Set("restaurantID", s.RestaurantID)
				}
			}
			return next(c)
		}
	}
}
