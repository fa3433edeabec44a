package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// UserID reads the identity stashed by the access middleware. Handlers that
// serve user-owned data fail with 401 when it is absent, regardless of what
// the guard decided for the route: an optimistic Pending render never leaks
// another user's rows.
func UserID(c echo.Context) (uint, error) {
	if id, ok := c.Get("userID").(uint); ok && id != 0 {
		return id, nil
	}
	return 0, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
}

func Role(c echo.Context) string {
	if role, ok := c.Get("role").(string); ok {
		return role
	}
	return ""
}

func StaffRestaurantID(c echo.Context) (uint, error) {
	if id, ok := c.Get("restaurantID").(uint); ok && id != 0 {
		return id, nil
	}
	return 0, echo.NewHTTPError(http.StatusForbidden, "no restaurant bound to this account")
}
