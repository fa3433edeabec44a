package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"dinehub/internal/notify"
)

// NotificationHandler serves the poller-maintained local feed. Reads are
// whatever the last poll said; mark-read mutations are optimistic and the
// next poll reconciles.
type NotificationHandler struct {
	Center *notify.Center
}

func (h *NotificationHandler) Feed(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.Center.PollerFor(userID).Feed().Items())
}

func (h *NotificationHandler) Count(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{
		"count": h.Center.PollerFor(userID).Feed().UnreadCount(),
	})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	h.Center.PollerFor(userID).MarkRead(c.Request().Context(), uint(id))
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}
	h.Center.PollerFor(userID).MarkAllRead(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}
