package cart

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// sessionKey identifies the cart owner: the authenticated user when there
// is one, otherwise an anonymous session cookie minted on first touch.
func sessionKey(c echo.Context) string {
	if userID, ok := c.Get("userID").(uint); ok && userID != 0 {
		return "u:" + strconv.FormatUint(uint64(userID), 10)
	}

	if cookie, err := c.Cookie("cartSession"); err == nil && cookie.Value != "" {
		return "s:" + cookie.Value
	}
	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     "cartSession",
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return "s:" + id
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", sessionKey(c), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
