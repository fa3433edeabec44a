package cart

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"dinehub/internal/cart"
	"dinehub/internal/catalog"
	"dinehub/internal/money"
	"dinehub/internal/mykafka"
)

// CartHandler serves the in-memory session cart. Prices always come from
// the catalog, never from the request body.
type CartHandler struct {
	Store    *cart.Store
	Catalog  *catalog.Service
	Producer *mykafka.Producer
}

type cartResponse struct {
	Lines           []cart.Line `json:"lines"`
	ItemCount       uint        `json:"item_count"`
	Subtotal        float64     `json:"subtotal"`
	SubtotalDisplay string      `json:"subtotal_display"`
}

func (h *CartHandler) respond(c echo.Context, ca *cart.Cart) error {
	subtotal := ca.Subtotal()
	return c.JSON(http.StatusOK, cartResponse{
		Lines:           ca.Snapshot(),
		ItemCount:       ca.ItemCount(),
		Subtotal:        subtotal,
		SubtotalDisplay: money.Format(subtotal),
	})
}

func (h *CartHandler) GetCart(c echo.Context) error {
	return h.respond(c, h.Store.Get(sessionKey(c)))
}

// AddItem merges into the session cart. A zero quantity is a no-op by
// policy, not an error: the cart comes back unchanged.
func (h *CartHandler) AddItem(c echo.Context) error {
	var req struct {
		MenuItemID uint `json:"menu_item_id"`
		Quantity   uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	ca := h.Store.Get(sessionKey(c))
	if req.Quantity == 0 {
		return h.respond(c, ca)
	}

	item, err := h.Catalog.MenuItem(c.Request().Context(), req.MenuItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ca.AddItem(cart.Line{
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		ImageURL:   item.ImageURL,
	}, req.Quantity)

	h.publish(c, map[string]any{
		"type":        "cart_item_added",
		"session":     sessionKey(c),
		"menu_item":   item.ID,
		"quantity":    req.Quantity,
		"total_count": ca.ItemCount(),
	})
	return h.respond(c, ca)
}

// UpdateItem sets the quantity exactly; zero removes the line.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	ca := h.Store.Get(sessionKey(c))
	ca.UpdateQuantity(uint(id), req.Quantity)

	h.publish(c, map[string]any{
		"type":      "cart_item_updated",
		"session":   sessionKey(c),
		"menu_item": id,
		"quantity":  req.Quantity,
	})
	return h.respond(c, ca)
}

// RemoveItem drops the line; removing an absent line is a no-op.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ca := h.Store.Get(sessionKey(c))
	ca.RemoveItem(uint(id))

	h.publish(c, map[string]any{
		"type":      "cart_item_removed",
		"session":   sessionKey(c),
		"menu_item": id,
	})
	return h.respond(c, ca)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ca := h.Store.Get(sessionKey(c))
	ca.Clear()

	h.publish(c, map[string]any{
		"type":    "cart_cleared",
		"session": sessionKey(c),
	})
	return c.NoContent(http.StatusNoContent)
}
