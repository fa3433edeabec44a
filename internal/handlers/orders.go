package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"dinehub/internal/cart"
	"dinehub/internal/draft"
	"dinehub/internal/logging"
	"dinehub/internal/models"
	"dinehub/internal/money"
	"dinehub/internal/mykafka"
)

type OrderHandler struct {
	DB       *gorm.DB
	Store    *cart.Store
	Producer *mykafka.Producer
}

type orderResponse struct {
	OrderID      uint               `json:"order_id"`
	Code         string             `json:"code"`
	Total        float64            `json:"total"`
	TotalDisplay string             `json:"total_display"`
	Status       string             `json:"status"`
	Items        []models.OrderItem `json:"items"`
}

// Checkout turns the session cart into an order. The draft is a snapshot:
// validation and persistence work off it, and only a committed order clears
// the live cart. On any failure the cart is left as it was for a retry.
func (h *OrderHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_checkout")

	userID, err := UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		RestaurantID uint           `json:"restaurant_id"`
		Customer     draft.Customer `json:"customer"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	userCart := h.Store.Get("u:" + strconv.FormatUint(uint64(userID), 10))
	d := draft.NewOrderDraft(req.RestaurantID, userCart, req.Customer)
	if err := d.Validate(); err != nil {
		var verr *draft.ValidationError
		if errors.As(err, &verr) {
			l.Warn("checkout_rejected", "field", verr.Field, "reason", verr.Reason)
			return c.JSON(http.StatusBadRequest, verr)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var (
		order      models.Order
		orderItems []models.OrderItem
	)
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		// prices are re-read inside the transaction; the draft's snapshot
		// fixes which lines are ordered, the catalog fixes what they cost
		var total float64
		orderItems = make([]models.OrderItem, 0, len(d.Lines))
		for _, line := range d.Lines {
			var item models.MenuItem
			if err := tx.First(&item, line.MenuItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusBadRequest, "menu item not found")
				}
				return err
			}
			if item.RestaurantID != d.RestaurantID {
				return &draft.ValidationError{Field: "lines", Reason: "menu item belongs to another restaurant"}
			}
			total += money.Line(item.Price, line.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				MenuItemID: item.ID,
				Name:       item.Name,
				UnitPrice:  item.Price,
				Quantity:   line.Quantity,
			})
		}

		order = models.Order{
			UserID:       userID,
			RestaurantID: d.RestaurantID,
			Total:        total,
			Status:       "new",
			Code:         uuid.NewString(),
			CustomerName: d.Customer.Name,
			CustomerMail: d.Customer.Email,
			CreatedAt:    time.Now().Unix(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range orderItems {
			orderItems[i].OrderID = order.ID
			if err := tx.Create(&orderItems[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		var verr *draft.ValidationError
		if errors.As(txErr, &verr) {
			l.Warn("checkout_rejected", "field", verr.Field, "reason", verr.Reason)
			return c.JSON(http.StatusBadRequest, verr)
		}
		var he *echo.HTTPError
		if errors.As(txErr, &he) {
			return he
		}
		l.Error("checkout_failed", "error", txErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not place order")
	}

	// Clear is idempotent, so a re-submitted confirmation cannot clear a
	// newer cart twice over.
	userCart.Clear()

	h.publish(c, "order_events", fmt.Sprint(order.ID), map[string]any{
		"type":     "order_created",
		"userID":   userID,
		"orderID":  order.ID,
		"code":     order.Code,
		"total":    order.Total,
		"items":    orderItems,
	})
	l.Info("checkout_ok", "order_id", order.ID, "total", order.Total)

	return c.JSON(http.StatusOK, orderResponse{
		OrderID:      order.ID,
		Code:         order.Code,
		Total:        order.Total,
		TotalDisplay: money.Format(order.Total),
		Status:       order.Status,
		Items:        orderItems,
	})
}

func (h *OrderHandler) MyOrders(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}
	var orders []models.Order
	if err := h.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	var items []models.OrderItem
	if err := h.DB.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orderResponse{
		OrderID:      order.ID,
		Code:         order.Code,
		Total:        order.Total,
		TotalDisplay: money.Format(order.Total),
		Status:       order.Status,
		Items:        items,
	})
}

// StaffOrders lists the orders of the staff member's own restaurant only.
func (h *OrderHandler) StaffOrders(c echo.Context) error {
	restaurantID, err := StaffRestaurantID(c)
	if err != nil {
		return err
	}
	var orders []models.Order
	if err := h.DB.Where("restaurant_id = ?", restaurantID).Order("created_at desc").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) StaffConfirmOrder(c echo.Context) error {
	return h.staffSetStatus(c, "confirmed")
}

func (h *OrderHandler) StaffCompleteOrder(c echo.Context) error {
	return h.staffSetStatus(c, "completed")
}

func (h *OrderHandler) staffSetStatus(c echo.Context, status string) error {
	restaurantID, err := StaffRestaurantID(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	res := h.DB.Model(&models.Order{}).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		Update("status", status)
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	h.publish(c, "order_events", c.Param("id"), map[string]any{
		"type":    "order_status_changed",
		"orderID": id,
		"status":  status,
	})
	return c.JSON(http.StatusOK, map[string]any{"id": id, "status": status})
}

func (h *OrderHandler) AdminOrders(c echo.Context) error {
	var orders []models.Order
	if err := h.DB.Order("created_at desc").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) publish(c echo.Context, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, topic, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
