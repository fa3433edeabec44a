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

	"dinehub/internal/draft"
	"dinehub/internal/logging"
	"dinehub/internal/models"
	"dinehub/internal/mykafka"
	"dinehub/internal/qr"
)

type ReservationHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	QR       qr.Generator
}

// Create validates the reservation draft before anything touches the
// database; a draft with yesterday's date never reaches persistence.
func (h *ReservationHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "reservation_create")

	userID, err := UserID(c)
	if err != nil {
		return err
	}

	var d draft.ReservationDraft
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := d.Validate(time.Now()); err != nil {
		var verr *draft.ValidationError
		if errors.As(err, &verr) {
			l.Warn("reservation_rejected", "field", verr.Field, "reason", verr.Reason)
			return c.JSON(http.StatusBadRequest, verr)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if d.TableID != nil {
		var table models.Table
		if err := h.DB.Where("id = ? AND restaurant_id = ?", *d.TableID, d.RestaurantID).First(&table).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusBadRequest, "table not found at this restaurant")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	reservation := models.Reservation{
		UserID:       userID,
		RestaurantID: d.RestaurantID,
		TableID:      d.TableID,
		Date:         d.Date,
		Time:         d.Time,
		PartySize:    d.PartySize,
		Status:       "pending",
		Code:         uuid.NewString(),
		CreatedAt:    time.Now().Unix(),
	}
	if err := h.DB.Create(&reservation).Error; err != nil {
		l.Error("reservation_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create reservation")
	}

	h.publish(c, map[string]any{
		"type":          "reservation_created",
		"userID":        userID,
		"reservationID": reservation.ID,
		"code":          reservation.Code,
	})
	l.Info("reservation_ok", "reservation_id", reservation.ID)
	return c.JSON(http.StatusOK, reservation)
}

func (h *ReservationHandler) MyReservations(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}
	var out []models.Reservation
	if err := h.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&out).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}

// Lookup resolves a reservation by its public confirmation code, the same
// code the QR on the confirmation screen encodes.
func (h *ReservationHandler) Lookup(c echo.Context) error {
	code := c.Param("code")
	var r models.Reservation
	if err := h.DB.Where("code = ?", code).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "reservation not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}

func (h *ReservationHandler) QRCode(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var r models.Reservation
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "reservation not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	png, err := h.QR.Reservation(r.Code)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not render qr")
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *ReservationHandler) StaffReservations(c echo.Context) error {
	restaurantID, err := StaffRestaurantID(c)
	if err != nil {
		return err
	}
	var out []models.Reservation
	if err := h.DB.Where("restaurant_id = ?", restaurantID).Order("created_at desc").Find(&out).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReservationHandler) StaffConfirmReservation(c echo.Context) error {
	restaurantID, err := StaffRestaurantID(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	res := h.DB.Model(&models.Reservation{}).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		Update("status", "confirmed")
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "reservation not found")
	}

	h.publish(c, map[string]any{
		"type":          "reservation_confirmed",
		"reservationID": id,
	})
	return c.JSON(http.StatusOK, map[string]any{"id": id, "status": "confirmed"})
}

func (h *ReservationHandler) AdminReservations(c echo.Context) error {
	var out []models.Reservation
	if err := h.DB.Order("created_at desc").Find(&out).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReservationHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "reservation_events", fmt.Sprint(event["reservationID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
