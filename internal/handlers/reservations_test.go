package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"dinehub/internal/draft"
	"dinehub/internal/models"
	"dinehub/internal/mykafka"
	"dinehub/internal/qr"
)

func newReservationHandler(t *testing.T) (*ReservationHandler, *gorm.DB) {
	db := initTestDB(t)
	db.Create(&models.Restaurant{Name: "Sakura House"})
	db.Create(&models.Table{RestaurantID: 1, Label: "T1", Seats: 4})

	return &ReservationHandler{
		DB:       db,
		Producer: &mykafka.Producer{},
		QR:       qr.Generator{BaseURL: "http://localhost:8080"},
	}, db
}

func reservationBody(date string) map[string]any {
	return map[string]any{
		"restaurant_id": 1,
		"date":          date,
		"time":          "19:30",
		"party_size":    2,
	}
}

func TestCreateReservation(t *testing.T) {
	h, db := newReservationHandler(t)
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	rec, c := doJSON(t, http.MethodPost, "/api/v1/reservations", reservationBody(tomorrow), 1)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "pending", resp.Status)
	require.NotEmpty(t, resp.Code)
	require.Equal(t, 2, resp.PartySize)

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	require.Equal(t, int64(1), count)
}

func TestCreateReservationYesterdayRejectedBeforePersistence(t *testing.T) {
	h, db := newReservationHandler(t)
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	rec, c := doJSON(t, http.MethodPost, "/api/v1/reservations", reservationBody(yesterday), 1)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var verr draft.ValidationError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verr))
	require.Equal(t, "date", verr.Field)

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	require.Equal(t, int64(0), count)
}

func TestCreateReservationUnknownTable(t *testing.T) {
	h, _ := newReservationHandler(t)
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	body := reservationBody(tomorrow)
	body["table_id"] = 42
	_, c := doJSON(t, http.MethodPost, "/api/v1/reservations", body, 1)
	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestLookupByCode(t *testing.T) {
	h, db := newReservationHandler(t)
	db.Create(&models.Reservation{
		UserID: 1, RestaurantID: 1, Date: "2030-01-01", Time: "18:00",
		PartySize: 4, Status: "confirmed", Code: "abc-123",
	})

	rec, c := doJSON(t, http.MethodGet, "/api/v1/reservations/lookup/abc-123", nil, 0)
	c.SetParamNames("code")
	c.SetParamValues("abc-123")
	require.NoError(t, h.Lookup(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "confirmed", resp.Status)
}

func TestReservationQRCode(t *testing.T) {
	h, db := newReservationHandler(t)
	db.Create(&models.Reservation{
		UserID: 1, RestaurantID: 1, Date: "2030-01-01", Time: "18:00",
		PartySize: 2, Status: "pending", Code: "qr-code-1",
	})

	rec, c := doJSON(t, http.MethodGet, "/api/v1/reservations/1/qr", nil, 1)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.QRCode(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	require.NotEmpty(t, rec.Body.Bytes())

	// someone else's reservation is not served
	_, c = doJSON(t, http.MethodGet, "/api/v1/reservations/1/qr", nil, 2)
	c.SetParamNames("id")
	c.SetParamValues("1")
	err := h.QRCode(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusNotFound, he.Code)
}
