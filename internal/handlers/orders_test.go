package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"dinehub/internal/cart"
	"dinehub/internal/draft"
	"dinehub/internal/models"
	"dinehub/internal/mykafka"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Restaurant{}, &models.MenuCategory{}, &models.MenuItem{},
		&models.Table{}, &models.User{}, &models.RefreshToken{},
		&models.Reservation{}, &models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func doJSON(t *testing.T, method, target string, body any, userID uint) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("userID", userID)
	}
	return rec, c
}

func newOrderHandler(t *testing.T) (*OrderHandler, *gorm.DB) {
	db := initTestDB(t)
	db.Create(&models.Restaurant{Name: "Sakura House", Cuisine: "Japanese"})
	db.Create(&models.MenuItem{RestaurantID: 1, Name: "Sushi Roll", Price: 25})
	db.Create(&models.MenuItem{RestaurantID: 1, Name: "Ramen", Price: 18})

	return &OrderHandler{
		DB:       db,
		Store:    cart.NewStore(),
		Producer: &mykafka.Producer{},
	}, db
}

func checkoutBody(email string) map[string]any {
	return map[string]any{
		"restaurant_id": 1,
		"customer": map[string]string{
			"name":  "Ann",
			"email": email,
			"phone": "555-0101",
		},
	}
}

func TestCheckoutPlacesOrderAndClearsCart(t *testing.T) {
	h, db := newOrderHandler(t)

	userCart := h.Store.Get("u:1")
	userCart.AddItem(cart.Line{MenuItemID: 1, Name: "Sushi Roll", UnitPrice: 25}, 1)
	userCart.AddItem(cart.Line{MenuItemID: 2, Name: "Ramen", UnitPrice: 18}, 2)

	rec, c := doJSON(t, http.MethodPost, "/api/v1/orders", checkoutBody("ann@example.com"), 1)
	require.NoError(t, h.Checkout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, float64(61), resp.Total)
	require.Equal(t, "$61.00", resp.TotalDisplay)
	require.Equal(t, "new", resp.Status)
	require.Len(t, resp.Items, 2)
	require.NotEmpty(t, resp.Code)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	require.Equal(t, int64(1), count)

	// the committed checkout cleared the live cart
	require.Equal(t, uint(0), userCart.ItemCount())
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	h, db := newOrderHandler(t)

	rec, c := doJSON(t, http.MethodPost, "/api/v1/orders", checkoutBody("ann@example.com"), 1)
	require.NoError(t, h.Checkout(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var verr draft.ValidationError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verr))
	require.Equal(t, "lines", verr.Field)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	require.Equal(t, int64(0), count)
}

func TestCheckoutBadEmailLeavesCartIntact(t *testing.T) {
	h, db := newOrderHandler(t)

	userCart := h.Store.Get("u:1")
	userCart.AddItem(cart.Line{MenuItemID: 1, UnitPrice: 25}, 1)

	rec, c := doJSON(t, http.MethodPost, "/api/v1/orders", checkoutBody("not-an-email"), 1)
	require.NoError(t, h.Checkout(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var verr draft.ValidationError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verr))
	require.Equal(t, "email", verr.Field)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	require.Equal(t, int64(0), count)

	// the draft failed, the live cart may be retried as-is
	require.Equal(t, uint(1), userCart.ItemCount())
}

// A cart holding another restaurant's item cannot be checked out against
// this restaurant; the mismatch is caught inside the transaction and the
// live cart stays as it was.
func TestCheckoutCrossRestaurantItemRejected(t *testing.T) {
	h, db := newOrderHandler(t)
	db.Create(&models.Restaurant{Name: "Taco Corner", Cuisine: "Mexican"})
	db.Create(&models.MenuItem{RestaurantID: 2, Name: "Tacos", Price: 12})

	userCart := h.Store.Get("u:1")
	userCart.AddItem(cart.Line{MenuItemID: 1, Name: "Sushi Roll", UnitPrice: 25}, 1)
	userCart.AddItem(cart.Line{MenuItemID: 3, Name: "Tacos", UnitPrice: 12}, 1)

	rec, c := doJSON(t, http.MethodPost, "/api/v1/orders", checkoutBody("ann@example.com"), 1)
	require.NoError(t, h.Checkout(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var verr draft.ValidationError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verr))
	require.Equal(t, "lines", verr.Field)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	require.Equal(t, int64(0), count)
	require.Equal(t, uint(2), userCart.ItemCount())
}

func TestCheckoutUnknownMenuItemRollsBack(t *testing.T) {
	h, db := newOrderHandler(t)

	userCart := h.Store.Get("u:1")
	userCart.AddItem(cart.Line{MenuItemID: 99, UnitPrice: 10}, 1)

	_, c := doJSON(t, http.MethodPost, "/api/v1/orders", checkoutBody("ann@example.com"), 1)
	err := h.Checkout(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	require.Equal(t, int64(0), count)
	require.Equal(t, uint(1), userCart.ItemCount())
}

func TestCheckoutRequiresIdentity(t *testing.T) {
	h, _ := newOrderHandler(t)

	_, c := doJSON(t, http.MethodPost, "/api/v1/orders", checkoutBody("ann@example.com"), 0)
	err := h.Checkout(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestStaffSetStatusScopedToRestaurant(t *testing.T) {
	h, db := newOrderHandler(t)
	db.Create(&models.Order{UserID: 1, RestaurantID: 1, Total: 10, Status: "new", Code: "c-1"})
	db.Create(&models.Order{UserID: 1, RestaurantID: 2, Total: 10, Status: "new", Code: "c-2"})

	rec, c := doJSON(t, http.MethodPut, "/api/v1/staff/orders/1/confirm", nil, 5)
	c.Set("restaurantID", uint(1))
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.StaffConfirmOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// another restaurant's order is out of reach
	_, c = doJSON(t, http.MethodPut, "/api/v1/staff/orders/2/confirm", nil, 5)
	c.Set("restaurantID", uint(1))
	c.SetParamNames("id")
	c.SetParamValues("2")
	err := h.StaffConfirmOrder(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusNotFound, he.Code)
}
