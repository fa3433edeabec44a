package auth

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

	"dinehub/internal/guard"
	"dinehub/internal/hash"
	"dinehub/internal/models"
	"dinehub/internal/mykafka"
	"dinehub/internal/session"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.RefreshToken{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newAuthHandler(t *testing.T) (*AuthHandler, *gorm.DB) {
	db := initTestDB(t)
	return &AuthHandler{
		DB:            db,
		JWTSecret:     []byte("jwt-secret"),
		RefreshSecret: []byte("refresh-secret"),
		Producer:      &mykafka.Producer{},
	}, db
}

func doJSON(t *testing.T, target string, body any) (*httptest.ResponseRecorder, echo.Context) {
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func TestRegister(t *testing.T) {
	h, _ := newAuthHandler(t)

	rec, c := doJSON(t, "/api/v1/auth/register", map[string]string{
		"email":    "ann@example.com",
		"name":     "Ann",
		"password": "password",
	})
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.Equal(t, "ann@example.com", user.Email)
	require.Equal(t, guard.RoleUser, user.Role)
	require.NotEmpty(t, user.ID)

	// same email again
	_, c = doJSON(t, "/api/v1/auth/register", map[string]string{
		"email":    "ann@example.com",
		"password": "password",
	})
	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusConflict, he.Code)
}

func TestLoginSetsCookiesAndRole(t *testing.T) {
	h, db := newAuthHandler(t)

	pwHash, _ := hash.HashPassword("password")
	db.Create(&models.User{Email: "ann@example.com", PasswordHash: pwHash, Role: guard.RoleUser})

	rec, c := doJSON(t, "/api/v1/auth/login", map[string]string{
		"email":    "ann@example.com",
		"password": "password",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, guard.RoleUser, resp["role"])
	require.NotEmpty(t, resp["access_token"])

	cookies := rec.Result().Cookies()
	names := make(map[string]bool)
	for _, ck := range cookies {
		names[ck.Name] = true
	}
	require.True(t, names["accessToken"])
	require.True(t, names["refreshToken"])

	var count int64
	db.Model(&models.RefreshToken{}).Count(&count)
	require.Equal(t, int64(1), count)
}

func TestLoginWrongPassword(t *testing.T) {
	h, db := newAuthHandler(t)

	pwHash, _ := hash.HashPassword("password")
	db.Create(&models.User{Email: "ann@example.com", PasswordHash: pwHash, Role: guard.RoleUser})

	_, c := doJSON(t, "/api/v1/auth/login", map[string]string{
		"email":    "ann@example.com",
		"password": "wrong",
	})
	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

// Rotation revokes the presented refresh token; an old token cannot be
// replayed for another access token.
func TestRefreshRotatesAndRevokesOld(t *testing.T) {
	h, db := newAuthHandler(t)

	refresh, err := session.SignRefreshToken(session.Identity{UserID: 1, Role: guard.RoleUser}, h.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, session.SaveRefreshToken(db, refresh, 1))

	rec, c := doJSON(t, "/api/v1/auth/refresh", nil)
	c.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh})
	require.NoError(t, h.Refresh(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var old models.RefreshToken
	require.NoError(t, db.Where("token = ?", refresh).First(&old).Error)
	require.True(t, old.Revoked)

	// two rows now: the revoked one and its replacement
	var count int64
	db.Model(&models.RefreshToken{}).Where("revoked = ?", false).Count(&count)
	require.Equal(t, int64(1), count)

	// replaying the rotated-out token fails
	_, c = doJSON(t, "/api/v1/auth/refresh", nil)
	c.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh})
	err = h.Refresh(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

// The role-specific login endpoints refuse the other roles, which is what
// keeps a staff account from ever holding an admin session.
func TestRoleLoginsAreSeparate(t *testing.T) {
	h, db := newAuthHandler(t)

	pwHash, _ := hash.HashPassword("password")
	restaurantID := uint(3)
	db.Create(&models.User{Email: "staff@example.com", PasswordHash: pwHash, Role: guard.RoleStaff, RestaurantID: &restaurantID})

	// staff via the customer endpoint
	_, c := doJSON(t, "/api/v1/auth/login", map[string]string{
		"email":    "staff@example.com",
		"password": "password",
	})
	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)

	// staff via the staff endpoint carries the restaurant binding
	rec, c := doJSON(t, "/api/v1/staff/login", map[string]string{
		"email":    "staff@example.com",
		"password": "password",
	})
	require.NoError(t, h.StaffLogin(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, guard.RoleStaff, resp["role"])
	require.Equal(t, float64(3), resp["restaurant_id"])
}
