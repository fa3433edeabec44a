package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"dinehub/internal/guard"
	"dinehub/internal/hash"
	"dinehub/internal/logging"
	"dinehub/internal/models"
	"dinehub/internal/mykafka"
	"dinehub/internal/session"
)

type AuthHandler struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
	Producer      *mykafka.Producer
}

// Register creates a customer account. Staff and admin accounts are created
// by an admin, never through this endpoint.
func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot hash the password")
	}

	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.Error("register_error", "status", 500, "reason", "db_error", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	} else {
		l.Warn("register_failed", "status", 409, "reason", "user_exists")
		return echo.NewHTTPError(http.StatusConflict, "user already exists")
	}

	user := models.User{
		Email:        req.Email,
		Name:         req.Name,
		Phone:        req.Phone,
		PasswordHash: pwHash,
		Role:         guard.RoleUser,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		l.Error("register_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.publish(c, map[string]any{"type": "user_registered", "userID": user.ID})
	l.Info("register_ok", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}

// Login authenticates a customer. Staff and admin use their own endpoints
// so a cross-role login lands on the right dashboard, not here.
func (h *AuthHandler) Login(c echo.Context) error {
	return h.login(c, guard.RoleUser)
}

func (h *AuthHandler) StaffLogin(c echo.Context) error {
	return h.login(c, guard.RoleStaff)
}

func (h *AuthHandler) AdminLogin(c echo.Context) error {
	return h.login(c, guard.RoleAdmin)
}

func (h *AuthHandler) login(c echo.Context, wantRole string) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login", "want_role", wantRole)

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "no_user")
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		l.Error("login_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "bad_password")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if user.Role != wantRole {
		l.Warn("login_failed", "status", 403, "reason", "wrong_role", "role", user.Role)
		return echo.NewHTTPError(http.StatusForbidden, "wrong login for this role")
	}

	id := session.Identity{UserID: user.ID, Role: user.Role}
	if user.RestaurantID != nil {
		id.RestaurantID = *user.RestaurantID
	}

	access, err := session.SignAccessToken(id, h.JWTSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot sign token")
	}
	refresh, err := session.SignRefreshToken(id, h.RefreshSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot sign token")
	}
	if err := session.SaveRefreshToken(h.DB, refresh, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	setAuthCookies(c, access, refresh)
	h.publish(c, map[string]any{"type": "user_logged_in", "userID": user.ID, "role": user.Role})
	l.Info("login_ok", "user_id", user.ID)

	resp := map[string]any{
		"access_token": access,
		"role":         user.Role,
	}
	if id.RestaurantID != 0 {
		resp["restaurant_id"] = id.RestaurantID
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout revokes the stored refresh tokens and clears both cookies, so the
// role and the token disappear together.
func (h *AuthHandler) Logout(c echo.Context) error {
	if userID, ok := c.Get("userID").(uint); ok {
		if err := session.RevokeRefreshTokens(h.DB, userID); err != nil {
			logging.FromContext(c.Request().Context()).Error("logout_revoke_failed", "error", err)
		}
	}
	clearAuthCookies(c)
	return c.NoContent(http.StatusNoContent)
}

// Refresh rotates the refresh token and reissues the access cookie. The
// presented token is revoked as part of the rotation, so it cannot be
// replayed.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie("refreshToken")
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	claims, err := session.ValidateRefresh(cookie.Value, h.RefreshSecret, h.DB)
	if err != nil {
		clearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}
	if err := session.RevokeRefreshToken(h.DB, cookie.Value); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	id := session.IdentityFromClaims(claims)
	access, err := session.SignAccessToken(id, h.JWTSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot sign token")
	}
	refresh, err := session.SignRefreshToken(id, h.RefreshSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot sign token")
	}
	if err := session.SaveRefreshToken(h.DB, refresh, id.UserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	setAuthCookies(c, access, refresh)
	return c.JSON(http.StatusOK, map[string]any{"access_token": access, "role": id.Role})
}
