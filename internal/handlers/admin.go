package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"dinehub/internal/guard"
	"dinehub/internal/hash"
	"dinehub/internal/models"
)

type AdminHandler struct {
	DB *gorm.DB
}

func (h *AdminHandler) Stats(c echo.Context) error {
	var orders, reservations, restaurants, staff int64
	db := h.DB.WithContext(c.Request().Context())

	if err := db.Model(&models.Order{}).Count(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := db.Model(&models.Reservation{}).Count(&reservations).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := db.Model(&models.Restaurant{}).Count(&restaurants).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := db.Model(&models.User{}).Where("role = ?", guard.RoleStaff).Count(&staff).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]int64{
		"orders":       orders,
		"reservations": reservations,
		"restaurants":  restaurants,
		"staff":        staff,
	})
}

func (h *AdminHandler) Staff(c echo.Context) error {
	var out []models.User
	if err := h.DB.Where("role = ?", guard.RoleStaff).Find(&out).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}

// CreateStaff provisions a staff account bound to one restaurant.
func (h *AdminHandler) CreateStaff(c echo.Context) error {
	var req struct {
		Email        string `json:"email"`
		Name         string `json:"name"`
		Password     string `json:"password"`
		RestaurantID uint   `json:"restaurant_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" || req.RestaurantID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "email, password and restaurant are required")
	}

	var restaurant models.Restaurant
	if err := h.DB.First(&restaurant, req.RestaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "restaurant not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot hash the password")
	}

	user := models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: pwHash,
		Role:         guard.RoleStaff,
		RestaurantID: &req.RestaurantID,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusConflict, "could not create staff account")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) CreateRestaurant(c echo.Context) error {
	var r models.Restaurant
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if r.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if err := h.DB.Create(&r).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}
