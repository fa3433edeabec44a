package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"dinehub/internal/models"
)

// Staff menu and floor-plan management. Every handler here is scoped to the
// staff member's own restaurant: creates are pinned to it regardless of the
// body, and edits of another restaurant's rows come back 404.

func (h *CatalogHandler) StaffCategories(c echo.Context) error {
	restaurantID, err := StaffRestaurantID(c)
	if err != nil {
		return err
	}
	out, err := h.Catalog.Categories(c.Request().Context(), restaurantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) StaffAddCategory(c echo.Context) error {
	restaurantID, err := StaffRestaurantID(c)
	if err != nil {
		return err
	}
	var cat models.MenuCategory
	if err := c.Bind(&cat); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if cat.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	cat.ID = 0
	cat.RestaurantID = restaurantID
	if err := h.Catalog.DB.WithContext(c.Request().Context()).Create(&cat).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHandler) StaffAddItem(c echo.Context) error {
	restaurantID, err := StaffRestaurantID(c)
	if err != nil {
		return err
	}
	var item models.MenuItem
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if item.Name == "" || item.Price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "name and a non-negative price are required")
	}
	item.ID = 0
	item.RestaurantID = restaurantID
	if err := h.Catalog.DB.WithContext(c.Request().Context()).Create(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.afterMenuWrite(c, item, "menu_item_created")
	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) StaffUpdateItem(c echo.Context) error {
	restaurantID, err := StaffRestaurantID(c)
	if err != nil {
		return err
	}
	item, err := h.staffMenuItem(c, restaurantID)
	if err != nil {
		return err
	}
	if err := bindMenuItemPatch(c, item); err != nil {
		return err
	}
	if err := h.Catalog.DB.WithContext(c.Request().Context()).Save(item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.afterMenuWrite(c, *item, "menu_item_updated")
	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) StaffDeleteItem(c echo.Context) error {
	restaurantID, err := StaffRestaurantID(c)
	if err != nil {
		return err
	}
	item, err := h.staffMenuItem(c, restaurantID)
	if err != nil {
		return err
	}
	if err := h.Catalog.DB.WithContext(c.Request().Context()).Delete(item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.afterMenuWrite(c, *item, "menu_item_deleted")
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) staffMenuItem(c echo.Context, restaurantID uint) (*models.MenuItem, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var item models.MenuItem
	err = h.Catalog.DB.WithContext(c.Request().Context()).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return &item, nil
}

func (h *CatalogHandler) StaffTables(c echo.Context) error {
	restaurantID, err := StaffRestaurantID(c)
	if err != nil {
		return err
	}
	out, err := h.Catalog.Tables(c.Request().Context(), restaurantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) StaffAddTable(c echo.Context) error {
	restaurantID, err := StaffRestaurantID(c)
	if err != nil {
		return err
	}
	var table models.Table
	if err := c.Bind(&table); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if table.Label == "" || table.Seats < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "label and at least one seat are required")
	}
	table.ID = 0
	table.RestaurantID = restaurantID
	if err := h.Catalog.DB.WithContext(c.Request().Context()).Create(&table).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, table)
}

func (h *CatalogHandler) StaffUpdateTable(c echo.Context) error {
	restaurantID, err := StaffRestaurantID(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var table models.Table
	err = h.Catalog.DB.WithContext(c.Request().Context()).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		First(&table).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "table not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var patch struct {
		Label *string `json:"label"`
		Seats *int    `json:"seats"`
		PosX  *int    `json:"pos_x"`
		PosY  *int    `json:"pos_y"`
	}
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if patch.Label != nil {
		table.Label = *patch.Label
	}
	if patch.Seats != nil {
		if *patch.Seats < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "at least one seat is required")
		}
		table.Seats = *patch.Seats
	}
	if patch.PosX != nil {
		table.PosX = *patch.PosX
	}
	if patch.PosY != nil {
		table.PosY = *patch.PosY
	}

	if err := h.Catalog.DB.WithContext(c.Request().Context()).Save(&table).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, table)
}

func (h *CatalogHandler) StaffDeleteTable(c echo.Context) error {
	restaurantID, err := StaffRestaurantID(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	res := h.Catalog.DB.WithContext(c.Request().Context()).
		Where("id = ? AND restaurant_id = ?", id, restaurantID).
		Delete(&models.Table{})
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "table not found")
	}
	return c.NoContent(http.StatusNoContent)
}
