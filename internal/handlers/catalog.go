package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"dinehub/internal/catalog"
	"dinehub/internal/logging"
	"dinehub/internal/models"
	"dinehub/internal/mykafka"
	"dinehub/internal/service/search"
)

type CatalogHandler struct {
	Catalog  *catalog.Service
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	ESIndex  string
}

func (h *CatalogHandler) Restaurants(c echo.Context) error {
	out, err := h.Catalog.Restaurants(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) Restaurant(c echo.Context) error {
	id, err := restaurantParam(c)
	if err != nil {
		return err
	}
	r, err := h.Catalog.Restaurant(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "restaurant not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}

func (h *CatalogHandler) Categories(c echo.Context) error {
	id, err := restaurantParam(c)
	if err != nil {
		return err
	}
	out, err := h.Catalog.Categories(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) Items(c echo.Context) error {
	id, err := restaurantParam(c)
	if err != nil {
		return err
	}
	out, err := h.Catalog.MenuItems(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) FloorPlan(c echo.Context) error {
	id, err := restaurantParam(c)
	if err != nil {
		return err
	}
	out, err := h.Catalog.Tables(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}

func restaurantParam(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid restaurant id")
	}
	return uint(id), nil
}

// CreateItem is the admin path: writes the row, drops the menu cache and
// reindexes the search document.
func (h *CatalogHandler) CreateItem(c echo.Context) error {
	var item models.MenuItem
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if item.RestaurantID == 0 || item.Name == "" || item.Price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "restaurant, name and a non-negative price are required")
	}

	if err := h.Catalog.DB.WithContext(c.Request().Context()).Create(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.afterMenuWrite(c, item, "menu_item_created")
	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) PatchItem(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var item models.MenuItem
	if err := h.Catalog.DB.WithContext(c.Request().Context()).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := bindMenuItemPatch(c, &item); err != nil {
		return err
	}

	if err := h.Catalog.DB.WithContext(c.Request().Context()).Save(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.afterMenuWrite(c, item, "menu_item_updated")
	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) DeleteItem(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var item models.MenuItem
	if err := h.Catalog.DB.WithContext(c.Request().Context()).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "menu item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.Catalog.DB.WithContext(c.Request().Context()).Delete(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.afterMenuWrite(c, item, "menu_item_deleted")
	return c.NoContent(http.StatusNoContent)
}

// bindMenuItemPatch applies the pointer-field patch body to the item; only
// fields present in the body change.
func bindMenuItemPatch(c echo.Context, item *models.MenuItem) error {
	var patch struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		CategoryID  *uint    `json:"category_id"`
		ImageURL    *string  `json:"image_url"`
		Available   *bool    `json:"available"`
	}
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "price must be non-negative")
		}
		item.Price = *patch.Price
	}
	if patch.CategoryID != nil {
		item.CategoryID = *patch.CategoryID
	}
	if patch.ImageURL != nil {
		item.ImageURL = *patch.ImageURL
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}
	return nil
}

func (h *CatalogHandler) afterMenuWrite(c echo.Context, item models.MenuItem, eventType string) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	h.Catalog.InvalidateMenu(ctx, item.RestaurantID)

	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(item.ID), map[string]any{
		"type": eventType,
		"item": item,
	}); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}

	if h.ES != nil && eventType != "menu_item_deleted" {
		if err := search.IndexItem(ctx, h.ES, h.ESIndex, item); err != nil {
			logging.FromContext(ctx).Warn("menu_index_failed", "item_id", item.ID, "error", err)
		}
	}
}
