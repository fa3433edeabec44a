// Package catalog reads the restaurant catalog with a redis read-through
// cache in front of the database. A cache failure falls back to the
// database; a cold or dead cache never makes a read fail.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"dinehub/internal/logging"
	"dinehub/internal/models"
)

const cacheTTL = 2 * time.Minute

type Service struct {
	DB    *gorm.DB
	Cache *redis.Client
}

func menuKey(restaurantID uint) string {
	return fmt.Sprintf("menu:%d", restaurantID)
}

func (s *Service) Restaurants(ctx context.Context) ([]models.Restaurant, error) {
	var out []models.Restaurant
	if err := s.DB.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Restaurant(ctx context.Context, id uint) (*models.Restaurant, error) {
	var r models.Restaurant
	if err := s.DB.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Service) Categories(ctx context.Context, restaurantID uint) ([]models.MenuCategory, error) {
	var out []models.MenuCategory
	if err := s.DB.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MenuItems serves from redis when the key is warm, otherwise reads the
// database and fills the cache.
func (s *Service) MenuItems(ctx context.Context, restaurantID uint) ([]models.MenuItem, error) {
	l := logging.FromContext(ctx)

	if s.Cache != nil {
		raw, err := s.Cache.Get(ctx, menuKey(restaurantID)).Result()
		if err == nil {
			var items []models.MenuItem
			if err := json.Unmarshal([]byte(raw), &items); err == nil {
				return items, nil
			}
		} else if err != redis.Nil {
			l.Warn("menu_cache_get_failed", "restaurant_id", restaurantID, "error", err)
		}
	}

	var items []models.MenuItem
	if err := s.DB.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Find(&items).Error; err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if data, err := json.Marshal(items); err == nil {
			if err := s.Cache.Set(ctx, menuKey(restaurantID), data, cacheTTL).Err(); err != nil {
				l.Warn("menu_cache_set_failed", "restaurant_id", restaurantID, "error", err)
			}
		}
	}
	return items, nil
}

// InvalidateMenu drops the cached menu after an admin edit.
func (s *Service) InvalidateMenu(ctx context.Context, restaurantID uint) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, menuKey(restaurantID)).Err(); err != nil {
		logging.FromContext(ctx).Warn("menu_cache_del_failed", "restaurant_id", restaurantID, "error", err)
	}
}

func (s *Service) Tables(ctx context.Context, restaurantID uint) ([]models.Table, error) {
	var out []models.Table
	if err := s.DB.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) MenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
