package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"dinehub/internal/models"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

func SignAccessToken(id Identity, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub":  id.UserID,
		"role": id.Role,
		"exp":  time.Now().Add(AccessTTL).Unix(),
	}
	if id.RestaurantID != 0 {
		claims["restaurant_id"] = id.RestaurantID
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func SignRefreshToken(id Identity, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub":  id.UserID,
		"role": id.Role,
		"exp":  time.Now().Add(RefreshTTL).Unix(),
		"typ":  "refresh",
	}
	if id.RestaurantID != 0 {
		claims["restaurant_id"] = id.RestaurantID
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func SaveRefreshToken(db *gorm.DB, token string, userID uint) error {
	row := models.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(RefreshTTL).Unix(),
	}
	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ValidateRefresh checks the signature, the refresh type claim and the
// stored row (revocation, expiry) before the token may be rotated.
func ValidateRefresh(rawToken string, secret []byte, db *gorm.DB) (jwt.MapClaims, error) {
	t, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}
	if !t.Valid {
		return nil, errors.New("invalid refresh token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("cannot parse claims")
	}
	if typ, ok := claims["typ"]; !ok || typ != "refresh" {
		return nil, fmt.Errorf("not a refresh token")
	}

	var stored models.RefreshToken
	if err := db.Where("token = ?", rawToken).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("refresh token not found")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if stored.Revoked {
		return nil, errors.New("refresh token revoked")
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return nil, errors.New("refresh token expired")
	}

	return claims, nil
}

// RevokeRefreshToken marks the one presented row revoked. Rotation calls
// this so a rotated-out refresh token cannot be replayed before its expiry.
func RevokeRefreshToken(db *gorm.DB, token string) error {
	return db.Model(&models.RefreshToken{}).
		Where("token = ?", token).
		Update("revoked", true).Error
}

// RevokeRefreshTokens marks every stored refresh token of the user revoked;
// logout clears the role and the token together.
func RevokeRefreshTokens(db *gorm.DB, userID uint) error {
	return db.Model(&models.RefreshToken{}).
		Where("user_id = ?", userID).
		Update("revoked", true).Error
}

func IdentityFromClaims(claims jwt.MapClaims) Identity {
	id := Identity{}
	if sub, ok := claims["sub"].(float64); ok {
		id.UserID = uint(sub)
	}
	if role, ok := claims["role"].(string); ok {
		id.Role = role
	}
	if rid, ok := claims["restaurant_id"].(float64); ok {
		id.RestaurantID = uint(rid)
	}
	return id
}
