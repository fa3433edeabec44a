// Package session owns the role/session state for a request: who the caller
// is, which role the token carries, and whether resolution completed. The
// manager is constructed once in main and injected, so tests can build
// independent sessions without shared globals.
package session

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is what a successfully verified token resolves to.
type Identity struct {
	UserID       uint
	Role         string
	RestaurantID uint
}

// Session is the resolution outcome. Resolved=false with a non-empty token
// means "pending": the guard must not treat it as a denial.
type Session struct {
	Identity
	Token    string
	Resolved bool
}

// Verifier turns a raw token into an identity. The default is a local JWT
// parse; a remote verifier may block, which is why Verify takes a context.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

type Manager struct {
	verifier Verifier
}

func NewManager(v Verifier) *Manager {
	return &Manager{verifier: v}
}

// Resolve never returns a denial for a present token: any verification
// failure or timeout leaves the session unresolved and the guard decides
// what to do with that.
func (m *Manager) Resolve(ctx context.Context, token string) Session {
	if token == "" {
		return Session{Resolved: true}
	}
	id, err := m.verifier.Verify(ctx, token)
	if err != nil {
		return Session{Token: token}
	}
	return Session{Identity: id, Token: token, Resolved: true}
}

// JWTVerifier resolves identities from HS256 access tokens minted by the
// auth handlers.
type JWTVerifier struct {
	Secret []byte
}

func (v JWTVerifier) Verify(_ context.Context, tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.Secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return Identity{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, fmt.Errorf("invalid token claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return Identity{}, fmt.Errorf("invalid subject claim")
	}
	role, _ := claims["role"].(string)

	id := Identity{UserID: uint(sub), Role: role}
	if rid, ok := claims["restaurant_id"].(float64); ok {
		id.RestaurantID = uint(rid)
	}
	return id, nil
}
