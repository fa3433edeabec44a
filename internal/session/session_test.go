package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestResolveValidToken(t *testing.T) {
	token, err := SignAccessToken(Identity{UserID: 7, Role: "staff", RestaurantID: 3}, secret)
	require.NoError(t, err)

	m := NewManager(JWTVerifier{Secret: secret})
	s := m.Resolve(context.Background(), token)

	require.True(t, s.Resolved)
	require.Equal(t, uint(7), s.UserID)
	require.Equal(t, "staff", s.Role)
	require.Equal(t, uint(3), s.RestaurantID)
}

func TestResolveEmptyToken(t *testing.T) {
	m := NewManager(JWTVerifier{Secret: secret})
	s := m.Resolve(context.Background(), "")

	require.True(t, s.Resolved)
	require.Empty(t, s.Role)
}

func TestResolveGarbageTokenIsUnresolvedNotDenied(t *testing.T) {
	m := NewManager(JWTVerifier{Secret: secret})
	s := m.Resolve(context.Background(), "not-a-jwt")

	require.False(t, s.Resolved)
	require.Equal(t, "not-a-jwt", s.Token)
	require.Empty(t, s.Role)
}

func TestResolveWrongSecretIsUnresolved(t *testing.T) {
	token, err := SignAccessToken(Identity{UserID: 1, Role: "admin"}, []byte("other"))
	require.NoError(t, err)

	m := NewManager(JWTVerifier{Secret: secret})
	s := m.Resolve(context.Background(), token)
	require.False(t, s.Resolved)
}
