package guard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func resolved(role string) Session {
	return Session{Role: role, HasToken: role != "", Resolved: true}
}

func TestCrossRoleRedirectsToDashboard(t *testing.T) {
	d := Decide(RequireAdmin, resolved(RoleStaff))
	require.Equal(t, Redirect, d.State)
	require.Equal(t, "/staff/dashboard", d.Target)

	d = Decide(RequireStaff, resolved(RoleAdmin))
	require.Equal(t, Redirect, d.State)
	require.Equal(t, "/admin/dashboard", d.Target)
}

func TestNoRoleNoTokenRedirectsToLogin(t *testing.T) {
	cases := []struct {
		required Required
		target   string
	}{
		{RequireAdmin, "/admin/login"},
		{RequireStaff, "/staff/login"},
		{RequireNone, "/login"},
	}
	for _, tc := range cases {
		d := Decide(tc.required, Session{Resolved: true})
		require.Equal(t, Redirect, d.State)
		require.Equal(t, tc.target, d.Target)
	}
}

func TestCustomerRoleOnRoleRouteRedirectsToLogin(t *testing.T) {
	d := Decide(RequireAdmin, resolved(RoleUser))
	require.Equal(t, Redirect, d.State)
	require.Equal(t, "/admin/login", d.Target)

	d = Decide(RequireStaff, resolved(RoleUser))
	require.Equal(t, Redirect, d.State)
	require.Equal(t, "/staff/login", d.Target)
}

func TestMatchingRoleGranted(t *testing.T) {
	require.Equal(t, Granted, Decide(RequireAdmin, resolved(RoleAdmin)).State)
	require.Equal(t, Granted, Decide(RequireStaff, resolved(RoleStaff)).State)
	require.Equal(t, Granted, Decide(RequireNone, resolved(RoleUser)).State)
	require.Equal(t, Granted, Decide(RequireNone, Session{Resolved: true, Role: RoleAdmin, HasToken: true}).State)
}

func TestUnresolvedWithTokenIsPending(t *testing.T) {
	d := Decide(RequireAdmin, Session{HasToken: true})
	require.Equal(t, Pending, d.State)
}

func TestResolvedEmptyRoleWithTokenGranted(t *testing.T) {
	// resolution finished but the role claim never materialized; the token
	// holder renders optimistically and the page re-verifies
	d := Decide(RequireAdmin, Session{HasToken: true, Resolved: true})
	require.Equal(t, Granted, d.State)
}

func TestUnresolvedWithoutTokenRedirects(t *testing.T) {
	d := Decide(RequireStaff, Session{})
	require.Equal(t, Redirect, d.State)
	require.Equal(t, "/staff/login", d.Target)
}
