package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/pkg/authsdk"
)

// TestLogin covers the password-only path: a user without MFA gets a
// session straight from the login call.
func TestLogin(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)

	result, err := srv.client.Login(t.Context(), "nurse.riley", defaultPassword)
	require.NoError(t, err)

	require.Equal(t, authsdk.LoginStatusOK, result.Status)
	require.True(t, result.OK())
	require.NotEmpty(t, result.SessionToken)
	require.False(t, result.RequirePasswordChange)
	require.Empty(t, result.ChallengeID, "no MFA step for an unenrolled account")

	require.NotNil(t, result.LoginResponse.Session)
	require.True(t, result.LoginResponse.Session.ExpiresAt.After(result.LoginResponse.Session.IssuedAt))

	// The token authenticates follow-up calls.
	session := result.Session()
	sessions, err := session.Sessions(t.Context())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
}

func TestLogin_ByEmail(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	u := seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)

	result, err := srv.client.Login(t.Context(), u.Email, defaultPassword)
	require.NoError(t, err)
	require.Equal(t, authsdk.LoginStatusOK, result.Status)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)

	result, err := srv.client.Login(t.Context(), "nurse.riley", "Wrong-Password-1!")
	require.NoError(t, err, "rejection is an outcome, not a transport error")

	require.Equal(t, authsdk.LoginStatusRejected, result.Status)
	require.Empty(t, result.SessionToken)
	require.Nil(t, result.Session())
}

func TestLogin_UnknownUser(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)

	result, err := srv.client.Login(t.Context(), "nobody", defaultPassword)
	require.NoError(t, err)

	// Indistinguishable from a wrong password.
	require.Equal(t, authsdk.LoginStatusRejected, result.Status)
}

func TestLogin_InactiveAccount(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	u := seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)
	require.NoError(t, srv.store.Users().SetStatus(context.Background(), u.ID, domain.AccountInactive))

	result, err := srv.client.Login(t.Context(), "nurse.riley", defaultPassword)
	require.NoError(t, err)

	// Same answer as bad credentials; account state is not enumerable.
	require.Equal(t, authsdk.LoginStatusRejected, result.Status)
}

// TestLogin_RequirePasswordChange checks the forced-rotation flag rides
// along with the grant and clears after the password is changed.
func TestLogin_RequirePasswordChange(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	u := seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)
	require.NoError(t, srv.store.Users().SetRequirePasswordChange(context.Background(), u.ID, true))

	result, err := srv.client.Login(t.Context(), "nurse.riley", defaultPassword)
	require.NoError(t, err)
	require.Equal(t, authsdk.LoginStatusOK, result.Status)
	require.True(t, result.RequirePasswordChange)

	const rotated = "Rotated-Horse-9!"
	require.NoError(t, result.Session().ChangePassword(t.Context(), defaultPassword, rotated))

	again, err := srv.client.Login(t.Context(), "nurse.riley", rotated)
	require.NoError(t, err)
	require.Equal(t, authsdk.LoginStatusOK, again.Status)
	require.False(t, again.RequirePasswordChange)
}
