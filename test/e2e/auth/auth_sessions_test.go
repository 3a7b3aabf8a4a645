package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/pkg/authsdk"
)

// TestSessions_MultiDevice logs in twice, the way two browsers would, and
// checks both sessions are live and independently visible.
func TestSessions_MultiDevice(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)

	laptop := login(t, srv, "nurse.riley", defaultPassword)
	phone := login(t, srv, "nurse.riley", defaultPassword)
	require.NotEqual(t, laptop.Token(), phone.Token())

	sessions, err := laptop.Sessions(t.Context())
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	var current int
	for _, s := range sessions {
		require.NotEmpty(t, s.ID)
		require.NotContains(t, s.ID, laptop.Token(), "listing never exposes token material")
		if s.Current {
			current++
			require.Equal(t, laptop.Info().ID, s.ID)
		}
	}
	require.Equal(t, 1, current)
}

// TestSessions_RevokeOther cuts off one device and checks the other keeps
// working.
func TestSessions_RevokeOther(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)

	laptop := login(t, srv, "nurse.riley", defaultPassword)
	phone := login(t, srv, "nurse.riley", defaultPassword)

	require.NoError(t, laptop.RevokeSession(t.Context(), phone.Info().ID))

	// The revoked session fails immediately on its next call.
	_, err := phone.Sessions(t.Context())
	apiErr := requireAPIError(t, err, authsdk.ErrorCodeSessionRevoked)
	require.Equal(t, 401, apiErr.StatusCode)

	// The revoking session is untouched.
	sessions, err := laptop.Sessions(t.Context())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
}

func TestSessions_RevokeUnknown(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)
	session := login(t, srv, "nurse.riley", defaultPassword)

	err := session.RevokeSession(t.Context(), "01JXNOSUCHSESSION000000000")
	requireAPIError(t, err, authsdk.ErrorCodeNotFound)
}

// TestSessions_CannotRevokeAcrossUsers checks one user's session id reads
// as not found to another user.
func TestSessions_CannotRevokeAcrossUsers(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)
	seedUser(t, srv, "dr.okafor", defaultPassword, domain.RoleEmployee)

	riley := login(t, srv, "nurse.riley", defaultPassword)
	okafor := login(t, srv, "dr.okafor", defaultPassword)

	err := okafor.RevokeSession(t.Context(), riley.Info().ID)
	requireAPIError(t, err, authsdk.ErrorCodeNotFound)

	_, err = riley.Sessions(t.Context())
	require.NoError(t, err, "riley's session is untouched")
}

func TestLogout(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)
	session := login(t, srv, "nurse.riley", defaultPassword)

	require.NoError(t, session.Logout(t.Context()))

	_, err := session.Sessions(t.Context())
	requireAPIError(t, err, authsdk.ErrorCodeSessionRevoked)
}

// TestLogoutAll revokes every other device in one call and keeps the
// caller logged in.
func TestLogoutAll(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)

	laptop := login(t, srv, "nurse.riley", defaultPassword)
	phone := login(t, srv, "nurse.riley", defaultPassword)
	tablet := login(t, srv, "nurse.riley", defaultPassword)

	revoked, err := laptop.LogoutAll(t.Context())
	require.NoError(t, err)
	require.EqualValues(t, 2, revoked)

	for _, other := range []*authsdk.Session{phone, tablet} {
		_, err := other.Sessions(t.Context())
		requireAPIError(t, err, authsdk.ErrorCodeSessionRevoked)
	}

	sessions, err := laptop.Sessions(t.Context())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
}
