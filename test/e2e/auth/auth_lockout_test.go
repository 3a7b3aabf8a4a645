package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/pkg/authsdk"
)

// TestLockout hammers one account with bad passwords until it locks and
// checks that the right credentials do not get through the lockout window.
func TestLockout(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)

	// Four failures leave the account active.
	for i := 0; i < 4; i++ {
		result, err := srv.client.Login(t.Context(), "nurse.riley", "Wrong-Password-1!")
		require.NoError(t, err)
		require.Equal(t, authsdk.LoginStatusRejected, result.Status, "attempt %d", i+1)
	}

	// The fifth failure crosses the threshold.
	result, err := srv.client.Login(t.Context(), "nurse.riley", "Wrong-Password-1!")
	require.NoError(t, err)
	require.Equal(t, authsdk.LoginStatusLocked, result.Status)

	// Even the correct password is refused while the lock holds, and the
	// refusal never extends the lockout.
	result, err = srv.client.Login(t.Context(), "nurse.riley", defaultPassword)
	require.NoError(t, err)
	require.Equal(t, authsdk.LoginStatusLocked, result.Status)
}

func TestLockout_DoesNotAffectOtherAccounts(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)
	seedUser(t, srv, "dr.okafor", defaultPassword, domain.RoleEmployee)

	for i := 0; i < 5; i++ {
		_, err := srv.client.Login(t.Context(), "nurse.riley", "Wrong-Password-1!")
		require.NoError(t, err)
	}

	result, err := srv.client.Login(t.Context(), "dr.okafor", defaultPassword)
	require.NoError(t, err)
	require.Equal(t, authsdk.LoginStatusOK, result.Status)
}

// TestLockout_SuccessResetsCounter checks a successful login between
// failures takes the counter back to zero.
func TestLockout_SuccessResetsCounter(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)

	for i := 0; i < 4; i++ {
		_, err := srv.client.Login(t.Context(), "nurse.riley", "Wrong-Password-1!")
		require.NoError(t, err)
	}

	result, err := srv.client.Login(t.Context(), "nurse.riley", defaultPassword)
	require.NoError(t, err)
	require.Equal(t, authsdk.LoginStatusOK, result.Status)

	// The next failure is attempt one of a fresh count, not the fifth.
	result, err = srv.client.Login(t.Context(), "nurse.riley", "Wrong-Password-1!")
	require.NoError(t, err)
	require.Equal(t, authsdk.LoginStatusRejected, result.Status)
}
