package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/pkg/authsdk"
)

// TestPasswordChange rotates a password and checks the rotation cuts off
// every other device while sparing the session that asked for it.
func TestPasswordChange(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)

	laptop := login(t, srv, "nurse.riley", defaultPassword)
	phone := login(t, srv, "nurse.riley", defaultPassword)

	const rotated = "Rotated-Horse-9!"
	require.NoError(t, laptop.ChangePassword(t.Context(), defaultPassword, rotated))

	// The old credential is gone.
	result, err := srv.client.Login(t.Context(), "nurse.riley", defaultPassword)
	require.NoError(t, err)
	require.Equal(t, authsdk.LoginStatusRejected, result.Status)

	// The new one works.
	result, err = srv.client.Login(t.Context(), "nurse.riley", rotated)
	require.NoError(t, err)
	require.Equal(t, authsdk.LoginStatusOK, result.Status)

	// Anyone holding a stolen token was logged out by the rotation.
	_, err = phone.Sessions(t.Context())
	requireAPIError(t, err, authsdk.ErrorCodeSessionRevoked)

	// The initiating session survives.
	_, err = laptop.Sessions(t.Context())
	require.NoError(t, err)
}

func TestPasswordChange_WrongCurrentPassword(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)
	session := login(t, srv, "nurse.riley", defaultPassword)

	err := session.ChangePassword(t.Context(), "Wrong-Password-1!", "Rotated-Horse-9!")
	apiErr := requireAPIError(t, err, authsdk.ErrorCodeUnauthorized)
	require.Equal(t, 403, apiErr.StatusCode)
}

// TestPasswordChange_PolicyViolations checks the endpoint reports every
// broken rule at once.
func TestPasswordChange_PolicyViolations(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)
	session := login(t, srv, "nurse.riley", defaultPassword)

	err := session.ChangePassword(t.Context(), defaultPassword, "weak")

	var policyErr *authsdk.PolicyViolationError
	require.ErrorAs(t, err, &policyErr)
	require.GreaterOrEqual(t, len(policyErr.Violations), 3, "length, uppercase, digit at minimum")

	// The failed attempt changed nothing.
	result, err := srv.client.Login(t.Context(), "nurse.riley", defaultPassword)
	require.NoError(t, err)
	require.Equal(t, authsdk.LoginStatusOK, result.Status)
}

// TestPasswordChange_ReuseRejected checks both the current password and a
// recently retired one are refused.
func TestPasswordChange_ReuseRejected(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)
	session := login(t, srv, "nurse.riley", defaultPassword)

	// Same-as-current.
	err := session.ChangePassword(t.Context(), defaultPassword, defaultPassword)
	var policyErr *authsdk.PolicyViolationError
	require.ErrorAs(t, err, &policyErr)

	// Rotate, then try to rotate back.
	const rotated = "Rotated-Horse-9!"
	require.NoError(t, session.ChangePassword(t.Context(), defaultPassword, rotated))

	err = session.ChangePassword(t.Context(), rotated, defaultPassword)
	require.ErrorAs(t, err, &policyErr, "the retired hash is still in the history window")
}
