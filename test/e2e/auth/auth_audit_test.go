package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/pkg/authsdk"
)

// TestAuditTrail drives a mix of successful and failed authentications
// and checks the reviewer-facing endpoints see all of it, chained.
func TestAuditTrail(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	admin := bootstrapAdmin(t, srv)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)

	// Two rejected attempts, one success.
	for i := 0; i < 2; i++ {
		result, err := srv.client.Login(t.Context(), "nurse.riley", "Wrong-Password-1!")
		require.NoError(t, err)
		require.Equal(t, authsdk.LoginStatusRejected, result.Status)
	}
	login(t, srv, "nurse.riley", defaultPassword)

	// Every rejected attempt left exactly one entry.
	failed, err := admin.AuditLogs(t.Context(), authsdk.AuditQuery{Action: "login_failed"})
	require.NoError(t, err)
	require.Equal(t, 2, failed.Total)

	succeeded, err := admin.AuditLogs(t.Context(), authsdk.AuditQuery{Action: "login_succeeded"})
	require.NoError(t, err)
	require.GreaterOrEqual(t, succeeded.Total, 2, "admin login and riley's login")

	for _, e := range failed.Entries {
		require.NotEmpty(t, e.EntryHash)
		require.NotEmpty(t, e.PrevHash)
		require.Equal(t, "login_failed", e.Action)
		require.NotEmpty(t, e.ActorUserID)
		require.NotEmpty(t, e.IP)
	}

	// The chain over everything that happened verifies clean.
	report, err := admin.VerifyAuditChain(t.Context())
	require.NoError(t, err)
	require.True(t, report.Valid)
	require.Zero(t, report.FirstBrokenID)
	require.Greater(t, report.Checked, int64(4))
}

// TestAuditLogs_NeverContainSecrets scans the whole trail for credential
// material after a run of logins and password changes.
func TestAuditLogs_NeverContainSecrets(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	admin := bootstrapAdmin(t, srv)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)

	session := login(t, srv, "nurse.riley", defaultPassword)
	_, _ = srv.client.Login(t.Context(), "nurse.riley", "Sekret-Wrong-Pw-7!")
	require.NoError(t, session.ChangePassword(t.Context(), defaultPassword, "Rotated-Horse-9!"))

	logs, err := admin.AuditLogs(t.Context(), authsdk.AuditQuery{Limit: 500})
	require.NoError(t, err)
	require.NotEmpty(t, logs.Entries)

	for _, e := range logs.Entries {
		payload := string(e.Details)
		require.NotContains(t, payload, defaultPassword)
		require.NotContains(t, payload, "Sekret-Wrong-Pw-7!")
		require.NotContains(t, payload, "Rotated-Horse-9!")
		require.NotContains(t, payload, session.Token())
		require.NotContains(t, payload, admin.Token())
	}
}

func TestAuditLogs_Pagination(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	admin := bootstrapAdmin(t, srv)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)

	for i := 0; i < 5; i++ {
		_, err := srv.client.Login(t.Context(), "nurse.riley", defaultPassword)
		require.NoError(t, err)
	}

	page1, err := admin.AuditLogs(t.Context(), authsdk.AuditQuery{Action: "login_succeeded", Limit: 2})
	require.NoError(t, err)
	require.Len(t, page1.Entries, 2)
	require.GreaterOrEqual(t, page1.Total, 5)

	page2, err := admin.AuditLogs(t.Context(), authsdk.AuditQuery{Action: "login_succeeded", Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page2.Entries, 2)
	require.NotEqual(t, page1.Entries[0].ID, page2.Entries[0].ID)
}

// TestAuditLogs_RoleGate checks ordinary employees cannot read the trail.
func TestAuditLogs_RoleGate(t *testing.T) {
	t.Parallel()
	srv := setupServer(t)
	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)
	seedUser(t, srv, "coff.blake", defaultPassword, domain.RoleComplianceOfficer)

	employee := login(t, srv, "nurse.riley", defaultPassword)
	_, err := employee.AuditLogs(t.Context(), authsdk.AuditQuery{})
	apiErr := requireAPIError(t, err, authsdk.ErrorCodeInsufficientRole)
	require.Equal(t, 403, apiErr.StatusCode)

	_, err = employee.VerifyAuditChain(t.Context())
	requireAPIError(t, err, authsdk.ErrorCodeInsufficientRole)

	// Compliance officers review; they do not administer.
	officer := login(t, srv, "coff.blake", defaultPassword)
	logs, err := officer.AuditLogs(t.Context(), authsdk.AuditQuery{})
	require.NoError(t, err)
	require.NotEmpty(t, logs.Entries)
}
