package auth_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/luminahealth/medlock/internal/auth/domain"
	httpapi "github.com/luminahealth/medlock/internal/auth/http"
	"github.com/luminahealth/medlock/internal/auth/service"
	"github.com/luminahealth/medlock/internal/auth/store/drivers/sqlite"
	"github.com/luminahealth/medlock/pkg/authsdk"
	"github.com/luminahealth/medlock/pkg/cryptox"
	"github.com/luminahealth/medlock/pkg/httpx"
	"github.com/luminahealth/medlock/pkg/idx"
	"github.com/luminahealth/medlock/pkg/slogx"
)

/*
 * Common constants and helpers for the end-to-end tests. Each test runs
 * the full service in-process: real router, real middleware, real
 * services, in-memory sqlite with migrations applied. Requests go over
 * HTTP through the authsdk client, the same way the compliance web app
 * talks to the service.
 */

const (
	bootstrapToken = "test-bootstrap-token-12345"

	adminUsername = "admin"
	adminEmail    = "admin@clinic.example"
	adminPassword = "Admin-Initial-Pw1!"

	// Satisfies the password policy; used for seeded accounts.
	defaultPassword = "Correct-Horse-9!"
)

func TestMain(m *testing.M) {
	// Set up a temporary pepper file for password hashing.
	pepperPath := filepath.Join(os.TempDir(), "medlock-e2e-test-pepper")
	cryptox.SetPepperPath(pepperPath)
	os.Remove(pepperPath)

	// The suite fires bursts of requests from one loopback address, so the
	// production profiles would trip constantly. Same effect as the
	// RATELIMIT_* env overrides; the rate limit test builds its own server
	// with a strict profile.
	httpx.StrictLimit = httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	httpx.ModerateLimit = httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	httpx.LenientLimit = httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}

	code := m.Run()
	os.Remove(pepperPath)
	os.Exit(code)
}

// testServer is one in-process instance of the service.
type testServer struct {
	store  *sqlite.Store
	client *authsdk.SDKClient
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	return setupServerWithBootstrapToken(t, bootstrapToken)
}

// setupServerWithBootstrapToken wires the full application stack the way
// app.New does, minus the network listener and the housekeeping ticker.
func setupServerWithBootstrapToken(t *testing.T, token string) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slogx.New(slogx.Config{
		Service: "medlock-authd",
		Version: "e2e",
		Level:   "error",
		Format:  "text",
	})

	audit := &service.AuditService{Store: st}
	sessions := &service.SessionService{Store: st, Audit: audit}
	users := &service.UserService{Store: st, Audit: audit}

	router := httpapi.NewRouter("e2e", st, logger)
	router.LoginService = &service.LoginService{Store: st, Sessions: sessions, Audit: audit}
	router.SessionService = sessions
	router.MFAService = &service.MFAService{Store: st, Audit: audit, Issuer: "MedLock E2E"}
	router.PasswordService = &service.PasswordService{Store: st, Audit: audit}
	router.AuditService = audit
	router.BootstrapService = &service.BootstrapService{Store: st, Users: users, Token: token}
	router.ApplyRoutes()

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return &testServer{store: st, client: authsdk.NewSDKClient(ts.URL)}
}

// bootstrapAdmin provisions the initial admin over HTTP and logs in.
func bootstrapAdmin(t *testing.T, srv *testServer) *authsdk.Session {
	t.Helper()

	_, err := srv.client.Bootstrap(t.Context(), authsdk.BootstrapRequest{
		Token:    bootstrapToken,
		Username: adminUsername,
		Email:    adminEmail,
		Password: adminPassword,
	})
	require.NoError(t, err)

	return login(t, srv, adminUsername, adminPassword)
}

// login performs a password-only login and requires it to succeed.
func login(t *testing.T, srv *testServer, username, password string) *authsdk.Session {
	t.Helper()

	result, err := srv.client.Login(t.Context(), username, password)
	require.NoError(t, err)
	require.Equal(t, authsdk.LoginStatusOK, result.Status)

	session := result.Session()
	require.NotNil(t, session)
	return session
}

// seedUser inserts an account directly in storage. Everything else in the
// tests goes through HTTP; user provisioning belongs to the wider platform
// and has no route here beyond bootstrap.
func seedUser(t *testing.T, srv *testServer, username, password, role string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        username + "@clinic.example",
		PasswordHash: hash,
		Role:         role,
		Status:       domain.AccountActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, srv.store.Users().CreateUser(context.Background(), u))
	return u
}

// enrollMFA walks the whole enrollment flow over HTTP for an already
// authenticated session: setup, confirm with a live TOTP code, backup
// codes returned once.
func enrollMFA(t *testing.T, session *authsdk.Session) (secret string, backupCodes []string) {
	t.Helper()

	setup, err := session.BeginMFASetup(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, setup.Secret)
	require.Contains(t, setup.OTPAuthURL, "otpauth://totp/")
	require.NotEmpty(t, setup.QRCode)

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)

	codes, err := session.ConfirmMFASetup(t.Context(), code)
	require.NoError(t, err)
	require.Len(t, codes, 10)

	return setup.Secret, codes
}

// startMFALogin performs the password step for an MFA-enabled account and
// returns the pending challenge reference.
func startMFALogin(t *testing.T, srv *testServer, username, password string) *authsdk.LoginResult {
	t.Helper()

	result, err := srv.client.Login(t.Context(), username, password)
	require.NoError(t, err)
	require.Equal(t, authsdk.LoginStatusMFARequired, result.Status)
	require.NotEmpty(t, result.ChallengeID)
	return result
}

// expireSession ages a session record past its TTL directly in storage.
// The server runs on real time, so expiry cannot be reached by waiting.
func expireSession(t *testing.T, srv *testServer, sessionID string) {
	t.Helper()

	res, err := srv.store.DB().ExecContext(context.Background(),
		`UPDATE sessions SET expires_at = ? WHERE id = ?`,
		time.Now().Add(-time.Hour).UTC(), sessionID)
	require.NoError(t, err)

	n, err := res.RowsAffected()
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

// requireAPIError asserts err is an APIError with the given code.
func requireAPIError(t *testing.T, err error, code string) *authsdk.APIError {
	t.Helper()

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}
