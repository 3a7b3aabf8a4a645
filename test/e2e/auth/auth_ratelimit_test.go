package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/pkg/httpx"
)

// TestRateLimit_Login checks the per-IP limiter on the login endpoint.
//
// Deliberately not parallel: the handler captures the strict profile when
// routes are registered, so the profile is pinned low just while this
// test's server is built and restored before any paused parallel test
// resumes and builds its own.
func TestRateLimit_Login(t *testing.T) {
	saved := httpx.StrictLimit
	httpx.StrictLimit = httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3}
	srv := setupServer(t)
	httpx.StrictLimit = saved

	seedUser(t, srv, "nurse.riley", defaultPassword, domain.RoleEmployee)

	// The burst passes.
	for i := 0; i < 3; i++ {
		_, err := srv.client.Login(t.Context(), "nurse.riley", defaultPassword)
		require.NoError(t, err, "request %d within the burst", i+1)
	}

	// The next request from the same address trips the limiter.
	_, err := srv.client.Login(t.Context(), "nurse.riley", defaultPassword)
	apiErr := requireAPIError(t, err, "rate_limit_exceeded")
	require.Equal(t, 429, apiErr.StatusCode)
}

// TestRateLimit_HealthUnaffected checks probe endpoints stay reachable
// while the login limiter is saturated.
func TestRateLimit_HealthUnaffected(t *testing.T) {
	saved := httpx.StrictLimit
	httpx.StrictLimit = httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	srv := setupServer(t)
	httpx.StrictLimit = saved

	_, err := srv.client.Login(t.Context(), "nobody", "whatever-pw")
	require.NoError(t, err)
	_, err = srv.client.Login(t.Context(), "nobody", "whatever-pw")
	requireAPIError(t, err, "rate_limit_exceeded")

	resp, err := srv.client.Livez(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Status)
}
