package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/store"
	"github.com/luminahealth/medlock/pkg/idx"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHousekeepingSweep(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	hk := NewHousekeepingService(env.store, discardLogger(), time.Minute)
	hk.Now = env.clock.Now

	now := env.clock.Now()

	lapsed := env.seedUser(t, "lapsed", "Correct#Horse9Battery")
	held := env.seedUser(t, "held", "Correct#Horse9Battery")
	require.NoError(t, env.store.Users().Lock(ctx, lapsed.ID, now.Add(-time.Second)))
	require.NoError(t, env.store.Users().Lock(ctx, held.ID, now.Add(10*time.Minute)))

	staleChallenge := domain.MFAChallenge{
		ID:        idx.New().String(),
		UserID:    lapsed.ID,
		IP:        testMeta.IP,
		UserAgent: testMeta.UserAgent,
		CreatedAt: now.Add(-10 * time.Minute),
		ExpiresAt: now.Add(-5 * time.Minute),
	}
	liveChallenge := domain.MFAChallenge{
		ID:        idx.New().String(),
		UserID:    held.ID,
		IP:        testMeta.IP,
		UserAgent: testMeta.UserAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(5 * time.Minute),
	}
	require.NoError(t, env.store.MFAChallenges().CreateChallenge(ctx, staleChallenge))
	require.NoError(t, env.store.MFAChallenges().CreateChallenge(ctx, liveChallenge))

	require.NoError(t, env.store.MFASetups().UpsertSetup(ctx, domain.MFASetup{
		UserID:    lapsed.ID,
		Secret:    "JBSWY3DPEHPK3PXP",
		CreatedAt: now.Add(-time.Hour),
		ExpiresAt: now.Add(-time.Minute),
	}))
	require.NoError(t, env.store.MFASetups().UpsertSetup(ctx, domain.MFASetup{
		UserID:    held.ID,
		Secret:    "JBSWY3DPEHPK3PXP",
		CreatedAt: now,
		ExpiresAt: now.Add(10 * time.Minute),
	}))

	makeSession := func(id string, expiresAt time.Time) domain.Session {
		return domain.Session{
			ID:         id,
			UserID:     lapsed.ID,
			TokenHash:  "hash-" + id,
			IssuedAt:   expiresAt.Add(-DefaultSessionTTL),
			ExpiresAt:  expiresAt,
			LastSeenAt: expiresAt.Add(-DefaultSessionTTL),
			IP:         testMeta.IP,
			UserAgent:  testMeta.UserAgent,
		}
	}
	ancient := makeSession(idx.New().String(), now.Add(-DefaultSessionRetention-time.Hour))
	recentlyExpired := makeSession(idx.New().String(), now.Add(-time.Hour))
	live := makeSession(idx.New().String(), now.Add(DefaultSessionTTL))
	for _, s := range []domain.Session{ancient, recentlyExpired, live} {
		require.NoError(t, env.store.Sessions().CreateSession(ctx, s))
	}

	hk.Sweep(ctx)

	t.Run("expired challenges are purged", func(t *testing.T) {
		_, err := env.store.MFAChallenges().GetChallenge(ctx, staleChallenge.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = env.store.MFAChallenges().GetChallenge(ctx, liveChallenge.ID)
		require.NoError(t, err)
	})

	t.Run("expired enrolments are purged", func(t *testing.T) {
		_, err := env.store.MFASetups().GetSetup(ctx, lapsed.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = env.store.MFASetups().GetSetup(ctx, held.ID)
		require.NoError(t, err)
	})

	t.Run("lapsed lockouts are lifted even without a login", func(t *testing.T) {
		fresh := env.getUser(t, lapsed.ID)
		require.Equal(t, domain.AccountActive, fresh.Status)
		require.Nil(t, fresh.LockExpiresAt)
		require.Zero(t, fresh.FailedLoginAttempts)

		stillHeld := env.getUser(t, held.ID)
		require.Equal(t, domain.AccountLocked, stillHeld.Status)
	})

	t.Run("only sessions past the retention window are deleted", func(t *testing.T) {
		_, err := env.store.Sessions().GetSessionByID(ctx, ancient.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = env.store.Sessions().GetSessionByID(ctx, recentlyExpired.ID)
		require.NoError(t, err)
		_, err = env.store.Sessions().GetSessionByID(ctx, live.ID)
		require.NoError(t, err)
	})
}

func TestHousekeepingLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	// A long interval keeps the ticker quiet; only the startup sweep runs.
	hk := NewHousekeepingService(env.store, discardLogger(), time.Hour)
	hk.Now = env.clock.Now

	u := env.seedUser(t, "sweepme", "Correct#Horse9Battery")
	require.NoError(t, env.store.MFAChallenges().CreateChallenge(ctx, domain.MFAChallenge{
		ID:        idx.New().String(),
		UserID:    u.ID,
		CreatedAt: env.clock.Now().Add(-time.Hour),
		ExpiresAt: env.clock.Now().Add(-time.Minute),
	}))

	hk.Start()
	hk.Stop()

	// Stop blocks until the worker exits, so the startup sweep has finished.
	n, err := env.store.MFAChallenges().DeleteExpiredChallenges(ctx, env.clock.Now())
	require.NoError(t, err)
	require.Zero(t, n)
}
