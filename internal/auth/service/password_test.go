package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luminahealth/medlock/internal/auth/domain"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	t.Run("accepts a compliant password", func(t *testing.T) {
		require.Empty(t, ValidatePassword("Correct#Horse9Battery"))
	})

	t.Run("counts unicode character classes", func(t *testing.T) {
		require.Empty(t, ValidatePassword("Üben!2345x"))
	})

	t.Run("rejects short passwords by rune count", func(t *testing.T) {
		violations := ValidatePassword("Sh0rt!a")
		require.Len(t, violations, 1)
		require.Contains(t, violations[0], "at least 10 characters")
	})

	t.Run("reports each missing class", func(t *testing.T) {
		require.Len(t, ValidatePassword("alllowercase1!"), 1)
		require.Len(t, ValidatePassword("ALLUPPERCASE1!"), 1)
		require.Len(t, ValidatePassword("NoDigitsHere!"), 1)
		require.Len(t, ValidatePassword("NoSymbols123A"), 1)
	})

	t.Run("stacks violations", func(t *testing.T) {
		require.Len(t, ValidatePassword(""), 5)
	})
}

func TestPasswordChange(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	const oldPassword = "Correct#Horse9Battery"
	const newPassword = "Fresh&Stable7Outcome"

	u := env.seedUser(t, "rotator", oldPassword)
	require.NoError(t, env.store.Users().SetRequirePasswordChange(ctx, u.ID, true))

	loginOnce := func(t *testing.T, password string) *domain.LoginGrant {
		t.Helper()
		grant, err := env.login.Login(ctx, LoginInput{Login: "rotator", Password: password, Meta: testMeta})
		require.NoError(t, err)
		return grant
	}

	keep := loginOnce(t, oldPassword)
	other := loginOnce(t, oldPassword)

	t.Run("rejects a wrong current password", func(t *testing.T) {
		err := env.password.Change(ctx, u.ID, "not-the-password", newPassword, keep.Session.ID)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("enforces the composition policy", func(t *testing.T) {
		var pvErr *PolicyViolationError
		err := env.password.Change(ctx, u.ID, oldPassword, "weak", keep.Session.ID)
		require.ErrorAs(t, err, &pvErr)
		require.NotEmpty(t, pvErr.Violations)
	})

	t.Run("rejects reuse of the current password", func(t *testing.T) {
		var pvErr *PolicyViolationError
		err := env.password.Change(ctx, u.ID, oldPassword, oldPassword, keep.Session.ID)
		require.ErrorAs(t, err, &pvErr)
		require.Contains(t, pvErr.Violations, "must differ from recently used passwords")
	})

	t.Run("rotates the credential and cuts other sessions off", func(t *testing.T) {
		principal, err := env.sessions.Validate(ctx, keep.Token)
		require.NoError(t, err)
		require.True(t, principal.RequirePasswordChange)

		require.NoError(t, env.password.Change(ctx, u.ID, oldPassword, newPassword, keep.Session.ID))

		// The calling session survives with the flag cleared; the other one
		// is revoked.
		principal, err = env.sessions.Validate(ctx, keep.Token)
		require.NoError(t, err)
		require.False(t, principal.RequirePasswordChange)

		_, err = env.sessions.Validate(ctx, other.Token)
		require.ErrorIs(t, err, ErrSessionRevoked)

		require.Equal(t, domain.AuditPasswordChanged, env.lastAudit(t).Action)

		// Old credential is dead, new one works.
		_, err = env.login.Login(ctx, LoginInput{Login: "rotator", Password: oldPassword, Meta: testMeta})
		require.ErrorIs(t, err, ErrInvalidCredentials)
		loginOnce(t, newPassword)
	})

	t.Run("rejects reuse of a password still in history", func(t *testing.T) {
		var pvErr *PolicyViolationError
		err := env.password.Change(ctx, u.ID, newPassword, oldPassword, keep.Session.ID)
		require.ErrorAs(t, err, &pvErr)
		require.Contains(t, pvErr.Violations, "must differ from recently used passwords")
	})
}
