package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luminahealth/medlock/internal/auth/domain"
)

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled without a configured token", func(t *testing.T) {
		env := newTestEnv(t)
		boot := &BootstrapService{Store: env.store, Users: env.users}

		_, err := boot.Bootstrap(ctx, "", "admin", "admin@clinic.example", "Correct#Horse9Battery")
		require.ErrorIs(t, err, ErrBootstrapDisabled)
	})

	t.Run("a wrong token provisions nothing", func(t *testing.T) {
		env := newTestEnv(t)
		boot := &BootstrapService{Store: env.store, Users: env.users, Token: "super-secret"}

		_, err := boot.Bootstrap(ctx, "not-it", "admin", "admin@clinic.example", "Correct#Horse9Battery")
		require.ErrorIs(t, err, ErrBootstrapUnauthorized)

		done, err := boot.IsBootstrapped(ctx)
		require.NoError(t, err)
		require.False(t, done)
	})

	t.Run("the initial password must pass policy", func(t *testing.T) {
		env := newTestEnv(t)
		boot := &BootstrapService{Store: env.store, Users: env.users, Token: "super-secret"}

		_, err := boot.Bootstrap(ctx, "super-secret", "admin", "admin@clinic.example", "weak")
		var policyErr *PolicyViolationError
		require.ErrorAs(t, err, &policyErr)
	})

	t.Run("provisions the first admin exactly once", func(t *testing.T) {
		env := newTestEnv(t)
		boot := &BootstrapService{Store: env.store, Users: env.users, Token: "super-secret"}

		u, err := boot.Bootstrap(ctx, "super-secret", "admin", "admin@clinic.example", "Correct#Horse9Battery")
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, u.Role)

		// There is nobody to attribute the very first account to.
		last := env.lastAudit(t)
		require.Equal(t, domain.AuditUserCreated, last.Action)
		require.Nil(t, last.ActorUserID)

		done, err := boot.IsBootstrapped(ctx)
		require.NoError(t, err)
		require.True(t, done)

		grant, err := env.login.Login(ctx, LoginInput{Login: "admin", Password: "Correct#Horse9Battery", Meta: testMeta})
		require.NoError(t, err)
		require.NotEmpty(t, grant.Token)

		_, err = boot.Bootstrap(ctx, "super-secret", "admin2", "admin2@clinic.example", "Correct#Horse9Battery")
		require.ErrorIs(t, err, ErrAlreadyBootstrapped)
	})

	t.Run("any existing account closes the door", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedUser(t, "somebody", "Correct#Horse9Battery")
		boot := &BootstrapService{Store: env.store, Users: env.users, Token: "super-secret"}

		_, err := boot.Bootstrap(ctx, "super-secret", "admin", "admin@clinic.example", "Correct#Horse9Battery")
		require.ErrorIs(t, err, ErrAlreadyBootstrapped)
	})
}
