package service

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/store"
	"github.com/luminahealth/medlock/pkg/cryptox"
)

func TestMFAEnrollment(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	const password = "Correct#Horse9Battery"
	u := env.seedUser(t, "enrollee", password)

	var pendingSecret string

	codeFor := func(t *testing.T, secret string) string {
		t.Helper()
		code, err := totp.GenerateCode(secret, env.clock.Now())
		require.NoError(t, err)
		return code
	}
	wrongCodeFor := func(t *testing.T, secret string) string {
		t.Helper()
		if codeFor(t, secret) == "000000" {
			return "111111"
		}
		return "000000"
	}

	t.Run("begin setup returns a provisioning bundle and stays pending", func(t *testing.T) {
		enr, err := env.mfa.BeginSetup(ctx, u.ID)
		require.NoError(t, err)
		require.NotEmpty(t, enr.Secret)
		require.True(t, strings.HasPrefix(enr.OTPAuthURL, "otpauth://totp/"))
		require.True(t, enr.ExpiresAt.Equal(env.clock.Now().Add(DefaultSetupTTL)))

		png, err := base64.StdEncoding.DecodeString(enr.QRCode)
		require.NoError(t, err)
		require.NotEmpty(t, png)

		pendingSecret = enr.Secret

		// The secret is parked, not live: logging in is still single-factor.
		require.False(t, env.getUser(t, u.ID).MFAEnabled)
		grant, err := env.login.Login(ctx, LoginInput{Login: "enrollee", Password: password, Meta: testMeta})
		require.NoError(t, err)
		require.NotEmpty(t, grant.Token)
	})

	t.Run("a wrong confirmation code leaves MFA off", func(t *testing.T) {
		_, err := env.mfa.ConfirmSetup(ctx, u.ID, wrongCodeFor(t, pendingSecret))
		require.ErrorIs(t, err, ErrInvalidMFACode)
		require.False(t, env.getUser(t, u.ID).MFAEnabled)
	})

	t.Run("a valid confirmation enables MFA and issues backup codes", func(t *testing.T) {
		codes, err := env.mfa.ConfirmSetup(ctx, u.ID, codeFor(t, pendingSecret))
		require.NoError(t, err)
		require.Len(t, codes, 10)
		for _, c := range codes {
			require.Regexp(t, `^[A-Z0-9]{5}-[A-Z0-9]{5}$`, c)
		}

		fresh := env.getUser(t, u.ID)
		require.True(t, fresh.MFAEnabled)
		require.NotNil(t, fresh.MFASecret)
		require.Equal(t, pendingSecret, *fresh.MFASecret)

		_, err = env.store.MFASetups().GetSetup(ctx, u.ID)
		require.ErrorIs(t, err, store.ErrNotFound)

		require.Equal(t, domain.AuditMFAEnabled, env.lastAudit(t).Action)

		// From here on the password alone no longer buys a session.
		_, err = env.login.Login(ctx, LoginInput{Login: "enrollee", Password: password, Meta: testMeta})
		var mfaErr *MFARequiredError
		require.ErrorAs(t, err, &mfaErr)
	})

	t.Run("setup cannot be restarted once enabled", func(t *testing.T) {
		_, err := env.mfa.BeginSetup(ctx, u.ID)
		require.ErrorIs(t, err, ErrMFAAlreadyEnabled)
		_, err = env.mfa.ConfirmSetup(ctx, u.ID, codeFor(t, pendingSecret))
		require.ErrorIs(t, err, ErrMFAAlreadyEnabled)
	})

	t.Run("restarting setup replaces the pending secret", func(t *testing.T) {
		u2 := env.seedUser(t, "restarter", password)

		first, err := env.mfa.BeginSetup(ctx, u2.ID)
		require.NoError(t, err)
		second, err := env.mfa.BeginSetup(ctx, u2.ID)
		require.NoError(t, err)
		require.NotEqual(t, first.Secret, second.Secret)

		_, err = env.mfa.ConfirmSetup(ctx, u2.ID, codeFor(t, first.Secret))
		require.ErrorIs(t, err, ErrInvalidMFACode)

		codes, err := env.mfa.ConfirmSetup(ctx, u2.ID, codeFor(t, second.Secret))
		require.NoError(t, err)
		require.Len(t, codes, 10)
	})

	t.Run("a pending setup expires unconfirmed", func(t *testing.T) {
		u3 := env.seedUser(t, "slowpoke", password)

		enr, err := env.mfa.BeginSetup(ctx, u3.ID)
		require.NoError(t, err)
		env.clock.Advance(DefaultSetupTTL)

		_, err = env.mfa.ConfirmSetup(ctx, u3.ID, codeFor(t, enr.Secret))
		require.ErrorIs(t, err, ErrChallengeExpired)

		_, err = env.store.MFASetups().GetSetup(ctx, u3.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("confirm without a pending setup", func(t *testing.T) {
		u4 := env.seedUser(t, "nosetup", password)
		_, err := env.mfa.ConfirmSetup(ctx, u4.ID, "123456")
		require.ErrorIs(t, err, ErrMFANotEnrolled)
	})
}

func TestTOTPDriftWindow(t *testing.T) {
	const secret = "JBSWY3DPEHPK3PXP"

	// Aligned to a step boundary so the edges land exactly one period out.
	base := time.Unix(1700000100, 0)
	require.Zero(t, base.Unix()%totpPeriod)

	code, err := totp.GenerateCode(secret, base)
	require.NoError(t, err)

	require.True(t, validTOTP(code, secret, base))
	require.True(t, validTOTP(code, secret, base.Add(totpPeriod*time.Second)), "one step of drift ahead")
	require.True(t, validTOTP(code, secret, base.Add(-totpPeriod*time.Second)), "one step of drift behind")
	require.False(t, validTOTP(code, secret, base.Add(2*totpPeriod*time.Second)))
	require.False(t, validTOTP(code, secret, base.Add(-2*totpPeriod*time.Second)))
}

func TestMFADisable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	const password = "Correct#Horse9Battery"
	const secret = "JBSWY3DPEHPK3PXP"

	u := env.seedUser(t, "protected", password)
	env.enrollMFA(t, u.ID, secret, []string{"7K3MD-29QRT"})

	keepToken, keep, err := env.sessions.Issue(ctx, u.ID, testMeta)
	require.NoError(t, err)
	otherToken, _, err := env.sessions.Issue(ctx, u.ID, testMeta)
	require.NoError(t, err)

	t.Run("a wrong password is refused", func(t *testing.T) {
		err := env.mfa.Disable(ctx, u.ID, "not-the-password", keep.ID)
		require.ErrorIs(t, err, ErrUnauthorized)
		require.True(t, env.getUser(t, u.ID).MFAEnabled)
	})

	t.Run("disable wipes the secret and codes and cuts other sessions", func(t *testing.T) {
		require.NoError(t, env.mfa.Disable(ctx, u.ID, password, keep.ID))

		fresh := env.getUser(t, u.ID)
		require.False(t, fresh.MFAEnabled)
		require.Nil(t, fresh.MFASecret)

		n, err := env.store.BackupCodes().CountUnusedBackupCodes(ctx, u.ID)
		require.NoError(t, err)
		require.Zero(t, n)

		_, err = env.sessions.Validate(ctx, keepToken)
		require.NoError(t, err)
		_, err = env.sessions.Validate(ctx, otherToken)
		require.ErrorIs(t, err, ErrSessionRevoked)

		require.Equal(t, domain.AuditMFADisabled, env.lastAudit(t).Action)

		grant, err := env.login.Login(ctx, LoginInput{Login: "protected", Password: password, Meta: testMeta})
		require.NoError(t, err)
		require.NotEmpty(t, grant.Token)
	})

	t.Run("disable without enrolment", func(t *testing.T) {
		err := env.mfa.Disable(ctx, u.ID, password, keep.ID)
		require.ErrorIs(t, err, ErrMFANotEnrolled)
	})
}

func TestRegenerateBackupCodes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	const password = "Correct#Horse9Battery"
	const secret = "JBSWY3DPEHPK3PXP"
	oldCode := "7K3MD-29QRT"

	u := env.seedUser(t, "regen", password)
	env.enrollMFA(t, u.ID, secret, []string{oldCode})

	t.Run("requires a live authenticator code", func(t *testing.T) {
		live, err := totp.GenerateCode(secret, env.clock.Now())
		require.NoError(t, err)
		wrong := "000000"
		if live == wrong {
			wrong = "111111"
		}

		_, err = env.mfa.RegenerateBackupCodes(ctx, u.ID, wrong)
		require.ErrorIs(t, err, ErrInvalidMFACode)
	})

	t.Run("replaces the whole batch", func(t *testing.T) {
		code, err := totp.GenerateCode(secret, env.clock.Now())
		require.NoError(t, err)

		codes, err := env.mfa.RegenerateBackupCodes(ctx, u.ID, code)
		require.NoError(t, err)
		require.Len(t, codes, 10)
		require.Equal(t, domain.AuditBackupCodesRegenerated, env.lastAudit(t).Action)

		// The old code is gone; a new one redeems exactly once.
		redeemed, err := env.store.BackupCodes().RedeemBackupCode(ctx, u.ID,
			cryptox.FingerprintToken(cryptox.NormalizeBackupCode(oldCode)), env.clock.Now())
		require.NoError(t, err)
		require.False(t, redeemed)

		redeemed, err = env.store.BackupCodes().RedeemBackupCode(ctx, u.ID,
			cryptox.FingerprintToken(cryptox.NormalizeBackupCode(codes[0])), env.clock.Now())
		require.NoError(t, err)
		require.True(t, redeemed)
	})

	t.Run("requires enrolment", func(t *testing.T) {
		plain := env.seedUser(t, "unenrolled", password)
		_, err := env.mfa.RegenerateBackupCodes(ctx, plain.ID, "123456")
		require.ErrorIs(t, err, ErrMFANotEnrolled)
	})
}
