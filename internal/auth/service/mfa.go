package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/skip2/go-qrcode"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/store"
	"github.com/luminahealth/medlock/internal/metrics"
	"github.com/luminahealth/medlock/pkg/cryptox"
	"github.com/luminahealth/medlock/pkg/idx"
	"github.com/luminahealth/medlock/pkg/slogx"
)

const (
	// DefaultSetupTTL is how long a pending enrolment stays confirmable.
	DefaultSetupTTL = 15 * time.Minute

	// backupCodeCount is the size of each issued batch of recovery codes.
	backupCodeCount = 10

	// TOTP parameters shared by enrolment and verification. One step of skew
	// tolerates clock drift between the server and the authenticator.
	totpPeriod = 30
	totpSkew   = 1

	qrCodeSizePx = 256
)

// MFAService manages TOTP enrolment and backup codes. A secret generated by
// BeginSetup is parked in pending state and only becomes the account's live
// secret once the user proves their authenticator with a valid code.
type MFAService struct {
	Store store.Store
	Audit *AuditService

	// Issuer is the name authenticator apps display; zero means "MedLock".
	Issuer string

	// SetupTTL overrides how long a pending enrolment lives; zero means
	// DefaultSetupTTL.
	SetupTTL time.Duration

	// Now supplies the current time. Nil means time.Now; tests inject it.
	Now func() time.Time
}

// BeginSetup generates a fresh TOTP secret for the user and parks it as a
// pending enrolment. Calling it again before confirming replaces the pending
// secret. The response carries the provisioning URI plus a QR rendering of it
// as base64 PNG.
func (s *MFAService) BeginSetup(ctx context.Context, userID string) (domain.MFAEnrollment, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.MFAEnrollment{}, ErrUserNotFound
	}
	if err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("failed to get user: %w", err)
	}
	if u.MFAEnabled {
		return domain.MFAEnrollment{}, ErrMFAAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer(),
		AccountName: u.Email,
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, qrCodeSizePx)
	if err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("failed to render QR code: %w", err)
	}

	now := s.now()
	setup := domain.MFASetup{
		UserID:    u.ID,
		Secret:    key.Secret(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.setupTTL()),
	}
	if err := s.Store.MFASetups().UpsertSetup(ctx, setup); err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("failed to store pending enrolment: %w", err)
	}

	return domain.MFAEnrollment{
		Secret:     setup.Secret,
		OTPAuthURL: key.URL(),
		QRCode:     base64.StdEncoding.EncodeToString(png),
		ExpiresAt:  setup.ExpiresAt,
	}, nil
}

// ConfirmSetup proves the user's authenticator holds the pending secret and
// flips MFA on. It returns a fresh batch of one-time backup codes in plain
// text; only their fingerprints are stored, so this is the single chance to
// save them.
func (s *MFAService) ConfirmSetup(ctx context.Context, userID, code string) ([]string, error) {
	l := slogx.FromContext(ctx)
	now := s.now()

	// 1. The account must have a live pending enrolment.
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u.MFAEnabled {
		return nil, ErrMFAAlreadyEnabled
	}

	setup, err := s.Store.MFASetups().GetSetup(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrMFANotEnrolled
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending enrolment: %w", err)
	}
	if !now.Before(setup.ExpiresAt) {
		_ = s.Store.MFASetups().DeleteSetup(ctx, userID)
		return nil, ErrChallengeExpired
	}

	// 2. The code must come from the pending secret.
	if !validTOTP(code, setup.Secret, now) {
		return nil, ErrInvalidMFACode
	}

	// 3. Promote the secret and issue backup codes atomically. Stale codes
	// from an earlier enrolment die with the old secret.
	codes, err := cryptox.GenerateBackupCodes(backupCodeCount)
	if err != nil {
		return nil, fmt.Errorf("failed to generate backup codes: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().EnableMFA(ctx, u.ID, setup.Secret); err != nil {
			return fmt.Errorf("failed to enable MFA: %w", err)
		}
		if err := tx.MFASetups().DeleteSetup(ctx, u.ID); err != nil {
			return fmt.Errorf("failed to delete pending enrolment: %w", err)
		}
		return storeBackupCodes(ctx, tx, u.ID, codes, now)
	})
	if err != nil {
		return nil, err
	}

	if err := s.Audit.Record(ctx, u.ID, domain.AuditMFAEnabled, domain.EntityUser, u.ID, "", map[string]any{
		"backup_codes": len(codes),
	}); err != nil {
		return nil, err
	}

	l.Info("mfa enabled", "user_id", u.ID)
	return codes, nil
}

// Disable turns MFA off after re-proving the account password, wipes the
// stored secret and backup codes, and revokes every other session. keep
// SessionID names the caller's own session.
func (s *MFAService) Disable(ctx context.Context, userID, password, keepSessionID string) error {
	l := slogx.FromContext(ctx)
	now := s.now()

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if !u.MFAEnabled {
		return ErrMFANotEnrolled
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		return ErrUnauthorized
	}

	var revoked int64
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().DisableMFA(ctx, u.ID); err != nil {
			return fmt.Errorf("failed to disable MFA: %w", err)
		}
		if err := tx.BackupCodes().DeleteAllBackupCodes(ctx, u.ID); err != nil {
			return fmt.Errorf("failed to delete backup codes: %w", err)
		}
		if err := tx.MFASetups().DeleteSetup(ctx, u.ID); err != nil {
			return fmt.Errorf("failed to delete pending enrolment: %w", err)
		}

		revoked, err = tx.Sessions().RevokeUserSessions(ctx, u.ID, keepSessionID, now)
		if err != nil {
			return fmt.Errorf("failed to revoke sessions: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if revoked > 0 {
		metrics.SessionsRevoked.WithLabelValues("mfa_disabled").Add(float64(revoked))
	}

	if err := s.Audit.Record(ctx, u.ID, domain.AuditMFADisabled, domain.EntityUser, u.ID, "", map[string]any{
		"revoked_sessions": revoked,
	}); err != nil {
		return err
	}

	l.Info("mfa disabled", "user_id", u.ID, "revoked_sessions", revoked)
	return nil
}

// RegenerateBackupCodes replaces the whole batch after re-proving the
// authenticator with a current TOTP code. Unused codes from the old batch
// stop working.
func (s *MFAService) RegenerateBackupCodes(ctx context.Context, userID, code string) ([]string, error) {
	now := s.now()

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !u.MFAEnabled || u.MFASecret == nil {
		return nil, ErrMFANotEnrolled
	}

	if !validTOTP(code, *u.MFASecret, now) {
		return nil, ErrInvalidMFACode
	}

	codes, err := cryptox.GenerateBackupCodes(backupCodeCount)
	if err != nil {
		return nil, fmt.Errorf("failed to generate backup codes: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return storeBackupCodes(ctx, tx, u.ID, codes, now)
	})
	if err != nil {
		return nil, err
	}

	if err := s.Audit.Record(ctx, u.ID, domain.AuditBackupCodesRegenerated, domain.EntityUser, u.ID, "", map[string]any{
		"backup_codes": len(codes),
	}); err != nil {
		return nil, err
	}

	return codes, nil
}

func (s *MFAService) issuer() string {
	if s.Issuer != "" {
		return s.Issuer
	}
	return "MedLock"
}

func (s *MFAService) setupTTL() time.Duration {
	if s.SetupTTL > 0 {
		return s.SetupTTL
	}
	return DefaultSetupTTL
}

func (s *MFAService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// storeBackupCodes replaces the user's stored codes with fingerprints of the
// new batch.
func storeBackupCodes(ctx context.Context, tx store.Tx, userID string, codes []string, now time.Time) error {
	if err := tx.BackupCodes().DeleteAllBackupCodes(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete backup codes: %w", err)
	}
	for _, c := range codes {
		bc := domain.BackupCode{
			ID:        idx.New().String(),
			UserID:    userID,
			CodeHash:  cryptox.FingerprintToken(cryptox.NormalizeBackupCode(c)),
			CreatedAt: now,
		}
		if err := tx.BackupCodes().CreateBackupCode(ctx, bc); err != nil {
			return fmt.Errorf("failed to store backup code: %w", err)
		}
	}
	return nil
}

// validTOTP checks a code against a secret at the given instant, allowing one
// period of clock drift either side.
func validTOTP(code, secret string, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, at, totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
