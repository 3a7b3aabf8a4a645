package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/store"
	"github.com/luminahealth/medlock/internal/metrics"
	"github.com/luminahealth/medlock/pkg/cryptox"
	"github.com/luminahealth/medlock/pkg/idx"
	"github.com/luminahealth/medlock/pkg/slogx"
)

const (
	// DefaultMaxFailedAttempts is the failure count that locks an account.
	DefaultMaxFailedAttempts = 5

	// DefaultLockoutDuration is how long a lockout lasts. Attempts made while
	// locked are refused outright and never extend it.
	DefaultLockoutDuration = 15 * time.Minute

	// DefaultChallengeTTL is how long a pending MFA challenge stays
	// answerable after the password step.
	DefaultChallengeTTL = 5 * time.Minute

	// MaxChallengeAttempts caps failed verifications of one challenge.
	MaxChallengeAttempts = 5
)

// LoginService drives authentication end to end: password check, lockout
// bookkeeping, the MFA challenge hop, and session issuance. Every attempt
// that does not end in a session leaves exactly one audit entry saying why.
type LoginService struct {
	Store    store.Store
	Sessions *SessionService
	Audit    *AuditService

	// MaxFailedAttempts overrides the lockout threshold; zero means
	// DefaultMaxFailedAttempts.
	MaxFailedAttempts int

	// LockoutDuration overrides the lockout length; zero means
	// DefaultLockoutDuration.
	LockoutDuration time.Duration

	// ChallengeTTL overrides the MFA challenge lifetime; zero means
	// DefaultChallengeTTL.
	ChallengeTTL time.Duration

	// Now supplies the current time. Nil means time.Now; tests inject it.
	Now func() time.Time
}

// LoginInput carries one authentication attempt. Login accepts a username or
// an email address.
type LoginInput struct {
	Login    string
	Password string
	Meta     domain.ClientMeta
}

// Login authenticates a password. Outcomes:
//
//   - grant, nil: authenticated, session issued
//   - nil, *MFARequiredError: password accepted, second factor owed
//   - nil, ErrInvalidCredentials / ErrAccountLocked: refused
//
// Lockout state is settled lazily here: an expired lock is cleared before the
// attempt is judged, and a live one refuses the attempt before the password
// is even checked, so attempts during a lockout cannot extend it.
func (s *LoginService) Login(ctx context.Context, in LoginInput) (*domain.LoginGrant, error) {
	l := slogx.FromContext(ctx)
	now := s.now()

	// 1. Resolve the account. Unknown logins are audited without an actor and
	// refused with the same error as a bad password.
	u, err := s.findUser(ctx, in.Login)
	if errors.Is(err, store.ErrNotFound) {
		if err := s.Audit.Record(ctx, "", domain.AuditLoginRejected, domain.EntityUser, "", in.Meta.IP, map[string]any{
			"reason": "unknown_user",
			"login":  in.Login,
		}); err != nil {
			return nil, err
		}
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// 2. Settle lockout state.
	if u.Status == domain.AccountLocked {
		if !u.LockExpired(now) {
			if err := s.Audit.Record(ctx, u.ID, domain.AuditLoginRejected, domain.EntityUser, u.ID, in.Meta.IP, map[string]any{
				"reason": "account_locked",
			}); err != nil {
				return nil, err
			}
			metrics.LoginAttempts.WithLabelValues("locked").Inc()
			return nil, ErrAccountLocked
		}

		if err := s.Store.Users().Unlock(ctx, u.ID); err != nil {
			return nil, fmt.Errorf("failed to unlock user: %w", err)
		}
		if err := s.Audit.Record(ctx, "", domain.AuditAccountUnlocked, domain.EntityUser, u.ID, in.Meta.IP, map[string]any{
			"trigger": "login",
		}); err != nil {
			return nil, err
		}
		u.Status = domain.AccountActive
		u.FailedLoginAttempts = 0
		l.Info("lockout expired, account unlocked", "user_id", u.ID)
	}

	if u.Status == domain.AccountInactive {
		if err := s.Audit.Record(ctx, u.ID, domain.AuditLoginRejected, domain.EntityUser, u.ID, in.Meta.IP, map[string]any{
			"reason": "account_inactive",
		}); err != nil {
			return nil, err
		}
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}

	// 3. Check the password.
	if err := cryptox.VerifyPassword(in.Password, u.PasswordHash); err != nil {
		return nil, s.registerFailure(ctx, u, now, in.Meta)
	}

	// 4. Enrolled accounts owe a second factor before any session exists.
	if u.MFAEnabled {
		return nil, s.issueChallenge(ctx, u, now, in.Meta)
	}

	// 5. Authenticated.
	return s.grant(ctx, u, in.Meta, "password")
}

// VerifyTOTP answers a pending challenge with an authenticator code and, on
// success, completes the login the challenge was issued for.
func (s *LoginService) VerifyTOTP(ctx context.Context, challengeID, code string, meta domain.ClientMeta) (*domain.LoginGrant, error) {
	now := s.now()

	ch, u, err := s.resolveChallenge(ctx, challengeID, "totp", now, meta)
	if err != nil {
		return nil, err
	}

	if !u.MFAEnabled || u.MFASecret == nil {
		return nil, s.rejectChallenge(ctx, ch, "totp", "not_enrolled", meta, ErrMFANotEnrolled)
	}
	if !validTOTP(code, *u.MFASecret, now) {
		return nil, s.registerMFAFailure(ctx, ch, "totp", meta, ErrInvalidMFACode)
	}

	consumed, err := s.Store.MFAChallenges().ConsumeChallenge(ctx, ch.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to consume challenge: %w", err)
	}
	if !consumed {
		// A racing answer got there first.
		return nil, s.rejectChallenge(ctx, ch, "totp", "already_answered", meta, ErrChallengeExpired)
	}

	metrics.MFAVerifications.WithLabelValues("totp", "succeeded").Inc()
	return s.grant(ctx, u, meta, "totp")
}

// VerifyBackupCode answers a pending challenge with a one-time recovery code.
// Redemption is a single conditional write, so a code can only ever buy one
// login no matter how many requests race on it.
func (s *LoginService) VerifyBackupCode(ctx context.Context, challengeID, code string, meta domain.ClientMeta) (*domain.LoginGrant, error) {
	now := s.now()

	ch, u, err := s.resolveChallenge(ctx, challengeID, "backup_code", now, meta)
	if err != nil {
		return nil, err
	}

	if !u.MFAEnabled {
		return nil, s.rejectChallenge(ctx, ch, "backup_code", "not_enrolled", meta, ErrMFANotEnrolled)
	}

	hash := cryptox.FingerprintToken(cryptox.NormalizeBackupCode(code))

	// Consume and redeem share a transaction: a challenge lost to a racing
	// answer must not burn the code, and a wrong code rolls the consume back
	// so the challenge stays answerable.
	var consumed, redeemed bool
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		consumed, err = tx.MFAChallenges().ConsumeChallenge(ctx, ch.ID)
		if err != nil {
			return fmt.Errorf("failed to consume challenge: %w", err)
		}
		if !consumed {
			return errAnswerRejected
		}
		redeemed, err = tx.BackupCodes().RedeemBackupCode(ctx, u.ID, hash, now)
		if err != nil {
			return fmt.Errorf("failed to redeem backup code: %w", err)
		}
		if !redeemed {
			return errAnswerRejected
		}
		return nil
	})
	if err != nil && !errors.Is(err, errAnswerRejected) {
		return nil, err
	}
	if !consumed {
		return nil, s.rejectChallenge(ctx, ch, "backup_code", "already_answered", meta, ErrChallengeExpired)
	}
	if !redeemed {
		return nil, s.registerMFAFailure(ctx, ch, "backup_code", meta, ErrInvalidBackupCode)
	}

	metrics.MFAVerifications.WithLabelValues("backup_code", "succeeded").Inc()
	return s.grant(ctx, u, meta, "backup_code")
}

// errAnswerRejected aborts the answer transaction so its writes roll back.
// Never escapes VerifyBackupCode.
var errAnswerRejected = errors.New("answer rejected")

// findUser resolves a login identifier. The username charset forbids "@", so
// its presence means an email address.
func (s *LoginService) findUser(ctx context.Context, login string) (domain.User, error) {
	if strings.Contains(login, "@") {
		return s.Store.Users().GetUserByEmail(ctx, login)
	}
	return s.Store.Users().GetUserByUsername(ctx, login)
}

// registerFailure books one failed password attempt. The attempt that reaches
// the threshold locks the account and is audited as the lock itself, not as
// another failure.
func (s *LoginService) registerFailure(ctx context.Context, u domain.User, now time.Time, meta domain.ClientMeta) error {
	l := slogx.FromContext(ctx)

	attempts, err := s.Store.Users().IncrementFailedAttempts(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("failed to increment failed attempts: %w", err)
	}

	switch {
	case attempts == s.maxAttempts():
		until := now.Add(s.lockoutDuration())
		if err := s.Store.Users().Lock(ctx, u.ID, until); err != nil {
			return fmt.Errorf("failed to lock user: %w", err)
		}
		if err := s.Audit.Record(ctx, u.ID, domain.AuditAccountLocked, domain.EntityUser, u.ID, meta.IP, map[string]any{
			"failed_attempts": attempts,
			"lock_expires_at": until.Format(time.RFC3339),
		}); err != nil {
			return err
		}
		metrics.AccountLockouts.Inc()
		metrics.LoginAttempts.WithLabelValues("locked").Inc()
		l.Warn("account locked after repeated failures", "user_id", u.ID, "failed_attempts", attempts)
		return ErrAccountLocked

	case attempts > s.maxAttempts():
		// A racing attempt crossed the threshold first; the lock is already
		// in place and must not be stacked.
		if err := s.Audit.Record(ctx, u.ID, domain.AuditLoginRejected, domain.EntityUser, u.ID, meta.IP, map[string]any{
			"reason": "account_locked",
		}); err != nil {
			return err
		}
		metrics.LoginAttempts.WithLabelValues("locked").Inc()
		return ErrAccountLocked

	default:
		if err := s.Audit.Record(ctx, u.ID, domain.AuditLoginFailed, domain.EntityUser, u.ID, meta.IP, map[string]any{
			"reason":          "bad_password",
			"failed_attempts": attempts,
		}); err != nil {
			return err
		}
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		return ErrInvalidCredentials
	}
}

// issueChallenge parks the half-finished login as a pending MFA challenge and
// returns the reference the client needs to answer it.
func (s *LoginService) issueChallenge(ctx context.Context, u domain.User, now time.Time, meta domain.ClientMeta) error {
	ch := domain.MFAChallenge{
		ID:        idx.New().String(),
		UserID:    u.ID,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.challengeTTL()),
	}
	if err := s.Store.MFAChallenges().CreateChallenge(ctx, ch); err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}

	methods := []string{"totp"}
	unused, err := s.Store.BackupCodes().CountUnusedBackupCodes(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("failed to count backup codes: %w", err)
	}
	if unused > 0 {
		methods = append(methods, "backup_code")
	}

	if err := s.Audit.Record(ctx, u.ID, domain.AuditMFAChallengeIssued, domain.EntityChallenge, ch.ID, meta.IP, nil); err != nil {
		return err
	}
	metrics.LoginAttempts.WithLabelValues("mfa_required").Inc()

	return &MFARequiredError{
		ChallengeID: ch.ID,
		Methods:     methods,
		ExpiresAt:   ch.ExpiresAt,
	}
}

// resolveChallenge loads and vets a pending challenge: it must exist, be
// unexpired, have attempts left, and belong to an account still allowed to
// finish logging in.
func (s *LoginService) resolveChallenge(ctx context.Context, challengeID, method string, now time.Time, meta domain.ClientMeta) (domain.MFAChallenge, domain.User, error) {
	ch, err := s.Store.MFAChallenges().GetChallenge(ctx, challengeID)
	if errors.Is(err, store.ErrNotFound) {
		if err := s.Audit.Record(ctx, "", domain.AuditMFAFailed, domain.EntityChallenge, challengeID, meta.IP, map[string]any{
			"method": method,
			"reason": "unknown_challenge",
		}); err != nil {
			return domain.MFAChallenge{}, domain.User{}, err
		}
		metrics.MFAVerifications.WithLabelValues(method, "rejected").Inc()
		return domain.MFAChallenge{}, domain.User{}, ErrChallengeExpired
	}
	if err != nil {
		return domain.MFAChallenge{}, domain.User{}, fmt.Errorf("failed to get challenge: %w", err)
	}

	if !now.Before(ch.ExpiresAt) {
		return domain.MFAChallenge{}, domain.User{}, s.rejectChallenge(ctx, ch, method, "challenge_expired", meta, ErrChallengeExpired)
	}
	if ch.Attempts >= MaxChallengeAttempts {
		return domain.MFAChallenge{}, domain.User{}, s.rejectChallenge(ctx, ch, method, "too_many_attempts", meta, ErrTooManyAttempts)
	}

	u, err := s.Store.Users().GetUserByID(ctx, ch.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.MFAChallenge{}, domain.User{}, s.rejectChallenge(ctx, ch, method, "unknown_user", meta, ErrChallengeExpired)
	}
	if err != nil {
		return domain.MFAChallenge{}, domain.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	if u.Status == domain.AccountInactive {
		return domain.MFAChallenge{}, domain.User{}, s.rejectChallenge(ctx, ch, method, "account_inactive", meta, ErrInvalidCredentials)
	}
	if u.IsLocked(now) {
		// Another device can rack up password failures while this challenge
		// is pending; a fresh lock closes the half-open login too.
		return domain.MFAChallenge{}, domain.User{}, s.rejectChallenge(ctx, ch, method, "account_locked", meta, ErrAccountLocked)
	}

	return ch, u, nil
}

// rejectChallenge burns a challenge that can no longer be answered, audits
// why, and hands back the sentinel for the caller to return.
func (s *LoginService) rejectChallenge(ctx context.Context, ch domain.MFAChallenge, method, reason string, meta domain.ClientMeta, sentinel error) error {
	if _, err := s.Store.MFAChallenges().ConsumeChallenge(ctx, ch.ID); err != nil {
		return fmt.Errorf("failed to consume challenge: %w", err)
	}
	if err := s.Audit.Record(ctx, ch.UserID, domain.AuditMFAFailed, domain.EntityChallenge, ch.ID, meta.IP, map[string]any{
		"method": method,
		"reason": reason,
	}); err != nil {
		return err
	}
	metrics.MFAVerifications.WithLabelValues(method, "rejected").Inc()
	return sentinel
}

// registerMFAFailure books one wrong code against the challenge. Crossing the
// attempt cap burns the challenge; the client has to start over from the
// password step.
func (s *LoginService) registerMFAFailure(ctx context.Context, ch domain.MFAChallenge, method string, meta domain.ClientMeta, sentinel error) error {
	attempts, err := s.Store.MFAChallenges().IncrementChallengeAttempts(ctx, ch.ID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrChallengeExpired
	}
	if err != nil {
		return fmt.Errorf("failed to increment challenge attempts: %w", err)
	}

	if attempts >= MaxChallengeAttempts {
		if _, err := s.Store.MFAChallenges().ConsumeChallenge(ctx, ch.ID); err != nil {
			return fmt.Errorf("failed to consume challenge: %w", err)
		}
		if err := s.Audit.Record(ctx, ch.UserID, domain.AuditMFAFailed, domain.EntityChallenge, ch.ID, meta.IP, map[string]any{
			"method":   method,
			"reason":   "too_many_attempts",
			"attempts": attempts,
		}); err != nil {
			return err
		}
		metrics.MFAVerifications.WithLabelValues(method, "too_many_attempts").Inc()
		return ErrTooManyAttempts
	}

	if err := s.Audit.Record(ctx, ch.UserID, domain.AuditMFAFailed, domain.EntityChallenge, ch.ID, meta.IP, map[string]any{
		"method":   method,
		"reason":   "invalid_code",
		"attempts": attempts,
	}); err != nil {
		return err
	}
	metrics.MFAVerifications.WithLabelValues(method, "rejected").Inc()
	return sentinel
}

// grant finishes a successful authentication: the failure counter resets, a
// session is minted, and the success is audited against it.
func (s *LoginService) grant(ctx context.Context, u domain.User, meta domain.ClientMeta, method string) (*domain.LoginGrant, error) {
	l := slogx.FromContext(ctx)

	if err := s.Store.Users().ResetFailedAttempts(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("failed to reset failed attempts: %w", err)
	}

	token, sess, err := s.Sessions.Issue(ctx, u.ID, meta)
	if err != nil {
		return nil, err
	}

	if err := s.Audit.Record(ctx, u.ID, domain.AuditLoginSucceeded, domain.EntitySession, sess.ID, meta.IP, map[string]any{
		"method": method,
	}); err != nil {
		return nil, err
	}
	metrics.LoginAttempts.WithLabelValues("succeeded").Inc()

	l.Info("login succeeded", "user_id", u.ID, "session_id", sess.ID, "method", method)
	return &domain.LoginGrant{
		Token:                 token,
		Session:               sess,
		RequirePasswordChange: u.RequirePasswordChange,
	}, nil
}

func (s *LoginService) maxAttempts() int {
	if s.MaxFailedAttempts > 0 {
		return s.MaxFailedAttempts
	}
	return DefaultMaxFailedAttempts
}

func (s *LoginService) lockoutDuration() time.Duration {
	if s.LockoutDuration > 0 {
		return s.LockoutDuration
	}
	return DefaultLockoutDuration
}

func (s *LoginService) challengeTTL() time.Duration {
	if s.ChallengeTTL > 0 {
		return s.ChallengeTTL
	}
	return DefaultChallengeTTL
}

func (s *LoginService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
