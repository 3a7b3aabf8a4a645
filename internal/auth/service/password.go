package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/store"
	"github.com/luminahealth/medlock/internal/metrics"
	"github.com/luminahealth/medlock/pkg/cryptox"
	"github.com/luminahealth/medlock/pkg/idx"
	"github.com/luminahealth/medlock/pkg/slogx"
)

const (
	// MinPasswordLength is measured in runes, not bytes.
	MinPasswordLength = 10

	// PasswordHistoryDepth is how many prior hashes a new password is
	// checked against, on top of the current one.
	PasswordHistoryDepth = 5
)

// PasswordService enforces the password policy and performs credential
// rotation.
type PasswordService struct {
	Store store.Store
	Audit *AuditService

	// Now supplies the current time. Nil means time.Now; tests inject it.
	Now func() time.Time
}

// Change rotates a user's password after re-proving the current one. The new
// password must pass policy and must differ from the current and recent
// hashes. All other sessions are revoked so a credential rotation cuts off
// anyone holding a stolen token; keepSessionID names the caller's own session.
func (s *PasswordService) Change(ctx context.Context, userID, currentPassword, newPassword, keepSessionID string) error {
	l := slogx.FromContext(ctx)
	now := s.now()

	// 1. Load the user. A validated session naming a missing user is stale.
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUnauthorized
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	// 2. Re-prove the current password.
	if err := cryptox.VerifyPassword(currentPassword, u.PasswordHash); err != nil {
		return ErrUnauthorized
	}

	// 3. Policy plus reuse checks.
	violations := ValidatePassword(newPassword)

	reused, err := s.isRecentPassword(ctx, u, newPassword)
	if err != nil {
		return err
	}
	if reused {
		violations = append(violations, "must differ from recently used passwords")
	}
	if len(violations) > 0 {
		return &PolicyViolationError{Violations: violations}
	}

	// 4. Hash and rotate inside one transaction. The outgoing hash joins the
	// history so it counts against the next rotation, and every other session
	// is cut off.
	newHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	var revoked int64
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePassword(ctx, u.ID, newHash, false, now); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if err := tx.PasswordHistory().AddPasswordHistory(ctx, idx.New().String(), u.ID, u.PasswordHash, now); err != nil {
			return fmt.Errorf("failed to record password history: %w", err)
		}
		if err := tx.PasswordHistory().TrimPasswordHistory(ctx, u.ID, PasswordHistoryDepth); err != nil {
			return fmt.Errorf("failed to trim password history: %w", err)
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
		metrics.SessionsRevoked.WithLabelValues("password_change").Add(float64(revoked))
	}

	// 5. Audit the rotation.
	if err := s.Audit.Record(ctx, u.ID, domain.AuditPasswordChanged, domain.EntityUser, u.ID, "", map[string]any{
		"revoked_sessions": revoked,
	}); err != nil {
		return err
	}

	l.Info("password changed", "user_id", u.ID, "revoked_sessions", revoked)
	return nil
}

// isRecentPassword reports whether the candidate matches the current hash or
// any of the retained history hashes.
func (s *PasswordService) isRecentPassword(ctx context.Context, u domain.User, candidate string) (bool, error) {
	if cryptox.VerifyPassword(candidate, u.PasswordHash) == nil {
		return true, nil
	}

	hashes, err := s.Store.PasswordHistory().ListRecentPasswordHashes(ctx, u.ID, PasswordHistoryDepth)
	if err != nil {
		return false, fmt.Errorf("failed to list password history: %w", err)
	}
	for _, h := range hashes {
		if cryptox.VerifyPassword(candidate, h) == nil {
			return true, nil
		}
	}
	return false, nil
}

func (s *PasswordService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// ValidatePassword checks the composition policy and returns one violation
// message per broken rule, empty when the password passes. Character classes
// follow the unicode tables, so "Ü" counts as an uppercase letter.
func ValidatePassword(password string) []string {
	var violations []string

	if utf8.RuneCountInString(password) < MinPasswordLength {
		violations = append(violations, fmt.Sprintf("must be at least %d characters long", MinPasswordLength))
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		violations = append(violations, "must contain an uppercase letter")
	}
	if !hasLower {
		violations = append(violations, "must contain a lowercase letter")
	}
	if !hasDigit {
		violations = append(violations, "must contain a digit")
	}
	if !hasSpecial {
		violations = append(violations, "must contain a symbol or punctuation character")
	}

	return violations
}
