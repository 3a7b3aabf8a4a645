package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/store"
	"github.com/luminahealth/medlock/internal/metrics"
	"github.com/luminahealth/medlock/pkg/cryptox"
	"github.com/luminahealth/medlock/pkg/idx"
	"github.com/luminahealth/medlock/pkg/slogx"
)

// DefaultSessionTTL is the fixed session lifetime. Sessions are never
// extended; activity only moves LastSeenAt.
const DefaultSessionTTL = 8 * time.Hour

// SessionService issues and validates opaque bearer sessions. Tokens are
// random 256-bit strings handed out once; storage only holds fingerprints, so
// a copied database cannot be replayed into live sessions.
type SessionService struct {
	Store store.Store
	Audit *AuditService

	// TTL overrides the session lifetime; zero means DefaultSessionTTL.
	TTL time.Duration

	// Now supplies the current time. Nil means time.Now; tests inject it.
	Now func() time.Time
}

// Issue mints a session for the user and returns the raw token alongside the
// stored record. The token never touches storage.
func (s *SessionService) Issue(ctx context.Context, userID string, meta domain.ClientMeta) (string, domain.Session, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", domain.Session{}, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := s.now()
	sess := domain.Session{
		ID:         idx.New().String(),
		UserID:     userID,
		TokenHash:  cryptox.FingerprintToken(token),
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.ttl()),
		LastSeenAt: now,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return "", domain.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	metrics.SessionsIssued.Inc()
	return token, sess, nil
}

// Validate resolves a bearer token to its principal. Expiry is checked lazily
// on presentation, a live session has its LastSeenAt touched, and a session
// whose account was deactivated behaves as revoked. A lockout does not cut off
// existing sessions; it only guards new logins.
func (s *SessionService) Validate(ctx context.Context, token string) (domain.Principal, error) {
	now := s.now()

	sess, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Principal{}, ErrSessionNotFound
	}
	if err != nil {
		return domain.Principal{}, fmt.Errorf("failed to get session: %w", err)
	}

	if sess.Revoked {
		return domain.Principal{}, ErrSessionRevoked
	}
	if !now.Before(sess.ExpiresAt) {
		return domain.Principal{}, ErrSessionExpired
	}

	if err := s.Store.Sessions().TouchSession(ctx, sess.ID, now); err != nil {
		return domain.Principal{}, fmt.Errorf("failed to touch session: %w", err)
	}

	u, err := s.Store.Users().GetUserByID(ctx, sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Principal{}, ErrSessionRevoked
	}
	if err != nil {
		return domain.Principal{}, fmt.Errorf("failed to get user: %w", err)
	}
	if u.Status == domain.AccountInactive {
		return domain.Principal{}, ErrSessionRevoked
	}

	return domain.Principal{
		UserID:                u.ID,
		SessionID:             sess.ID,
		Role:                  u.Role,
		RequirePasswordChange: u.RequirePasswordChange,
	}, nil
}

// Revoke marks one of the user's sessions revoked. Revoking an already
// revoked session is a no-op; a session belonging to someone else reads as
// not found so the endpoint cannot be used to probe other users' sessions.
func (s *SessionService) Revoke(ctx context.Context, userID, sessionID string) error {
	l := slogx.FromContext(ctx)

	sess, err := s.Store.Sessions().GetSessionByID(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if sess.UserID != userID {
		return ErrSessionNotFound
	}
	if sess.Revoked {
		return nil
	}

	if err := s.Store.Sessions().RevokeSession(ctx, sess.ID, s.now()); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	metrics.SessionsRevoked.WithLabelValues("user").Inc()

	if err := s.Audit.Record(ctx, userID, domain.AuditSessionRevoked, domain.EntitySession, sess.ID, "", nil); err != nil {
		return err
	}

	l.Info("session revoked", "user_id", userID, "session_id", sess.ID)
	return nil
}

// RevokeAllExcept revokes every live session of the user except the named
// one, returning how many were cut off. An empty keepSessionID revokes them
// all.
func (s *SessionService) RevokeAllExcept(ctx context.Context, userID, keepSessionID string) (int64, error) {
	revoked, err := s.Store.Sessions().RevokeUserSessions(ctx, userID, keepSessionID, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to revoke sessions: %w", err)
	}
	if revoked > 0 {
		metrics.SessionsRevoked.WithLabelValues("logout_all").Add(float64(revoked))
	}

	if err := s.Audit.Record(ctx, userID, domain.AuditSessionsRevokedAll, domain.EntityUser, userID, "", map[string]any{
		"revoked_sessions": revoked,
	}); err != nil {
		return 0, err
	}
	return revoked, nil
}

// List returns the user's live sessions, newest first. Token fingerprints
// stay in storage; callers only ever see metadata.
func (s *SessionService) List(ctx context.Context, userID string) ([]domain.Session, error) {
	sessions, err := s.Store.Sessions().ListUserSessions(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	for i := range sessions {
		sessions[i].TokenHash = ""
	}
	return sessions, nil
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultSessionTTL
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
