package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/store"
)

type sessionsRepo struct {
	ext sqlx.ExtContext
}

var _ store.Sessions = (*sessionsRepo)(nil)

type sessionRow struct {
	ID         string       `db:"id"`
	UserID     string       `db:"user_id"`
	TokenHash  string       `db:"token_hash"`
	IssuedAt   time.Time    `db:"issued_at"`
	ExpiresAt  time.Time    `db:"expires_at"`
	LastSeenAt time.Time    `db:"last_seen_at"`
	IP         string       `db:"ip"`
	UserAgent  string       `db:"user_agent"`
	Revoked    bool         `db:"revoked"`
	RevokedAt  sql.NullTime `db:"revoked_at"`
	CreatedAt  time.Time    `db:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at"`
}

func (r sessionRow) toDomain() domain.Session {
	return domain.Session{
		ID:         r.ID,
		UserID:     r.UserID,
		TokenHash:  r.TokenHash,
		IssuedAt:   r.IssuedAt.UTC(),
		ExpiresAt:  r.ExpiresAt.UTC(),
		LastSeenAt: r.LastSeenAt.UTC(),
		IP:         r.IP,
		UserAgent:  r.UserAgent,
		Revoked:    r.Revoked,
		RevokedAt:  mapNullTimePtr(r.RevokedAt),
		CreatedAt:  r.CreatedAt.UTC(),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}
}

const sessionColumns = `id, user_id, token_hash, issued_at, expires_at,
	last_seen_at, ip, user_agent, revoked, revoked_at, created_at, updated_at`

// CreateSession inserts a new session row.
func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.ext.ExecContext(ctx, `
		INSERT INTO sessions (
			id, user_id, token_hash, issued_at, expires_at, last_seen_at,
			ip, user_agent, revoked, revoked_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.TokenHash, s.IssuedAt.UTC(), s.ExpiresAt.UTC(),
		s.LastSeenAt.UTC(), s.IP, s.UserAgent, s.Revoked,
		mapOptionalTime(s.RevokedAt), s.CreatedAt.UTC(), s.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

// GetSessionByTokenHash looks a session up by the fingerprint of its
// bearer token. Expired and revoked rows are still returned; the
// service decides what they mean.
func (r *sessionsRepo) GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error) {
	var row sessionRow
	err := sqlx.GetContext(ctx, r.ext, &row,
		`SELECT `+sessionColumns+` FROM sessions WHERE token_hash = ?`, tokenHash)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

// GetSessionByID fetches a session by its ULID.
func (r *sessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.Session, error) {
	var row sessionRow
	err := sqlx.GetContext(ctx, r.ext, &row,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

// TouchSession records activity on the session.
func (r *sessionsRepo) TouchSession(ctx context.Context, id string, seenAt time.Time) error {
	_, err := r.ext.ExecContext(ctx,
		`UPDATE sessions SET last_seen_at = ?, updated_at = ? WHERE id = ?`,
		seenAt.UTC(), time.Now().UTC(), id,
	)
	return err
}

// RevokeSession marks one session revoked. Already-revoked sessions
// are left untouched so the original revocation time survives.
func (r *sessionsRepo) RevokeSession(ctx context.Context, id string, at time.Time) error {
	_, err := r.ext.ExecContext(ctx, `
		UPDATE sessions
		SET revoked = 1, revoked_at = ?, updated_at = ?
		WHERE id = ? AND revoked = 0`,
		at.UTC(), time.Now().UTC(), id,
	)
	return err
}

// RevokeUserSessions revokes every live session of a user except the
// one named by exceptID (pass "" to revoke all). Returns how many
// sessions were revoked.
func (r *sessionsRepo) RevokeUserSessions(ctx context.Context, userID, exceptID string, at time.Time) (int64, error) {
	res, err := r.ext.ExecContext(ctx, `
		UPDATE sessions
		SET revoked = 1, revoked_at = ?, updated_at = ?
		WHERE user_id = ? AND id <> ? AND revoked = 0`,
		at.UTC(), time.Now().UTC(), userID, exceptID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListUserSessions returns the user's live sessions, newest first.
func (r *sessionsRepo) ListUserSessions(ctx context.Context, userID string, now time.Time) ([]domain.Session, error) {
	var rows []sessionRow
	err := sqlx.SelectContext(ctx, r.ext, &rows, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE user_id = ? AND revoked = 0 AND expires_at > ?
		ORDER BY issued_at DESC`,
		userID, now.UTC(),
	)
	if err != nil {
		return nil, err
	}
	sessions := make([]domain.Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, row.toDomain())
	}
	return sessions, nil
}

// DeleteExpiredSessions removes sessions that expired before the given
// time. Returns how many rows were deleted.
func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.ext.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
