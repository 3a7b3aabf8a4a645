package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/store"
)

type mfaChallengesRepo struct {
	ext sqlx.ExtContext
}

var _ store.MFAChallenges = (*mfaChallengesRepo)(nil)

type mfaChallengeRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	IP        string    `db:"ip"`
	UserAgent string    `db:"user_agent"`
	Attempts  int       `db:"attempts"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

func (r mfaChallengeRow) toDomain() domain.MFAChallenge {
	return domain.MFAChallenge{
		ID:        r.ID,
		UserID:    r.UserID,
		IP:        r.IP,
		UserAgent: r.UserAgent,
		Attempts:  r.Attempts,
		CreatedAt: r.CreatedAt.UTC(),
		ExpiresAt: r.ExpiresAt.UTC(),
	}
}

// CreateChallenge stores a pending MFA challenge.
func (r *mfaChallengesRepo) CreateChallenge(ctx context.Context, c domain.MFAChallenge) error {
	_, err := r.ext.ExecContext(ctx, `
		INSERT INTO mfa_challenges (id, user_id, ip, user_agent, attempts, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.IP, c.UserAgent, c.Attempts, c.CreatedAt.UTC(), c.ExpiresAt.UTC(),
	)
	return mapConstraint(err)
}

// GetChallenge fetches a challenge regardless of expiry; callers check
// the deadline themselves.
func (r *mfaChallengesRepo) GetChallenge(ctx context.Context, id string) (domain.MFAChallenge, error) {
	var row mfaChallengeRow
	err := sqlx.GetContext(ctx, r.ext, &row, `
		SELECT id, user_id, ip, user_agent, attempts, created_at, expires_at
		FROM mfa_challenges WHERE id = ?`, id)
	if err != nil {
		return domain.MFAChallenge{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

// IncrementChallengeAttempts bumps the attempt counter in the database
// and returns the new count.
func (r *mfaChallengesRepo) IncrementChallengeAttempts(ctx context.Context, id string) (int, error) {
	var attempts int
	err := sqlx.GetContext(ctx, r.ext, &attempts, `
		UPDATE mfa_challenges
		SET attempts = attempts + 1
		WHERE id = ?
		RETURNING attempts`, id)
	if err != nil {
		return 0, mapNotFound(err)
	}
	return attempts, nil
}

// ConsumeChallenge deletes the challenge. Returns false when it was
// already gone, which makes redemption single-use under races.
func (r *mfaChallengesRepo) ConsumeChallenge(ctx context.Context, id string) (bool, error) {
	res, err := r.ext.ExecContext(ctx, `DELETE FROM mfa_challenges WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// DeleteExpiredChallenges removes challenges whose deadline passed.
func (r *mfaChallengesRepo) DeleteExpiredChallenges(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.ext.ExecContext(ctx,
		`DELETE FROM mfa_challenges WHERE expires_at <= ?`, before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
