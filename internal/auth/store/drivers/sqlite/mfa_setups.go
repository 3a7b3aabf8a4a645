package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/store"
)

type mfaSetupsRepo struct {
	ext sqlx.ExtContext
}

var _ store.MFASetups = (*mfaSetupsRepo)(nil)

type mfaSetupRow struct {
	UserID    string    `db:"user_id"`
	Secret    string    `db:"secret"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// UpsertSetup stores the pending enrollment secret, replacing any
// earlier unconfirmed one for the same user.
func (r *mfaSetupsRepo) UpsertSetup(ctx context.Context, s domain.MFASetup) error {
	_, err := r.ext.ExecContext(ctx, `
		INSERT INTO mfa_setups (user_id, secret, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			secret = excluded.secret,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`,
		s.UserID, s.Secret, s.CreatedAt.UTC(), s.ExpiresAt.UTC(),
	)
	return err
}

// GetSetup fetches the pending enrollment for a user.
func (r *mfaSetupsRepo) GetSetup(ctx context.Context, userID string) (domain.MFASetup, error) {
	var row mfaSetupRow
	err := sqlx.GetContext(ctx, r.ext, &row, `
		SELECT user_id, secret, created_at, expires_at
		FROM mfa_setups WHERE user_id = ?`, userID)
	if err != nil {
		return domain.MFASetup{}, mapNotFound(err)
	}
	return domain.MFASetup{
		UserID:    row.UserID,
		Secret:    row.Secret,
		CreatedAt: row.CreatedAt.UTC(),
		ExpiresAt: row.ExpiresAt.UTC(),
	}, nil
}

// DeleteSetup discards a pending enrollment.
func (r *mfaSetupsRepo) DeleteSetup(ctx context.Context, userID string) error {
	_, err := r.ext.ExecContext(ctx, `DELETE FROM mfa_setups WHERE user_id = ?`, userID)
	return err
}

// DeleteExpiredSetups removes enrollments never confirmed in time.
func (r *mfaSetupsRepo) DeleteExpiredSetups(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.ext.ExecContext(ctx,
		`DELETE FROM mfa_setups WHERE expires_at <= ?`, before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
