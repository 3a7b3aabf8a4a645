package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/luminahealth/medlock/internal/auth/store"
)

type passwordHistoryRepo struct {
	ext sqlx.ExtContext
}

var _ store.PasswordHistory = (*passwordHistoryRepo)(nil)

// AddPasswordHistory records a hash the user has now moved off of.
func (r *passwordHistoryRepo) AddPasswordHistory(ctx context.Context, id, userID, hash string, at time.Time) error {
	_, err := r.ext.ExecContext(ctx, `
		INSERT INTO password_history (id, user_id, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		id, userID, hash, at.UTC(),
	)
	return err
}

// ListRecentPasswordHashes returns up to limit hashes, newest first.
// The id tiebreak keeps ordering stable when two rotations land in the
// same instant.
func (r *passwordHistoryRepo) ListRecentPasswordHashes(ctx context.Context, userID string, limit int) ([]string, error) {
	var hashes []string
	err := sqlx.SelectContext(ctx, r.ext, &hashes, `
		SELECT password_hash
		FROM password_history
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	return hashes, nil
}

// TrimPasswordHistory drops everything beyond the newest keep entries.
func (r *passwordHistoryRepo) TrimPasswordHistory(ctx context.Context, userID string, keep int) error {
	_, err := r.ext.ExecContext(ctx, `
		DELETE FROM password_history
		WHERE user_id = ? AND id NOT IN (
			SELECT id FROM password_history
			WHERE user_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)`,
		userID, userID, keep,
	)
	return err
}
