package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/store"
)

type backupCodesRepo struct {
	ext sqlx.ExtContext
}

var _ store.BackupCodes = (*backupCodesRepo)(nil)

// CreateBackupCode stores one hashed backup code.
func (r *backupCodesRepo) CreateBackupCode(ctx context.Context, c domain.BackupCode) error {
	_, err := r.ext.ExecContext(ctx, `
		INSERT INTO backup_codes (id, user_id, code_hash, used, used_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.CodeHash, c.Used, mapOptionalTime(c.UsedAt), c.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

// RedeemBackupCode marks the matching unused code as used. The update
// is conditional on used = 0, so two concurrent redemptions of the
// same code cannot both succeed. Returns false when no unused code
// matched.
func (r *backupCodesRepo) RedeemBackupCode(ctx context.Context, userID, codeHash string, usedAt time.Time) (bool, error) {
	res, err := r.ext.ExecContext(ctx, `
		UPDATE backup_codes
		SET used = 1, used_at = ?
		WHERE user_id = ? AND code_hash = ? AND used = 0`,
		usedAt.UTC(), userID, codeHash,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// DeleteAllBackupCodes removes every code for the user, used or not.
func (r *backupCodesRepo) DeleteAllBackupCodes(ctx context.Context, userID string) error {
	_, err := r.ext.ExecContext(ctx,
		`DELETE FROM backup_codes WHERE user_id = ?`, userID)
	return err
}

// CountUnusedBackupCodes returns how many codes remain redeemable.
func (r *backupCodesRepo) CountUnusedBackupCodes(ctx context.Context, userID string) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.ext, &count,
		`SELECT COUNT(*) FROM backup_codes WHERE user_id = ? AND used = 0`, userID)
	if err != nil {
		return 0, err
	}
	return count, nil
}
