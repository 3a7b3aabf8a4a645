package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/store"
)

type usersRepo struct {
	ext sqlx.ExtContext
}

var _ store.Users = (*usersRepo)(nil)

type userRow struct {
	ID                    string         `db:"id"`
	Username              string         `db:"username"`
	Email                 string         `db:"email"`
	PasswordHash          string         `db:"password_hash"`
	Role                  string         `db:"role"`
	Status                string         `db:"status"`
	FailedLoginAttempts   int            `db:"failed_login_attempts"`
	LockExpiresAt         sql.NullTime   `db:"lock_expires_at"`
	MFAEnabled            bool           `db:"mfa_enabled"`
	MFASecret             sql.NullString `db:"mfa_secret"`
	RequirePasswordChange bool           `db:"require_password_change"`
	PasswordChangedAt     sql.NullTime   `db:"password_changed_at"`
	CreatedAt             time.Time      `db:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:                    r.ID,
		Username:              r.Username,
		Email:                 r.Email,
		PasswordHash:          r.PasswordHash,
		Role:                  r.Role,
		Status:                domain.AccountStatus(r.Status),
		FailedLoginAttempts:   r.FailedLoginAttempts,
		LockExpiresAt:         mapNullTimePtr(r.LockExpiresAt),
		MFAEnabled:            r.MFAEnabled,
		MFASecret:             mapNullStringPtr(r.MFASecret),
		RequirePasswordChange: r.RequirePasswordChange,
		PasswordChangedAt:     mapNullTimePtr(r.PasswordChangedAt),
		CreatedAt:             r.CreatedAt.UTC(),
		UpdatedAt:             r.UpdatedAt.UTC(),
	}
}

const userColumns = `id, username, email, password_hash, role, status,
	failed_login_attempts, lock_expires_at, mfa_enabled, mfa_secret,
	require_password_change, password_changed_at, created_at, updated_at`

func (r *usersRepo) getUser(ctx context.Context, where string, arg any) (domain.User, error) {
	var row userRow
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	if err := sqlx.GetContext(ctx, r.ext, &row, query, arg); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

// GetUserByID fetches a user by its ULID.
func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getUser(ctx, `id = ?`, id)
}

// GetUserByUsername fetches a user by exact username.
func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getUser(ctx, `username = ?`, username)
}

// GetUserByEmail fetches a user by exact email.
func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getUser(ctx, `email = ?`, email)
}

// CreateUser inserts a new user. Returns store.ErrAlreadyExists when
// the username or email is taken.
func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.ext.ExecContext(ctx, `
		INSERT INTO users (
			id, username, email, password_hash, role, status,
			failed_login_attempts, lock_expires_at, mfa_enabled, mfa_secret,
			require_password_change, password_changed_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role, string(u.Status),
		u.FailedLoginAttempts, mapOptionalTime(u.LockExpiresAt), u.MFAEnabled,
		mapOptionalString(u.MFASecret), u.RequirePasswordChange,
		mapOptionalTime(u.PasswordChangedAt), u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

// UpdatePassword swaps the stored hash and records when it changed.
func (r *usersRepo) UpdatePassword(ctx context.Context, userID, newHash string, requireChange bool, changedAt time.Time) error {
	_, err := r.ext.ExecContext(ctx, `
		UPDATE users
		SET password_hash = ?, require_password_change = ?,
			password_changed_at = ?, updated_at = ?
		WHERE id = ?`,
		newHash, requireChange, changedAt.UTC(), time.Now().UTC(), userID,
	)
	return err
}

// SetRequirePasswordChange flips the must-change-password flag.
func (r *usersRepo) SetRequirePasswordChange(ctx context.Context, userID string, require bool) error {
	_, err := r.ext.ExecContext(ctx,
		`UPDATE users SET require_password_change = ?, updated_at = ? WHERE id = ?`,
		require, time.Now().UTC(), userID,
	)
	return err
}

// SetStatus moves the account to the given status.
func (r *usersRepo) SetStatus(ctx context.Context, userID string, status domain.AccountStatus) error {
	_, err := r.ext.ExecContext(ctx,
		`UPDATE users SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), userID,
	)
	return err
}

// IncrementFailedAttempts bumps the failure counter by one and returns
// the new value. The increment happens in the database so concurrent
// failures each observe a distinct count.
func (r *usersRepo) IncrementFailedAttempts(ctx context.Context, userID string) (int, error) {
	var attempts int
	err := sqlx.GetContext(ctx, r.ext, &attempts, `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1, updated_at = ?
		WHERE id = ?
		RETURNING failed_login_attempts`,
		time.Now().UTC(), userID,
	)
	if err != nil {
		return 0, mapNotFound(err)
	}
	return attempts, nil
}

// ResetFailedAttempts zeroes the failure counter.
func (r *usersRepo) ResetFailedAttempts(ctx context.Context, userID string) error {
	_, err := r.ext.ExecContext(ctx, `
		UPDATE users
		SET failed_login_attempts = 0, updated_at = ?
		WHERE id = ? AND failed_login_attempts <> 0`,
		time.Now().UTC(), userID,
	)
	return err
}

// Lock marks the account locked until the given time.
func (r *usersRepo) Lock(ctx context.Context, userID string, until time.Time) error {
	_, err := r.ext.ExecContext(ctx, `
		UPDATE users
		SET status = ?, lock_expires_at = ?, updated_at = ?
		WHERE id = ?`,
		string(domain.AccountLocked), until.UTC(), time.Now().UTC(), userID,
	)
	return err
}

// Unlock clears the lock and the failure counter.
func (r *usersRepo) Unlock(ctx context.Context, userID string) error {
	_, err := r.ext.ExecContext(ctx, `
		UPDATE users
		SET status = ?, failed_login_attempts = 0, lock_expires_at = NULL, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(domain.AccountActive), time.Now().UTC(), userID, string(domain.AccountLocked),
	)
	return err
}

// UnlockExpired unlocks every account whose lock has lapsed and
// returns how many were unlocked.
func (r *usersRepo) UnlockExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.ext.ExecContext(ctx, `
		UPDATE users
		SET status = ?, failed_login_attempts = 0, lock_expires_at = NULL, updated_at = ?
		WHERE status = ? AND lock_expires_at IS NOT NULL AND lock_expires_at <= ?`,
		string(domain.AccountActive), time.Now().UTC(), string(domain.AccountLocked), now.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// EnableMFA stores the confirmed TOTP secret and turns MFA on.
func (r *usersRepo) EnableMFA(ctx context.Context, userID, secret string) error {
	_, err := r.ext.ExecContext(ctx,
		`UPDATE users SET mfa_enabled = 1, mfa_secret = ?, updated_at = ? WHERE id = ?`,
		secret, time.Now().UTC(), userID,
	)
	return err
}

// DisableMFA turns MFA off and discards the secret.
func (r *usersRepo) DisableMFA(ctx context.Context, userID string) error {
	_, err := r.ext.ExecContext(ctx,
		`UPDATE users SET mfa_enabled = 0, mfa_secret = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID,
	)
	return err
}

// IsEmpty reports whether no users exist yet. Used by bootstrap.
func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.ext, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return false, err
	}
	return count == 0, nil
}
