package store

import (
	"context"
	"errors"
	"time"

	"github.com/luminahealth/medlock/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and to actively stop callers from accidentally nesting
// transactions.
type Store interface {
	Users() Users
	Sessions() Sessions
	BackupCodes() BackupCodes
	MFAChallenges() MFAChallenges
	MFASetups() MFASetups
	PasswordHistory() PasswordHistory
	AuditLog() AuditLog

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error the transaction is rolled back, otherwise it is committed.
	// This is the recommended way to handle multi-step invariants
	// (e.g. enabling MFA together with its backup codes).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByEmail resolves logins given as an email address.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePassword sets the password_hash, records the change time and
	// clears or sets require_password_change.
	UpdatePassword(ctx context.Context, userID, newHash string, requireChange bool, changedAt time.Time) error

	// SetRequirePasswordChange flips the must-change flag without touching the hash.
	SetRequirePasswordChange(ctx context.Context, userID string, require bool) error

	// SetStatus moves the account between active and inactive.
	SetStatus(ctx context.Context, userID string, status domain.AccountStatus) error

	// IncrementFailedAttempts atomically bumps the failure counter and
	// returns the new count.
	IncrementFailedAttempts(ctx context.Context, userID string) (int, error)

	// ResetFailedAttempts zeroes the failure counter.
	ResetFailedAttempts(ctx context.Context, userID string) error

	// Lock marks the account locked until the given time.
	Lock(ctx context.Context, userID string, until time.Time) error

	// Unlock restores a locked account to active and zeroes the counter.
	Unlock(ctx context.Context, userID string) error

	// UnlockExpired bulk-unlocks accounts whose lock has passed (housekeeping).
	// Returns the number of accounts unlocked.
	UnlockExpired(ctx context.Context, now time.Time) (int64, error)

	// EnableMFA stores the confirmed live TOTP secret and flips mfa_enabled.
	EnableMFA(ctx context.Context, userID, secret string) error

	// DisableMFA clears mfa_enabled and mfa_secret.
	DisableMFA(ctx context.Context, userID string) error

	// IsEmpty returns true if there are no users (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}

type Sessions interface {
	// CreateSession stores a new session record.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByTokenHash returns the session by its token fingerprint.
	GetSessionByTokenHash(ctx context.Context, hash string) (domain.Session, error)

	// GetSessionByID returns the session by id.
	GetSessionByID(ctx context.Context, id string) (domain.Session, error)

	// TouchSession updates last_seen_at. Expiry is never extended.
	TouchSession(ctx context.Context, id string, seenAt time.Time) error

	// RevokeSession flips revoked=1 and stamps revoked_at.
	RevokeSession(ctx context.Context, id string, at time.Time) error

	// RevokeUserSessions revokes every live session of a user except the
	// given one (pass "" to revoke all). Returns the number revoked.
	RevokeUserSessions(ctx context.Context, userID, exceptID string, at time.Time) (int64, error)

	// ListUserSessions returns the user's live sessions (not revoked, not
	// expired at now), newest first.
	ListUserSessions(ctx context.Context, userID string, now time.Time) ([]domain.Session, error)

	// DeleteExpiredSessions purges sessions that expired before the cutoff
	// (housekeeping; lazy expiry checks remain authoritative). Returns the
	// number deleted.
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

type BackupCodes interface {
	// CreateBackupCode stores one hashed backup code.
	CreateBackupCode(ctx context.Context, c domain.BackupCode) error

	// RedeemBackupCode atomically marks the matching unused code as used.
	// Returns false when no live code matched, so concurrent redemptions of
	// the same code yield exactly one success.
	RedeemBackupCode(ctx context.Context, userID, codeHash string, usedAt time.Time) (bool, error)

	// DeleteAllBackupCodes removes every code for a user (regeneration, disable).
	DeleteAllBackupCodes(ctx context.Context, userID string) error

	// CountUnusedBackupCodes returns how many codes remain redeemable.
	CountUnusedBackupCodes(ctx context.Context, userID string) (int, error)
}

type MFAChallenges interface {
	// CreateChallenge stores a new pending challenge.
	CreateChallenge(ctx context.Context, c domain.MFAChallenge) error

	// GetChallenge returns a challenge by reference, expired or not; the
	// service applies the lazy expiry check.
	GetChallenge(ctx context.Context, id string) (domain.MFAChallenge, error)

	// IncrementChallengeAttempts atomically bumps the failed-attempt counter
	// and returns the new count.
	IncrementChallengeAttempts(ctx context.Context, id string) (int, error)

	// ConsumeChallenge deletes the challenge. Returns false when it was
	// already consumed, making verification single-use under races.
	ConsumeChallenge(ctx context.Context, id string) (bool, error)

	// DeleteExpiredChallenges removes challenges expired before the cutoff.
	// Returns the number deleted.
	DeleteExpiredChallenges(ctx context.Context, before time.Time) (int64, error)
}

type MFASetups interface {
	// UpsertSetup creates or replaces the user's pending enrolment.
	UpsertSetup(ctx context.Context, s domain.MFASetup) error

	// GetSetup returns the pending enrolment for a user.
	GetSetup(ctx context.Context, userID string) (domain.MFASetup, error)

	// DeleteSetup discards a pending enrolment.
	DeleteSetup(ctx context.Context, userID string) error

	// DeleteExpiredSetups removes enrolments expired before the cutoff.
	// Returns the number deleted.
	DeleteExpiredSetups(ctx context.Context, before time.Time) (int64, error)
}

type PasswordHistory interface {
	// AddPasswordHistory records a superseded password hash.
	AddPasswordHistory(ctx context.Context, id, userID, hash string, at time.Time) error

	// ListRecentPasswordHashes returns up to limit hashes, newest first.
	ListRecentPasswordHashes(ctx context.Context, userID string, limit int) ([]string, error)

	// TrimPasswordHistory drops rows beyond the newest keep entries.
	TrimPasswordHistory(ctx context.Context, userID string, keep int) error
}

type AuditLog interface {
	// AppendAuditEntry inserts an entry and returns its assigned id.
	// Callers serialize appends; the chain fields must already be computed.
	AppendAuditEntry(ctx context.Context, e domain.AuditEntry) (int64, error)

	// GetLastAuditEntry returns the current chain tail (ErrNotFound when empty).
	GetLastAuditEntry(ctx context.Context) (domain.AuditEntry, error)

	// GetAuditEntry returns one entry by id.
	GetAuditEntry(ctx context.Context, id int64) (domain.AuditEntry, error)

	// GetAuditEntryBefore returns the nearest entry with id < the given id
	// (ErrNotFound when none). Chain walks seed their predecessor hash here.
	GetAuditEntryBefore(ctx context.Context, id int64) (domain.AuditEntry, error)

	// ListAuditRange returns entries with fromID <= id <= toID ascending.
	ListAuditRange(ctx context.Context, fromID, toID int64) ([]domain.AuditEntry, error)

	// ListAuditEntries returns entries matching the filter, ascending by id.
	ListAuditEntries(ctx context.Context, f domain.AuditFilter) ([]domain.AuditEntry, error)

	// CountAuditEntries returns the total matching the filter (pagination).
	CountAuditEntries(ctx context.Context, f domain.AuditFilter) (int, error)
}
