package sqlite

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/luminahealth/medlock/internal/auth/store"
)

// txStore exposes the repositories bound to a single transaction.
type txStore struct {
	tx *sqlx.Tx
}

var _ store.Tx = (*txStore)(nil)

func newTx(tx *sqlx.Tx) *txStore { return &txStore{tx: tx} }

func (t *txStore) Users() store.Users                     { return &usersRepo{ext: t.tx} }
func (t *txStore) Sessions() store.Sessions               { return &sessionsRepo{ext: t.tx} }
func (t *txStore) BackupCodes() store.BackupCodes         { return &backupCodesRepo{ext: t.tx} }
func (t *txStore) MFAChallenges() store.MFAChallenges     { return &mfaChallengesRepo{ext: t.tx} }
func (t *txStore) MFASetups() store.MFASetups             { return &mfaSetupsRepo{ext: t.tx} }
func (t *txStore) PasswordHistory() store.PasswordHistory { return &passwordHistoryRepo{ext: t.tx} }
func (t *txStore) AuditLog() store.AuditLog               { return &auditLogRepo{ext: t.tx} }

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Tx returns an error: SQLite has no nested transactions.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

// WithTx runs fn against the current transaction. Commit and rollback
// stay with the outer owner.
func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return fn(t)
}

// ApplyMigrations is a no-op inside a transaction.
func (t *txStore) ApplyMigrations() error { return nil }

// Close is a no-op; the owning Store manages the connection.
func (t *txStore) Close() error { return nil }

// Ping is a no-op inside a transaction.
func (t *txStore) Ping(ctx context.Context) error { return nil }
