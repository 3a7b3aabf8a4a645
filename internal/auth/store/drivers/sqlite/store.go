// Package sqlite implements store.Store on top of modernc.org/sqlite,
// a pure-Go SQLite driver. Queries go through sqlx so row structs map
// by `db` tags; every statement uses plain `?` placeholders.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/luminahealth/medlock/internal/auth/store"
)

// Store is the SQLite-backed implementation of store.Store.
type Store struct {
	db  *sqlx.DB
	dsn string
}

var _ store.Store = (*Store)(nil)

// NewStore opens (or creates) the SQLite database at dsn and applies
// the connection pragmas the service depends on.
//
// modernc/sqlite allows a single writer at a time. Capping the pool at
// one connection serializes access below the driver, which avoids
// SQLITE_BUSY storms under concurrent logins and keeps ":memory:"
// databases from silently splitting into one DB per connection.
func NewStore(dsn string) (*Store, error) {
	dsn = normalizeDSN(dsn)

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA foreign_keys = ON;`,
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &Store{db: db, dsn: dsn}, nil
}

// normalizeDSN forces the driver's sqlite text format for time.Time
// values. The driver's default rendering does not survive a read-write
// round trip at full precision, and audit chain verification rehashes
// timestamps exactly as stored.
func normalizeDSN(dsn string) string {
	if strings.Contains(dsn, "_time_format") {
		return dsn
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_time_format=sqlite"
	}
	return dsn + "?_time_format=sqlite"
}

// DB exposes the underlying handle for callers that need raw SQL, such as
// migration tooling and tests.
func (s *Store) DB() *sqlx.DB { return s.db }

// Users returns the user repository.
func (s *Store) Users() store.Users { return &usersRepo{ext: s.db} }

// Sessions returns the session repository.
func (s *Store) Sessions() store.Sessions { return &sessionsRepo{ext: s.db} }

// BackupCodes returns the backup code repository.
func (s *Store) BackupCodes() store.BackupCodes { return &backupCodesRepo{ext: s.db} }

// MFAChallenges returns the pending MFA challenge repository.
func (s *Store) MFAChallenges() store.MFAChallenges { return &mfaChallengesRepo{ext: s.db} }

// MFASetups returns the pending MFA enrollment repository.
func (s *Store) MFASetups() store.MFASetups { return &mfaSetupsRepo{ext: s.db} }

// PasswordHistory returns the password history repository.
func (s *Store) PasswordHistory() store.PasswordHistory { return &passwordHistoryRepo{ext: s.db} }

// AuditLog returns the audit log repository.
func (s *Store) AuditLog() store.AuditLog { return &auditLogRepo{ext: s.db} }

// Tx begins a transaction. The returned store.Tx exposes the same
// repositories bound to the transaction.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx runs fn inside a transaction, committing when fn returns nil
// and rolling back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// mapNotFound converts sql.ErrNoRows into store.ErrNotFound so callers
// never see driver-level sentinels.
func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint converts UNIQUE violations into store.ErrAlreadyExists.
// modernc/sqlite surfaces constraint failures only through the error
// text, so this matches on the message SQLite itself produces.
func mapConstraint(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func mapNullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.UTC()
	return &utc
}

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func mapNullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
