package domain

import (
	"encoding/json"
	"time"
)

// Audit actions recorded by the service.
const (
	AuditLoginSucceeded         = "login_succeeded"
	AuditLoginFailed            = "login_failed"
	AuditLoginRejected          = "login_rejected"
	AuditAccountLocked          = "account_locked"
	AuditAccountUnlocked        = "account_unlocked"
	AuditMFAChallengeIssued     = "mfa_challenge_issued"
	AuditMFAFailed              = "mfa_failed"
	AuditMFAEnabled             = "mfa_enabled"
	AuditMFADisabled            = "mfa_disabled"
	AuditBackupCodesRegenerated = "backup_codes_regenerated"
	AuditPasswordChanged        = "password_changed"
	AuditSessionRevoked         = "session_revoked"
	AuditSessionsRevokedAll     = "sessions_revoked_all"
	AuditUserCreated            = "user_created"
	AuditUserDeactivated        = "user_deactivated"
	AuditUserReactivated        = "user_reactivated"
)

// Entity types referenced by audit entries.
const (
	EntityUser      = "user"
	EntitySession   = "session"
	EntityChallenge = "mfa_challenge"
)

// AuditEntry is one tamper-evident audit record. EntryHash covers the entry's
// canonical form chained to the predecessor's hash, so any edit, reorder or
// deletion inside a verified range is detectable.
type AuditEntry struct {
	ID          int64
	Timestamp   time.Time
	ActorUserID *string // nil for unauthenticated attempts
	Action      string
	EntityType  string
	EntityID    string
	Details     json.RawMessage // hashed verbatim as stored
	IP          string
	PrevHash    string // hex SHA-256 of predecessor's EntryHash (genesis: all zeros)
	EntryHash   string // hex SHA-256 over PrevHash + canonical entry
}

// AuditFilter narrows audit queries. Zero-valued fields are ignored.
type AuditFilter struct {
	ActorUserID string
	Action      string
	EntityType  string
	From        time.Time
	To          time.Time
	Limit       int
	Offset      int
}

// AuditPage is one page of a filtered audit listing. Limit and Offset are the
// effective values after clamping, which may differ from what was asked for.
type AuditPage struct {
	Entries []AuditEntry
	Total   int
	Limit   int
	Offset  int
}

// ChainVerification reports the outcome of an audit chain walk.
type ChainVerification struct {
	Valid         bool  `json:"valid"`
	Checked       int   `json:"checked"`
	FirstBrokenID int64 `json:"first_broken_id,omitempty"`
}
