package authsdk

import (
	"encoding/json"
	"time"
)

// ============================================================================
// Internal Response Types (used for JSON unmarshaling)
// ============================================================================

// ErrorResponse is the standard error envelope returned by every endpoint.
// Client code should use the APIError type from errors.go instead.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g., "invalid_credentials")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse is returned when request validation fails.
type ValidationErrorResponse struct {
	// Code is the error code (always "validation_error")
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details maps field names to what is wrong with them
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Login Types
// ============================================================================

// Login status discriminators returned by POST /v1/auth/login.
const (
	LoginStatusOK          = "ok"
	LoginStatusMFARequired = "mfa_required"
	LoginStatusLocked      = "locked"
	LoginStatusRejected    = "rejected"
)

// MFA verification methods.
const (
	MFAMethodTOTP       = "totp"
	MFAMethodBackupCode = "backup_code"
)

// LoginRequest carries the first-factor credentials.
type LoginRequest struct {
	// Login is the username, or the email address when it contains '@'
	Login string `json:"login" validate:"required,max=254"`

	// Password is the account password (never logged, never stored raw)
	Password string `json:"password" validate:"required,max=128"`
}

// LoginResponse is returned by login and by the MFA verification
// endpoints. Status decides which of the optional fields are set.
type LoginResponse struct {
	// Status is one of ok, mfa_required, locked, rejected
	Status string `json:"status"`

	// SessionToken is the opaque bearer token (status=ok only, shown once)
	SessionToken string `json:"session_token,omitempty"`

	// Session describes the issued session (status=ok only)
	Session *SessionInfo `json:"session,omitempty"`

	// RequirePasswordChange tells the caller to force a password change
	// before granting general access (status=ok only)
	RequirePasswordChange bool `json:"require_password_change,omitempty"`

	// ChallengeID references the pending MFA challenge (status=mfa_required)
	ChallengeID string `json:"challenge_id,omitempty"`

	// MFAMethods lists accepted second factors (status=mfa_required)
	MFAMethods []string `json:"mfa_methods,omitempty"`

	// ChallengeExpiresAt is the challenge deadline (status=mfa_required)
	ChallengeExpiresAt *time.Time `json:"challenge_expires_at,omitempty"`
}

// MFAVerifyRequest answers a pending MFA challenge with a TOTP or
// backup code.
type MFAVerifyRequest struct {
	// ChallengeID is the challenge reference from the login response
	ChallengeID string `json:"challenge_id" validate:"required"`

	// Code is the 6-digit TOTP code or the backup code
	Code string `json:"code" validate:"required,max=32"`
}

// ============================================================================
// Session Types
// ============================================================================

// SessionInfo describes a session without exposing token material.
type SessionInfo struct {
	// ID is the session's unique identifier
	ID string `json:"id"`

	// IssuedAt is when the session was created
	IssuedAt time.Time `json:"issued_at"`

	// ExpiresAt is when the session stops being usable
	ExpiresAt time.Time `json:"expires_at"`

	// LastSeenAt is the last authenticated request on this session
	LastSeenAt time.Time `json:"last_seen_at"`

	// IP is the client address recorded at issue time
	IP string `json:"ip,omitempty"`

	// UserAgent is the client software recorded at issue time
	UserAgent string `json:"user_agent,omitempty"`

	// Current marks the session the request was authenticated with
	Current bool `json:"current,omitempty"`
}

// SessionsResponse lists the caller's active sessions.
type SessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

// RevokeSessionRequest names one of the caller's sessions to revoke.
type RevokeSessionRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// RevokedResponse reports how many sessions a bulk revocation hit.
type RevokedResponse struct {
	RevokedSessions int64 `json:"revoked_sessions"`
}

// ============================================================================
// MFA Management Types
// ============================================================================

// MFASetupResponse carries the pending TOTP enrollment material.
type MFASetupResponse struct {
	// Secret is the base32 TOTP secret for manual entry
	Secret string `json:"secret"`

	// OTPAuthURL is the otpauth:// provisioning URI
	OTPAuthURL string `json:"otpauth_url"`

	// QRCode is a base64-encoded PNG of the provisioning URI
	QRCode string `json:"qr_code"`

	// ExpiresAt is when the unconfirmed enrollment is discarded
	ExpiresAt time.Time `json:"expires_at"`
}

// MFAConfirmRequest proves possession of the pending TOTP secret.
type MFAConfirmRequest struct {
	// Code is the 6-digit TOTP code from the authenticator app
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// BackupCodesResponse returns plaintext backup codes. They are shown
// exactly once and stored only as hashes.
type BackupCodesResponse struct {
	Codes []string `json:"codes"`
}

// MFADisableRequest re-proves the account password before disabling MFA.
type MFADisableRequest struct {
	Password string `json:"password" validate:"required,max=128"`
}

// BackupCodesRegenerateRequest re-proves TOTP possession before
// replacing the backup code batch.
type BackupCodesRegenerateRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// ============================================================================
// Password Types
// ============================================================================

// ChangePasswordRequest rotates the caller's password.
type ChangePasswordRequest struct {
	// CurrentPassword re-proves the existing credential
	CurrentPassword string `json:"current_password" validate:"required,max=128"`

	// NewPassword must satisfy the password policy
	NewPassword string `json:"new_password" validate:"required,max=128"`
}

// ============================================================================
// Audit Types
// ============================================================================

// AuditEntry is one hash-chained audit record as served by the API.
type AuditEntry struct {
	// ID is the monotonic entry id
	ID int64 `json:"id"`

	// Timestamp is when the entry was appended (UTC)
	Timestamp time.Time `json:"timestamp"`

	// ActorUserID is the acting user, empty for anonymous/system events
	ActorUserID string `json:"actor_user_id,omitempty"`

	// Action names what happened (e.g., "login_failed")
	Action string `json:"action"`

	// EntityType and EntityID reference what was acted on
	EntityType string `json:"entity_type,omitempty"`
	EntityID   string `json:"entity_id,omitempty"`

	// Details is the structured event payload
	Details json.RawMessage `json:"details,omitempty"`

	// IP is the client address associated with the event
	IP string `json:"ip,omitempty"`

	// PrevHash and EntryHash expose the chain linkage for auditors
	PrevHash  string `json:"prev_hash"`
	EntryHash string `json:"entry_hash"`
}

// AuditLogsResponse is a filtered, paginated slice of the audit log.
type AuditLogsResponse struct {
	Entries []AuditEntry `json:"entries"`
	Total   int          `json:"total"`
	Limit   int          `json:"limit"`
	Offset  int          `json:"offset"`
}

// AuditVerifyResponse reports a full hash-chain verification walk.
type AuditVerifyResponse struct {
	// Valid is true when every entry's hash and linkage check out
	Valid bool `json:"valid"`

	// Checked is how many entries were verified
	Checked int64 `json:"checked"`

	// FirstBrokenID is the first entry that fails verification (0 when valid)
	FirstBrokenID int64 `json:"first_broken_id,omitempty"`
}

// ============================================================================
// Bootstrap Types
// ============================================================================

// BootstrapRequest provisions the first administrator on an empty
// system. Requires the pre-shared bootstrap token.
type BootstrapRequest struct {
	// Token is the pre-configured bootstrap token
	Token string `json:"token" validate:"required"`

	// Username for the initial admin (3-32 chars, alphanumeric with _ or -)
	Username string `json:"username" validate:"required,min=3,max=32,username"`

	// Email for the initial admin
	Email string `json:"email" validate:"required,email"`

	// Password must satisfy the password policy
	Password string `json:"password" validate:"required,max=128"`
}

// BootstrapResponse identifies the created administrator.
type BootstrapResponse struct {
	AdminUserID string `json:"admin_user_id"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by the /livez and /readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
}
