package domain

import "time"

// MFASetup is a pending TOTP enrolment. Its secret becomes the user's live
// secret only once a code generated from it is confirmed.
type MFASetup struct {
	UserID    string
	Secret    string // base32 encoded
	CreatedAt time.Time
	ExpiresAt time.Time
}

// MFAEnrollment is returned from setup so the user can load the secret into
// an authenticator app.
type MFAEnrollment struct {
	Secret     string    `json:"secret"`      // base32 encoded TOTP secret
	OTPAuthURL string    `json:"otpauth_url"` // otpauth:// provisioning URI
	QRCode     string    `json:"qr_code"`     // base64 PNG rendering of the URI
	ExpiresAt  time.Time `json:"expires_at"`  // deadline to confirm before the pending secret is discarded
}

// MFAChallenge is a pending second-factor challenge created after a correct
// password. Single-use, short TTL, capped failed attempts.
type MFAChallenge struct {
	ID        string // ULID, the opaque challenge reference
	UserID    string
	IP        string
	UserAgent string
	Attempts  int // failed verification attempts (capped to prevent brute force)
	CreatedAt time.Time
	ExpiresAt time.Time
}

// BackupCode is a stored one-time recovery code. Only the fingerprint of the
// normalized code is kept; redeemed codes stay on record with used markers.
type BackupCode struct {
	ID        string
	UserID    string
	CodeHash  string // fingerprint (base64url SHA-256)
	Used      bool
	UsedAt    *time.Time
	CreatedAt time.Time
}
