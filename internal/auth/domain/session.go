package domain

import "time"

// Session models a stored login session. The raw bearer token is returned once
// at issuance; only its fingerprint is persisted.
type Session struct {
	ID         string
	UserID     string
	TokenHash  string // deterministic fingerprint (base64url SHA-256)
	IssuedAt   time.Time
	ExpiresAt  time.Time // fixed TTL, never extended
	LastSeenAt time.Time
	IP         string
	UserAgent  string
	Revoked    bool
	RevokedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ClientMeta carries request provenance through login and session issuance.
type ClientMeta struct {
	IP        string
	UserAgent string
}

// LoginGrant is the successful outcome of authentication: a live session token
// plus flags the caller surfaces to the user.
type LoginGrant struct {
	Token                 string
	Session               Session
	RequirePasswordChange bool
}

// Principal is the authenticated identity attached to a validated session.
type Principal struct {
	UserID                string
	SessionID             string
	Role                  string
	RequirePasswordChange bool
}
