package domain

import "time"

type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
	AccountLocked   AccountStatus = "locked"
)

// Roles referenced by user records. Role administration belongs to the wider
// platform; the auth service only uses these to gate its own audit endpoints.
const (
	RoleAdmin             = "admin"
	RoleComplianceOfficer = "compliance_officer"
	RoleEmployee          = "employee"
)

type User struct {
	ID                    string
	Username              string
	Email                 string
	PasswordHash          string // argon2 encoded
	Role                  string
	Status                AccountStatus
	FailedLoginAttempts   int
	LockExpiresAt         *time.Time // set while status is locked
	MFAEnabled            bool
	MFASecret             *string // live TOTP secret (nullable, base32); set only on confirmed enrolment
	RequirePasswordChange bool
	PasswordChangedAt     *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// LockExpired reports whether a lock has run out and the account is eligible
// for lazy auto-unlock.
func (u *User) LockExpired(now time.Time) bool {
	return u.Status == AccountLocked && u.LockExpiresAt != nil && !now.Before(*u.LockExpiresAt)
}

// IsLocked reports whether the account is locked at the given time.
func (u *User) IsLocked(now time.Time) bool {
	return u.Status == AccountLocked && !u.LockExpired(now)
}
