package service

import (
	"errors"

	"github.com/luminahealth/medlock/pkg/authsdk"
)

// Sentinel errors returned by the auth services. HTTP handlers map these onto
// wire error codes; anything not listed here is treated as an internal error.
var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountLocked      = errors.New("account_locked")
	ErrInvalidMFACode     = errors.New("invalid_mfa_code")
	ErrInvalidBackupCode  = errors.New("invalid_backup_code")
	ErrChallengeExpired   = errors.New("challenge_expired")
	ErrTooManyAttempts    = errors.New("too_many_attempts")
	ErrSessionNotFound    = errors.New("session_not_found")
	ErrSessionExpired     = errors.New("session_expired")
	ErrSessionRevoked     = errors.New("session_revoked")
	ErrMFAAlreadyEnabled  = errors.New("mfa_already_enabled")
	ErrMFANotEnrolled     = errors.New("mfa_not_enrolled")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUserExists         = errors.New("user_already_exists")
	ErrUserNotFound       = errors.New("user_not_found")
)

// MFARequiredError is returned by Login when the password checked out but a
// second factor is still owed. Aliased from authsdk so the handler can hand it
// straight to the wire without translation.
type MFARequiredError = authsdk.MFARequiredError

// PolicyViolationError carries the list of password policy rules a candidate
// password broke. Aliased from authsdk for the same reason.
type PolicyViolationError = authsdk.PolicyViolationError
