package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/luminahealth/medlock/pkg/httpx"
)

// ============================================================================
// API Error Codes
// ============================================================================

const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeAccountLocked      = "account_locked"
	ErrorCodeMFARequired        = "mfa_required"
	ErrorCodeInvalidMFACode     = "invalid_mfa_code"
	ErrorCodeInvalidBackupCode  = "invalid_backup_code"
	ErrorCodeChallengeExpired   = "challenge_expired"
	ErrorCodeTooManyAttempts    = "too_many_attempts"
	ErrorCodeInvalidSession     = "invalid_session"
	ErrorCodeSessionExpired     = "session_expired"
	ErrorCodeSessionRevoked     = "session_revoked"
	ErrorCodePolicyViolation    = "policy_violation"
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeInsufficientRole   = "insufficient_role"
	ErrorCodeMFAAlreadyEnabled  = "mfa_already_enabled"
	ErrorCodeMFANotEnrolled     = "mfa_not_enrolled"
	ErrorCodeAlreadyExists      = "already_exists"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeServerError        = "server_error"
)

// ============================================================================
// APIError - standard error type
// ============================================================================

// APIError is the error envelope every MedLock endpoint uses. It
// implements the error interface and is shared by the server (to write
// HTTP responses) and the SDK client (to represent parsed errors).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g., "invalid_credentials")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// ============================================================================
// Predefined API Errors
// ============================================================================

var (
	// ErrInvalidRequest is returned when the request body is malformed or
	// missing required fields.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidCredentials is returned when the login or password is wrong,
	// or the account cannot authenticate. Deliberately unspecific.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid credentials",
	}

	// ErrAccountLocked is returned while an account is in its lockout window.
	ErrAccountLocked = &APIError{
		StatusCode:  http.StatusLocked,
		Code:        ErrorCodeAccountLocked,
		Description: "account temporarily locked after repeated failures",
	}

	// ErrInvalidMFACode is returned when a TOTP code does not verify.
	ErrInvalidMFACode = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidMFACode,
		Description: "invalid one-time code",
	}

	// ErrInvalidBackupCode is returned when a backup code is unknown or spent.
	ErrInvalidBackupCode = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidBackupCode,
		Description: "invalid or already used backup code",
	}

	// ErrChallengeExpired is returned when an MFA challenge is unknown,
	// expired, or already consumed.
	ErrChallengeExpired = &APIError{
		StatusCode:  http.StatusGone,
		Code:        ErrorCodeChallengeExpired,
		Description: "the MFA challenge has expired, restart login",
	}

	// ErrTooManyAttempts is returned when an MFA challenge burns through
	// its attempt budget.
	ErrTooManyAttempts = &APIError{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeTooManyAttempts,
		Description: "too many failed attempts, restart login",
	}

	// ErrInvalidSession is returned when the bearer token is missing or unknown.
	ErrInvalidSession = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidSession,
		Description: "the session token is missing or invalid",
	}

	// ErrSessionExpired is returned when the session passed its TTL.
	ErrSessionExpired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeSessionExpired,
		Description: "the session has expired, log in again",
	}

	// ErrSessionRevoked is returned when the session was revoked.
	ErrSessionRevoked = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeSessionRevoked,
		Description: "the session has been revoked",
	}

	// ErrUnauthorized is returned when a re-proof (password, TOTP) fails on
	// an already-authenticated request.
	ErrUnauthorized = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeUnauthorized,
		Description: "verification failed",
	}

	// ErrInsufficientRole is returned when the caller's role does not permit
	// the operation.
	ErrInsufficientRole = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeInsufficientRole,
		Description: "your role does not permit this operation",
	}

	// ErrMFAAlreadyEnabled is returned when enrolling while MFA is active.
	ErrMFAAlreadyEnabled = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeMFAAlreadyEnabled,
		Description: "MFA is already enabled for this account",
	}

	// ErrMFANotEnrolled is returned when confirming or using MFA without a
	// pending or live enrollment.
	ErrMFANotEnrolled = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeMFANotEnrolled,
		Description: "MFA is not enrolled for this account",
	}

	// ErrNotFound is returned when the referenced resource does not exist.
	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "resource not found",
	}

	// ErrServerError is returned for unexpected internal failures.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// NewAPIError creates an APIError with a custom description.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// ============================================================================
// MFARequiredError
// ============================================================================

// MFARequiredError signals that password verification succeeded but the
// account requires a second factor. It carries the challenge reference
// the client must present to /v1/auth/mfa/verify or /v1/auth/mfa/backup.
type MFARequiredError struct {
	// ChallengeID references the pending MFA challenge
	ChallengeID string `json:"challenge_id"`

	// Methods lists the accepted verification methods (e.g., ["totp", "backup_code"])
	Methods []string `json:"mfa_methods"`

	// ExpiresAt is when the challenge stops being answerable
	ExpiresAt time.Time `json:"expires_at"`
}

// Error implements the error interface.
func (e *MFARequiredError) Error() string {
	return fmt.Sprintf("MFA required: available methods=%v", e.Methods)
}

// ============================================================================
// PolicyViolationError
// ============================================================================

// PolicyViolationError reports every password rule the submitted
// password failed, so the user can fix them all in one pass.
type PolicyViolationError struct {
	Violations []string `json:"violations"`
}

// Error implements the error interface.
func (e *PolicyViolationError) Error() string {
	return "password policy violation: " + strings.Join(e.Violations, "; ")
}

// WriteError writes the violations as a 422 Unprocessable Entity.
func (e *PolicyViolationError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":             ErrorCodePolicyViolation,
		"error_description": "the new password does not meet the password policy",
		"violations":        e.Violations,
	})
}

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse turns a non-2xx HTTP response into a typed error.
// Returns nil for 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// Policy violations carry the broken-rule list
	if resp.StatusCode == http.StatusUnprocessableEntity {
		var pvResp struct {
			Error      string   `json:"error"`
			Violations []string `json:"violations"`
		}
		if err := json.Unmarshal(body, &pvResp); err == nil && pvResp.Error == ErrorCodePolicyViolation {
			return &PolicyViolationError{Violations: pvResp.Violations}
		}
	}

	// Standard error envelope
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	// Validation envelope (bootstrap, DTO validation)
	var valErr ValidationErrorResponse
	if err := json.Unmarshal(body, &valErr); err == nil && valErr.Code != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        valErr.Code,
			Description: valErr.Message,
		}
	}

	// Fallback: generic error from the status code
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
