package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/service"
	"github.com/luminahealth/medlock/pkg/authsdk"
	"github.com/luminahealth/medlock/pkg/httpx"
	"github.com/luminahealth/medlock/pkg/slogx"
)

// LoginHandler handles first-factor login and the MFA verification
// endpoints that complete it.
type LoginHandler struct {
	LoginService *service.LoginService
}

// HandleLogin handles POST /v1/auth/login
//
// Authentication outcomes are reported with HTTP 200 and a status
// discriminator, so the response shape stays uniform whether the
// credentials were accepted, rejected, or the account is locked.
//
//	@Summary		Authenticate with username/email and password
//	@Description	Performs first-factor authentication. The status field of the response tells the outcome:
//	@Description	"ok" grants a session token, "mfa_required" returns a challenge to answer via the MFA
//	@Description	verification endpoints, "locked" means the account is inside its lockout window, and
//	@Description	"rejected" means the credentials were not accepted.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest			true	"Credentials"
//	@Success		200		{object}	authsdk.LoginResponse			"Authentication outcome"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"Malformed request"
//	@Failure		429		{object}	authsdk.ErrorResponse			"Rate limited"
//	@Failure		500		{object}	authsdk.ErrorResponse			"Internal server error"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	grant, err := h.LoginService.Login(ctx, service.LoginInput{
		Login:    req.Login,
		Password: req.Password,
		Meta:     clientMeta(r),
	})
	if err != nil {
		var mfaErr *service.MFARequiredError
		switch {
		case errors.As(err, &mfaErr):
			httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
				Status:             authsdk.LoginStatusMFARequired,
				ChallengeID:        mfaErr.ChallengeID,
				MFAMethods:         mfaErr.Methods,
				ChallengeExpiresAt: &mfaErr.ExpiresAt,
			})
		case errors.Is(err, service.ErrAccountLocked):
			httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
				Status: authsdk.LoginStatusLocked,
			})
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
				Status: authsdk.LoginStatusRejected,
			})
		default:
			log.Error("login failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	writeGrant(w, grant)
}

// HandleVerifyTOTP handles POST /v1/auth/mfa/verify
//
//	@Summary		Answer an MFA challenge with a TOTP code
//	@Description	Completes a pending login by verifying a 6-digit authenticator code against the challenge issued at login.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.MFAVerifyRequest		true	"Challenge reference and code"
//	@Success		200		{object}	authsdk.LoginResponse			"Session grant"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"Malformed request"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Invalid code"
//	@Failure		410		{object}	authsdk.ErrorResponse			"Challenge expired or already used"
//	@Failure		423		{object}	authsdk.ErrorResponse			"Account locked"
//	@Failure		429		{object}	authsdk.ErrorResponse			"Too many failed attempts"
//	@Failure		500		{object}	authsdk.ErrorResponse			"Internal server error"
//	@Router			/v1/auth/mfa/verify [post].
func (h *LoginHandler) HandleVerifyTOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.MFAVerifyRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	grant, err := h.LoginService.VerifyTOTP(ctx, req.ChallengeID, req.Code, clientMeta(r))
	if err != nil {
		writeVerifyError(w, log, err)
		return
	}

	writeGrant(w, grant)
}

// HandleVerifyBackup handles POST /v1/auth/mfa/backup
//
//	@Summary		Answer an MFA challenge with a backup code
//	@Description	Completes a pending login by redeeming a one-time backup code. Each code works exactly once.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.MFAVerifyRequest		true	"Challenge reference and backup code"
//	@Success		200		{object}	authsdk.LoginResponse			"Session grant"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"Malformed request"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Invalid or already used code"
//	@Failure		410		{object}	authsdk.ErrorResponse			"Challenge expired or already used"
//	@Failure		423		{object}	authsdk.ErrorResponse			"Account locked"
//	@Failure		429		{object}	authsdk.ErrorResponse			"Too many failed attempts"
//	@Failure		500		{object}	authsdk.ErrorResponse			"Internal server error"
//	@Router			/v1/auth/mfa/backup [post].
func (h *LoginHandler) HandleVerifyBackup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.MFAVerifyRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	grant, err := h.LoginService.VerifyBackupCode(ctx, req.ChallengeID, req.Code, clientMeta(r))
	if err != nil {
		writeVerifyError(w, log, err)
		return
	}

	writeGrant(w, grant)
}

// writeGrant writes the successful authentication response. The raw
// session token appears here and nowhere else.
func writeGrant(w http.ResponseWriter, grant *domain.LoginGrant) {
	info := sessionInfo(grant.Session, true)
	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		Status:                authsdk.LoginStatusOK,
		SessionToken:          grant.Token,
		Session:               &info,
		RequirePasswordChange: grant.RequirePasswordChange,
	})
}

func writeVerifyError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidMFACode):
		authsdk.ErrInvalidMFACode.WriteError(w)
	case errors.Is(err, service.ErrInvalidBackupCode):
		authsdk.ErrInvalidBackupCode.WriteError(w)
	case errors.Is(err, service.ErrChallengeExpired):
		authsdk.ErrChallengeExpired.WriteError(w)
	case errors.Is(err, service.ErrTooManyAttempts):
		authsdk.ErrTooManyAttempts.WriteError(w)
	case errors.Is(err, service.ErrAccountLocked):
		authsdk.ErrAccountLocked.WriteError(w)
	case errors.Is(err, service.ErrMFANotEnrolled):
		authsdk.ErrMFANotEnrolled.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	default:
		log.Error("mfa verification failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}

// clientMeta captures the client address and software for session
// records and audit entries.
func clientMeta(r *http.Request) domain.ClientMeta {
	return domain.ClientMeta{
		IP:        httpx.IPKeyExtractor(r),
		UserAgent: r.UserAgent(),
	}
}
