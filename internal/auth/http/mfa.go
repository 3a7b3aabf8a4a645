package http

import (
	"errors"
	"net/http"

	"github.com/luminahealth/medlock/internal/auth/service"
	"github.com/luminahealth/medlock/pkg/authsdk"
	"github.com/luminahealth/medlock/pkg/httpx"
	"github.com/luminahealth/medlock/pkg/slogx"
)

// MFAHandler handles TOTP enrollment and backup code management for the
// authenticated user. Challenge verification during login lives on
// LoginHandler instead; those requests carry no session yet.
type MFAHandler struct {
	MFAService *service.MFAService
}

// HandleSetup handles POST /v1/mfa/setup
//
//	@Summary		Begin TOTP enrollment
//	@Description	Generates a pending TOTP secret and returns it with an otpauth:// URI and a QR code. The secret does not protect logins until confirmed.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.MFASetupResponse	"Provisioning material (shown once)"
//	@Failure		401	{object}	authsdk.ErrorResponse		"Invalid or missing session token"
//	@Failure		409	{object}	authsdk.ErrorResponse		"MFA already enabled"
//	@Failure		500	{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/mfa/setup [post].
func (h *MFAHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := principalFrom(ctx)
	if !ok {
		authsdk.ErrInvalidSession.WriteError(w)
		return
	}

	enrollment, err := h.MFAService.BeginSetup(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, service.ErrMFAAlreadyEnabled) {
			authsdk.ErrMFAAlreadyEnabled.WriteError(w)
			return
		}
		log.Error("failed to begin MFA setup", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MFASetupResponse{
		Secret:     enrollment.Secret,
		OTPAuthURL: enrollment.OTPAuthURL,
		QRCode:     enrollment.QRCode,
		ExpiresAt:  enrollment.ExpiresAt,
	})
}

// HandleConfirm handles POST /v1/mfa/confirm
//
//	@Summary		Confirm TOTP enrollment
//	@Description	Verifies a code from the authenticator app against the pending secret. On success MFA becomes active and the one-time backup codes are returned; they are never shown again.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.MFAConfirmRequest		true	"Authenticator code"
//	@Success		200		{object}	authsdk.BackupCodesResponse		"Backup codes (shown once)"
//	@Failure		400		{object}	authsdk.ErrorResponse			"No pending enrollment"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Invalid code"
//	@Failure		409		{object}	authsdk.ErrorResponse			"MFA already enabled"
//	@Failure		410		{object}	authsdk.ErrorResponse			"Pending enrollment expired"
//	@Failure		500		{object}	authsdk.ErrorResponse			"Internal server error"
//	@Router			/v1/mfa/confirm [post].
func (h *MFAHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := principalFrom(ctx)
	if !ok {
		authsdk.ErrInvalidSession.WriteError(w)
		return
	}

	var req authsdk.MFAConfirmRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	codes, err := h.MFAService.ConfirmSetup(ctx, p.UserID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMFACode):
			authsdk.ErrInvalidMFACode.WriteError(w)
		case errors.Is(err, service.ErrMFAAlreadyEnabled):
			authsdk.ErrMFAAlreadyEnabled.WriteError(w)
		case errors.Is(err, service.ErrMFANotEnrolled):
			authsdk.ErrMFANotEnrolled.WriteError(w)
		case errors.Is(err, service.ErrChallengeExpired):
			authsdk.ErrChallengeExpired.WriteError(w)
		default:
			log.Error("failed to confirm MFA setup", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.BackupCodesResponse{Codes: codes})
}

// HandleDisable handles POST /v1/mfa/disable
//
//	@Summary		Disable MFA
//	@Description	Turns MFA off after re-proving the account password. Backup codes are deleted and other sessions are revoked.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	authsdk.MFADisableRequest	true	"Account password"
//	@Success		204		"MFA disabled"
//	@Failure		400		{object}	authsdk.ErrorResponse	"MFA not enabled"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid or missing session token"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Password verification failed"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/mfa/disable [post].
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := principalFrom(ctx)
	if !ok {
		authsdk.ErrInvalidSession.WriteError(w)
		return
	}

	var req authsdk.MFADisableRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.MFAService.Disable(ctx, p.UserID, req.Password, p.SessionID); err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			authsdk.ErrUnauthorized.WriteError(w)
		case errors.Is(err, service.ErrMFANotEnrolled):
			authsdk.ErrMFANotEnrolled.WriteError(w)
		default:
			log.Error("failed to disable MFA", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRegenerateBackupCodes handles POST /v1/mfa/backup-codes
//
//	@Summary		Regenerate backup codes
//	@Description	Replaces the whole backup code batch after re-proving TOTP possession. Codes that were never used stop working.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.BackupCodesRegenerateRequest	true	"Authenticator code"
//	@Success		200		{object}	authsdk.BackupCodesResponse				"New backup codes (shown once)"
//	@Failure		400		{object}	authsdk.ErrorResponse					"MFA not enabled"
//	@Failure		401		{object}	authsdk.ErrorResponse					"Invalid code"
//	@Failure		500		{object}	authsdk.ErrorResponse					"Internal server error"
//	@Router			/v1/mfa/backup-codes [post].
func (h *MFAHandler) HandleRegenerateBackupCodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := principalFrom(ctx)
	if !ok {
		authsdk.ErrInvalidSession.WriteError(w)
		return
	}

	var req authsdk.BackupCodesRegenerateRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	codes, err := h.MFAService.RegenerateBackupCodes(ctx, p.UserID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMFACode):
			authsdk.ErrInvalidMFACode.WriteError(w)
		case errors.Is(err, service.ErrMFANotEnrolled):
			authsdk.ErrMFANotEnrolled.WriteError(w)
		default:
			log.Error("failed to regenerate backup codes", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.BackupCodesResponse{Codes: codes})
}
