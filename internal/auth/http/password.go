package http

import (
	"errors"
	"net/http"

	"github.com/luminahealth/medlock/internal/auth/service"
	"github.com/luminahealth/medlock/pkg/authsdk"
	"github.com/luminahealth/medlock/pkg/slogx"
)

// PasswordHandler handles password rotation for the authenticated user.
type PasswordHandler struct {
	PasswordService *service.PasswordService
}

// HandleChange handles POST /v1/password
//
//	@Summary		Change your password
//	@Description	Rotates the account password after re-proving the current one. The new password must satisfy the password policy and differ from recently used passwords. Every other session is revoked.
//	@Tags			Password
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	authsdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		204		"Password changed"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"Malformed request"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Invalid or missing session token"
//	@Failure		403		{object}	authsdk.ErrorResponse			"Current password verification failed"
//	@Failure		422		{object}	authsdk.ErrorResponse			"New password violates the policy"
//	@Failure		500		{object}	authsdk.ErrorResponse			"Internal server error"
//	@Router			/v1/password [post].
func (h *PasswordHandler) HandleChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := principalFrom(ctx)
	if !ok {
		authsdk.ErrInvalidSession.WriteError(w)
		return
	}

	var req authsdk.ChangePasswordRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	err := h.PasswordService.Change(ctx, p.UserID, req.CurrentPassword, req.NewPassword, p.SessionID)
	if err != nil {
		var policyErr *service.PolicyViolationError
		switch {
		case errors.As(err, &policyErr):
			policyErr.WriteError(w)
		case errors.Is(err, service.ErrUnauthorized):
			authsdk.ErrUnauthorized.WriteError(w)
		default:
			log.Error("failed to change password", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
