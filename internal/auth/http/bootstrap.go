package http

import (
	"errors"
	"net/http"

	"github.com/luminahealth/medlock/internal/auth/service"
	"github.com/luminahealth/medlock/pkg/authsdk"
	"github.com/luminahealth/medlock/pkg/httpx"
	"github.com/luminahealth/medlock/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles POST /v1/bootstrap, the one-time initial setup.
//
//	@Summary		Bootstrap the service
//	@Description	Creates the first administrator account on an empty system. Requires the pre-shared bootstrap token and works exactly once; as soon as any account exists the endpoint reports a conflict. Returns 404 when no bootstrap token is configured.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.BootstrapRequest	true	"Bootstrap token and initial admin credentials"
//	@Success		201		{object}	authsdk.BootstrapResponse	"Administrator created"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"Invalid request body or validation failed"
//	@Failure		401		{object}	authsdk.ErrorResponse		"Wrong bootstrap token"
//	@Failure		404		{object}	authsdk.ErrorResponse		"Bootstrapping is not enabled"
//	@Failure		409		{object}	authsdk.ErrorResponse		"System already has accounts"
//	@Failure		422		{object}	authsdk.ErrorResponse		"Initial password fails the password policy"
//	@Failure		500		{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Parse and validate the request body.
	var req authsdk.BootstrapRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	// 2. Provision the first admin. The service gates on the token and on
	// the database being empty.
	u, err := h.BootstrapService.Bootstrap(ctx, req.Token, req.Username, req.Email, req.Password)
	if err != nil {
		var policyErr *service.PolicyViolationError
		switch {
		case errors.Is(err, service.ErrBootstrapDisabled):
			// Indistinguishable from the route not existing.
			authsdk.ErrNotFound.WriteError(w)
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized,
				"invalid bootstrap token").WriteError(w)
		case errors.Is(err, service.ErrAlreadyBootstrapped), errors.Is(err, service.ErrUserExists):
			authsdk.NewAPIError(http.StatusConflict, authsdk.ErrorCodeAlreadyExists,
				"the system already has accounts").WriteError(w)
		case errors.As(err, &policyErr):
			policyErr.WriteError(w)
		default:
			log.Error("bootstrap failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	log.Info("bootstrap complete", "admin_user_id", u.ID)

	// 3. Respond with the created admin's id.
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, authsdk.BootstrapResponse{
		AdminUserID: u.ID,
	})
}
