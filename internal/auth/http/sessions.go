package http

import (
	"errors"
	"net/http"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/service"
	"github.com/luminahealth/medlock/pkg/authsdk"
	"github.com/luminahealth/medlock/pkg/httpx"
	"github.com/luminahealth/medlock/pkg/slogx"
)

// SessionsHandler handles session listing, revocation, and logout.
type SessionsHandler struct {
	SessionService *service.SessionService
}

// HandleList handles GET /v1/sessions
//
//	@Summary		List active sessions
//	@Description	Returns the caller's active sessions across all devices. Token material is never included; the session used for this request is marked current.
//	@Tags			Sessions
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.SessionsResponse	"Active sessions"
//	@Failure		401	{object}	authsdk.ErrorResponse		"Invalid or missing session token"
//	@Failure		500	{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/sessions [get].
func (h *SessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := principalFrom(ctx)
	if !ok {
		authsdk.ErrInvalidSession.WriteError(w)
		return
	}

	sessions, err := h.SessionService.List(ctx, p.UserID)
	if err != nil {
		log.Error("failed to list sessions", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]authsdk.SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionInfo(s, s.ID == p.SessionID))
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionsResponse{Sessions: out})
}

// HandleRevoke handles POST /v1/sessions/revoke
//
//	@Summary		Revoke one of your sessions
//	@Description	Revokes the named session. Only the caller's own sessions can be revoked; anything else reads as not found.
//	@Tags			Sessions
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	authsdk.RevokeSessionRequest	true	"Session to revoke"
//	@Success		204		"Session revoked"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"Malformed request"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Invalid or missing session token"
//	@Failure		404		{object}	authsdk.ErrorResponse			"No such session"
//	@Failure		500		{object}	authsdk.ErrorResponse			"Internal server error"
//	@Router			/v1/sessions/revoke [post].
func (h *SessionsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := principalFrom(ctx)
	if !ok {
		authsdk.ErrInvalidSession.WriteError(w)
		return
	}

	var req authsdk.RevokeSessionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.SessionService.Revoke(ctx, p.UserID, req.SessionID); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			authsdk.ErrNotFound.WriteError(w)
			return
		}
		log.Error("failed to revoke session", "session_id", req.SessionID, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleLogout handles POST /v1/auth/logout
//
//	@Summary		Log out
//	@Description	Revokes the session the request was authenticated with.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204	"Logged out"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing session token"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/logout [post].
func (h *SessionsHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := principalFrom(ctx)
	if !ok {
		authsdk.ErrInvalidSession.WriteError(w)
		return
	}

	if err := h.SessionService.Revoke(ctx, p.UserID, p.SessionID); err != nil {
		log.Error("failed to log out", "session_id", p.SessionID, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleLogoutAll handles POST /v1/auth/logout-all
//
//	@Summary		Log out everywhere else
//	@Description	Revokes every other session of the caller, keeping the current one alive.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.RevokedResponse	"How many sessions were revoked"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing session token"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/logout-all [post].
func (h *SessionsHandler) HandleLogoutAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := principalFrom(ctx)
	if !ok {
		authsdk.ErrInvalidSession.WriteError(w)
		return
	}

	revoked, err := h.SessionService.RevokeAllExcept(ctx, p.UserID, p.SessionID)
	if err != nil {
		log.Error("failed to revoke sessions", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.RevokedResponse{RevokedSessions: revoked})
}

// sessionInfo maps a domain session onto the wire shape. TokenHash is
// deliberately not part of the output type.
func sessionInfo(s domain.Session, current bool) authsdk.SessionInfo {
	return authsdk.SessionInfo{
		ID:         s.ID,
		IssuedAt:   s.IssuedAt,
		ExpiresAt:  s.ExpiresAt,
		LastSeenAt: s.LastSeenAt,
		IP:         s.IP,
		UserAgent:  s.UserAgent,
		Current:    current,
	}
}
