package authsdk

import (
	"context"
	"net/http"
)

// Sessions lists the caller's active sessions. The one marked Current
// is the session making this request. Token material is never returned.
func (s *Session) Sessions(ctx context.Context) ([]SessionInfo, error) {
	resp, err := s.doAuthJSON(ctx, http.MethodGet, "/v1/sessions", nil)
	if err != nil {
		return nil, err
	}

	var out SessionsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

// RevokeSession revokes one of the caller's sessions by id. Revoking
// the current session is equivalent to Logout.
func (s *Session) RevokeSession(ctx context.Context, sessionID string) error {
	resp, err := s.doAuthJSON(ctx, http.MethodPost, "/v1/sessions/revoke", RevokeSessionRequest{
		SessionID: sessionID,
	})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Logout revokes the current session.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.doAuthJSON(ctx, http.MethodPost, "/v1/auth/logout", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// LogoutAll revokes every other session of the caller, keeping the
// current one. Returns how many sessions were revoked.
func (s *Session) LogoutAll(ctx context.Context) (int64, error) {
	resp, err := s.doAuthJSON(ctx, http.MethodPost, "/v1/auth/logout-all", nil)
	if err != nil {
		return 0, err
	}

	var out RevokedResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return 0, err
	}
	return out.RevokedSessions, nil
}
