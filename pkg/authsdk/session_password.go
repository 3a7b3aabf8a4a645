package authsdk

import (
	"context"
	"net/http"
)

// ChangePassword rotates the caller's password. The new password must
// satisfy the policy and differ from recently used ones; failures come
// back as *PolicyViolationError listing every broken rule. Every other
// session is revoked on success.
func (s *Session) ChangePassword(ctx context.Context, current, newPassword string) error {
	resp, err := s.doAuthJSON(ctx, http.MethodPost, "/v1/password", ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     newPassword,
	})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
