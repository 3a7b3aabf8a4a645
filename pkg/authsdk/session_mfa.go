package authsdk

import (
	"context"
	"net/http"
)

// BeginMFASetup starts TOTP enrollment. The returned secret stays
// pending until ConfirmMFASetup proves the authenticator can produce
// codes for it; unconfirmed enrollments expire server-side.
func (s *Session) BeginMFASetup(ctx context.Context) (*MFASetupResponse, error) {
	resp, err := s.doAuthJSON(ctx, http.MethodPost, "/v1/mfa/setup", nil)
	if err != nil {
		return nil, err
	}

	var out MFASetupResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmMFASetup proves the pending secret with a TOTP code and turns
// MFA on. Returns the one-time backup codes; they are never shown again.
func (s *Session) ConfirmMFASetup(ctx context.Context, code string) ([]string, error) {
	resp, err := s.doAuthJSON(ctx, http.MethodPost, "/v1/mfa/confirm", MFAConfirmRequest{
		Code: code,
	})
	if err != nil {
		return nil, err
	}

	var out BackupCodesResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Codes, nil
}

// DisableMFA turns MFA off after re-proving the account password.
// Every other session is revoked as part of the operation.
func (s *Session) DisableMFA(ctx context.Context, password string) error {
	resp, err := s.doAuthJSON(ctx, http.MethodPost, "/v1/mfa/disable", MFADisableRequest{
		Password: password,
	})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// RegenerateBackupCodes replaces the backup code batch after verifying
// a current TOTP code. All previous codes stop working.
func (s *Session) RegenerateBackupCodes(ctx context.Context, totpCode string) ([]string, error) {
	resp, err := s.doAuthJSON(ctx, http.MethodPost, "/v1/mfa/backup-codes", BackupCodesRegenerateRequest{
		Code: totpCode,
	})
	if err != nil {
		return nil, err
	}

	var out BackupCodesResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Codes, nil
}
