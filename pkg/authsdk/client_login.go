package authsdk

import (
	"context"
	"net/http"
)

// Login performs first-factor authentication. The returned
// LoginResponse's Status field tells what happened:
//
//   - LoginStatusOK: the login completed; use Session() for an
//     authenticated Session.
//   - LoginStatusMFARequired: call VerifyTOTP or VerifyBackupCode with
//     the ChallengeID.
//   - LoginStatusLocked: the account is inside its lockout window.
//   - LoginStatusRejected: the credentials were not accepted.
func (c *SDKClient) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login", LoginRequest{
		Login:    login,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &LoginResult{LoginResponse: out, client: c}, nil
}

// VerifyTOTP answers a pending MFA challenge with a TOTP code.
func (c *SDKClient) VerifyTOTP(ctx context.Context, challengeID, code string) (*LoginResult, error) {
	return c.verifyMFA(ctx, "/v1/auth/mfa/verify", challengeID, code)
}

// VerifyBackupCode answers a pending MFA challenge with a one-time
// backup code.
func (c *SDKClient) VerifyBackupCode(ctx context.Context, challengeID, code string) (*LoginResult, error) {
	return c.verifyMFA(ctx, "/v1/auth/mfa/backup", challengeID, code)
}

func (c *SDKClient) verifyMFA(ctx context.Context, path, challengeID, code string) (*LoginResult, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, path, MFAVerifyRequest{
		ChallengeID: challengeID,
		Code:        code,
	})
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &LoginResult{LoginResponse: out, client: c}, nil
}

// LoginResult wraps a LoginResponse with the client that produced it.
type LoginResult struct {
	LoginResponse

	client *SDKClient
}

// OK reports whether the login completed with a session grant.
func (r *LoginResult) OK() bool { return r.Status == LoginStatusOK }

// Session returns an authenticated Session when Status is
// LoginStatusOK, nil otherwise.
func (r *LoginResult) Session() *Session {
	if !r.OK() || r.SessionToken == "" {
		return nil
	}
	return newSession(r.client, &r.LoginResponse)
}
