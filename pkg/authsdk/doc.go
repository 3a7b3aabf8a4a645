/*
Package authsdk provides a client SDK for interacting with the MedLock
authentication service.

# Overview

The package is organized around two main types:

  - SDKClient: unauthenticated operations (login, MFA verification,
    bootstrap, health) and Session creation
  - Session: authenticated operations carrying the opaque bearer token

Create an SDKClient to interact with public endpoints and initiate
authentication flows:

	client := authsdk.NewSDKClient("https://auth.lumina.example")

	// Check service health
	health, err := client.Livez(ctx)

	// Bootstrap the service (one-time setup)
	resp, err := client.Bootstrap(ctx, authsdk.BootstrapRequest{...})

	// Authenticate
	result, err := client.Login(ctx, "alice", "password")

# Login Flow

Login returns a LoginResult whose Status field drives the flow:

	result, err := client.Login(ctx, login, password)
	if err != nil {
		// transport failure or malformed request
	}
	switch result.Status {
	case authsdk.LoginStatusOK:
		session := result.Session()
	case authsdk.LoginStatusMFARequired:
		// complete with a TOTP code or a backup code
		result, err = client.VerifyTOTP(ctx, result.ChallengeID, code)
		// or: client.VerifyBackupCode(ctx, result.ChallengeID, backupCode)
	case authsdk.LoginStatusLocked:
		// the account is inside its lockout window
	case authsdk.LoginStatusRejected:
		// credentials were not accepted
	}

Sessions have a fixed server-side TTL and are not refreshable. When a
Session method returns an APIError with code "session_expired" or
"session_revoked", a fresh login is required.

# Authenticated Operations

	session := result.Session()

	// Session management
	sessions, err := session.Sessions(ctx)
	err = session.RevokeSession(ctx, sessionID)
	err = session.Logout(ctx)
	n, err := session.LogoutAll(ctx)

	// MFA lifecycle
	setup, err := session.BeginMFASetup(ctx)
	codes, err := session.ConfirmMFASetup(ctx, totpCode)
	codes, err = session.RegenerateBackupCodes(ctx, totpCode)
	err = session.DisableMFA(ctx, password)

	// Credentials
	err = session.ChangePassword(ctx, current, newPassword)

	// Audit (admin or compliance_officer role)
	logs, err := session.AuditLogs(ctx, authsdk.AuditQuery{Action: "login_failed"})
	report, err := session.VerifyAuditChain(ctx)

# Error Handling

Failures come back as typed errors:

	err := session.ChangePassword(ctx, current, weak)
	var pv *authsdk.PolicyViolationError
	if errors.As(err, &pv) {
		// pv.Violations lists every broken password rule
	}

	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case authsdk.ErrorCodeSessionExpired:
			// log in again
		case authsdk.ErrorCodeUnauthorized:
			// the re-proof (password or TOTP) failed
		}
	}
*/
package authsdk
