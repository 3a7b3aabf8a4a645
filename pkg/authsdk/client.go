package authsdk

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the MedLock authentication service. It
// provides the unauthenticated operations (login, MFA verification,
// bootstrap, health) and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new MedLock client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionFromToken wraps an existing opaque session token in a Session.
// Useful when the token was obtained earlier and stored by the caller.
func (c *SDKClient) SessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}

func newSession(c *SDKClient, resp *LoginResponse) *Session {
	s := &Session{client: c, token: resp.SessionToken}
	if resp.Session != nil {
		s.info = *resp.Session
	}
	return s
}
