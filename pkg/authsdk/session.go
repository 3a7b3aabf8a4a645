package authsdk

// Session is an authenticated handle on the MedLock API. Sessions wrap
// the opaque bearer token; they have a fixed server-side TTL and are
// not refreshable, so a new login is required once one expires.
type Session struct {
	client *SDKClient
	token  string
	info   SessionInfo
}

// Token returns the opaque session token. Store it carefully; the
// server keeps only a fingerprint and cannot show it again.
func (s *Session) Token() string { return s.token }

// Info returns the session metadata captured at login time. Zero value
// when the Session was built with SessionFromToken.
func (s *Session) Info() SessionInfo { return s.info }
