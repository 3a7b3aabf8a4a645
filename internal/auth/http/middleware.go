package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/service"
	"github.com/luminahealth/medlock/pkg/authsdk"
	"github.com/luminahealth/medlock/pkg/httpx"
	"github.com/luminahealth/medlock/pkg/slogx"
)

// AuthnMiddleware validates the opaque bearer session token and injects
// the authenticated principal into the request context. Validation also
// stamps the session's last-seen time.
func AuthnMiddleware(sessions *service.SessionService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, authsdk.ErrInvalidSession)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			p, err := sessions.Validate(ctx, raw)
			if err != nil {
				switch {
				case errors.Is(err, service.ErrSessionExpired):
					writeBearerError(w, authsdk.ErrSessionExpired)
				case errors.Is(err, service.ErrSessionRevoked):
					writeBearerError(w, authsdk.ErrSessionRevoked)
				case errors.Is(err, service.ErrSessionNotFound):
					writeBearerError(w, authsdk.ErrInvalidSession)
				default:
					log.Error("session validation failed", "err", err)
					authsdk.ErrServerError.WriteError(w)
				}
				return
			}

			// Inject into context for downstream handlers.
			ctx = contextWithPrincipal(ctx, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole refuses the request unless the authenticated principal
// holds one of the given roles. Must run after AuthnMiddleware.
func RequireRole(roles ...string) httpx.Middleware {
	want := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		want[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := principalFrom(r.Context())
			if !ok {
				writeBearerError(w, authsdk.ErrInvalidSession)
				return
			}
			if _, ok := want[p.Role]; !ok {
				authsdk.ErrInsufficientRole.WriteError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func contextWithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	ctx = context.WithValue(ctx, httpx.CtxKeyUserID, p.UserID)
	ctx = context.WithValue(ctx, httpx.CtxKeySessionID, p.SessionID)
	ctx = context.WithValue(ctx, httpx.CtxKeyPrincipal, p)
	return ctx
}

// principalFrom returns the authenticated principal placed in the
// context by AuthnMiddleware.
func principalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(httpx.CtxKeyPrincipal).(domain.Principal)
	return p, ok
}

// RFC 6750-style bearer error: the JSON envelope plus a WWW-Authenticate
// header so generic HTTP clients can tell why the token was refused.
func writeBearerError(w http.ResponseWriter, apiErr *authsdk.APIError) {
	w.Header().Set("WWW-Authenticate",
		`Bearer error="invalid_token", error_description="`+apiErr.Code+`"`)
	apiErr.WriteError(w)
}
