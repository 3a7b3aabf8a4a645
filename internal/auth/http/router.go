package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/service"
	"github.com/luminahealth/medlock/internal/auth/store"
	"github.com/luminahealth/medlock/internal/metrics"
	"github.com/luminahealth/medlock/pkg/httpx"
	"github.com/luminahealth/medlock/pkg/slogx"

	_ "github.com/luminahealth/medlock/api/authd" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	LoginService     *service.LoginService
	SessionService   *service.SessionService
	MFAService       *service.MFAService
	PasswordService  *service.PasswordService
	AuditService     *service.AuditService
	BootstrapService *service.BootstrapService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		metrics.HTTPMiddleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSessions()
	r.registerMFA()
	r.registerPassword()
	r.registerAudit()
	r.registerBootstrap()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			MedLock Authentication Service API
//	@version		0.1.0
//	@description	Authentication and audit-integrity service for the Lumina Compliance platform: opaque session tokens, TOTP second factors, account lockout, and a hash-chained audit log.
//	@description
//	@description				Login outcomes (including lockout and rejection) are reported with HTTP 200 and a status discriminator so transport errors stay distinguishable from authentication outcomes.
//
//	@contact.name				Lumina Health Platform Team
//	@contact.url				https://github.com/luminahealth/medlock
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Opaque session token from /v1/auth/login. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &LoginHandler{LoginService: r.LoginService}

	// POST /auth/login - strict rate limit by IP (authentication attempts)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/mfa/verify - strict rate limit by IP (second-factor guesses)
	// The challenge itself also caps attempts; the rate limit just slows
	// distributed guessing across challenges.
	r.Mux.Handle("POST /v1/auth/mfa/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyTOTP),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/mfa/backup - strict rate limit by IP
	r.Mux.Handle("POST /v1/auth/mfa/backup",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyBackup),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	sessionsHandler := &SessionsHandler{SessionService: r.SessionService}

	// POST /auth/logout - moderate rate limit by user
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(sessionsHandler.HandleLogout),
			AuthnMiddleware(r.SessionService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /auth/logout-all - moderate rate limit by user
	r.Mux.Handle("POST /v1/auth/logout-all",
		httpx.Chain(http.HandlerFunc(sessionsHandler.HandleLogoutAll),
			AuthnMiddleware(r.SessionService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSessions() {
	h := &SessionsHandler{SessionService: r.SessionService}

	// GET /sessions - lenient rate limit by user (read-only listing)
	r.Mux.Handle("GET /v1/sessions",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			AuthnMiddleware(r.SessionService),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// POST /sessions/revoke - moderate rate limit by user
	r.Mux.Handle("POST /v1/sessions/revoke",
		httpx.Chain(http.HandlerFunc(h.HandleRevoke),
			AuthnMiddleware(r.SessionService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFAService: r.MFAService}

	// POST /mfa/setup - moderate rate limit by user
	securedSetup := httpx.Chain(http.HandlerFunc(h.HandleSetup),
		AuthnMiddleware(r.SessionService),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	// POST /mfa/confirm - strict rate limit by user (prevent brute force of TOTP codes)
	securedConfirm := httpx.Chain(http.HandlerFunc(h.HandleConfirm),
		AuthnMiddleware(r.SessionService),
		httpx.RateLimitByUser(httpx.StrictLimit),
	)

	// POST /mfa/disable - moderate rate limit by user
	securedDisable := httpx.Chain(http.HandlerFunc(h.HandleDisable),
		AuthnMiddleware(r.SessionService),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	// POST /mfa/backup-codes - moderate rate limit by user
	securedRegenerate := httpx.Chain(http.HandlerFunc(h.HandleRegenerateBackupCodes),
		AuthnMiddleware(r.SessionService),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("POST /v1/mfa/setup", securedSetup)
	r.Mux.Handle("POST /v1/mfa/confirm", securedConfirm)
	r.Mux.Handle("POST /v1/mfa/disable", securedDisable)
	r.Mux.Handle("POST /v1/mfa/backup-codes", securedRegenerate)
}

func (r *Router) registerPassword() {
	h := &PasswordHandler{PasswordService: r.PasswordService}

	// POST /password - moderate rate limit by user
	r.Mux.Handle("POST /v1/password",
		httpx.Chain(http.HandlerFunc(h.HandleChange),
			AuthnMiddleware(r.SessionService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAudit() {
	h := &AuditHandler{AuditService: r.AuditService}

	// Audit access is restricted to compliance reviewers.
	securedLogs := httpx.Chain(http.HandlerFunc(h.HandleLogs),
		AuthnMiddleware(r.SessionService),
		RequireRole(domain.RoleAdmin, domain.RoleComplianceOfficer),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	// GET /audit/verify walks the whole chain; keep it moderate so a
	// reviewer cannot hammer the database with full-table scans.
	securedVerify := httpx.Chain(http.HandlerFunc(h.HandleVerify),
		AuthnMiddleware(r.SessionService),
		RequireRole(domain.RoleAdmin, domain.RoleComplianceOfficer),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /v1/audit/logs", securedLogs)
	r.Mux.Handle("GET /v1/audit/verify", securedVerify)
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	bootstrapHandler := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(bootstrapHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Prometheus scrape endpoint - not rate limited, the scraper is ours
	r.Mux.Handle("GET /metrics", metrics.Handler())
}
