package http

import (
	"log/slog"
	"net/http"

	"github.com/go-auth-api/internal/application/mfa"
	"github.com/go-auth-api/internal/application/recovery"
	"github.com/go-auth-api/internal/application/refresh"
	"github.com/go-auth-api/internal/application/session"
	"github.com/go-auth-api/internal/application/user"
	"github.com/go-auth-api/internal/config"
	"github.com/go-auth-api/internal/domain"
	jwtinfra "github.com/go-auth-api/internal/infrastructure/jwt"
	"github.com/go-auth-api/internal/infrastructure/smtp"
	"github.com/go-auth-api/internal/metrics"
	"github.com/go-auth-api/internal/transport/http/handler"
	appmiddleware "github.com/go-auth-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         UserRepository
	RefreshTokenRepo RefreshTokenRepository
	CodeStore        CodeStore
	Mailer           smtp.Mailer
	JWTProvider      *jwtinfra.Provider
	Metrics          *metrics.Metrics
	// Logger receives the per-request access log; nil means slog.Default.
	Logger *slog.Logger
	// ErrorLogger receives infrastructure failures; nil means slog.Default.
	ErrorLogger  *slog.Logger
	HealthChecks map[string]handler.Pinger
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(appmiddleware.Instrument(deps.Metrics))
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10, applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	errs := appmiddleware.NewErrorResponder(deps.ErrorLogger)
	cookies := appmiddleware.NewCookies(cfg)

	ledger := refresh.NewService(refresh.ServiceDeps{
		TokenRepo: deps.RefreshTokenRepo,
		Lifetime:  cfg.RefreshTokenTTL,
	})
	mfaSvc := mfa.NewService(mfa.ServiceDeps{
		CodeStore: deps.CodeStore,
		UserRepo:  deps.UserRepo,
		Mailer:    deps.Mailer,
		From:      cfg.SMTPFrom,
		CodeTTL:   cfg.MFACodeTTL,
		Metrics:   deps.Metrics,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		UserRepo:    deps.UserRepo,
		Ledger:      ledger,
		JWTProvider: deps.JWTProvider,
		MFA:         mfaSvc,
	})
	userSvc := user.NewService(user.ServiceDeps{
		UserRepo: deps.UserRepo,
		Ledger:   ledger,
		MFA:      mfaSvc,
	})
	recoverySvc := recovery.NewService(recovery.ServiceDeps{
		CodeStore: deps.CodeStore,
		UserRepo:  deps.UserRepo,
		Mailer:    deps.Mailer,
		From:      cfg.SMTPFrom,
		LinkTTL:   cfg.ResetLinkTTL,
		ResetURL:  cfg.ResetPasswordURL,
		Metrics:   deps.Metrics,
	})

	resolver := session.NewResolver(deps.JWTProvider, ledger, deps.Metrics)
	authorizer := session.NewAuthorizer(deps.UserRepo, cfg.RequireAdminMFA)
	authMw := appmiddleware.Authenticate(resolver, cookies, errs)
	adminMw := appmiddleware.RequireRole(authorizer, domain.RoleAdmin, errs)

	healthH := handler.NewHealthHandler(deps.HealthChecks)
	sessionH := handler.NewSessionHandler(sessionSvc, cookies, errs)
	userH := handler.NewUserHandler(sessionSvc, userSvc, cookies, errs)
	resetH := handler.NewPasswordResetHandler(recoverySvc, errs)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Check)
		r.With(sensitiveRL.Limit).Post("/users", userH.Register)
		r.With(sensitiveRL.Limit).Post("/users/login", sessionH.Login)
		r.Post("/users/logout", sessionH.Logout)
		r.With(sensitiveRL.Limit).Post("/reset-password", resetH.Initiate)
		r.With(sensitiveRL.Limit).Post("/reset-password/{token}", resetH.Reset)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/users", userH.Get)
			r.Put("/users", userH.Update)
			r.Delete("/users", userH.Delete)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(adminMw)

				r.Get("/admin/users/{id}/sessions", userH.ListSessions)
				r.Delete("/admin/users/{id}/sessions", userH.RevokeSessions)
			})
		})
	})

	return r
}
