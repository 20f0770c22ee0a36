package api

import (
	"net/http"

	"github.com/factchecker/newscred/internal/config"
	"github.com/factchecker/newscred/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new HTTP router with all routes configured. Key
// management and the audit log are only mounted when store is non-nil and
// API keys are required.
func NewRouter(cfg *config.Config, checker Checker, store database.Store, version string) http.Handler {
	r := chi.NewRouter()

	handler := NewHandler(checker, store, version)

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)

	r.Get("/", handler.Index)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	authEnabled := store != nil && cfg.Server.RequireAPIKey

	var limiter func(http.Handler) http.Handler
	if cfg.RateLimits.RequestsPerMinute > 0 {
		limiter = RateLimitMiddleware(cfg.RateLimits.RequestsPerMinute)
	}

	// protected wraps routes with auth, audit and rate limiting as configured.
	protected := func(r chi.Router) {
		if authEnabled {
			r.Use(AuthMiddleware(store))
		}
		if store != nil {
			r.Use(AuditMiddleware(store))
		}
		if limiter != nil {
			r.Use(limiter)
		}
	}

	// Path kept for existing clients.
	r.Group(func(r chi.Router) {
		protected(r)
		r.Post("/api/fact-check", handler.FactCheck)
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", handler.HealthCheck)

		r.Group(func(r chi.Router) {
			protected(r)
			r.Post("/fact-check", handler.FactCheck)

			if authEnabled {
				r.Get("/audit", handler.GetAuditLogs)

				r.Route("/admin", func(r chi.Router) {
					r.Post("/keys", handler.CreateAPIKey)
					r.Get("/keys", handler.ListAPIKeys)
					r.Delete("/keys/{id}", handler.DeleteAPIKey)
				})
			}
		})
	})

	return r
}
