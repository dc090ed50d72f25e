package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/crucial707/listing-admin/internal/auth"
	"github.com/crucial707/listing-admin/internal/config"
	"github.com/crucial707/listing-admin/internal/handlers"
	"github.com/crucial707/listing-admin/internal/middleware"
	"github.com/crucial707/listing-admin/internal/models"
	"github.com/crucial707/listing-admin/internal/repo"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// newRouter wires repos, handlers and middleware around a shared database handle.
func newRouter(db *sql.DB, cfg config.Config, lg *zap.SugaredLogger) http.Handler {
	userRepo := repo.NewUserRepo(db)
	listingRepo := repo.NewListingRepo(db)
	auditRepo := repo.NewAuditRepo(db)

	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), time.Duration(cfg.JWTExpireHours)*time.Hour)
	guard := &middleware.Guard{
		Tokens:             tokens,
		Users:              userRepo,
		RoleMismatchStatus: cfg.RoleMismatchStatus,
		Log:                lg,
	}

	authHandler := &handlers.AuthHandler{Users: userRepo, Tokens: tokens, Log: lg}
	listingHandler := &handlers.ListingHandler{Repo: listingRepo, Log: lg}
	auditHandler := &handlers.AuditHandler{Repo: auditRepo, Limit: cfg.AuditLimit, Log: lg}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// Forwarding headers are client-controlled unless a proxy rewrites them;
	// honouring them otherwise would hand every request its own rate-limit bucket.
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(
		middleware.Recoverer(lg),
		middleware.RequestLog(lg),
		middleware.Prometheus,
		middleware.SecurityHeaders(cfg.TLSEnabled()),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.MaxBytes(middleware.DefaultMaxBodyBytes),
	)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			lg.Warnw("readiness check failed", "error", err)
			handlers.JSONError(w, "Database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ready"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.With(middleware.LoginRateLimiter().Middleware).Post("/auth/login", authHandler.Login)

	r.Group(func(protected chi.Router) {
		protected.Use(guard.RequireUser)

		protected.Get("/auth/verify", authHandler.Verify)
		protected.Get("/listings", listingHandler.ListListings)
		protected.Get("/listings/{id}", listingHandler.GetListing)

		if cfg.AuditRequireAdmin {
			protected.With(guard.RequireRole(models.RoleAdmin)).Get("/audit", auditHandler.ListAudit)
		} else {
			protected.Get("/audit", auditHandler.ListAudit)
		}

		protected.Group(func(admin chi.Router) {
			admin.Use(guard.RequireRole(models.RoleAdmin))
			admin.Put("/listings/{id}", listingHandler.UpdateListing)
			admin.Post("/listings/{id}/status", listingHandler.UpdateStatus)
		})
	})

	return r
}
