package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crucial707/listing-admin/internal/config"
	"github.com/crucial707/listing-admin/internal/db"
	"github.com/crucial707/listing-admin/internal/logger"
	"github.com/crucial707/listing-admin/internal/repo"
	"github.com/crucial707/listing-admin/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	lg := logger.New(cfg.LogFormat, cfg.LogLevel)
	defer lg.Sync()
	if err != nil {
		lg.Fatalw("invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database FIRST
	database, err := db.Connect(ctx, cfg)
	if err != nil {
		lg.Fatalw("failed to connect to database", "host", cfg.DBHost, "db", cfg.DBName, "error", err)
	}
	defer database.Close()
	lg.Infow("connected to database", "host", cfg.DBHost, "db", cfg.DBName)

	version, err := db.Migrate(cfg.DatabaseURL())
	if err != nil {
		lg.Fatalw("migrations failed", "error", err)
	}
	lg.Infow("schema up to date", "version", version)

	listingRepo := repo.NewListingRepo(database)
	seedOpts := db.SeedOptions{
		AdminUsername:  cfg.SeedAdminUsername,
		AdminPassword:  cfg.SeedAdminPassword,
		SampleListings: cfg.SeedSampleListings,
	}
	if err := db.Seed(ctx, repo.NewUserRepo(database), listingRepo, seedOpts, lg); err != nil {
		lg.Fatalw("seed failed", "error", err)
	}

	if cfg.BacklogCron != "" {
		c, err := scheduler.StartBacklog(cfg.BacklogCron, listingRepo, lg)
		if err != nil {
			lg.Fatalw("backlog scheduler", "spec", cfg.BacklogCron, "error", err)
		}
		defer func() { <-c.Stop().Done() }()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(database, cfg, lg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server LAST
	errCh := make(chan error, 1)
	go func() {
		lg.Infow("listening", "port", cfg.Port, "tls", cfg.TLSEnabled(), "env", cfg.Env)
		if cfg.TLSEnabled() {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			lg.Errorw("server stopped", "error", err)
		}
	case <-ctx.Done():
		lg.Infow("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Errorw("graceful shutdown failed", "error", err)
		}
	}
}
