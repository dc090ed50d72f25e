package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/crucial707/listing-admin/internal/config"
	_ "github.com/lib/pq"
)

// Connect opens the shared postgres handle and verifies it with a ping.
// The returned *sql.DB is owned by the caller and must be closed on shutdown.
func Connect(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
