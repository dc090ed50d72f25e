package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/listing-admin/internal/models"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// AuditRepo persists audit log entries. Entries are never updated or deleted.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo returns a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func insertAudit(ctx context.Context, ex execer, e models.AuditEntry) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO audit_logs (listing_id, admin_id, action, old_status, new_status) VALUES ($1, $2, $3, $4, $5)`,
		e.ListingID, e.AdminID, e.Action, string(e.OldStatus), string(e.NewStatus),
	)
	return err
}

// List returns at most limit entries joined with the acting admin's username, newest first.
func (r *AuditRepo) List(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.id, a.listing_id, a.admin_id, a.action, COALESCE(a.old_status, ''), COALESCE(a.new_status, ''), a.timestamp, u.username
		 FROM audit_logs a
		 JOIN users u ON u.id = a.admin_id
		 ORDER BY a.timestamp DESC, a.id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.ListingID, &e.AdminID, &e.Action, &e.OldStatus, &e.NewStatus, &e.Timestamp, &e.Username); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
