package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crucial707/listing-admin/internal/models"
)

const listingColumns = `id, title, COALESCE(description, ''), make, model, year, price_per_day, location, COALESCE(image_url, ''), status, created_at, updated_at`

// ========================
// REPOSITORY STRUCT
// ========================

type ListingRepo struct {
	DB *sql.DB
}

func NewListingRepo(db *sql.DB) *ListingRepo {
	return &ListingRepo{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(s rowScanner) (*models.Listing, error) {
	l := &models.Listing{}
	err := s.Scan(
		&l.ID,
		&l.Title,
		&l.Description,
		&l.Make,
		&l.Model,
		&l.Year,
		&l.PricePerDay,
		&l.Location,
		&l.ImageURL,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	return l, err
}

// ========================
// CREATE LISTING
// ========================

func (r *ListingRepo) Create(ctx context.Context, f models.ListingFields, status models.ListingStatus) (*models.Listing, error) {
	row := r.DB.QueryRowContext(ctx,
		`INSERT INTO listings (title, description, make, model, year, price_per_day, location, image_url, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+listingColumns,
		f.Title, f.Description, f.Make, f.Model, f.Year, f.PricePerDay, f.Location, f.ImageURL, string(status),
	)
	return scanListing(row)
}

// ========================
// GET LISTING BY ID
// ========================

func (r *ListingRepo) GetByID(ctx context.Context, id int) (*models.Listing, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ========================
// LIST LISTINGS (newest first, optional status filter)
// ========================

func (r *ListingRepo) List(ctx context.Context, status models.ListingStatus) ([]models.Listing, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		rows, err = r.DB.QueryContext(ctx, `SELECT `+listingColumns+` FROM listings ORDER BY created_at DESC, id DESC`)
	} else {
		rows, err = r.DB.QueryContext(ctx,
			`SELECT `+listingColumns+` FROM listings WHERE status = $1 ORDER BY created_at DESC, id DESC`,
			string(status),
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []models.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

// ========================
// UPDATE LISTING FIELDS
// ========================

// Update overwrites every mutable field of the listing and refreshes updated_at.
// Status is left untouched.
func (r *ListingRepo) Update(ctx context.Context, id int, f models.ListingFields) (*models.Listing, error) {
	row := r.DB.QueryRowContext(ctx,
		`UPDATE listings SET
			title = $1,
			description = $2,
			make = $3,
			model = $4,
			year = $5,
			price_per_day = $6,
			location = $7,
			image_url = $8,
			updated_at = NOW()
		 WHERE id = $9
		 RETURNING `+listingColumns,
		f.Title, f.Description, f.Make, f.Model, f.Year, f.PricePerDay, f.Location, f.ImageURL, id,
	)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ========================
// STATUS TRANSITION
// ========================

// TransitionStatus moves the listing to status and appends exactly one audit entry
// recording the previous status, both in a single transaction. It returns the
// previous status. The row is not locked, so two concurrent transitions may both
// record the same old_status.
func (r *ListingRepo) TransitionStatus(ctx context.Context, id int, status models.ListingStatus, adminID int) (models.ListingStatus, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var old models.ListingStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM listings WHERE id = $1`, id).Scan(&old)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load status: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE listings SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), id,
	); err != nil {
		return "", fmt.Errorf("update status: %w", err)
	}

	entry := models.AuditEntry{
		ListingID: id,
		AdminID:   adminID,
		Action:    models.StatusChangeAction(status),
		OldStatus: old,
		NewStatus: status,
	}
	if err := insertAudit(ctx, tx, entry); err != nil {
		return "", fmt.Errorf("append audit entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return old, nil
}

// ========================
// COUNTS
// ========================

// Count returns the total number of listings.
func (r *ListingRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM listings").Scan(&n)
	return n, err
}

// CountByStatus returns the number of listings in each moderation state.
// States with no listings are reported as zero.
func (r *ListingRepo) CountByStatus(ctx context.Context) (map[models.ListingStatus]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM listings GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.ListingStatus]int, len(models.Statuses))
	for _, s := range models.Statuses {
		counts[s] = 0
	}
	for rows.Next() {
		var (
			s models.ListingStatus
			n int
		)
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[s] = n
	}
	return counts, rows.Err()
}
