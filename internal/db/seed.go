package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/crucial707/listing-admin/internal/models"
	"github.com/crucial707/listing-admin/internal/repo"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// SeedOptions controls what Seed inserts into an empty database.
type SeedOptions struct {
	AdminUsername  string
	AdminPassword  string
	SampleListings bool
}

type sampleListing struct {
	fields models.ListingFields
	status models.ListingStatus
}

var sampleListings = []sampleListing{
	{models.ListingFields{
		Title:       "Toyota Camry 2022 - Reliable & Comfortable",
		Description: "Perfect for city drives and long trips. Clean interior, excellent fuel economy.",
		Make:        "Toyota", Model: "Camry", Year: 2022, PricePerDay: 45.00, Location: "Downtown",
		ImageURL: "https://via.placeholder.com/300x200?text=Toyota+Camry",
	}, models.StatusPending},
	{models.ListingFields{
		Title:       "Honda Accord 2021 - Premium Sedan",
		Description: "Spacious sedan with advanced safety features and premium interior.",
		Make:        "Honda", Model: "Accord", Year: 2021, PricePerDay: 50.00, Location: "Airport",
		ImageURL: "https://via.placeholder.com/300x200?text=Honda+Accord",
	}, models.StatusApproved},
	{models.ListingFields{
		Title:       "Ford Mustang 2023 - Sports Car",
		Description: "Experience the thrill of driving a classic American muscle car.",
		Make:        "Ford", Model: "Mustang", Year: 2023, PricePerDay: 85.00, Location: "City Center",
		ImageURL: "https://via.placeholder.com/300x200?text=Ford+Mustang",
	}, models.StatusRejected},
	{models.ListingFields{
		Title:       "Tesla Model 3 2023 - Electric Luxury",
		Description: "Eco-friendly electric vehicle with cutting-edge technology.",
		Make:        "Tesla", Model: "Model 3", Year: 2023, PricePerDay: 75.00, Location: "Tech District",
		ImageURL: "https://via.placeholder.com/300x200?text=Tesla+Model+3",
	}, models.StatusPending},
	{models.ListingFields{
		Title:       "BMW X5 2022 - Luxury SUV",
		Description: "Premium SUV perfect for family trips and business travel.",
		Make:        "BMW", Model: "X5", Year: 2022, PricePerDay: 95.00, Location: "Uptown",
		ImageURL: "https://via.placeholder.com/300x200?text=BMW+X5",
	}, models.StatusApproved},
}

// Seed creates the bootstrap admin when it is missing and, if enabled,
// inserts the sample listings when the listings table is empty.
func Seed(ctx context.Context, users *repo.UserRepo, listings *repo.ListingRepo, opts SeedOptions, lg *zap.SugaredLogger) error {
	if opts.AdminUsername != "" {
		if err := seedAdmin(ctx, users, opts, lg); err != nil {
			return err
		}
	}

	if !opts.SampleListings {
		return nil
	}
	n, err := listings.Count(ctx)
	if err != nil {
		return fmt.Errorf("count listings: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, s := range sampleListings {
		if _, err := listings.Create(ctx, s.fields, s.status); err != nil {
			return fmt.Errorf("seed listing %q: %w", s.fields.Title, err)
		}
	}
	lg.Infow("seeded sample listings", "count", len(sampleListings))
	return nil
}

func seedAdmin(ctx context.Context, users *repo.UserRepo, opts SeedOptions, lg *zap.SugaredLogger) error {
	_, err := users.GetByUsername(ctx, opts.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	if _, err := users.Create(ctx, opts.AdminUsername, opts.AdminPassword, models.RoleAdmin); err != nil {
		// Another instance seeded it first.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}
	lg.Infow("seeded default admin", "username", opts.AdminUsername)
	return nil
}
