package models

import "time"

// ListingStatus is the moderation state of a listing.
type ListingStatus string

const (
	StatusPending  ListingStatus = "pending"
	StatusApproved ListingStatus = "approved"
	StatusRejected ListingStatus = "rejected"
)

// Statuses lists every moderation state in display order.
var Statuses = []ListingStatus{StatusPending, StatusApproved, StatusRejected}

// Valid reports whether s is one of the known moderation states.
func (s ListingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Listing struct {
	ID          int           `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Make        string        `json:"make"`
	Model       string        `json:"model"`
	Year        int           `json:"year"`
	PricePerDay float64       `json:"price_per_day"`
	Location    string        `json:"location"`
	ImageURL    string        `json:"image_url"`
	Status      ListingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ListingFields holds the mutable, non-status fields of a listing.
// An edit overwrites all of them.
type ListingFields struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	Year        int     `json:"year" validate:"gte=0"`
	PricePerDay float64 `json:"price_per_day" validate:"gte=0"`
	Location    string  `json:"location"`
	ImageURL    string  `json:"image_url"`
}
