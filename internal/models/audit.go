package models

import (
	"fmt"
	"time"
)

// AuditEntry represents one audit_logs row. Username is filled in by queries
// that join the acting admin.
type AuditEntry struct {
	ID        int           `json:"id"`
	ListingID int           `json:"listing_id"`
	AdminID   int           `json:"admin_id"`
	Action    string        `json:"action"`
	OldStatus ListingStatus `json:"old_status"`
	NewStatus ListingStatus `json:"new_status"`
	Timestamp time.Time     `json:"timestamp"`
	Username  string        `json:"username,omitempty"`
}

// StatusChangeAction returns the action tag recorded for a transition to s.
func StatusChangeAction(s ListingStatus) string {
	return fmt.Sprintf("status_changed_to_%s", s)
}
