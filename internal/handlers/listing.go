package handlers

import (
	"errors"
	"net/http"

	"github.com/crucial707/listing-admin/internal/metrics"
	"github.com/crucial707/listing-admin/internal/middleware"
	"github.com/crucial707/listing-admin/internal/models"
	"github.com/crucial707/listing-admin/internal/repo"
	"go.uber.org/zap"
)

type ListingHandler struct {
	Repo *repo.ListingRepo
	Log  *zap.SugaredLogger
}

type statusRequest struct {
	Status models.ListingStatus `json:"status" validate:"required,oneof=pending approved rejected"`
}

//
// ==========================
// List Listings
// ==========================
//

// ListListings returns all listings newest first, optionally filtered by ?status=.
func (h *ListingHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	status := models.ListingStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		JSONError(w, "Invalid status", http.StatusBadRequest)
		return
	}

	listings, err := h.Repo.List(r.Context(), status)
	if err != nil {
		h.Log.Errorw("list listings", "status", status, "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": listings})
}

//
// ==========================
// Get Listing By ID
// ==========================
//

func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		JSONError(w, "Invalid listing id", http.StatusBadRequest)
		return
	}

	listing, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, "get listing", id, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

//
// ==========================
// Update Listing
// ==========================
//

// UpdateListing overwrites every editable field. Status is not touched and no
// audit entry is written.
func (h *ListingHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		JSONError(w, "Invalid listing id", http.StatusBadRequest)
		return
	}

	var input models.ListingFields
	if !decodeJSON(w, r, &input) {
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "Invalid listing", validationFields(err), http.StatusBadRequest)
		return
	}

	listing, err := h.Repo.Update(r.Context(), id, input)
	if err != nil {
		h.writeRepoError(w, "update listing", id, err)
		return
	}

	if user, ok := middleware.UserFromContext(r.Context()); ok {
		h.Log.Infow("listing updated", "listing_id", id, "admin_id", user.ID)
	}
	writeJSON(w, http.StatusOK, listing)
}

//
// ==========================
// Update Status
// ==========================
//

// UpdateStatus moves a listing to a new moderation state and records the
// change in the audit log. Both happen or neither does.
func (h *ListingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		JSONError(w, "Invalid listing id", http.StatusBadRequest)
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		JSONError(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	var input statusRequest
	if !decodeJSON(w, r, &input) {
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "Invalid status", validationFields(err), http.StatusBadRequest)
		return
	}

	old, err := h.Repo.TransitionStatus(r.Context(), id, input.Status, user.ID)
	if err != nil {
		h.writeRepoError(w, "update status", id, err)
		return
	}

	metrics.IncStatusTransition(input.Status)
	h.Log.Infow("listing status changed",
		"listing_id", id,
		"admin_id", user.ID,
		"old_status", old,
		"new_status", input.Status)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *ListingHandler) writeRepoError(w http.ResponseWriter, op string, id int, err error) {
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "Listing not found", http.StatusNotFound)
		return
	}
	h.Log.Errorw(op, "listing_id", id, "error", err)
	JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
}
