package handlers

import (
	"net/http"

	"github.com/crucial707/listing-admin/internal/repo"
	"go.uber.org/zap"
)

// DefaultAuditLimit caps GET /audit when no limit is configured.
const DefaultAuditLimit = 100

// AuditHandler serves the audit trail.
type AuditHandler struct {
	Repo  *repo.AuditRepo
	Limit int
	Log   *zap.SugaredLogger
}

// ListAudit returns the most recent audit entries, newest first.
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	limit := h.Limit
	if limit <= 0 {
		limit = DefaultAuditLimit
	}

	entries, err := h.Repo.List(r.Context(), limit)
	if err != nil {
		h.Log.Errorw("list audit", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": entries})
}
