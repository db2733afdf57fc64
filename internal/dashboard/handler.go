package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/caretap/staffing-platform/internal/identity"
	"github.com/caretap/staffing-platform/pkg/logging"
)

// Handler serves the clinic dashboard endpoints.
type Handler struct {
	repo   *StatsRepository
	logger *logging.Logger
}

func NewHandler(repo *StatsRepository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// GetClinicStats returns aggregated funnel metrics for a clinic.
// GET /clinics/{clinicID}/stats?start=...&end=... (RFC3339, both or neither)
func (h *Handler) GetClinicStats(w http.ResponseWriter, r *http.Request) {
	clinicID := chi.URLParam(r, "clinicID")
	if clinicID == "" {
		http.Error(w, `{"error": "clinic_id required"}`, http.StatusBadRequest)
		return
	}

	// A clinic may only read its own dashboard.
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok || actor.ID != clinicID {
		http.Error(w, `{"error": "forbidden"}`, http.StatusForbidden)
		return
	}

	var start, end *time.Time
	if s := r.URL.Query().Get("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, `{"error": "invalid start time, use RFC3339 format"}`, http.StatusBadRequest)
			return
		}
		start = &t
	}
	if e := r.URL.Query().Get("end"); e != "" {
		t, err := time.Parse(time.RFC3339, e)
		if err != nil {
			http.Error(w, `{"error": "invalid end time, use RFC3339 format"}`, http.StatusBadRequest)
			return
		}
		end = &t
	}
	if (start == nil) != (end == nil) {
		http.Error(w, `{"error": "both start and end must be provided, or neither"}`, http.StatusBadRequest)
		return
	}

	stats, err := h.repo.GetClinicStats(r.Context(), clinicID, start, end)
	if err != nil {
		h.logger.Error("failed to get clinic stats", "clinic_id", clinicID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		h.logger.Error("failed to encode clinic stats", "clinic_id", clinicID, "error", err)
	}
}
