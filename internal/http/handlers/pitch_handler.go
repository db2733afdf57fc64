package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caretap/staffing-platform/internal/connection"
	"github.com/caretap/staffing-platform/internal/identity"
	"github.com/caretap/staffing-platform/internal/pitch"
	"github.com/caretap/staffing-platform/pkg/logging"
)

// PitchHandler serves the application lifecycle endpoints.
type PitchHandler struct {
	svc    *pitch.Service
	logger *logging.Logger
}

func NewPitchHandler(svc *pitch.Service, logger *logging.Logger) *PitchHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PitchHandler{svc: svc, logger: logger}
}

type createPitchRequest struct {
	Message string `json:"message"`
}

// Create handles POST /jobs/{jobID}/pitches. The acting doctor comes
// from the identity middleware.
func (h *PitchHandler) Create(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "actor required")
		return
	}

	var req createPitchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	p, err := h.svc.Create(r.Context(), actor.ID, jobID, req.Message)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

type acceptPitchResponse struct {
	Pitch      *pitch.Pitch           `json:"pitch"`
	Connection *connection.Connection `json:"connection"`
}

// Accept handles POST /pitches/{pitchID}:accept.
func (h *PitchHandler) Accept(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "actor required")
		return
	}

	p, conn, err := h.svc.Accept(r.Context(), chi.URLParam(r, "pitchID"), actor.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acceptPitchResponse{Pitch: p, Connection: conn})
}

// Reject handles POST /pitches/{pitchID}:reject.
func (h *PitchHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "actor required")
		return
	}

	p, err := h.svc.Reject(r.Context(), chi.URLParam(r, "pitchID"), actor.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Withdraw handles POST /pitches/{pitchID}:withdraw.
func (h *PitchHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "actor required")
		return
	}

	p, err := h.svc.Withdraw(r.Context(), chi.URLParam(r, "pitchID"), actor.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Get handles GET /pitches/{pitchID}, visible to either participant.
func (h *PitchHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "actor required")
		return
	}

	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "pitchID"), actor.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type listPitchesResponse struct {
	Pitches []*pitch.Pitch `json:"pitches"`
	Count   int            `json:"count"`
}

// ListMine handles GET /pitches, the acting doctor's applications.
func (h *PitchHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "actor required")
		return
	}

	pitches, err := h.svc.ListForDoctor(r.Context(), actor.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listPitchesResponse{Pitches: pitches, Count: len(pitches)})
}

// ListForJob handles GET /jobs/{jobID}/pitches, owner-only.
func (h *PitchHandler) ListForJob(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "actor required")
		return
	}

	pitches, err := h.svc.ListForJob(r.Context(), chi.URLParam(r, "jobID"), actor.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listPitchesResponse{Pitches: pitches, Count: len(pitches)})
}
