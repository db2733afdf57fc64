package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caretap/staffing-platform/internal/connection"
	"github.com/caretap/staffing-platform/internal/identity"
	"github.com/caretap/staffing-platform/pkg/logging"
)

// ConnectionHandler serves connection listings and the chat-gate check.
type ConnectionHandler struct {
	registry connection.Registry
	logger   *logging.Logger
}

func NewConnectionHandler(registry connection.Registry, logger *logging.Logger) *ConnectionHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ConnectionHandler{registry: registry, logger: logger}
}

type listConnectionsResponse struct {
	Connections []*connection.Connection `json:"connections"`
	Count       int                      `json:"count"`
}

// ListForDoctor handles GET /doctors/{doctorID}/connections. Doctors may
// only list their own.
func (h *ConnectionHandler) ListForDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok || actor.ID != doctorID {
		writeError(w, http.StatusForbidden, "forbidden", "connections are private to their owner")
		return
	}

	conns, err := h.registry.ListForDoctor(r.Context(), doctorID)
	if err != nil {
		h.logger.Error("failed to list doctor connections", "doctor_id", doctorID, "error", err)
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listConnectionsResponse{Connections: conns, Count: len(conns)})
}

// ListForClinic handles GET /clinics/{clinicID}/connections.
func (h *ConnectionHandler) ListForClinic(w http.ResponseWriter, r *http.Request) {
	clinicID := chi.URLParam(r, "clinicID")
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok || actor.ID != clinicID {
		writeError(w, http.StatusForbidden, "forbidden", "connections are private to their owner")
		return
	}

	conns, err := h.registry.ListForClinic(r.Context(), clinicID)
	if err != nil {
		h.logger.Error("failed to list clinic connections", "clinic_id", clinicID, "error", err)
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listConnectionsResponse{Connections: conns, Count: len(conns)})
}

type eligibilityResponse struct {
	Connected  bool `json:"connected"`
	CanMessage bool `json:"can_message"`
}

// Eligibility handles GET /connections/eligibility. The messaging
// collaborator calls this before opening a chat thread.
// Query params: doctor_id, clinic_id, job_id, patient_status (optional).
func (h *ConnectionHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	doctorID, clinicID, jobID := q.Get("doctor_id"), q.Get("clinic_id"), q.Get("job_id")
	if doctorID == "" || clinicID == "" || jobID == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "doctor_id, clinic_id and job_id are required")
		return
	}

	status := connection.PatientStatus(q.Get("patient_status"))
	if status == "" {
		status = connection.PatientStatusActive
	}

	connected, err := h.registry.IsConnected(r.Context(), doctorID, clinicID, jobID)
	if err != nil {
		h.logger.Error("eligibility check failed", "doctor_id", doctorID, "clinic_id", clinicID, "error", err)
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eligibilityResponse{
		Connected:  connected,
		CanMessage: connection.CanMessage(connected, status),
	})
}
