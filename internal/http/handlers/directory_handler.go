package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/caretap/staffing-platform/internal/directory"
	"github.com/caretap/staffing-platform/internal/identity"
	"github.com/caretap/staffing-platform/pkg/logging"
)

// DirectoryHandler serves profile and job requirement management.
type DirectoryHandler struct {
	repo   directory.Repository
	logger *logging.Logger
}

func NewDirectoryHandler(repo directory.Repository, logger *logging.Logger) *DirectoryHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &DirectoryHandler{repo: repo, logger: logger}
}

// RegisterDoctor handles POST /doctors.
func (h *DirectoryHandler) RegisterDoctor(w http.ResponseWriter, r *http.Request) {
	var req directory.CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	doctor, err := h.repo.CreateDoctor(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	h.logger.Info("doctor registered", "doctor_id", doctor.ID)
	writeJSON(w, http.StatusCreated, doctor)
}

// RegisterClinic handles POST /clinics.
func (h *DirectoryHandler) RegisterClinic(w http.ResponseWriter, r *http.Request) {
	var req directory.CreateClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	clinic, err := h.repo.CreateClinic(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	h.logger.Info("clinic registered", "clinic_id", clinic.ID)
	writeJSON(w, http.StatusCreated, clinic)
}

// UpdateDoctor handles PUT /doctors/{doctorID}. Doctors edit only their
// own profile.
func (h *DirectoryHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok || actor.ID != doctorID {
		writeError(w, http.StatusForbidden, "forbidden", "only the doctor may edit this profile")
		return
	}

	var req directory.UpdateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	doctor, err := h.repo.UpdateDoctor(r.Context(), doctorID, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	h.logger.Info("doctor profile updated", "doctor_id", doctorID)
	writeJSON(w, http.StatusOK, doctor)
}

// UpdateClinic handles PUT /clinics/{clinicID}. Clinics edit only their
// own profile.
func (h *DirectoryHandler) UpdateClinic(w http.ResponseWriter, r *http.Request) {
	clinicID := chi.URLParam(r, "clinicID")
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok || actor.ID != clinicID {
		writeError(w, http.StatusForbidden, "forbidden", "only the clinic may edit this profile")
		return
	}

	var req directory.UpdateClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	clinic, err := h.repo.UpdateClinic(r.Context(), clinicID, &req)
	if err != nil {
		respondError(w, err)
		return
	}
	h.logger.Info("clinic profile updated", "clinic_id", clinicID)
	writeJSON(w, http.StatusOK, clinic)
}

// CreateJob handles POST /clinics/{clinicID}/jobs. Only the clinic itself
// may post requirements.
func (h *DirectoryHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	clinicID := chi.URLParam(r, "clinicID")
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok || actor.ID != clinicID {
		writeError(w, http.StatusForbidden, "forbidden", "only the clinic may post its requirements")
		return
	}

	var req directory.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	req.ClinicID = clinicID

	job, err := h.repo.CreateJob(r.Context(), &req)
	if err != nil {
		respondError(w, err)
		return
	}
	h.logger.Info("job posted", "job_id", job.ID, "clinic_id", clinicID)
	writeJSON(w, http.StatusCreated, job)
}

// GetJob handles GET /jobs/{jobID}.
func (h *DirectoryHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.repo.GetJob(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

type listJobsResponse struct {
	Jobs  []*directory.JobRequirement `json:"jobs"`
	Count int                         `json:"count"`
}

// ListClinicJobs handles GET /clinics/{clinicID}/jobs.
func (h *DirectoryHandler) ListClinicJobs(w http.ResponseWriter, r *http.Request) {
	clinicID := chi.URLParam(r, "clinicID")
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok || actor.ID != clinicID {
		writeError(w, http.StatusForbidden, "forbidden", "only the clinic may list its requirements")
		return
	}

	jobs, err := h.repo.ListJobsForClinic(r.Context(), clinicID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listJobsResponse{Jobs: jobs, Count: len(jobs)})
}

// CloseJob handles POST /jobs/{jobID}:close. Outstanding pitches keep
// their own lifecycle; closing only stops new applications.
func (h *DirectoryHandler) CloseJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "actor required")
		return
	}

	job, err := h.repo.GetJob(r.Context(), jobID)
	if err != nil {
		respondError(w, err)
		return
	}
	if job.ClinicID != actor.ID {
		writeError(w, http.StatusForbidden, "forbidden", "only the owning clinic may close a requirement")
		return
	}

	if err := h.repo.CloseJob(r.Context(), actor.ID, jobID); err != nil {
		respondError(w, err)
		return
	}
	h.logger.Info("job closed", "job_id", jobID, "clinic_id", actor.ID)
	w.WriteHeader(http.StatusNoContent)
}
