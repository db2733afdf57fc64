package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/caretap/staffing-platform/internal/directory"
	"github.com/caretap/staffing-platform/internal/geo"
	"github.com/caretap/staffing-platform/internal/pitch"
	"github.com/caretap/staffing-platform/internal/search"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// respondError maps domain errors onto HTTP statuses and reason codes.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pitch.ErrDuplicateActive):
		writeError(w, http.StatusConflict, "duplicate_active_application", err.Error())
	case errors.Is(err, pitch.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, pitch.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, pitch.ErrJobClosed):
		writeError(w, http.StatusConflict, "job_closed", err.Error())
	case errors.Is(err, pitch.ErrNotFound),
		errors.Is(err, directory.ErrDoctorNotFound),
		errors.Is(err, directory.ErrClinicNotFound),
		errors.Is(err, directory.ErrJobNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, search.ErrLocationUnavailable):
		writeError(w, http.StatusUnprocessableEntity, "location_unavailable", err.Error())
	case errors.Is(err, search.ErrInvalidRadius),
		errors.Is(err, pitch.ErrEmptyMessage),
		errors.Is(err, geo.ErrInvalidCoordinate),
		errors.Is(err, directory.ErrMissingID),
		errors.Is(err, directory.ErrMissingName),
		errors.Is(err, directory.ErrMissingTitle),
		errors.Is(err, directory.ErrInvalidJobType),
		errors.Is(err, directory.ErrInvalidExperience),
		errors.Is(err, directory.ErrPartialCoordinate),
		errors.Is(err, directory.ErrAlreadyExists):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
