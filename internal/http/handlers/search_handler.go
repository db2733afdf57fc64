package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/caretap/staffing-platform/internal/geo"
	"github.com/caretap/staffing-platform/internal/identity"
	"github.com/caretap/staffing-platform/internal/search"
	"github.com/caretap/staffing-platform/pkg/logging"
)

// SearchHandler serves the discovery endpoints.
type SearchHandler struct {
	svc    *search.Service
	logger *logging.Logger
}

func NewSearchHandler(svc *search.Service, logger *logging.Logger) *SearchHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SearchHandler{svc: svc, logger: logger}
}

// SearchDoctors handles GET /search/doctors.
func (h *SearchHandler) SearchDoctors(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, search.KindDoctors)
}

// SearchClinics handles GET /search/clinics.
func (h *SearchHandler) SearchClinics(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, search.KindClinics)
}

// SearchJobs handles GET /search/jobs.
func (h *SearchHandler) SearchJobs(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, search.KindJobs)
}

func (h *SearchHandler) serve(w http.ResponseWriter, r *http.Request, kind search.Kind) {
	req, err := parseSearchRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	result, err := h.svc.Search(r.Context(), kind, req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func parseSearchRequest(r *http.Request) (search.Request, error) {
	q := r.URL.Query()
	req := search.Request{}

	if actor, ok := identity.ActorFromContext(r.Context()); ok {
		req.ActorID = actor.ID
		req.ActorKind = search.ActorKind(actor.Kind)
	}

	explicit, err := parseCoordinatePair(q.Get("lat"), q.Get("lng"))
	if err != nil {
		return req, err
	}
	req.Explicit = explicit

	device, err := parseCoordinatePair(q.Get("device_lat"), q.Get("device_lng"))
	if err != nil {
		return req, err
	}
	req.Device = device

	if raw := q.Get("radius_km"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, search.ErrInvalidRadius
		}
		req.RadiusKm = radius
	}

	req.Filters = search.Filters{
		Query:         q.Get("q"),
		VerifiedOnly:  q.Get("verified_only") == "true",
		HasActiveJobs: q.Get("has_active_jobs") == "true",
	}
	if raw := q.Get("specializations"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				req.Filters.Specializations = append(req.Filters.Specializations, s)
			}
		}
	}
	if raw := q.Get("min_experience"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			req.Filters.MinExperience = &v
		}
	}
	if raw := q.Get("max_experience"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			req.Filters.MaxExperience = &v
		}
	}

	if raw := q.Get("sort"); raw != "" {
		if strategy, ok := search.ParseStrategy(raw); ok {
			req.Sort = strategy
		}
	}
	return req, nil
}

// parseCoordinatePair returns nil when both parts are absent; a lone half
// or an out-of-range value is a validation error.
func parseCoordinatePair(latRaw, lngRaw string) (*geo.Coordinate, error) {
	if latRaw == "" && lngRaw == "" {
		return nil, nil
	}
	if latRaw == "" || lngRaw == "" {
		return nil, geo.ErrInvalidCoordinate
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil, geo.ErrInvalidCoordinate
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return nil, geo.ErrInvalidCoordinate
	}
	coord, err := geo.NewCoordinate(lat, lng)
	if err != nil {
		return nil, err
	}
	return &coord, nil
}
