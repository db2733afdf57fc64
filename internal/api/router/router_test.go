package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caretap/staffing-platform/internal/connection"
	"github.com/caretap/staffing-platform/internal/directory"
	"github.com/caretap/staffing-platform/internal/http/handlers"
	"github.com/caretap/staffing-platform/internal/pitch"
	"github.com/caretap/staffing-platform/internal/search"
	"github.com/caretap/staffing-platform/pkg/logging"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := logging.Default()

	dir := directory.NewInMemoryRepository()
	registry := connection.NewMemoryRegistry()
	store := pitch.NewMemoryStore(registry, dir)
	pitchSvc := pitch.NewService(store, dir, logger, nil)
	searchSvc := search.NewService(dir, search.NoopCache{}, logger, nil, search.Options{})

	return New(&Config{
		Logger:            logger,
		DirectoryHandler:  handlers.NewDirectoryHandler(dir, logger),
		SearchHandler:     handlers.NewSearchHandler(searchSvc, logger),
		PitchHandler:      handlers.NewPitchHandler(pitchSvc, logger),
		ConnectionHandler: handlers.NewConnectionHandler(registry, logger),
	})
}

func do(t *testing.T, router http.Handler, method, path, actorID, actorKind, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if actorID != "" {
		req.Header.Set("X-Actor-Id", actorID)
		req.Header.Set("X-Actor-Kind", actorKind)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndUnauthenticated(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/health", "", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Actor-scoped routes reject anonymous requests.
	rec = do(t, router, http.MethodGet, "/search/jobs", "", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEndToEndHiringFlow(t *testing.T) {
	router := newTestRouter(t)

	// Register both sides of the marketplace.
	rec := do(t, router, http.MethodPost, "/clinics", "", "",
		`{"id":"clinic-1","name":"City Care","latitude":12.9719,"longitude":77.6412}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodPost, "/doctors", "", "",
		`{"id":"doc-1","name":"Asha Rao","specialization":"DENTISTRY","experience_years":8,"latitude":12.9758,"longitude":77.6045}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Clinic posts a requirement.
	rec = do(t, router, http.MethodPost, "/clinics/clinic-1/jobs", "clinic-1", "clinic",
		`{"title":"Weekend dentist","type":"PARTTIME","specialization":"DENTISTRY","latitude":12.9719,"longitude":77.6412}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var job struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))

	// Doctor discovers it from their profile location.
	rec = do(t, router, http.MethodGet, "/search/jobs?radius_km=25", "doc-1", "doctor", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var result search.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, job.ID, result.Candidates[0].ID)

	// Doctor pitches.
	rec = do(t, router, http.MethodPost, "/jobs/"+job.ID+"/pitches", "doc-1", "doctor",
		`{"message":"Available weekends"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created pitch.Pitch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, pitch.StatusPending, created.Status)

	// A second pitch against the same job is rejected as a duplicate.
	rec = do(t, router, http.MethodPost, "/jobs/"+job.ID+"/pitches", "doc-1", "doctor",
		`{"message":"Still available"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Another clinic cannot decide it.
	rec = do(t, router, http.MethodPost, "/pitches/"+created.ID+":accept", "clinic-2", "clinic", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The owner accepts, which creates the connection.
	rec = do(t, router, http.MethodPost, "/pitches/"+created.ID+":accept", "clinic-1", "clinic", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var accepted struct {
		Pitch      pitch.Pitch           `json:"pitch"`
		Connection connection.Connection `json:"connection"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))
	assert.Equal(t, pitch.StatusAccepted, accepted.Pitch.Status)
	assert.Equal(t, created.ID, accepted.Connection.PitchID)

	// A decided pitch cannot be decided again.
	rec = do(t, router, http.MethodPost, "/pitches/"+created.ID+":reject", "clinic-1", "clinic", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Both sides see the connection.
	rec = do(t, router, http.MethodGet, "/doctors/doc-1/connections", "doc-1", "doctor", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, router, http.MethodGet, "/clinics/clinic-1/connections", "clinic-1", "clinic", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// The chat gate opens for the connected triple.
	rec = do(t, router, http.MethodGet,
		"/connections/eligibility?doctor_id=doc-1&clinic_id=clinic-1&job_id="+job.ID, "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var gate struct {
		Connected  bool `json:"connected"`
		CanMessage bool `json:"can_message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gate))
	assert.True(t, gate.Connected)
	assert.True(t, gate.CanMessage)

	// A completed engagement blocks chat even while connected.
	rec = do(t, router, http.MethodGet,
		"/connections/eligibility?doctor_id=doc-1&clinic_id=clinic-1&job_id="+job.ID+"&patient_status=COMPLETED", "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gate))
	assert.True(t, gate.Connected)
	assert.False(t, gate.CanMessage)
}

func TestSearchWithoutAnyLocationIs422(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/doctors", "", "",
		`{"id":"doc-1","name":"No Location"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodGet, "/search/jobs", "doc-1", "doctor", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestJobCloseStopsNewPitches(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/clinics", "", "", `{"id":"clinic-1","name":"City Care"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, router, http.MethodPost, "/clinics/clinic-1/jobs", "clinic-1", "clinic",
		`{"title":"Locum","type":"ONETIME"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var job struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))

	// A stranger cannot close it.
	rec = do(t, router, http.MethodPost, "/jobs/"+job.ID+":close", "clinic-2", "clinic", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodPost, "/jobs/"+job.ID+":close", "clinic-1", "clinic", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodPost, "/jobs/"+job.ID+"/pitches", "doc-1", "doctor",
		`{"message":"Too late"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProfileUpdateIsOwnerOnly(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/doctors", "", "",
		`{"id":"doc-1","name":"Dr. Mehta","specialization":"DENTISTRY","experience_years":8}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodPut, "/doctors/doc-1", "doc-2", "doctor",
		`{"name":"Dr. Impostor"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodPut, "/doctors/doc-1", "doc-1", "doctor",
		`{"name":"Dr. Mehta","specialization":"ORTHOPEDICS","experience_years":9,"latitude":12.9758,"longitude":77.6045}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var doctor struct {
		Specialization string `json:"specialization"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doctor))
	assert.Equal(t, "ORTHOPEDICS", doctor.Specialization)

	// The new coordinate now feeds profile-based search.
	rec = do(t, router, http.MethodGet, "/search/jobs", "doc-1", "doctor", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
