package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caretap/staffing-platform/internal/identity"
	"github.com/caretap/staffing-platform/pkg/logging"
)

func newDashboardRouter(t *testing.T, mock func(sqlmock.Sqlmock)) http.Handler {
	t.Helper()
	db, m, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	if mock != nil {
		mock(m)
	}

	h := NewHandler(NewStatsRepository(db), logging.Default())
	r := chi.NewRouter()
	r.Get("/clinics/{clinicID}/stats", h.GetClinicStats)
	return r
}

func statsRequest(clinicID, actorID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/clinics/"+clinicID+"/stats", nil)
	return req.WithContext(identity.WithActor(req.Context(), identity.Actor{ID: actorID, Kind: "clinic"}))
}

func TestHandlerGetClinicStats(t *testing.T) {
	router := newDashboardRouter(t, func(m sqlmock.Sqlmock) {
		m.ExpectQuery(`FROM job_requirements`).
			WillReturnRows(sqlmock.NewRows([]string{"count", "open"}).AddRow(4, 1))
		m.ExpectQuery(`FROM pitches`).
			WillReturnRows(sqlmock.NewRows([]string{"count", "pending", "accepted"}).AddRow(6, 2, 1))
		m.ExpectQuery(`FROM connections`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		m.ExpectQuery(`AND open`).
			WillReturnRows(sqlmock.NewRows([]string{"specs"}).AddRow(pq.Array([]string{"DENTISTRY"})))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, statsRequest("clinic-1", "clinic-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	var stats ClinicStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, "clinic-1", stats.ClinicID)
	assert.Equal(t, int64(6), stats.PitchesReceived)
}

func TestHandlerForbidsOtherClinics(t *testing.T) {
	router := newDashboardRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, statsRequest("clinic-1", "clinic-2"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandlerRejectsHalfOpenPeriod(t *testing.T) {
	router := newDashboardRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/clinics/clinic-1/stats?start=2026-08-01T00:00:00Z", nil)
	req = req.WithContext(identity.WithActor(req.Context(), identity.Actor{ID: "clinic-1", Kind: "clinic"}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
