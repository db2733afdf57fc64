package dashboard

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClinicStatsAllTime(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\), COUNT\(\*\) FILTER \(WHERE open\) FROM job_requirements`).
		WithArgs("clinic-1").
		WillReturnRows(sqlmock.NewRows([]string{"count", "open"}).AddRow(5, 2))
	mock.ExpectQuery(`FROM pitches WHERE clinic_id = \$1`).
		WithArgs("clinic-1").
		WillReturnRows(sqlmock.NewRows([]string{"count", "pending", "accepted"}).AddRow(12, 4, 3))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM connections WHERE clinic_id = \$1`).
		WithArgs("clinic-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`FROM job_requirements WHERE clinic_id = \$1 AND open`).
		WithArgs("clinic-1").
		WillReturnRows(sqlmock.NewRows([]string{"specs"}).AddRow(pq.Array([]string{"DENTISTRY", "PEDIATRICS"})))

	repo := NewStatsRepository(db)
	stats, err := repo.GetClinicStats(context.Background(), "clinic-1", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.TotalJobs)
	assert.Equal(t, int64(2), stats.OpenJobs)
	assert.Equal(t, int64(12), stats.PitchesReceived)
	assert.Equal(t, int64(4), stats.PitchesPending)
	assert.Equal(t, int64(3), stats.PitchesAccepted)
	assert.Equal(t, int64(3), stats.Connections)
	assert.Equal(t, []string{"DENTISTRY", "PEDIATRICS"}, stats.OpenSpecializations)
	assert.Equal(t, "all-time", stats.PeriodStart)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClinicStatsWithPeriod(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM job_requirements`).
		WithArgs("clinic-1").
		WillReturnRows(sqlmock.NewRows([]string{"count", "open"}).AddRow(5, 2))
	mock.ExpectQuery(`FROM pitches WHERE clinic_id = \$1 AND created_at >= \$2 AND created_at < \$3`).
		WithArgs("clinic-1", start, end).
		WillReturnRows(sqlmock.NewRows([]string{"count", "pending", "accepted"}).AddRow(2, 1, 1))
	mock.ExpectQuery(`FROM connections WHERE clinic_id = \$1 AND connected_at >= \$2`).
		WithArgs("clinic-1", start, end).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`AND open`).
		WithArgs("clinic-1").
		WillReturnRows(sqlmock.NewRows([]string{"specs"}).AddRow(pq.Array([]string{})))

	repo := NewStatsRepository(db)
	stats, err := repo.GetClinicStats(context.Background(), "clinic-1", &start, &end)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.PitchesReceived)
	assert.Equal(t, []string{}, stats.OpenSpecializations)
	assert.Equal(t, start.Format(time.RFC3339), stats.PeriodStart)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClinicStatsQueryError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM job_requirements`).
		WithArgs("clinic-1").
		WillReturnError(assert.AnError)

	repo := NewStatsRepository(db)
	_, err = repo.GetClinicStats(context.Background(), "clinic-1", nil, nil)
	assert.Error(t, err)
}
