package directory

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresCreateDoctor(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO doctors").
		WithArgs("doc-1", "Dr. Mehta", "DENTISTRY", 8, "Karol Bagh, Delhi", floatPtr(28.6519), floatPtr(77.1909), EntityStatusActive).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	doctor, err := repo.CreateDoctor(context.Background(), &CreateDoctorRequest{
		ID:              "doc-1",
		Name:            "Dr. Mehta",
		Specialization:  "DENTISTRY",
		ExperienceYears: 8,
		Address:         "Karol Bagh, Delhi",
		Latitude:        floatPtr(28.6519),
		Longitude:       floatPtr(77.1909),
	})
	require.NoError(t, err)
	assert.Equal(t, now, doctor.CreatedAt)
	require.NotNil(t, doctor.Location)
	assert.Equal(t, 28.6519, doctor.Location.Latitude)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateDoctor(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery("UPDATE doctors").
		WithArgs("doc-1", "Dr. Mehta", "ORTHOPEDICS", 9, "Hauz Khas, Delhi", (*float64)(nil), (*float64)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"status", "created_at"}).AddRow(EntityStatusActive, now))

	doctor, err := repo.UpdateDoctor(context.Background(), "doc-1", &UpdateDoctorRequest{
		Name:            "Dr. Mehta",
		Specialization:  "ORTHOPEDICS",
		ExperienceYears: 9,
		Address:         "Hauz Khas, Delhi",
	})
	require.NoError(t, err)
	assert.Equal(t, SpecializationOrthopedics, doctor.Specialization)
	assert.Nil(t, doctor.Location)
	assert.Equal(t, now, doctor.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateClinicNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)

	mock.ExpectQuery("UPDATE clinics").
		WithArgs("ghost", "Ghost Clinic", "", "", "", (*float64)(nil), (*float64)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"verified", "status", "created_at"}))

	_, err = repo.UpdateClinic(context.Background(), "ghost", &UpdateClinicRequest{Name: "Ghost Clinic"})
	assert.ErrorIs(t, err, ErrClinicNotFound)
}

func TestPostgresGetDoctorNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM doctors").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "specialization", "experience_years", "address",
			"latitude", "longitude", "status", "created_at",
		}))

	_, err = repo.GetDoctor(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestPostgresListClinicsScansOpenJobs(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "name", "owner_name", "owner_contact", "address", "latitude", "longitude",
		"verified", "status", "created_at", "open_jobs",
	}).AddRow("clinic-1", "City Care", "A. Gupta", "+911112223334", "CP, Delhi",
		floatPtr(28.6139), floatPtr(77.2090), true, EntityStatus("ACTIVE"), now, 2).
		AddRow("clinic-2", "Smile Dental", "R. Shah", "+919998887776", "Saket, Delhi",
			(*float64)(nil), (*float64)(nil), false, EntityStatus("ACTIVE"), now, 0)

	mock.ExpectQuery("SELECT (.+) FROM clinics c").WillReturnRows(rows)

	clinics, err := repo.ListClinics(context.Background())
	require.NoError(t, err)
	require.Len(t, clinics, 2)
	assert.Equal(t, 2, clinics[0].OpenJobs)
	assert.True(t, clinics[0].Verified)
	require.NotNil(t, clinics[0].Location)
	assert.Nil(t, clinics[1].Location)
}

func TestPostgresCloseJob(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)

	mock.ExpectExec("UPDATE job_requirements").
		WithArgs("job-1", "clinic-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.CloseJob(context.Background(), "clinic-1", "job-1"))

	mock.ExpectExec("UPDATE job_requirements").
		WithArgs("job-2", "clinic-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	err = repo.CloseJob(context.Background(), "clinic-1", "job-2")
	assert.ErrorIs(t, err, ErrJobNotFound)
}
