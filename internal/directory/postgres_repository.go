package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/caretap/staffing-platform/internal/geo"
)

// Querier is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores profiles and jobs in the relational database.
type PostgresRepository struct {
	pool Querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool Querier) *PostgresRepository {
	if pool == nil {
		panic("directory: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// CreateDoctor inserts a doctor profile row.
func (r *PostgresRepository) CreateDoctor(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	loc, _ := coordinateFrom(req.Latitude, req.Longitude)

	query := `
		INSERT INTO doctors (id, name, specialization, experience_years, address, latitude, longitude, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		req.ID,
		req.Name,
		req.Specialization,
		req.ExperienceYears,
		req.Address,
		req.Latitude,
		req.Longitude,
		EntityStatusActive,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("directory: insert doctor: %w", err)
	}

	return &Doctor{
		ID:              req.ID,
		Name:            req.Name,
		Specialization:  Specialization(req.Specialization),
		ExperienceYears: req.ExperienceYears,
		Address:         req.Address,
		Location:        loc,
		Status:          EntityStatusActive,
		CreatedAt:       createdAt,
	}, nil
}

// UpdateDoctor replaces the mutable fields of a doctor row.
func (r *PostgresRepository) UpdateDoctor(ctx context.Context, id string, req *UpdateDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	loc, _ := coordinateFrom(req.Latitude, req.Longitude)

	query := `
		UPDATE doctors
		SET name = $2, specialization = $3, experience_years = $4, address = $5, latitude = $6, longitude = $7
		WHERE id = $1
		RETURNING status, created_at
	`
	var (
		status    EntityStatus
		createdAt time.Time
	)
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.Name,
		req.Specialization,
		req.ExperienceYears,
		req.Address,
		req.Latitude,
		req.Longitude,
	).Scan(&status, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("directory: update doctor: %w", err)
	}

	return &Doctor{
		ID:              id,
		Name:            req.Name,
		Specialization:  Specialization(req.Specialization),
		ExperienceYears: req.ExperienceYears,
		Address:         req.Address,
		Location:        loc,
		Status:          status,
		CreatedAt:       createdAt,
	}, nil
}

// GetDoctor fetches a doctor profile.
func (r *PostgresRepository) GetDoctor(ctx context.Context, id string) (*Doctor, error) {
	query := `
		SELECT id, name, specialization, experience_years, address, latitude, longitude, status, created_at
		FROM doctors
		WHERE id = $1
	`
	doctor, err := scanDoctor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("directory: select doctor: %w", err)
	}
	return doctor, nil
}

// ListDoctors returns active doctor profiles.
func (r *PostgresRepository) ListDoctors(ctx context.Context) ([]*Doctor, error) {
	query := `
		SELECT id, name, specialization, experience_years, address, latitude, longitude, status, created_at
		FROM doctors
		WHERE status = 'ACTIVE'
		ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("directory: list doctors: %w", err)
	}
	defer rows.Close()

	var out []*Doctor
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("directory: scan doctor: %w", err)
		}
		out = append(out, doctor)
	}
	return out, rows.Err()
}

// CreateClinic inserts a clinic profile row.
func (r *PostgresRepository) CreateClinic(ctx context.Context, req *CreateClinicRequest) (*Clinic, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	loc, _ := coordinateFrom(req.Latitude, req.Longitude)

	query := `
		INSERT INTO clinics (id, name, owner_name, owner_contact, address, latitude, longitude, verified, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		req.ID,
		req.Name,
		req.OwnerName,
		req.OwnerContact,
		req.Address,
		req.Latitude,
		req.Longitude,
		EntityStatusActive,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("directory: insert clinic: %w", err)
	}

	return &Clinic{
		ID:           req.ID,
		Name:         req.Name,
		OwnerName:    req.OwnerName,
		OwnerContact: req.OwnerContact,
		Address:      req.Address,
		Location:     loc,
		Status:       EntityStatusActive,
		CreatedAt:    createdAt,
	}, nil
}

// UpdateClinic replaces the mutable fields of a clinic row. Verification
// stays whatever the back office set it to.
func (r *PostgresRepository) UpdateClinic(ctx context.Context, id string, req *UpdateClinicRequest) (*Clinic, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	loc, _ := coordinateFrom(req.Latitude, req.Longitude)

	query := `
		UPDATE clinics
		SET name = $2, owner_name = $3, owner_contact = $4, address = $5, latitude = $6, longitude = $7
		WHERE id = $1
		RETURNING verified, status, created_at
	`
	var (
		verified  bool
		status    EntityStatus
		createdAt time.Time
	)
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.Name,
		req.OwnerName,
		req.OwnerContact,
		req.Address,
		req.Latitude,
		req.Longitude,
	).Scan(&verified, &status, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClinicNotFound
		}
		return nil, fmt.Errorf("directory: update clinic: %w", err)
	}

	return &Clinic{
		ID:           id,
		Name:         req.Name,
		OwnerName:    req.OwnerName,
		OwnerContact: req.OwnerContact,
		Address:      req.Address,
		Location:     loc,
		Verified:     verified,
		Status:       status,
		CreatedAt:    createdAt,
	}, nil
}

// GetClinic fetches a clinic profile with its open-job count.
func (r *PostgresRepository) GetClinic(ctx context.Context, id string) (*Clinic, error) {
	query := `
		SELECT c.id, c.name, c.owner_name, c.owner_contact, c.address, c.latitude, c.longitude,
		       c.verified, c.status, c.created_at,
		       (SELECT count(*) FROM job_requirements j WHERE j.clinic_id = c.id AND j.open) AS open_jobs
		FROM clinics c
		WHERE c.id = $1
	`
	clinic, err := scanClinic(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClinicNotFound
		}
		return nil, fmt.Errorf("directory: select clinic: %w", err)
	}
	return clinic, nil
}

// ListClinics returns active clinics with open-job counts.
func (r *PostgresRepository) ListClinics(ctx context.Context) ([]*Clinic, error) {
	query := `
		SELECT c.id, c.name, c.owner_name, c.owner_contact, c.address, c.latitude, c.longitude,
		       c.verified, c.status, c.created_at,
		       (SELECT count(*) FROM job_requirements j WHERE j.clinic_id = c.id AND j.open) AS open_jobs
		FROM clinics c
		WHERE c.status = 'ACTIVE'
		ORDER BY c.created_at, c.id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("directory: list clinics: %w", err)
	}
	defer rows.Close()

	var out []*Clinic
	for rows.Next() {
		clinic, err := scanClinic(rows)
		if err != nil {
			return nil, fmt.Errorf("directory: scan clinic: %w", err)
		}
		out = append(out, clinic)
	}
	return out, rows.Err()
}

// CreateJob inserts a job requirement row.
func (r *PostgresRepository) CreateJob(ctx context.Context, req *CreateJobRequest) (*JobRequirement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	loc, _ := coordinateFrom(req.Latitude, req.Longitude)

	id := uuid.New().String()
	query := `
		INSERT INTO job_requirements
			(id, clinic_id, title, description, type, specialization, address, latitude, longitude,
			 target_date, additional_info, open)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.ClinicID,
		req.Title,
		req.Description,
		req.Type,
		req.Specialization,
		req.Address,
		req.Latitude,
		req.Longitude,
		req.TargetDate,
		req.AdditionalInfo,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("directory: insert job: %w", err)
	}

	return &JobRequirement{
		ID:             id,
		ClinicID:       req.ClinicID,
		Title:          req.Title,
		Description:    req.Description,
		Type:           JobType(req.Type),
		Specialization: Specialization(req.Specialization),
		Address:        req.Address,
		Location:       loc,
		TargetDate:     req.TargetDate,
		AdditionalInfo: req.AdditionalInfo,
		Open:           true,
		CreatedAt:      createdAt,
	}, nil
}

// GetJob fetches a job requirement.
func (r *PostgresRepository) GetJob(ctx context.Context, id string) (*JobRequirement, error) {
	query := jobSelect + ` WHERE id = $1`
	job, err := scanJob(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("directory: select job: %w", err)
	}
	return job, nil
}

// ListOpenJobs returns open job requirements.
func (r *PostgresRepository) ListOpenJobs(ctx context.Context) ([]*JobRequirement, error) {
	query := jobSelect + ` WHERE open ORDER BY created_at, id`
	return r.listJobs(ctx, query)
}

// ListJobsForClinic returns all job requirements posted by a clinic.
func (r *PostgresRepository) ListJobsForClinic(ctx context.Context, clinicID string) ([]*JobRequirement, error) {
	query := jobSelect + ` WHERE clinic_id = $1 ORDER BY created_at, id`
	return r.listJobs(ctx, query, clinicID)
}

// CloseJob marks a requirement closed, scoped to the owning clinic.
// Outstanding pitches are left untouched.
func (r *PostgresRepository) CloseJob(ctx context.Context, clinicID, jobID string) error {
	query := `
		UPDATE job_requirements
		SET open = false
		WHERE id = $1 AND clinic_id = $2
	`
	ct, err := r.pool.Exec(ctx, query, jobID, clinicID)
	if err != nil {
		return fmt.Errorf("directory: close job: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *PostgresRepository) listJobs(ctx context.Context, query string, args ...any) ([]*JobRequirement, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("directory: list jobs: %w", err)
	}
	defer rows.Close()

	var out []*JobRequirement
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("directory: scan job: %w", err)
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

const jobSelect = `
	SELECT id, clinic_id, title, description, type, specialization, address, latitude, longitude,
	       target_date, additional_info, open, applications_count, created_at
	FROM job_requirements`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var lat, lng *float64
	if err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Specialization,
		&d.ExperienceYears,
		&d.Address,
		&lat,
		&lng,
		&d.Status,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	d.Location = coordinateFromStored(lat, lng)
	return &d, nil
}

func scanClinic(row pgx.Row) (*Clinic, error) {
	var c Clinic
	var lat, lng *float64
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.OwnerName,
		&c.OwnerContact,
		&c.Address,
		&lat,
		&lng,
		&c.Verified,
		&c.Status,
		&c.CreatedAt,
		&c.OpenJobs,
	); err != nil {
		return nil, err
	}
	c.Location = coordinateFromStored(lat, lng)
	return &c, nil
}

func scanJob(row pgx.Row) (*JobRequirement, error) {
	var j JobRequirement
	var lat, lng *float64
	if err := row.Scan(
		&j.ID,
		&j.ClinicID,
		&j.Title,
		&j.Description,
		&j.Type,
		&j.Specialization,
		&j.Address,
		&lat,
		&lng,
		&j.TargetDate,
		&j.AdditionalInfo,
		&j.Open,
		&j.ApplicationsCount,
		&j.CreatedAt,
	); err != nil {
		return nil, err
	}
	j.Location = coordinateFromStored(lat, lng)
	return &j, nil
}

// coordinateFromStored trusts stored values; bounds were checked at ingestion.
func coordinateFromStored(lat, lng *float64) *geo.Coordinate {
	if lat == nil || lng == nil {
		return nil
	}
	return &geo.Coordinate{Latitude: *lat, Longitude: *lng}
}
