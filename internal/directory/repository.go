package directory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caretap/staffing-platform/internal/geo"
)

// Repository defines the interface for profile and job storage
type Repository interface {
	CreateDoctor(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error)
	UpdateDoctor(ctx context.Context, id string, req *UpdateDoctorRequest) (*Doctor, error)
	GetDoctor(ctx context.Context, id string) (*Doctor, error)
	ListDoctors(ctx context.Context) ([]*Doctor, error)

	CreateClinic(ctx context.Context, req *CreateClinicRequest) (*Clinic, error)
	UpdateClinic(ctx context.Context, id string, req *UpdateClinicRequest) (*Clinic, error)
	GetClinic(ctx context.Context, id string) (*Clinic, error)
	ListClinics(ctx context.Context) ([]*Clinic, error)

	CreateJob(ctx context.Context, req *CreateJobRequest) (*JobRequirement, error)
	GetJob(ctx context.Context, id string) (*JobRequirement, error)
	ListOpenJobs(ctx context.Context) ([]*JobRequirement, error)
	ListJobsForClinic(ctx context.Context, clinicID string) ([]*JobRequirement, error)
	CloseJob(ctx context.Context, clinicID, jobID string) error
}

// InMemoryRepository is an in-memory Repository used in tests and local dev
type InMemoryRepository struct {
	mu      sync.RWMutex
	doctors map[string]*Doctor
	clinics map[string]*Clinic
	jobs    map[string]*JobRequirement
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		doctors: make(map[string]*Doctor),
		clinics: make(map[string]*Clinic),
		jobs:    make(map[string]*JobRequirement),
	}
}

// CreateDoctor registers a doctor profile.
func (r *InMemoryRepository) CreateDoctor(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	loc, _ := coordinateFrom(req.Latitude, req.Longitude)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.doctors[req.ID]; ok {
		return nil, ErrAlreadyExists
	}
	doctor := &Doctor{
		ID:              req.ID,
		Name:            req.Name,
		Specialization:  Specialization(req.Specialization),
		ExperienceYears: req.ExperienceYears,
		Address:         req.Address,
		Location:        loc,
		Status:          EntityStatusActive,
		CreatedAt:       time.Now().UTC(),
	}
	r.doctors[doctor.ID] = doctor
	return cloneDoctor(doctor), nil
}

// UpdateDoctor replaces the mutable fields of an existing profile.
func (r *InMemoryRepository) UpdateDoctor(ctx context.Context, id string, req *UpdateDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	loc, _ := coordinateFrom(req.Latitude, req.Longitude)

	r.mu.Lock()
	defer r.mu.Unlock()
	doctor, ok := r.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	doctor.Name = req.Name
	doctor.Specialization = Specialization(req.Specialization)
	doctor.ExperienceYears = req.ExperienceYears
	doctor.Address = req.Address
	doctor.Location = loc
	return cloneDoctor(doctor), nil
}

// GetDoctor retrieves a doctor by id.
func (r *InMemoryRepository) GetDoctor(ctx context.Context, id string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doctor, ok := r.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	return cloneDoctor(doctor), nil
}

// ListDoctors returns active doctors ordered by creation time.
func (r *InMemoryRepository) ListDoctors(ctx context.Context) ([]*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		if d.Status == EntityStatusActive {
			out = append(out, cloneDoctor(d))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// CreateClinic registers a clinic profile.
func (r *InMemoryRepository) CreateClinic(ctx context.Context, req *CreateClinicRequest) (*Clinic, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	loc, _ := coordinateFrom(req.Latitude, req.Longitude)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clinics[req.ID]; ok {
		return nil, ErrAlreadyExists
	}
	clinic := &Clinic{
		ID:           req.ID,
		Name:         req.Name,
		OwnerName:    req.OwnerName,
		OwnerContact: req.OwnerContact,
		Address:      req.Address,
		Location:     loc,
		Status:       EntityStatusActive,
		CreatedAt:    time.Now().UTC(),
	}
	r.clinics[clinic.ID] = clinic
	return cloneClinic(clinic), nil
}

// UpdateClinic replaces the mutable fields of an existing profile. The
// verification flag is left untouched.
func (r *InMemoryRepository) UpdateClinic(ctx context.Context, id string, req *UpdateClinicRequest) (*Clinic, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	loc, _ := coordinateFrom(req.Latitude, req.Longitude)

	r.mu.Lock()
	defer r.mu.Unlock()
	clinic, ok := r.clinics[id]
	if !ok {
		return nil, ErrClinicNotFound
	}
	clinic.Name = req.Name
	clinic.OwnerName = req.OwnerName
	clinic.OwnerContact = req.OwnerContact
	clinic.Address = req.Address
	clinic.Location = loc
	clone := cloneClinic(clinic)
	clone.OpenJobs = r.openJobCountLocked(id)
	return clone, nil
}

// GetClinic retrieves a clinic by id.
func (r *InMemoryRepository) GetClinic(ctx context.Context, id string) (*Clinic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clinic, ok := r.clinics[id]
	if !ok {
		return nil, ErrClinicNotFound
	}
	return cloneClinic(clinic), nil
}

// ListClinics returns active clinics with their open-job counts.
func (r *InMemoryRepository) ListClinics(ctx context.Context) ([]*Clinic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Clinic, 0, len(r.clinics))
	for _, c := range r.clinics {
		if c.Status != EntityStatusActive {
			continue
		}
		clone := cloneClinic(c)
		clone.OpenJobs = r.openJobCountLocked(c.ID)
		out = append(out, clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// CreateJob posts a new job requirement for a clinic.
func (r *InMemoryRepository) CreateJob(ctx context.Context, req *CreateJobRequest) (*JobRequirement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	loc, _ := coordinateFrom(req.Latitude, req.Longitude)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clinics[req.ClinicID]; !ok {
		return nil, ErrClinicNotFound
	}
	job := &JobRequirement{
		ID:             uuid.New().String(),
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
		CreatedAt:      time.Now().UTC(),
	}
	r.jobs[job.ID] = job
	return cloneJob(job), nil
}

// GetJob retrieves a job requirement by id.
func (r *InMemoryRepository) GetJob(ctx context.Context, id string) (*JobRequirement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return cloneJob(job), nil
}

// ListOpenJobs returns open job requirements ordered by creation time.
func (r *InMemoryRepository) ListOpenJobs(ctx context.Context) ([]*JobRequirement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*JobRequirement, 0, len(r.jobs))
	for _, j := range r.jobs {
		if j.Open {
			out = append(out, cloneJob(j))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ListJobsForClinic returns all of a clinic's job requirements.
func (r *InMemoryRepository) ListJobsForClinic(ctx context.Context, clinicID string) ([]*JobRequirement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*JobRequirement, 0)
	for _, j := range r.jobs {
		if j.ClinicID == clinicID {
			out = append(out, cloneJob(j))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// CloseJob marks a requirement closed. Outstanding pitches are left as-is;
// the pitch store keeps its own invariants.
func (r *InMemoryRepository) CloseJob(ctx context.Context, clinicID, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	if job.ClinicID != clinicID {
		return ErrClinicNotFound
	}
	job.Open = false
	return nil
}

// IncrementApplications bumps the derived applications count. The pitch
// store calls this on successful pitch creation.
func (r *InMemoryRepository) IncrementApplications(ctx context.Context, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	job.ApplicationsCount++
	return nil
}

func (r *InMemoryRepository) openJobCountLocked(clinicID string) int {
	n := 0
	for _, j := range r.jobs {
		if j.ClinicID == clinicID && j.Open {
			n++
		}
	}
	return n
}

func cloneDoctor(d *Doctor) *Doctor {
	clone := *d
	if d.Location != nil {
		loc := *d.Location
		clone.Location = &loc
	}
	return &clone
}

func cloneClinic(c *Clinic) *Clinic {
	clone := *c
	if c.Location != nil {
		loc := *c.Location
		clone.Location = &loc
	}
	return &clone
}

func cloneJob(j *JobRequirement) *JobRequirement {
	clone := *j
	if j.Location != nil {
		loc := *j.Location
		clone.Location = &loc
	}
	if j.TargetDate != nil {
		td := *j.TargetDate
		clone.TargetDate = &td
	}
	return &clone
}

var _ geo.Locatable = (*Doctor)(nil)
var _ geo.Locatable = (*Clinic)(nil)
var _ geo.Locatable = (*JobRequirement)(nil)
