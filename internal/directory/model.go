package directory

import (
	"strings"
	"time"

	"github.com/caretap/staffing-platform/internal/geo"
)

// Specialization values mirror the onboarding form options.
type Specialization string

const (
	SpecializationGeneral       Specialization = "GENERAL"
	SpecializationDentistry     Specialization = "DENTISTRY"
	SpecializationPediatrics    Specialization = "PEDIATRICS"
	SpecializationDermatology   Specialization = "DERMATOLOGY"
	SpecializationOrthopedics   Specialization = "ORTHOPEDICS"
	SpecializationGynecology    Specialization = "GYNECOLOGY"
	SpecializationPsychiatry    Specialization = "PSYCHIATRY"
	SpecializationOphthalmology Specialization = "OPHTHALMOLOGY"
)

// JobType enumerates engagement models for a job requirement.
type JobType string

const (
	JobTypeFullTime JobType = "FULLTIME"
	JobTypePartTime JobType = "PARTTIME"
	JobTypeOneTime  JobType = "ONETIME"
)

// EntityStatus is a soft status; profiles are never hard-deleted.
type EntityStatus string

const (
	EntityStatusActive   EntityStatus = "ACTIVE"
	EntityStatusInactive EntityStatus = "INACTIVE"
)

// Doctor is a supply-side profile. The ID is the opaque identifier issued
// by the identity provider at onboarding.
type Doctor struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Specialization  Specialization  `json:"specialization"`
	ExperienceYears int             `json:"experience_years"`
	Address         string          `json:"address"`
	Location        *geo.Coordinate `json:"location,omitempty"`
	Status          EntityStatus    `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Coordinate implements geo.Locatable.
func (d *Doctor) Coordinate() (geo.Coordinate, bool) {
	if d.Location == nil {
		return geo.Coordinate{}, false
	}
	return *d.Location, true
}

// Clinic is a demand-side profile.
type Clinic struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	OwnerName    string          `json:"owner_name"`
	OwnerContact string          `json:"owner_contact"`
	Address      string          `json:"address"`
	Location     *geo.Coordinate `json:"location,omitempty"`
	Verified     bool            `json:"verified"`
	Status       EntityStatus    `json:"status"`
	OpenJobs     int             `json:"open_jobs"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Coordinate implements geo.Locatable.
func (c *Clinic) Coordinate() (geo.Coordinate, bool) {
	if c.Location == nil {
		return geo.Coordinate{}, false
	}
	return *c.Location, true
}

// JobRequirement is a clinic's open position. ApplicationsCount is derived
// and maintained by the pitch store.
type JobRequirement struct {
	ID                string          `json:"id"`
	ClinicID          string          `json:"clinic_id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Type              JobType         `json:"type"`
	Specialization    Specialization  `json:"specialization,omitempty"`
	Address           string          `json:"address"`
	Location          *geo.Coordinate `json:"location,omitempty"`
	TargetDate        *time.Time      `json:"target_date,omitempty"`
	AdditionalInfo    string          `json:"additional_info,omitempty"`
	Open              bool            `json:"open"`
	ApplicationsCount int             `json:"applications_count"`
	CreatedAt         time.Time       `json:"created_at"`
}

// Coordinate implements geo.Locatable.
func (j *JobRequirement) Coordinate() (geo.Coordinate, bool) {
	if j.Location == nil {
		return geo.Coordinate{}, false
	}
	return *j.Location, true
}

// CreateDoctorRequest carries a doctor profile registration.
type CreateDoctorRequest struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Specialization  string   `json:"specialization"`
	ExperienceYears int      `json:"experience_years"`
	Address         string   `json:"address"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
}

// Validate checks required fields and coordinate bounds.
func (r *CreateDoctorRequest) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	if r.ExperienceYears < 0 {
		return ErrInvalidExperience
	}
	if _, err := coordinateFrom(r.Latitude, r.Longitude); err != nil {
		return err
	}
	return nil
}

// UpdateDoctorRequest carries a full replacement of the mutable doctor
// profile fields. Identity and creation time never change.
type UpdateDoctorRequest struct {
	Name            string   `json:"name"`
	Specialization  string   `json:"specialization"`
	ExperienceYears int      `json:"experience_years"`
	Address         string   `json:"address"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
}

// Validate checks required fields and coordinate bounds.
func (r *UpdateDoctorRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	if r.ExperienceYears < 0 {
		return ErrInvalidExperience
	}
	if _, err := coordinateFrom(r.Latitude, r.Longitude); err != nil {
		return err
	}
	return nil
}

// CreateClinicRequest carries a clinic profile registration.
type CreateClinicRequest struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	OwnerName    string   `json:"owner_name"`
	OwnerContact string   `json:"owner_contact"`
	Address      string   `json:"address"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// Validate checks required fields and coordinate bounds.
func (r *CreateClinicRequest) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	if _, err := coordinateFrom(r.Latitude, r.Longitude); err != nil {
		return err
	}
	return nil
}

// UpdateClinicRequest carries a full replacement of the mutable clinic
// profile fields. The verification flag is not client-writable.
type UpdateClinicRequest struct {
	Name         string   `json:"name"`
	OwnerName    string   `json:"owner_name"`
	OwnerContact string   `json:"owner_contact"`
	Address      string   `json:"address"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// Validate checks required fields and coordinate bounds.
func (r *UpdateClinicRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	if _, err := coordinateFrom(r.Latitude, r.Longitude); err != nil {
		return err
	}
	return nil
}

// CreateJobRequest carries a new job requirement posting.
type CreateJobRequest struct {
	ClinicID       string     `json:"-"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Type           string     `json:"type"`
	Specialization string     `json:"specialization,omitempty"`
	Address        string     `json:"address"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	TargetDate     *time.Time `json:"target_date,omitempty"`
	AdditionalInfo string     `json:"additional_info,omitempty"`
}

// Validate checks required fields, job type, and coordinate bounds.
func (r *CreateJobRequest) Validate() error {
	if strings.TrimSpace(r.ClinicID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(r.Title) == "" {
		return ErrMissingTitle
	}
	switch JobType(r.Type) {
	case JobTypeFullTime, JobTypePartTime, JobTypeOneTime:
	default:
		return ErrInvalidJobType
	}
	if _, err := coordinateFrom(r.Latitude, r.Longitude); err != nil {
		return err
	}
	return nil
}

// coordinateFrom builds an optional coordinate from a lat/lng pair. Both
// must be present or both absent.
func coordinateFrom(lat, lng *float64) (*geo.Coordinate, error) {
	if lat == nil && lng == nil {
		return nil, nil
	}
	if lat == nil || lng == nil {
		return nil, ErrPartialCoordinate
	}
	c, err := geo.NewCoordinate(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
