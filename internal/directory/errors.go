package directory

import "errors"

var (
	// ErrMissingID is returned when the identity-provider id is absent
	ErrMissingID = errors.New("id is required")

	// ErrMissingName is returned when the display name is absent
	ErrMissingName = errors.New("name is required")

	// ErrMissingTitle is returned when a job requirement has no title
	ErrMissingTitle = errors.New("title is required")

	// ErrInvalidJobType is returned for a job type outside FULLTIME/PARTTIME/ONETIME
	ErrInvalidJobType = errors.New("invalid job type")

	// ErrInvalidExperience is returned for a negative experience value
	ErrInvalidExperience = errors.New("experience must be non-negative")

	// ErrPartialCoordinate is returned when only one of lat/lng is supplied
	ErrPartialCoordinate = errors.New("latitude and longitude must be provided together")

	// ErrDoctorNotFound is returned when a doctor profile does not exist
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrClinicNotFound is returned when a clinic profile does not exist
	ErrClinicNotFound = errors.New("clinic not found")

	// ErrJobNotFound is returned when a job requirement does not exist
	ErrJobNotFound = errors.New("job requirement not found")

	// ErrAlreadyExists is returned when registering an id twice
	ErrAlreadyExists = errors.New("profile already exists")
)
