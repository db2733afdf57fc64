package pitch

import "time"

// Status enumerates the lifecycle states of a pitch. PENDING is the only
// non-terminal state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
	StatusWithdrawn Status = "WITHDRAWN"
)

// Terminal reports whether no further transition is defined out of s.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusWithdrawn
}

// Active reports whether s blocks a new pitch for the same doctor/job pair.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusAccepted
}

// Pitch is a doctor's application to a specific job requirement. ClinicID
// is denormalized from the requirement's owner so ownership checks need no
// join.
type Pitch struct {
	ID        string     `json:"id"`
	DoctorID  string     `json:"doctor_id"`
	JobID     string     `json:"job_id"`
	ClinicID  string     `json:"clinic_id"`
	Message   string     `json:"message"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
}
