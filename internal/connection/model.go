package connection

import "time"

// Connection is the durable doctor-clinic-job relationship materialized
// when a pitch is accepted. Its lifecycle is slaved to the pitch: it exists
// exactly when the originating pitch is ACCEPTED.
type Connection struct {
	ID          string    `json:"id"`
	PitchID     string    `json:"pitch_id"`
	DoctorID    string    `json:"doctor_id"`
	ClinicID    string    `json:"clinic_id"`
	JobID       string    `json:"job_id"`
	ConnectedAt time.Time `json:"connected_at"`
}

// PatientStatus is supplied by the patient collaborator when gating chat.
type PatientStatus string

const (
	PatientStatusActive    PatientStatus = "ACTIVE"
	PatientStatusCompleted PatientStatus = "COMPLETED"
)

// CanMessage is the single chat-gate predicate shared with the messaging
// collaborator: an active connection is required, and a COMPLETED patient
// blocks new messages regardless of connection state.
func CanMessage(connected bool, status PatientStatus) bool {
	if status == PatientStatusCompleted {
		return false
	}
	return connected
}
