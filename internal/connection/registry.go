package connection

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry defines the interface for connection storage. Creation is
// idempotent on pitch id.
type Registry interface {
	CreateFromAcceptedPitch(ctx context.Context, pitchID, doctorID, clinicID, jobID string, connectedAt time.Time) (*Connection, error)
	IsConnected(ctx context.Context, doctorID, clinicID, jobID string) (bool, error)
	ListForDoctor(ctx context.Context, doctorID string) ([]*Connection, error)
	ListForClinic(ctx context.Context, clinicID string) ([]*Connection, error)
}

// MemoryRegistry is an in-memory Registry used in tests and local dev.
type MemoryRegistry struct {
	mu      sync.RWMutex
	byPitch map[string]*Connection
}

// NewMemoryRegistry creates a new in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{byPitch: make(map[string]*Connection)}
}

// CreateFromAcceptedPitch records the connection for an accepted pitch.
// A retried call for the same pitch returns the existing connection.
func (r *MemoryRegistry) CreateFromAcceptedPitch(ctx context.Context, pitchID, doctorID, clinicID, jobID string, connectedAt time.Time) (*Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byPitch[pitchID]; ok {
		clone := *existing
		return &clone, nil
	}
	conn := &Connection{
		ID:          uuid.New().String(),
		PitchID:     pitchID,
		DoctorID:    doctorID,
		ClinicID:    clinicID,
		JobID:       jobID,
		ConnectedAt: connectedAt,
	}
	r.byPitch[pitchID] = conn
	clone := *conn
	return &clone, nil
}

// IsConnected reports whether an active connection exists for the triple.
func (r *MemoryRegistry) IsConnected(ctx context.Context, doctorID, clinicID, jobID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.byPitch {
		if c.DoctorID == doctorID && c.ClinicID == clinicID && c.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

// ListForDoctor returns the doctor's connections, newest first.
func (r *MemoryRegistry) ListForDoctor(ctx context.Context, doctorID string) ([]*Connection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked(func(c *Connection) bool { return c.DoctorID == doctorID }), nil
}

// ListForClinic returns the clinic's connections, newest first.
func (r *MemoryRegistry) ListForClinic(ctx context.Context, clinicID string) ([]*Connection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked(func(c *Connection) bool { return c.ClinicID == clinicID }), nil
}

func (r *MemoryRegistry) listLocked(match func(*Connection) bool) []*Connection {
	out := make([]*Connection, 0)
	for _, c := range r.byPitch {
		if match(c) {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ConnectedAt.Equal(out[j].ConnectedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ConnectedAt.After(out[j].ConnectedAt)
	})
	return out
}
