package pitch

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caretap/staffing-platform/internal/connection"
)

// Store defines the serialization boundary for pitch mutations. Each
// method is a single transaction over one pitch; concurrent deciders race
// on the PENDING check and exactly one wins.
type Store interface {
	Create(ctx context.Context, p *Pitch) error
	Get(ctx context.Context, id string) (*Pitch, error)
	ListForDoctor(ctx context.Context, doctorID string) ([]*Pitch, error)
	ListForJob(ctx context.Context, jobID string) ([]*Pitch, error)

	// Accept transitions PENDING to ACCEPTED and creates the connection in
	// the same transaction. Returns ErrInvalidTransition if the pitch was
	// already decided.
	Accept(ctx context.Context, p *Pitch, decidedAt time.Time) (*connection.Connection, error)
	Reject(ctx context.Context, id string, decidedAt time.Time) error
	Withdraw(ctx context.Context, id string, decidedAt time.Time) error
}

// ApplicationCounter maintains the derived applications count on a job
// requirement.
type ApplicationCounter interface {
	IncrementApplications(ctx context.Context, jobID string) error
}

// MemoryStore is an in-memory Store used in tests and local dev. The
// mutex gives the same exactly-one-writer-wins guarantee a row transaction
// gives the Postgres store.
type MemoryStore struct {
	mu       sync.Mutex
	byID     map[string]*Pitch
	registry *connection.MemoryRegistry
	counter  ApplicationCounter
}

// NewMemoryStore creates an in-memory store. The registry receives
// connections inside the same critical section that flips pitch status.
func NewMemoryStore(registry *connection.MemoryRegistry, counter ApplicationCounter) *MemoryStore {
	if registry == nil {
		registry = connection.NewMemoryRegistry()
	}
	return &MemoryStore{
		byID:     make(map[string]*Pitch),
		registry: registry,
		counter:  counter,
	}
}

// Registry exposes the backing registry for wiring read paths.
func (s *MemoryStore) Registry() *connection.MemoryRegistry {
	return s.registry
}

// Create stores a PENDING pitch, enforcing the one-active-pitch rule.
func (s *MemoryStore) Create(ctx context.Context, p *Pitch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if existing.DoctorID == p.DoctorID && existing.JobID == p.JobID && existing.Status.Active() {
			return ErrDuplicateActive
		}
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	clone := *p
	s.byID[p.ID] = &clone

	if s.counter != nil {
		if err := s.counter.IncrementApplications(ctx, p.JobID); err != nil {
			delete(s.byID, p.ID)
			return err
		}
	}
	return nil
}

// Get retrieves a pitch by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Pitch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *p
	return &clone, nil
}

// ListForDoctor returns the doctor's pitches, newest first.
func (s *MemoryStore) ListForDoctor(ctx context.Context, doctorID string) ([]*Pitch, error) {
	return s.list(func(p *Pitch) bool { return p.DoctorID == doctorID }), nil
}

// ListForJob returns the pitches against a job requirement, newest first.
func (s *MemoryStore) ListForJob(ctx context.Context, jobID string) ([]*Pitch, error) {
	return s.list(func(p *Pitch) bool { return p.JobID == jobID }), nil
}

func (s *MemoryStore) list(match func(*Pitch) bool) []*Pitch {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Pitch, 0)
	for _, p := range s.byID {
		if match(p) {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Accept flips PENDING to ACCEPTED and materializes the connection while
// still holding the lock, so the pitch is never observably accepted
// without its connection.
func (s *MemoryStore) Accept(ctx context.Context, p *Pitch, decidedAt time.Time) (*connection.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[p.ID]
	if !ok {
		return nil, ErrNotFound
	}
	if stored.Status != StatusPending {
		return nil, ErrInvalidTransition
	}
	stored.Status = StatusAccepted
	stored.DecidedAt = &decidedAt

	conn, err := s.registry.CreateFromAcceptedPitch(ctx, stored.ID, stored.DoctorID, stored.ClinicID, stored.JobID, decidedAt)
	if err != nil {
		stored.Status = StatusPending
		stored.DecidedAt = nil
		return nil, err
	}
	return conn, nil
}

// Reject flips PENDING to REJECTED.
func (s *MemoryStore) Reject(ctx context.Context, id string, decidedAt time.Time) error {
	return s.decide(id, StatusRejected, decidedAt)
}

// Withdraw flips PENDING to WITHDRAWN.
func (s *MemoryStore) Withdraw(ctx context.Context, id string, decidedAt time.Time) error {
	return s.decide(id, StatusWithdrawn, decidedAt)
}

func (s *MemoryStore) decide(id string, to Status, decidedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	if stored.Status != StatusPending {
		return ErrInvalidTransition
	}
	stored.Status = to
	stored.DecidedAt = &decidedAt
	return nil
}
