package pitch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/caretap/staffing-platform/internal/connection"
	"github.com/caretap/staffing-platform/internal/directory"
	"github.com/caretap/staffing-platform/internal/observability/metrics"
	"github.com/caretap/staffing-platform/pkg/logging"
)

var pitchTracer = otel.Tracer("caretap.internal.pitch")

// JobSource resolves job requirements for ownership and open checks.
type JobSource interface {
	GetJob(ctx context.Context, id string) (*directory.JobRequirement, error)
}

// Service drives the pitch lifecycle. All mutations are terminal-outcome
// operations; nothing here retries.
type Service struct {
	store   Store
	jobs    JobSource
	logger  *logging.Logger
	metrics *metrics.PitchMetrics
	now     func() time.Time
}

// NewService constructs a pitch service.
func NewService(store Store, jobs JobSource, logger *logging.Logger, m *metrics.PitchMetrics) *Service {
	if store == nil {
		panic("pitch: store required")
	}
	if jobs == nil {
		panic("pitch: job source required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:   store,
		jobs:    jobs,
		logger:  logger,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create records a doctor's application against an open job requirement.
func (s *Service) Create(ctx context.Context, doctorID, jobID, message string) (*Pitch, error) {
	ctx, span := pitchTracer.Start(ctx, "pitch.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("caretap.doctor_id", doctorID),
		attribute.String("caretap.job_id", jobID),
	)

	if strings.TrimSpace(message) == "" {
		s.metrics.ObserveTransition("create", "validation_error")
		return nil, ErrEmptyMessage
	}

	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveTransition("create", "job_not_found")
		return nil, err
	}
	if !job.Open {
		s.metrics.ObserveTransition("create", "job_closed")
		return nil, ErrJobClosed
	}

	p := &Pitch{
		ID:       uuid.New().String(),
		DoctorID: doctorID,
		JobID:    jobID,
		ClinicID: job.ClinicID,
		Message:  message,
		Status:   StatusPending,
	}
	if err := s.store.Create(ctx, p); err != nil {
		span.RecordError(err)
		s.metrics.ObserveTransition("create", outcomeLabel(err))
		return nil, err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}

	s.metrics.ObserveTransition("create", "ok")
	s.logger.Info("pitch created", "pitch_id", p.ID, "doctor_id", doctorID, "job_id", jobID)
	return p, nil
}

// Accept lets the owning clinic accept a pending pitch. On success the
// returned connection was committed atomically with the status change.
func (s *Service) Accept(ctx context.Context, pitchID, actingClinicID string) (*Pitch, *connection.Connection, error) {
	ctx, span := pitchTracer.Start(ctx, "pitch.accept")
	defer span.End()
	span.SetAttributes(attribute.String("caretap.pitch_id", pitchID))

	p, err := s.store.Get(ctx, pitchID)
	if err != nil {
		s.metrics.ObserveTransition("accept", outcomeLabel(err))
		return nil, nil, err
	}
	if p.ClinicID != actingClinicID {
		s.metrics.ObserveTransition("accept", "forbidden")
		s.logger.Warn("accept denied", "pitch_id", pitchID, "acting_clinic_id", actingClinicID)
		return nil, nil, ErrForbidden
	}

	decidedAt := s.now()
	conn, err := s.store.Accept(ctx, p, decidedAt)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveTransition("accept", outcomeLabel(err))
		return nil, nil, err
	}

	p.Status = StatusAccepted
	p.DecidedAt = &decidedAt
	s.metrics.ObserveTransition("accept", "ok")
	s.logger.Info("pitch accepted", "pitch_id", p.ID, "clinic_id", actingClinicID, "connection_id", conn.ID)
	return p, conn, nil
}

// Reject lets the owning clinic reject a pending pitch.
func (s *Service) Reject(ctx context.Context, pitchID, actingClinicID string) (*Pitch, error) {
	ctx, span := pitchTracer.Start(ctx, "pitch.reject")
	defer span.End()
	span.SetAttributes(attribute.String("caretap.pitch_id", pitchID))

	p, err := s.store.Get(ctx, pitchID)
	if err != nil {
		s.metrics.ObserveTransition("reject", outcomeLabel(err))
		return nil, err
	}
	if p.ClinicID != actingClinicID {
		s.metrics.ObserveTransition("reject", "forbidden")
		s.logger.Warn("reject denied", "pitch_id", pitchID, "acting_clinic_id", actingClinicID)
		return nil, ErrForbidden
	}

	decidedAt := s.now()
	if err := s.store.Reject(ctx, pitchID, decidedAt); err != nil {
		span.RecordError(err)
		s.metrics.ObserveTransition("reject", outcomeLabel(err))
		return nil, err
	}

	p.Status = StatusRejected
	p.DecidedAt = &decidedAt
	s.metrics.ObserveTransition("reject", "ok")
	s.logger.Info("pitch rejected", "pitch_id", p.ID, "clinic_id", actingClinicID)
	return p, nil
}

// Withdraw lets the applying doctor pull a pending pitch.
func (s *Service) Withdraw(ctx context.Context, pitchID, actingDoctorID string) (*Pitch, error) {
	ctx, span := pitchTracer.Start(ctx, "pitch.withdraw")
	defer span.End()
	span.SetAttributes(attribute.String("caretap.pitch_id", pitchID))

	p, err := s.store.Get(ctx, pitchID)
	if err != nil {
		s.metrics.ObserveTransition("withdraw", outcomeLabel(err))
		return nil, err
	}
	if p.DoctorID != actingDoctorID {
		s.metrics.ObserveTransition("withdraw", "forbidden")
		s.logger.Warn("withdraw denied", "pitch_id", pitchID, "acting_doctor_id", actingDoctorID)
		return nil, ErrForbidden
	}

	decidedAt := s.now()
	if err := s.store.Withdraw(ctx, pitchID, decidedAt); err != nil {
		span.RecordError(err)
		s.metrics.ObserveTransition("withdraw", outcomeLabel(err))
		return nil, err
	}

	p.Status = StatusWithdrawn
	p.DecidedAt = &decidedAt
	s.metrics.ObserveTransition("withdraw", "ok")
	s.logger.Info("pitch withdrawn", "pitch_id", p.ID, "doctor_id", actingDoctorID)
	return p, nil
}

// Get fetches a single pitch visible to either side of the application.
func (s *Service) Get(ctx context.Context, pitchID, actorID string) (*Pitch, error) {
	p, err := s.store.Get(ctx, pitchID)
	if err != nil {
		return nil, err
	}
	if p.DoctorID != actorID && p.ClinicID != actorID {
		return nil, ErrForbidden
	}
	return p, nil
}

// ListForDoctor returns a doctor's applications.
func (s *Service) ListForDoctor(ctx context.Context, doctorID string) ([]*Pitch, error) {
	return s.store.ListForDoctor(ctx, doctorID)
}

// ListForJob returns applications against a requirement, restricted to the
// owning clinic.
func (s *Service) ListForJob(ctx context.Context, jobID, actingClinicID string) ([]*Pitch, error) {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.ClinicID != actingClinicID {
		return nil, ErrForbidden
	}
	return s.store.ListForJob(ctx, jobID)
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrDuplicateActive):
		return "duplicate_active"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}
