package search

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/caretap/staffing-platform/internal/directory"
	"github.com/caretap/staffing-platform/internal/geo"
	"github.com/caretap/staffing-platform/internal/observability/metrics"
	"github.com/caretap/staffing-platform/pkg/logging"
)

var searchTracer = otel.Tracer("caretap.internal.search")

// Source provides the candidate sets and the profiles used for origin
// fallback. directory.Repository satisfies it.
type Source interface {
	ListDoctors(ctx context.Context) ([]*directory.Doctor, error)
	ListClinics(ctx context.Context) ([]*directory.Clinic, error)
	ListOpenJobs(ctx context.Context) ([]*directory.JobRequirement, error)
	GetDoctor(ctx context.Context, id string) (*directory.Doctor, error)
	GetClinic(ctx context.Context, id string) (*directory.Clinic, error)
}

// ActorKind tells the origin resolver which profile to consult.
type ActorKind string

const (
	ActorDoctor ActorKind = "doctor"
	ActorClinic ActorKind = "clinic"
)

// Request describes one search. Origin candidates are consulted in
// priority order: Explicit beats Device beats the actor's saved profile
// location.
type Request struct {
	ActorID   string
	ActorKind ActorKind
	Explicit  *geo.Coordinate
	Device    *geo.Coordinate
	RadiusKm  float64
	Filters   Filters
	Sort      Strategy
}

// Result is a filtered, ranked page of candidates plus the resolved
// query anchor.
type Result struct {
	Origin     geo.Coordinate `json:"origin"`
	RadiusKm   float64        `json:"radius_km"`
	Total      int            `json:"total"`
	Candidates []Candidate    `json:"candidates"`
	FromCache  bool           `json:"from_cache"`
}

// Options tunes radius defaults and result caps.
type Options struct {
	DefaultRadiusKm float64
	MaxRadiusKm     float64
	MaxResults      int
}

// Service runs discovery queries in two phases: a geo-bounded fetch that
// is snapshot-cached per (kind, origin, radius), then pure in-memory
// filtering and ranking. Changing filters or sort never refetches.
type Service struct {
	source  Source
	cache   SnapshotCache
	logger  *logging.Logger
	metrics *metrics.SearchMetrics
	opts    Options
	now     func() time.Time
}

func NewService(source Source, cache SnapshotCache, logger *logging.Logger, m *metrics.SearchMetrics, opts Options) *Service {
	if source == nil {
		panic("search: source is required")
	}
	if cache == nil {
		cache = NoopCache{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if opts.DefaultRadiusKm <= 0 {
		opts.DefaultRadiusKm = 50
	}
	if opts.MaxRadiusKm <= 0 {
		opts.MaxRadiusKm = 500
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 200
	}
	return &Service{
		source:  source,
		cache:   cache,
		logger:  logger,
		metrics: m,
		opts:    opts,
		now:     time.Now,
	}
}

// Search resolves the origin, loads the geo-bounded snapshot, and applies
// the request's filters and ranking in memory.
func (s *Service) Search(ctx context.Context, kind Kind, req Request) (*Result, error) {
	ctx, span := searchTracer.Start(ctx, "search.Search")
	defer span.End()
	span.SetAttributes(attribute.String("search.kind", string(kind)))
	start := s.now()

	origin, err := s.resolveOrigin(ctx, req)
	if err != nil {
		s.metrics.ObserveQuery(string(kind), "no_location")
		span.RecordError(err)
		return nil, err
	}

	radius, err := s.resolveRadius(req.RadiusKm)
	if err != nil {
		s.metrics.ObserveQuery(string(kind), "invalid")
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Float64("search.radius_km", radius))

	snap, fromCache, err := s.loadSnapshot(ctx, kind, origin, radius)
	if err != nil {
		s.metrics.ObserveQuery(string(kind), "error")
		span.RecordError(err)
		return nil, err
	}

	filtered := req.Filters.Apply(snap.Candidates)
	ranked := Rank(filtered, req.Sort)
	if len(ranked) > s.opts.MaxResults {
		ranked = ranked[:s.opts.MaxResults]
	}

	s.metrics.ObserveQuery(string(kind), "ok")
	s.metrics.ObserveQueryLatency(string(kind), s.now().Sub(start).Seconds())
	s.logger.Debug("search completed",
		"kind", kind, "radius_km", radius, "matched", len(ranked), "from_cache", fromCache)

	return &Result{
		Origin:     origin,
		RadiusKm:   radius,
		Total:      len(ranked),
		Candidates: ranked,
		FromCache:  fromCache,
	}, nil
}

// resolveOrigin walks the priority chain: explicit request coordinate,
// then device coordinate, then the actor's saved profile location.
func (s *Service) resolveOrigin(ctx context.Context, req Request) (geo.Coordinate, error) {
	if req.Explicit != nil {
		return *req.Explicit, nil
	}
	if req.Device != nil {
		return *req.Device, nil
	}
	if req.ActorID != "" {
		if coord, ok := s.profileCoordinate(ctx, req.ActorKind, req.ActorID); ok {
			return coord, nil
		}
	}
	return geo.Coordinate{}, ErrLocationUnavailable
}

func (s *Service) profileCoordinate(ctx context.Context, kind ActorKind, actorID string) (geo.Coordinate, bool) {
	switch kind {
	case ActorDoctor:
		d, err := s.source.GetDoctor(ctx, actorID)
		if err != nil {
			return geo.Coordinate{}, false
		}
		return d.Coordinate()
	case ActorClinic:
		c, err := s.source.GetClinic(ctx, actorID)
		if err != nil {
			return geo.Coordinate{}, false
		}
		return c.Coordinate()
	}
	return geo.Coordinate{}, false
}

func (s *Service) resolveRadius(requested float64) (float64, error) {
	if requested == 0 {
		return s.opts.DefaultRadiusKm, nil
	}
	if requested < 0 || requested > s.opts.MaxRadiusKm {
		return 0, fmt.Errorf("%w: %v km (max %v)", ErrInvalidRadius, requested, s.opts.MaxRadiusKm)
	}
	return requested, nil
}

// loadSnapshot returns the cached geo-bounded candidate set for the query
// shape, fetching from the source and caching on a miss.
func (s *Service) loadSnapshot(ctx context.Context, kind Kind, origin geo.Coordinate, radiusKm float64) (*Snapshot, bool, error) {
	key := snapshotKey(kind, origin, radiusKm)

	if snap, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("snapshot cache read failed", "error", err)
	} else if ok {
		s.metrics.ObserveSnapshotLoad(string(kind), "cache")
		return snap, true, nil
	}

	candidates, err := s.fetchCandidates(ctx, kind, origin, radiusKm)
	if err != nil {
		return nil, false, err
	}
	s.metrics.ObserveSnapshotLoad(string(kind), "store")

	snap := &Snapshot{
		Kind:       kind,
		Origin:     origin,
		RadiusKm:   radiusKm,
		Candidates: candidates,
		FetchedAt:  s.now().UTC(),
	}
	if err := s.cache.Set(ctx, key, snap); err != nil {
		// Caching is best-effort; the query result is already in hand.
		s.logger.Warn("snapshot cache write failed", "error", err)
	}
	return snap, false, nil
}

func (s *Service) fetchCandidates(ctx context.Context, kind Kind, origin geo.Coordinate, radiusKm float64) ([]Candidate, error) {
	switch kind {
	case KindDoctors:
		doctors, err := s.source.ListDoctors(ctx)
		if err != nil {
			return nil, fmt.Errorf("search: list doctors: %w", err)
		}
		located := geo.WithinRadius(origin, radiusKm, doctors)
		out := make([]Candidate, 0, len(located))
		for _, l := range located {
			out = append(out, doctorCandidate(l))
		}
		return out, nil
	case KindClinics:
		clinics, err := s.source.ListClinics(ctx)
		if err != nil {
			return nil, fmt.Errorf("search: list clinics: %w", err)
		}
		located := geo.WithinRadius(origin, radiusKm, clinics)
		out := make([]Candidate, 0, len(located))
		for _, l := range located {
			out = append(out, clinicCandidate(l))
		}
		return out, nil
	case KindJobs:
		jobs, err := s.source.ListOpenJobs(ctx)
		if err != nil {
			return nil, fmt.Errorf("search: list jobs: %w", err)
		}
		located := geo.WithinRadius(origin, radiusKm, jobs)
		out := make([]Candidate, 0, len(located))
		for _, l := range located {
			out = append(out, jobCandidate(l))
		}
		return out, nil
	}
	return nil, fmt.Errorf("search: unknown candidate kind %q", kind)
}
