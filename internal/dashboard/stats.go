package dashboard

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// ClinicStats aggregates a clinic's hiring funnel for the dashboard.
type ClinicStats struct {
	ClinicID            string   `json:"clinic_id"`
	OpenJobs            int64    `json:"open_jobs"`
	TotalJobs           int64    `json:"total_jobs"`
	PitchesReceived     int64    `json:"pitches_received"`
	PitchesPending      int64    `json:"pitches_pending"`
	PitchesAccepted     int64    `json:"pitches_accepted"`
	Connections         int64    `json:"connections"`
	OpenSpecializations []string `json:"open_specializations"`
	PeriodStart         string   `json:"period_start"`
	PeriodEnd           string   `json:"period_end"`
}

// StatsRepository queries funnel metrics over database/sql so it can run
// against a read replica separate from the transactional pool.
type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	if db == nil {
		panic("dashboard: sql db required for stats")
	}
	return &StatsRepository{db: db}
}

// GetClinicStats aggregates metrics for a clinic. Optional start/end
// bound the pitch counts; nil means all-time.
func (r *StatsRepository) GetClinicStats(ctx context.Context, clinicID string, start, end *time.Time) (*ClinicStats, error) {
	stats := &ClinicStats{ClinicID: clinicID}

	bounded := start != nil && end != nil
	args := []interface{}{clinicID}
	if bounded {
		args = append(args, *start, *end)
		stats.PeriodStart = start.Format(time.RFC3339)
		stats.PeriodEnd = end.Format(time.RFC3339)
	} else {
		stats.PeriodStart = "all-time"
		stats.PeriodEnd = "now"
	}
	timeFilter := func(column string) string {
		if !bounded {
			return ""
		}
		return fmt.Sprintf(" AND %s >= $2 AND %s < $3", column, column)
	}

	jobsQuery := `SELECT COUNT(*), COUNT(*) FILTER (WHERE open) FROM job_requirements WHERE clinic_id = $1`
	if err := r.db.QueryRowContext(ctx, jobsQuery, clinicID).Scan(&stats.TotalJobs, &stats.OpenJobs); err != nil {
		return nil, fmt.Errorf("dashboard: count jobs: %w", err)
	}

	pitchesQuery := `SELECT COUNT(*),
		COUNT(*) FILTER (WHERE status = 'PENDING'),
		COUNT(*) FILTER (WHERE status = 'ACCEPTED')
		FROM pitches WHERE clinic_id = $1` + timeFilter("created_at")
	if err := r.db.QueryRowContext(ctx, pitchesQuery, args...).Scan(
		&stats.PitchesReceived, &stats.PitchesPending, &stats.PitchesAccepted); err != nil {
		return nil, fmt.Errorf("dashboard: count pitches: %w", err)
	}

	connsQuery := `SELECT COUNT(*) FROM connections WHERE clinic_id = $1` + timeFilter("connected_at")
	if err := r.db.QueryRowContext(ctx, connsQuery, args...).Scan(&stats.Connections); err != nil {
		return nil, fmt.Errorf("dashboard: count connections: %w", err)
	}

	specsQuery := `SELECT COALESCE(ARRAY_AGG(DISTINCT specialization) FILTER (WHERE specialization <> ''), '{}')
		FROM job_requirements WHERE clinic_id = $1 AND open`
	if err := r.db.QueryRowContext(ctx, specsQuery, clinicID).Scan(pq.Array(&stats.OpenSpecializations)); err != nil {
		return nil, fmt.Errorf("dashboard: open specializations: %w", err)
	}
	if stats.OpenSpecializations == nil {
		stats.OpenSpecializations = []string{}
	}

	return stats, nil
}
