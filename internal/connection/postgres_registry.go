package connection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the registry needs. The pitch
// store passes its transaction here so acceptance and connection creation
// commit together.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRegistry stores connections in the relational database.
type PostgresRegistry struct {
	pool Querier
}

// NewPostgresRegistry initializes a registry backed by pgxpool.
func NewPostgresRegistry(pool Querier) *PostgresRegistry {
	if pool == nil {
		panic("connection: pgx pool required")
	}
	return &PostgresRegistry{pool: pool}
}

// CreateFromAcceptedPitch inserts the connection row, returning the
// existing one on a retried call. Uniqueness is keyed by pitch id.
func (r *PostgresRegistry) CreateFromAcceptedPitch(ctx context.Context, pitchID, doctorID, clinicID, jobID string, connectedAt time.Time) (*Connection, error) {
	return CreateInTx(ctx, r.pool, pitchID, doctorID, clinicID, jobID, connectedAt)
}

// CreateInTx performs the idempotent insert on the supplied querier, which
// may be the pitch store's open transaction.
func CreateInTx(ctx context.Context, q Querier, pitchID, doctorID, clinicID, jobID string, connectedAt time.Time) (*Connection, error) {
	conn := &Connection{
		ID:          uuid.New().String(),
		PitchID:     pitchID,
		DoctorID:    doctorID,
		ClinicID:    clinicID,
		JobID:       jobID,
		ConnectedAt: connectedAt,
	}
	query := `
		INSERT INTO connections (id, pitch_id, doctor_id, clinic_id, job_id, connected_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (pitch_id) DO NOTHING
	`
	ct, err := q.Exec(ctx, query, conn.ID, pitchID, doctorID, clinicID, jobID, connectedAt)
	if err != nil {
		return nil, fmt.Errorf("connection: insert: %w", err)
	}
	if ct.RowsAffected() == 1 {
		return conn, nil
	}

	// Retried call: return the row created the first time.
	existing := `
		SELECT id, pitch_id, doctor_id, clinic_id, job_id, connected_at
		FROM connections
		WHERE pitch_id = $1
	`
	var out Connection
	if err := q.QueryRow(ctx, existing, pitchID).Scan(
		&out.ID, &out.PitchID, &out.DoctorID, &out.ClinicID, &out.JobID, &out.ConnectedAt,
	); err != nil {
		return nil, fmt.Errorf("connection: select existing: %w", err)
	}
	return &out, nil
}

// IsConnected reports whether a connection exists for the triple.
func (r *PostgresRegistry) IsConnected(ctx context.Context, doctorID, clinicID, jobID string) (bool, error) {
	query := `
		SELECT 1
		FROM connections
		WHERE doctor_id = $1 AND clinic_id = $2 AND job_id = $3
	`
	var one int
	err := r.pool.QueryRow(ctx, query, doctorID, clinicID, jobID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("connection: exists: %w", err)
	}
	return true, nil
}

// ListForDoctor returns the doctor's connections, newest first.
func (r *PostgresRegistry) ListForDoctor(ctx context.Context, doctorID string) ([]*Connection, error) {
	return r.list(ctx, `doctor_id`, doctorID)
}

// ListForClinic returns the clinic's connections, newest first.
func (r *PostgresRegistry) ListForClinic(ctx context.Context, clinicID string) ([]*Connection, error) {
	return r.list(ctx, `clinic_id`, clinicID)
}

func (r *PostgresRegistry) list(ctx context.Context, column, id string) ([]*Connection, error) {
	query := fmt.Sprintf(`
		SELECT id, pitch_id, doctor_id, clinic_id, job_id, connected_at
		FROM connections
		WHERE %s = $1
		ORDER BY connected_at DESC, id
	`, column)
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("connection: list: %w", err)
	}
	defer rows.Close()

	var out []*Connection
	for rows.Next() {
		var c Connection
		if err := rows.Scan(&c.ID, &c.PitchID, &c.DoctorID, &c.ClinicID, &c.JobID, &c.ConnectedAt); err != nil {
			return nil, fmt.Errorf("connection: scan: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
