package pitch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/caretap/staffing-platform/internal/connection"
)

const pgUniqueViolation = "23505"

// PgxPool is the subset of pgxpool.Pool the store needs; pgxmock satisfies
// it in tests.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists pitches in the relational database. The one
// active pitch per (doctor, job) rule is backed by a partial unique index,
// and decisions are compare-and-swap updates on the PENDING status.
type PostgresStore struct {
	pool PgxPool
}

// NewPostgresStore initializes a store backed by pgxpool.
func NewPostgresStore(pool PgxPool) *PostgresStore {
	if pool == nil {
		panic("pitch: pgx pool required")
	}
	return &PostgresStore{pool: pool}
}

// Create inserts a PENDING pitch and bumps the requirement's applications
// count in one transaction. A concurrent duplicate loses on the partial
// unique index and surfaces ErrDuplicateActive.
func (s *PostgresStore) Create(ctx context.Context, p *Pitch) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pitch: begin create: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	insert := `
		INSERT INTO pitches (id, doctor_id, job_id, clinic_id, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	if err := tx.QueryRow(ctx, insert,
		p.ID, p.DoctorID, p.JobID, p.ClinicID, p.Message, StatusPending,
	).Scan(&p.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateActive
		}
		return fmt.Errorf("pitch: insert: %w", err)
	}

	bump := `
		UPDATE job_requirements
		SET applications_count = applications_count + 1
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, bump, p.JobID); err != nil {
		return fmt.Errorf("pitch: bump applications: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("pitch: commit create: %w", err)
	}
	p.Status = StatusPending
	return nil
}

// Get fetches a pitch by id.
func (s *PostgresStore) Get(ctx context.Context, id string) (*Pitch, error) {
	query := pitchSelect + ` WHERE id = $1`
	p, err := scanPitch(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("pitch: select: %w", err)
	}
	return p, nil
}

// ListForDoctor returns the doctor's pitches, newest first.
func (s *PostgresStore) ListForDoctor(ctx context.Context, doctorID string) ([]*Pitch, error) {
	return s.list(ctx, pitchSelect+` WHERE doctor_id = $1 ORDER BY created_at DESC, id`, doctorID)
}

// ListForJob returns the pitches against a job requirement, newest first.
func (s *PostgresStore) ListForJob(ctx context.Context, jobID string) ([]*Pitch, error) {
	return s.list(ctx, pitchSelect+` WHERE job_id = $1 ORDER BY created_at DESC, id`, jobID)
}

// Accept transitions PENDING to ACCEPTED and inserts the connection in the
// same transaction. The status predicate on the UPDATE makes the first
// committer win; the loser sees zero rows and gets ErrInvalidTransition.
func (s *PostgresStore) Accept(ctx context.Context, p *Pitch, decidedAt time.Time) (*connection.Connection, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("pitch: begin accept: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.transitionInTx(ctx, tx, p.ID, StatusAccepted, decidedAt); err != nil {
		return nil, err
	}

	conn, err := connection.CreateInTx(ctx, tx, p.ID, p.DoctorID, p.ClinicID, p.JobID, decidedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("pitch: commit accept: %w", err)
	}
	return conn, nil
}

// Reject transitions PENDING to REJECTED.
func (s *PostgresStore) Reject(ctx context.Context, id string, decidedAt time.Time) error {
	return s.transitionInTx(ctx, s.pool, id, StatusRejected, decidedAt)
}

// Withdraw transitions PENDING to WITHDRAWN.
func (s *PostgresStore) Withdraw(ctx context.Context, id string, decidedAt time.Time) error {
	return s.transitionInTx(ctx, s.pool, id, StatusWithdrawn, decidedAt)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (s *PostgresStore) transitionInTx(ctx context.Context, q execer, id string, to Status, decidedAt time.Time) error {
	update := `
		UPDATE pitches
		SET status = $2, decided_at = $3
		WHERE id = $1 AND status = 'PENDING'
	`
	ct, err := q.Exec(ctx, update, id, to, decidedAt)
	if err != nil {
		return fmt.Errorf("pitch: transition to %s: %w", to, err)
	}
	if ct.RowsAffected() == 1 {
		return nil
	}

	// Zero rows: either the pitch is gone or it was already decided.
	var status Status
	err = s.pool.QueryRow(ctx, `SELECT status FROM pitches WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("pitch: status probe: %w", err)
	}
	return ErrInvalidTransition
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*Pitch, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pitch: list: %w", err)
	}
	defer rows.Close()

	var out []*Pitch
	for rows.Next() {
		p, err := scanPitch(rows)
		if err != nil {
			return nil, fmt.Errorf("pitch: scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const pitchSelect = `
	SELECT id, doctor_id, job_id, clinic_id, message, status, created_at, decided_at
	FROM pitches`

func scanPitch(row pgx.Row) (*Pitch, error) {
	var p Pitch
	if err := row.Scan(
		&p.ID,
		&p.DoctorID,
		&p.JobID,
		&p.ClinicID,
		&p.Message,
		&p.Status,
		&p.CreatedAt,
		&p.DecidedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
