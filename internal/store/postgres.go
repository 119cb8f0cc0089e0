package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/jobscout/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

const jobColumns = `id, title, company, location, latitude, longitude, pay, description, safety_score, verified, created_at`

// --- Jobs ---

func (s *PostgresStore) CreateJob(ctx context.Context, job *models.Job) error {
	lat, lng := coordinateColumns(job.Coordinates)
	_, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (id, title, company, location, latitude, longitude, pay, description, safety_score, verified, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		job.ID, job.Title, job.Company, job.Location, lat, lng, job.Pay, job.Description,
		string(job.SafetyScore), job.Verified, job.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	job, err := scanPgJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

func (s *PostgresStore) ListJobs(ctx context.Context) ([]*models.Job, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return collectPgJobs(rows)
}

func (s *PostgresStore) ListJobsByTitlePrefix(ctx context.Context, prefix string) ([]*models.Job, error) {
	if prefix == "" {
		return s.ListJobs(ctx)
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE starts_with(title, $1) ORDER BY seq`, prefix)
	if err != nil {
		return nil, fmt.Errorf("list jobs by title prefix: %w", err)
	}
	return collectPgJobs(rows)
}

// --- Reports ---

func (s *PostgresStore) CreateReport(ctx context.Context, report *models.Report) error {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO reports (id, job_id, reason, created_at)
		 SELECT $1::uuid, $2::uuid, $3::text, $4::timestamptz WHERE EXISTS (SELECT 1 FROM jobs WHERE id = $2::uuid)`,
		report.ID, report.JobID, report.Reason, report.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		if isForeignKeyError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("create report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Guidance ---

func (s *PostgresStore) ListSafetyTips(ctx context.Context) ([]models.SafetyTip, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, text FROM safety_tips ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list safety tips: %w", err)
	}
	tips, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.SafetyTip])
	if err != nil {
		return nil, fmt.Errorf("scan safety tips: %w", err)
	}
	return tips, nil
}

func (s *PostgresStore) ListWorkerRights(ctx context.Context) ([]models.WorkerRight, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, text FROM worker_rights ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list worker rights: %w", err)
	}
	rights, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.WorkerRight])
	if err != nil {
		return nil, fmt.Errorf("scan worker rights: %w", err)
	}
	return rights, nil
}

// --- helpers ---

func scanPgJob(row pgx.Row) (*models.Job, error) {
	var j models.Job
	var lat, lng *float64
	var tier string
	if err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &lat, &lng, &j.Pay, &j.Description,
		&tier, &j.Verified, &j.CreatedAt); err != nil {
		return nil, err
	}
	j.Coordinates = coordinatesFrom(lat, lng)
	j.SafetyScore = models.RiskTier(tier)
	j.CreatedAt = j.CreatedAt.UTC()
	return &j, nil
}

func collectPgJobs(rows pgx.Rows) ([]*models.Job, error) {
	defer rows.Close()

	jobs := []*models.Job{}
	for rows.Next() {
		j, err := scanPgJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503" // foreign_key_violation
	}
	return false
}

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)
