package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/jobscout/pkg/models"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS jobs (
    seq          INTEGER PRIMARY KEY AUTOINCREMENT,
    id           TEXT    NOT NULL UNIQUE,
    title        TEXT    NOT NULL,
    company      TEXT    NOT NULL,
    location     TEXT    NOT NULL,
    latitude     REAL,
    longitude    REAL,
    pay          TEXT    NOT NULL DEFAULT '',
    description  TEXT    NOT NULL DEFAULT '',
    safety_score TEXT    NOT NULL,
    verified     INTEGER NOT NULL DEFAULT 0,
    created_at   TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_jobs_title ON jobs (title);

CREATE TABLE IF NOT EXISTS reports (
    id         TEXT PRIMARY KEY,
    job_id     TEXT NOT NULL REFERENCES jobs (id) ON DELETE CASCADE,
    reason     TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_job_id ON reports (job_id);

CREATE TABLE IF NOT EXISTS safety_tips (
    id       TEXT    PRIMARY KEY,
    position INTEGER NOT NULL,
    text     TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS worker_rights (
    id       TEXT    PRIMARY KEY,
    position INTEGER NOT NULL,
    text     TEXT    NOT NULL
);

INSERT INTO safety_tips (id, position, text) VALUES
    ('no-upfront-fees',   1, 'Never pay a fee to apply for or start a job.'),
    ('meet-in-public',    2, 'Meet employers in a public place and tell someone where you are going.'),
    ('keep-documents',    3, 'Keep your identity documents with you. Do not hand them over to an employer.'),
    ('verify-employer',   4, 'Check that the company and its address are real before you travel.'),
    ('written-terms',     5, 'Ask for the pay, hours and duties in writing before you start.')
ON CONFLICT (id) DO NOTHING;

INSERT INTO worker_rights (id, position, text) VALUES
    ('agreed-wage',       1, 'You have the right to be paid the agreed wage, on time.'),
    ('safe-workplace',    2, 'You have the right to a safe workplace and to refuse dangerous work.'),
    ('rest-periods',      3, 'You have the right to rest breaks and at least one day off each week.'),
    ('free-to-leave',     4, 'You have the right to leave a job. No one may hold your documents or wages to keep you.'),
    ('no-discrimination', 5, 'You have the right to equal treatment regardless of gender, caste, religion or origin.')
ON CONFLICT (id) DO NOTHING;
`

// SQLiteStore implements the Store interface on an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at dsn and applies the schema.
// Foreign key enforcement is enabled on every connection.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", withForeignKeys(dsn))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// withForeignKeys adds the driver's per-connection pragma parameter to dsn.
func withForeignKeys(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() {
	s.db.Close()
}

// --- Jobs ---

func (s *SQLiteStore) CreateJob(ctx context.Context, job *models.Job) error {
	lat, lng := coordinateColumns(job.Coordinates)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, title, company, location, latitude, longitude, pay, description, safety_score, verified, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID.String(), job.Title, job.Company, job.Location, lat, lng, job.Pay, job.Description,
		string(job.SafetyScore), job.Verified, formatTime(job.CreatedAt))
	if err != nil {
		if isSQLiteConstraint(err, "UNIQUE") {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id.String())
	job, err := scanSQLiteJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

func (s *SQLiteStore) ListJobs(ctx context.Context) ([]*models.Job, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return collectSQLiteJobs(rows)
}

func (s *SQLiteStore) ListJobsByTitlePrefix(ctx context.Context, prefix string) ([]*models.Job, error) {
	if prefix == "" {
		return s.ListJobs(ctx)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE substr(title, 1, length(?1)) = ?1 ORDER BY seq`, prefix)
	if err != nil {
		return nil, fmt.Errorf("list jobs by title prefix: %w", err)
	}
	return collectSQLiteJobs(rows)
}

// --- Reports ---

func (s *SQLiteStore) CreateReport(ctx context.Context, report *models.Report) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (id, job_id, reason, created_at)
		 SELECT ?1, ?2, ?3, ?4 WHERE EXISTS (SELECT 1 FROM jobs WHERE id = ?2)`,
		report.ID.String(), report.JobID.String(), report.Reason, formatTime(report.CreatedAt))
	if err != nil {
		if isSQLiteConstraint(err, "UNIQUE") {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Guidance ---

func (s *SQLiteStore) ListSafetyTips(ctx context.Context) ([]models.SafetyTip, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, text FROM safety_tips ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list safety tips: %w", err)
	}
	defer rows.Close()

	tips := []models.SafetyTip{}
	for rows.Next() {
		var t models.SafetyTip
		if err := rows.Scan(&t.ID, &t.Text); err != nil {
			return nil, fmt.Errorf("scan safety tip: %w", err)
		}
		tips = append(tips, t)
	}
	return tips, rows.Err()
}

func (s *SQLiteStore) ListWorkerRights(ctx context.Context) ([]models.WorkerRight, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, text FROM worker_rights ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list worker rights: %w", err)
	}
	defer rows.Close()

	rights := []models.WorkerRight{}
	for rows.Next() {
		var r models.WorkerRight
		if err := rows.Scan(&r.ID, &r.Text); err != nil {
			return nil, fmt.Errorf("scan worker right: %w", err)
		}
		rights = append(rights, r)
	}
	return rights, rows.Err()
}

// --- helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteJob(row rowScanner) (*models.Job, error) {
	var j models.Job
	var id, tier, created string
	var lat, lng *float64
	if err := row.Scan(&id, &j.Title, &j.Company, &j.Location, &lat, &lng, &j.Pay, &j.Description,
		&tier, &j.Verified, &created); err != nil {
		return nil, err
	}

	var err error
	if j.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse job id: %w", err)
	}
	if j.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	j.Coordinates = coordinatesFrom(lat, lng)
	j.SafetyScore = models.RiskTier(tier)
	return &j, nil
}

func collectSQLiteJobs(rows *sql.Rows) ([]*models.Job, error) {
	defer rows.Close()

	jobs := []*models.Job{}
	for rows.Next() {
		j, err := scanSQLiteJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// isSQLiteConstraint reports whether err is a constraint failure of the given kind,
// e.g. "UNIQUE". modernc reports these as "constraint failed: UNIQUE constraint failed: ...".
func isSQLiteConstraint(err error, kind string) bool {
	return strings.Contains(err.Error(), kind+" constraint failed")
}

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
