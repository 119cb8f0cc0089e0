package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/jobscout/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, "jobs.db?_pragma=foreign_keys(1)", withForeignKeys("jobs.db"))
	assert.Equal(t, "file:jobs.db?mode=rwc&_pragma=foreign_keys(1)", withForeignKeys("file:jobs.db?mode=rwc"))
}

func TestSQLite_ForeignKeysEnforced(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	var enabled int
	require.NoError(t, s.db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&enabled))
	assert.Equal(t, 1, enabled)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (id, job_id, reason, created_at) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), uuid.NewString(), "orphan", formatTime(time.Now()))
	require.Error(t, err)
	assert.True(t, isSQLiteConstraint(err, "FOREIGN KEY"), err.Error())
}

func TestSQLite_DeletingJobCascadesToReports(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	job := &models.Job{
		ID: uuid.New(), Title: "Farm Helper", Company: "Acme", Location: "Springfield",
		SafetyScore: models.RiskMedium, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateJob(ctx, job))
	require.NoError(t, s.CreateReport(ctx, &models.Report{
		ID: uuid.New(), JobID: job.ID, Reason: "spam", CreatedAt: time.Now().UTC(),
	}))

	_, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, job.ID.String())
	require.NoError(t, err)

	var n int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`).Scan(&n))
	assert.Zero(t, n)
}
