package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/jobscout/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
// List operations return jobs in insertion order.
type Store interface {
	Ping(ctx context.Context) error

	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	ListJobs(ctx context.Context) ([]*models.Job, error)
	// ListJobsByTitlePrefix matches titles starting with prefix, case-sensitively.
	ListJobsByTitlePrefix(ctx context.Context, prefix string) ([]*models.Job, error)

	// CreateReport returns ErrNotFound when the reported job does not exist.
	CreateReport(ctx context.Context, report *models.Report) error

	// Guidance lists are returned in display order.
	ListSafetyTips(ctx context.Context) ([]models.SafetyTip, error)
	ListWorkerRights(ctx context.Context) ([]models.WorkerRight, error)

	Close()
}

// coordinatesFrom builds a Coordinate from nullable columns.
func coordinatesFrom(lat, lng *float64) *models.Coordinate {
	if lat == nil || lng == nil {
		return nil
	}
	return &models.Coordinate{Latitude: *lat, Longitude: *lng}
}

// coordinateColumns splits a Coordinate into nullable column values.
func coordinateColumns(c *models.Coordinate) (lat, lng *float64) {
	if c == nil {
		return nil, nil
	}
	la, lo := c.Latitude, c.Longitude
	return &la, &lo
}
