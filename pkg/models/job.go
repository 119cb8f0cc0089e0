package models

import (
	"time"

	"github.com/google/uuid"
)

// RiskTier is the coarse risk classification computed from submission completeness
// when a job is posted. It is persisted with the job and is unrelated to the
// numeric score in SafetyAnalysis.
type RiskTier string

const (
	RiskLow    RiskTier = "Low Risk"
	RiskMedium RiskTier = "Medium Risk"
	RiskHigh   RiskTier = "High Risk"
)

// Job is a posted job listing. Jobs are never mutated after creation.
type Job struct {
	ID          uuid.UUID   `db:"id"           json:"id"`
	Title       string      `db:"title"        json:"title"`
	Company     string      `db:"company"      json:"company"`
	Location    string      `db:"location"     json:"location"`
	Coordinates *Coordinate `db:"-"            json:"coordinates,omitempty"`
	Pay         string      `db:"pay"          json:"pay"`
	Description string      `db:"description"  json:"description"`
	SafetyScore RiskTier    `db:"safety_score" json:"safety_score"`
	Verified    bool        `db:"verified"     json:"verified"`
	CreatedAt   time.Time   `db:"created_at"   json:"created_at"`
}

// ScoredJob is a copy of a Job annotated with its distance from a reference point.
// DistanceKm is only set by proximity filtering and is never persisted.
type ScoredJob struct {
	Job
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// Report records a user flagging a job as suspicious.
type Report struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	JobID     uuid.UUID `db:"job_id"     json:"job_id"`
	Reason    string    `db:"reason"     json:"reason"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
