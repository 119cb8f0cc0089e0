// Package jobs implements posting, browsing, reporting and rating job listings.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/jobscout/internal/ai"
	"github.com/kiranshivaraju/jobscout/internal/geo"
	"github.com/kiranshivaraju/jobscout/internal/places"
	"github.com/kiranshivaraju/jobscout/internal/verify"
	"github.com/kiranshivaraju/jobscout/pkg/models"
)

// DefaultReportReason is used when a report carries no reason.
const DefaultReportReason = "Suspicious job posting"

// Sentinel errors for invalid service input.
var (
	ErrInvalidCategory = errors.New("invalid recommendation category")
	ErrNoSkills        = errors.New("match profile needs at least one skill")
)

// VerificationError is returned by Submit when a submission fails a check.
type VerificationError struct {
	Reason verify.Reason
}

func (e *VerificationError) Error() string {
	return e.Reason.Message()
}

// Store is the persistence the service needs.
type Store interface {
	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	ListJobs(ctx context.Context) ([]*models.Job, error)
	ListJobsByTitlePrefix(ctx context.Context, prefix string) ([]*models.Job, error)
	CreateReport(ctx context.Context, report *models.Report) error
}

// Verifier gates submissions.
type Verifier interface {
	Verify(ctx context.Context, sub verify.Submission) (verify.Result, error)
}

// Advisor supplies AI-derived safety ratings and recommendations.
type Advisor interface {
	AnalyzeJobSafety(ctx context.Context, description string) models.SafetyAnalysis
	RecommendJobs(ctx context.Context, jobs []*models.Job, category string) []*models.Job
	MatchJob(ctx context.Context, description string, profile models.MatchProfile) models.JobMatch
}

// SubmitRequest is a job posting. PlaceID and Language are only used to resolve
// coordinates when none were supplied.
type SubmitRequest struct {
	verify.Submission
	PlaceID  string
	Language string
}

// Service coordinates the store, verifier, places lookup and AI advisor.
type Service struct {
	store           Store
	verifier        Verifier
	advisor         Advisor
	places          places.Client
	defaultRadiusKm float64
	now             func() time.Time
}

// NewService creates a jobs Service. placesClient may be nil, in which case
// coordinates are never resolved from location text.
func NewService(store Store, verifier Verifier, advisor Advisor, placesClient places.Client, defaultRadiusKm float64) *Service {
	return &Service{
		store:           store,
		verifier:        verifier,
		advisor:         advisor,
		places:          placesClient,
		defaultRadiusKm: defaultRadiusKm,
		now:             time.Now,
	}
}

// Submit verifies and stores a new job. A rejected submission returns a
// *VerificationError; nothing is stored in that case.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*models.Job, error) {
	sub := req.Submission.Normalized()

	result, err := s.verifier.Verify(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("verifying job: %w", err)
	}
	if !result.Passed {
		return nil, &VerificationError{Reason: result.Reason}
	}

	if sub.Coordinates == nil {
		sub.Coordinates = s.resolveCoordinates(ctx, strings.TrimSpace(req.PlaceID), sub.Location, req.Language)
	}

	job := &models.Job{
		ID:          uuid.New(),
		Title:       sub.Title,
		Company:     sub.Company,
		Location:    sub.Location,
		Coordinates: sub.Coordinates,
		Pay:         sub.Pay,
		Description: sub.Description,
		SafetyScore: verify.Tier(sub),
		Verified:    true,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("storing job: %w", err)
	}

	slog.Info("job posted",
		"job_id", job.ID,
		"safety_score", job.SafetyScore,
		"has_coordinates", job.Coordinates != nil,
	)
	return job, nil
}

// resolveCoordinates looks up coordinates for a place ID, falling back to the
// location text. Failures are logged and yield nil.
func (s *Service) resolveCoordinates(ctx context.Context, placeID, location, language string) *models.Coordinate {
	if s.places == nil || (placeID == "" && location == "") {
		return nil
	}

	var (
		place *places.Place
		err   error
	)
	if placeID != "" {
		place, err = s.places.Details(ctx, placeID, language)
	} else {
		place, err = s.places.Geocode(ctx, location, language)
	}
	if err != nil {
		slog.Warn("could not resolve job coordinates",
			"place_id", placeID,
			"location", location,
			"error", err,
		)
		return nil
	}

	coord := place.Coordinates
	return &coord
}

// Get returns a single job, or store.ErrNotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	return s.store.GetJob(ctx, id)
}

// List returns all jobs, or those whose title starts with titlePrefix.
func (s *Service) List(ctx context.Context, titlePrefix string) ([]*models.Job, error) {
	if titlePrefix = strings.TrimSpace(titlePrefix); titlePrefix != "" {
		return s.store.ListJobsByTitlePrefix(ctx, titlePrefix)
	}
	return s.store.ListJobs(ctx)
}

// Nearby returns jobs within radiusKm of ref, nearest first. A non-positive
// radius uses the configured default.
func (s *Service) Nearby(ctx context.Context, ref models.Coordinate, radiusKm float64) ([]models.ScoredJob, error) {
	if radiusKm <= 0 {
		radiusKm = s.defaultRadiusKm
	}
	all, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return geo.FilterByProximity(all, &ref, radiusKm), nil
}

// Report flags a job. An empty reason becomes DefaultReportReason.
func (s *Service) Report(ctx context.Context, jobID uuid.UUID, reason string) (*models.Report, error) {
	if reason = strings.TrimSpace(reason); reason == "" {
		reason = DefaultReportReason
	}

	report := &models.Report{
		ID:        uuid.New(),
		JobID:     jobID,
		Reason:    reason,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("storing report: %w", err)
	}

	slog.Info("job reported", "job_id", jobID, "report_id", report.ID)
	return report, nil
}

// Safety rates the job's description. Only a store failure returns an error.
func (s *Service) Safety(ctx context.Context, jobID uuid.UUID) (models.SafetyAnalysis, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return models.SafetyAnalysis{}, err
	}
	return s.advisor.AnalyzeJobSafety(ctx, job.Description), nil
}

// Match rates how well the job fits profile. Blank skills are dropped and a
// profile left with none returns ErrNoSkills. AI failures yield the default match.
func (s *Service) Match(ctx context.Context, jobID uuid.UUID, profile models.MatchProfile) (models.JobMatch, error) {
	skills := make([]string, 0, len(profile.Skills))
	for _, skill := range profile.Skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	if len(skills) == 0 {
		return models.JobMatch{}, ErrNoSkills
	}
	profile.Skills = skills

	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return models.JobMatch{}, err
	}
	return s.advisor.MatchJob(ctx, job.Description, profile), nil
}

// Recommend returns up to three jobs suited to category. An empty category means popular.
func (s *Service) Recommend(ctx context.Context, category string) ([]*models.Job, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	switch category {
	case "":
		category = ai.CategoryPopular
	case ai.CategoryPopular, ai.CategorySafety, ai.CategoryLocal:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	all, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return s.advisor.RecommendJobs(ctx, all, category), nil
}
