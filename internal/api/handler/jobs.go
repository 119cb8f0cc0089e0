package handler

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/jobscout/internal/api/response"
	"github.com/kiranshivaraju/jobscout/internal/jobs"
	"github.com/kiranshivaraju/jobscout/internal/store"
	"github.com/kiranshivaraju/jobscout/internal/verify"
	"github.com/kiranshivaraju/jobscout/pkg/models"
)

// JobService defines what the job handlers depend on.
type JobService interface {
	Submit(ctx context.Context, req jobs.SubmitRequest) (*models.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Job, error)
	List(ctx context.Context, titlePrefix string) ([]*models.Job, error)
	Nearby(ctx context.Context, ref models.Coordinate, radiusKm float64) ([]models.ScoredJob, error)
	Report(ctx context.Context, jobID uuid.UUID, reason string) (*models.Report, error)
	Safety(ctx context.Context, jobID uuid.UUID) (models.SafetyAnalysis, error)
	Recommend(ctx context.Context, category string) ([]*models.Job, error)
	Match(ctx context.Context, jobID uuid.UUID, profile models.MatchProfile) (models.JobMatch, error)
}

type createJobRequest struct {
	Title       string           `json:"title"`
	Company     string           `json:"company"`
	Location    string           `json:"location"`
	Pay         string           `json:"pay"`
	Description string           `json:"description"`
	Coordinates *coordinateInput `json:"coordinates"`
	PlaceID     string           `json:"place_id"`
	Language    string           `json:"language"`
}

// NewCreateJobHandler returns an http.HandlerFunc for POST /api/v1/jobs.
func NewCreateJobHandler(svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createJobRequest
		if !decodeBody(w, r, &req, false) {
			return
		}

		coord, err := req.Coordinates.toCoordinate()
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
			return
		}

		job, err := svc.Submit(r.Context(), jobs.SubmitRequest{
			Submission: verify.Submission{
				Title:       req.Title,
				Company:     req.Company,
				Location:    req.Location,
				Pay:         req.Pay,
				Description: req.Description,
				Coordinates: coord,
			},
			PlaceID:  req.PlaceID,
			Language: req.Language,
		})
		if err != nil {
			var verr *jobs.VerificationError
			switch {
			case errors.As(err, &verr):
				response.Error(w, http.StatusUnprocessableEntity, "VERIFICATION_FAILED",
					verr.Reason.Message(), map[string]string{"reason": verr.Reason.String()})
			case errors.Is(err, context.Canceled):
				// Client went away during verification; nothing useful to send.
			default:
				response.Internal(w, r, err)
			}
			return
		}

		response.Created(w, job)
	}
}

// NewListJobsHandler returns an http.HandlerFunc for GET /api/v1/jobs.
func NewListJobsHandler(svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context(), r.URL.Query().Get("title"))
		if err != nil {
			response.Internal(w, r, err)
			return
		}
		response.Collection(w, list, len(list))
	}
}

// NewGetJobHandler returns an http.HandlerFunc for GET /api/v1/jobs/{jobID}.
func NewGetJobHandler(svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := jobIDParam(w, r)
		if !ok {
			return
		}

		job, err := svc.Get(r.Context(), id)
		if err != nil {
			writeJobError(w, r, err)
			return
		}
		response.JSON(w, job)
	}
}

// NewNearbyJobsHandler returns an http.HandlerFunc for GET /api/v1/jobs/nearby.
func NewNearbyJobsHandler(svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := coordinateQuery(r)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
			return
		}

		radius, hasRadius, err := floatQuery(r, "radius_km")
		if err != nil || (hasRadius && !(radius > 0)) || math.IsInf(radius, 0) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "radius_km must be a positive number", nil)
			return
		}

		list, err := svc.Nearby(r.Context(), ref, radius)
		if err != nil {
			response.Internal(w, r, err)
			return
		}
		roundDistances(list)
		response.Collection(w, list, len(list))
	}
}

// NewRecommendedJobsHandler returns an http.HandlerFunc for GET /api/v1/jobs/recommended.
func NewRecommendedJobsHandler(svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Recommend(r.Context(), r.URL.Query().Get("category"))
		if err != nil {
			if errors.Is(err, jobs.ErrInvalidCategory) {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"category must be one of popular, safety, local", nil)
				return
			}
			response.Internal(w, r, err)
			return
		}
		response.Collection(w, list, len(list))
	}
}

// NewJobSafetyHandler returns an http.HandlerFunc for GET /api/v1/jobs/{jobID}/safety.
// AI failures still produce a 200 with the default rating.
func NewJobSafetyHandler(svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := jobIDParam(w, r)
		if !ok {
			return
		}

		analysis, err := svc.Safety(r.Context(), id)
		if err != nil {
			writeJobError(w, r, err)
			return
		}
		response.JSON(w, analysis)
	}
}

// NewReportJobHandler returns an http.HandlerFunc for POST /api/v1/jobs/{jobID}/reports.
func NewReportJobHandler(svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := jobIDParam(w, r)
		if !ok {
			return
		}

		var req struct {
			Reason string `json:"reason"`
		}
		if !decodeBody(w, r, &req, true) {
			return
		}

		report, err := svc.Report(r.Context(), id, req.Reason)
		if err != nil {
			writeJobError(w, r, err)
			return
		}
		response.Created(w, report)
	}
}

// NewMatchJobHandler returns an http.HandlerFunc for POST /api/v1/jobs/{jobID}/match.
// AI failures still produce a 200 with the default match.
func NewMatchJobHandler(svc JobService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := jobIDParam(w, r)
		if !ok {
			return
		}

		var req models.MatchProfile
		if !decodeBody(w, r, &req, false) {
			return
		}

		match, err := svc.Match(r.Context(), id, req)
		if err != nil {
			if errors.Is(err, jobs.ErrNoSkills) {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "skills must include at least one entry", nil)
				return
			}
			writeJobError(w, r, err)
			return
		}
		response.JSON(w, match)
	}
}

func writeJobError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		response.Error(w, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Job not found", nil)
		return
	}
	response.Internal(w, r, err)
}
