package geo

import (
	"sort"

	"github.com/kiranshivaraju/jobscout/pkg/models"
)

// FilterByProximity returns copies of the jobs within radiusKm of ref, annotated
// with their distance and ordered nearest first. Ties keep input order.
//
// Jobs without valid coordinates are dropped. A nil or invalid reference, or a
// non-positive radius, yields an empty slice. The input is never mutated.
func FilterByProximity(jobs []*models.Job, ref *models.Coordinate, radiusKm float64) []models.ScoredJob {
	out := []models.ScoredJob{}
	if ref == nil || !ref.Valid() || radiusKm <= 0 || len(jobs) == 0 {
		return out
	}

	for _, job := range jobs {
		if job == nil || job.Coordinates == nil || !job.Coordinates.Valid() {
			continue
		}
		d := DistanceKm(*ref, *job.Coordinates)
		if d > radiusKm {
			continue
		}
		out = append(out, scoredCopy(job, d))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].DistanceKm < *out[j].DistanceKm
	})
	return out
}

// Unscored wraps jobs as ScoredJobs without a distance, preserving order.
func Unscored(jobs []*models.Job) []models.ScoredJob {
	out := make([]models.ScoredJob, 0, len(jobs))
	for _, job := range jobs {
		if job == nil {
			continue
		}
		out = append(out, models.ScoredJob{Job: copyJob(job)})
	}
	return out
}

func scoredCopy(job *models.Job, distance float64) models.ScoredJob {
	d := distance
	return models.ScoredJob{Job: copyJob(job), DistanceKm: &d}
}

// copyJob deep-copies the coordinate pointer so callers cannot alias the source record.
func copyJob(job *models.Job) models.Job {
	c := *job
	if job.Coordinates != nil {
		coord := *job.Coordinates
		c.Coordinates = &coord
	}
	return c
}
