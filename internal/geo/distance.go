// Package geo implements great-circle distance and proximity filtering of jobs.
package geo

import (
	"math"

	"github.com/kiranshivaraju/jobscout/pkg/models"
)

// EarthRadiusKm is the mean Earth radius used by the spherical approximation.
const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine great-circle distance between a and b in kilometers.
// Inputs are in degrees.
func DistanceKm(a, b models.Coordinate) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	// Rounding can push h a hair outside [0, 1] for antipodal points.
	h = math.Max(0, math.Min(1, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// RoundKm rounds a distance to one decimal place for display.
func RoundKm(d float64) float64 {
	return math.Round(d*10) / 10
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
