package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/jobscout/internal/api/response"
	"github.com/kiranshivaraju/jobscout/internal/geo"
	"github.com/kiranshivaraju/jobscout/pkg/models"
)

// maxBodyBytes bounds request bodies. Voice searches carry base64 audio.
const maxBodyBytes = 10 << 20

// coordinateInput is the optional {"latitude","longitude"} object accepted by
// several endpoints. Both fields must be present together.
type coordinateInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (c *coordinateInput) toCoordinate() (*models.Coordinate, error) {
	if c == nil || (c.Latitude == nil && c.Longitude == nil) {
		return nil, nil
	}
	if c.Latitude == nil || c.Longitude == nil {
		return nil, errors.New("coordinates require both latitude and longitude")
	}
	coord := models.Coordinate{Latitude: *c.Latitude, Longitude: *c.Longitude}
	if !coord.Valid() {
		return nil, errors.New("latitude must be between -90 and 90 and longitude between -180 and 180")
	}
	return &coord, nil
}

// decodeBody decodes a JSON request body into v, writing a 400 on failure.
// An empty body leaves v untouched when allowEmpty is set.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(w, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", "Request body is too large", nil)
		return false
	}
	response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
	return false
}

// jobIDParam parses the {jobID} path parameter, writing a 400 on failure.
func jobIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "jobID must be a valid UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}

// floatQuery reads an optional float query parameter.
func floatQuery(r *http.Request, name string) (value float64, present bool, err error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	value, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%s must be a number", name)
	}
	return value, true, nil
}

// coordinateQuery reads the required lat and lng query parameters.
func coordinateQuery(r *http.Request) (models.Coordinate, error) {
	lat, hasLat, err := floatQuery(r, "lat")
	if err == nil && !hasLat {
		err = errors.New("lat is required")
	}
	if err != nil {
		return models.Coordinate{}, err
	}
	lng, hasLng, err := floatQuery(r, "lng")
	if err == nil && !hasLng {
		err = errors.New("lng is required")
	}
	if err != nil {
		return models.Coordinate{}, err
	}

	ref := models.Coordinate{Latitude: lat, Longitude: lng}
	if !ref.Valid() {
		return models.Coordinate{}, errors.New("lat must be between -90 and 90 and lng between -180 and 180")
	}
	return ref, nil
}

// roundDistances rounds each distance to one decimal place for display.
func roundDistances(list []models.ScoredJob) {
	for i := range list {
		if d := list[i].DistanceKm; d != nil {
			rounded := geo.RoundKm(*d)
			list[i].DistanceKm = &rounded
		}
	}
}
