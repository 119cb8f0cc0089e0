package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kiranshivaraju/jobscout/internal/api/response"
	"github.com/kiranshivaraju/jobscout/internal/places"
	"github.com/kiranshivaraju/jobscout/pkg/models"
)

// PlaceLookup defines what the places handlers depend on.
type PlaceLookup interface {
	Autocomplete(ctx context.Context, input, language string) ([]places.Prediction, error)
	Details(ctx context.Context, placeID, language string) (*places.Place, error)
	ReverseGeocode(ctx context.Context, coord models.Coordinate) (string, error)
}

// NewAutocompleteHandler returns an http.HandlerFunc for GET /api/v1/places/autocomplete.
// Lookup failures degrade to an empty prediction list.
func NewAutocompleteHandler(lookup PlaceLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		predictions, err := lookup.Autocomplete(r.Context(), q.Get("input"), q.Get("language"))
		if err != nil {
			if !errors.Is(err, places.ErrNoResults) {
				slog.Warn("place autocomplete failed", "error", err)
			}
			predictions = []places.Prediction{}
		}
		response.Collection(w, predictions, len(predictions))
	}
}

// NewPlaceDetailsHandler returns an http.HandlerFunc for GET /api/v1/places/{placeID}.
func NewPlaceDetailsHandler(lookup PlaceLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		place, err := lookup.Details(r.Context(), chi.URLParam(r, "placeID"), r.URL.Query().Get("language"))
		if err != nil {
			writePlaceError(w, err)
			return
		}
		response.JSON(w, place)
	}
}

// NewReverseGeocodeHandler returns an http.HandlerFunc for GET /api/v1/places/reverse.
func NewReverseGeocodeHandler(lookup PlaceLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coord, err := coordinateQuery(r)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
			return
		}

		address, err := lookup.ReverseGeocode(r.Context(), coord)
		if err != nil {
			writePlaceError(w, err)
			return
		}
		response.JSON(w, places.Place{Address: address, Coordinates: coord})
	}
}

func writePlaceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, places.ErrNoResults):
		response.Error(w, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Place not found", nil)
	case errors.Is(err, places.ErrNotConfigured):
		slog.Error("place lookup unavailable", "error", err)
		response.Error(w, http.StatusServiceUnavailable, "PLACES_UNAVAILABLE",
			"Place lookup is not configured", nil)
	default:
		slog.Warn("place lookup failed", "error", err)
		response.Error(w, http.StatusBadGateway, "PLACES_UNAVAILABLE",
			"Place lookup failed", nil)
	}
}
