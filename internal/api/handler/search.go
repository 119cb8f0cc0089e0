package handler

import (
	"context"
	"math"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/jobscout/internal/api/response"
	"github.com/kiranshivaraju/jobscout/internal/search"
)

// Searcher defines what the search handlers depend on.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Result, error)
	VoiceSearch(ctx context.Context, req search.VoiceRequest) (*search.VoiceResult, error)
}

type searchRequest struct {
	Query       string           `json:"query"`
	Coordinates *coordinateInput `json:"coordinates"`
	RadiusKm    float64          `json:"radius_km"`
}

type voiceSearchRequest struct {
	Audio           string           `json:"audio"`
	Language        string           `json:"language"`
	SampleRateHertz int              `json:"sample_rate_hertz"`
	Coordinates     *coordinateInput `json:"coordinates"`
	RadiusKm        float64          `json:"radius_km"`
}

func validRadius(r float64) bool {
	return r >= 0 && !math.IsInf(r, 0) && !math.IsNaN(r)
}

// NewSearchHandler returns an http.HandlerFunc for POST /api/v1/search.
func NewSearchHandler(svc Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if !decodeBody(w, r, &req, false) {
			return
		}

		ref, err := req.Coordinates.toCoordinate()
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
			return
		}
		if !validRadius(req.RadiusKm) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "radius_km must not be negative", nil)
			return
		}

		res, err := svc.Search(r.Context(), search.Request{
			Query:     req.Query,
			Reference: ref,
			RadiusKm:  req.RadiusKm,
		})
		if err != nil {
			response.Internal(w, r, err)
			return
		}
		roundDistances(res.Jobs)
		response.JSON(w, res)
	}
}

// NewVoiceSearchHandler returns an http.HandlerFunc for POST /api/v1/search/voice.
// Speech failures are reported in the body's status field with a 200.
func NewVoiceSearchHandler(svc Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req voiceSearchRequest
		if !decodeBody(w, r, &req, false) {
			return
		}

		if strings.TrimSpace(req.Audio) == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "audio is required", nil)
			return
		}
		ref, err := req.Coordinates.toCoordinate()
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
			return
		}
		if !validRadius(req.RadiusKm) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "radius_km must not be negative", nil)
			return
		}

		res, err := svc.VoiceSearch(r.Context(), search.VoiceRequest{
			AudioBase64:     req.Audio,
			Language:        req.Language,
			SampleRateHertz: req.SampleRateHertz,
			Reference:       ref,
			RadiusKm:        req.RadiusKm,
		})
		if err != nil {
			response.Internal(w, r, err)
			return
		}
		roundDistances(res.Jobs)
		response.JSON(w, res)
	}
}
