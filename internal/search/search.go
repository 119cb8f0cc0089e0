// Package search answers text and voice job searches by combining AI keyword
// extraction with proximity filtering.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kiranshivaraju/jobscout/internal/geo"
	"github.com/kiranshivaraju/jobscout/internal/speech"
	"github.com/kiranshivaraju/jobscout/internal/verify"
	"github.com/kiranshivaraju/jobscout/pkg/models"
)

// JobLister loads the candidate jobs for a search, in insertion order.
type JobLister interface {
	ListJobs(ctx context.Context) ([]*models.Job, error)
}

// QueryInterpreter turns free text into a search intent. Implementations never fail;
// they fall back to using the query itself.
type QueryInterpreter interface {
	ProcessSearchQuery(ctx context.Context, query string) models.SearchIntent
	EnhanceVoiceQuery(ctx context.Context, transcript string) string
}

// Request is a text search.
type Request struct {
	Query     string
	Reference *models.Coordinate
	RadiusKm  float64
}

// Result is the outcome of a text search.
type Result struct {
	Query  string              `json:"query"`
	Intent models.SearchIntent `json:"intent"`
	Jobs   []models.ScoredJob  `json:"jobs"`
}

// VoiceStatus describes how far a voice search got.
type VoiceStatus string

const (
	VoiceOK           VoiceStatus = "ok"
	VoiceNoSpeech     VoiceStatus = "no_speech"
	VoiceSpeechFailed VoiceStatus = "speech_failed"
)

// VoiceRequest is a recorded audio search.
type VoiceRequest struct {
	AudioBase64     string
	Language        string
	SampleRateHertz int
	Reference       *models.Coordinate
	RadiusKm        float64
}

// VoiceResult is the outcome of a voice search. Transcript is what speech
// recognition heard; Query is the cleaned-up text actually searched.
type VoiceResult struct {
	Status     VoiceStatus         `json:"status"`
	Transcript string              `json:"transcript"`
	Query      string              `json:"query"`
	Intent     models.SearchIntent `json:"intent"`
	Jobs       []models.ScoredJob  `json:"jobs"`
}

// Service runs searches.
type Service struct {
	jobs            JobLister
	interpreter     QueryInterpreter
	recognizer      speech.Client
	defaultRadiusKm float64
}

// NewService creates a search Service. defaultRadiusKm applies when a request
// carries a reference point but no positive radius.
func NewService(jobs JobLister, interpreter QueryInterpreter, recognizer speech.Client, defaultRadiusKm float64) *Service {
	return &Service{
		jobs:            jobs,
		interpreter:     interpreter,
		recognizer:      recognizer,
		defaultRadiusKm: defaultRadiusKm,
	}
}

// Search matches jobs against the query's keywords and filters. With a reference
// point the matches are narrowed to the radius and ordered nearest first;
// otherwise they keep insertion order and carry no distance.
func (s *Service) Search(ctx context.Context, req Request) (*Result, error) {
	query := strings.TrimSpace(req.Query)

	intent := models.SearchIntent{Keywords: []string{}}
	if query != "" {
		intent = s.interpreter.ProcessSearchQuery(ctx, query)
	}

	candidates, err := s.jobs.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	matched := make([]*models.Job, 0, len(candidates))
	for _, job := range candidates {
		if matches(job, intent) {
			matched = append(matched, job)
		}
	}

	var jobs []models.ScoredJob
	if req.Reference != nil {
		radius := req.RadiusKm
		if radius <= 0 {
			radius = s.defaultRadiusKm
		}
		jobs = geo.FilterByProximity(matched, req.Reference, radius)
	} else {
		jobs = geo.Unscored(matched)
	}

	slog.Info("search completed",
		"keywords", len(intent.Keywords),
		"candidates", len(candidates),
		"results", len(jobs),
		"proximity", req.Reference != nil,
	)

	return &Result{Query: query, Intent: intent, Jobs: jobs}, nil
}

// VoiceSearch transcribes the audio, cleans up the transcript and runs it as a
// text search. Recognition problems are reported through Status, never as an
// error; only a failure to load jobs is returned.
func (s *Service) VoiceSearch(ctx context.Context, req VoiceRequest) (*VoiceResult, error) {
	transcript, err := s.recognizer.Recognize(ctx, speech.RecognizeRequest{
		AudioBase64:     req.AudioBase64,
		LanguageCode:    speech.LanguageCode(req.Language),
		SampleRateHertz: req.SampleRateHertz,
	})
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, speech.ErrNotConfigured) {
			level = slog.LevelError
		}
		slog.Log(ctx, level, "speech recognition failed", "language", req.Language, "error", err)
		return emptyVoiceResult(VoiceSpeechFailed), nil
	}

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return emptyVoiceResult(VoiceNoSpeech), nil
	}

	query := s.interpreter.EnhanceVoiceQuery(ctx, transcript)
	res, err := s.Search(ctx, Request{Query: query, Reference: req.Reference, RadiusKm: req.RadiusKm})
	if err != nil {
		return nil, err
	}

	return &VoiceResult{
		Status:     VoiceOK,
		Transcript: transcript,
		Query:      res.Query,
		Intent:     res.Intent,
		Jobs:       res.Jobs,
	}, nil
}

func emptyVoiceResult(status VoiceStatus) *VoiceResult {
	return &VoiceResult{
		Status: status,
		Intent: models.SearchIntent{Keywords: []string{}},
		Jobs:   []models.ScoredJob{},
	}
}

// matches reports whether job satisfies any keyword and every filter.
// JobType is not matched: jobs do not record an employment type.
func matches(job *models.Job, intent models.SearchIntent) bool {
	if job == nil {
		return false
	}

	if len(intent.Keywords) > 0 {
		haystack := strings.ToLower(job.Title + " " + job.Description + " " + job.Location)
		found := false
		for _, kw := range intent.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" && strings.Contains(haystack, kw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if loc := strings.ToLower(strings.TrimSpace(intent.Filters.Location)); loc != "" {
		if !strings.Contains(strings.ToLower(job.Location), loc) {
			return false
		}
	}

	if intent.Filters.MinPay > 0 {
		if highest, ok := verify.HighestPayNumber(job.Pay); ok && float64(highest) < intent.Filters.MinPay {
			return false
		}
	}

	return true
}
