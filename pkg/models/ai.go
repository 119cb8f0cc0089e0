// Package models contains shared data models used across the JobScout codebase.
package models

import (
	"context"
	"errors"
)

// Provider errors. Implementations wrap one of these so callers can fall back.
var (
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	ErrInferenceTimeout    = errors.New("ai inference timeout")
	ErrInvalidResponse     = errors.New("ai provider returned invalid response")
)

// AIProvider is the core interface that all generative AI integrations must implement.
// Never call specific AI providers directly. Always inject this interface.
type AIProvider interface {
	// Generate sends a prompt and returns the model's raw text reply.
	Generate(ctx context.Context, prompt string) (string, error)
	// Name returns the provider identifier (e.g., "gemini", "openai").
	Name() string
}

// SafetyAnalysis is the AI-derived 1-10 safety rating of a job description.
// It is recomputed on every request.
type SafetyAnalysis struct {
	SafetyScore int      `json:"safetyScore"`
	SafetyNotes []string `json:"safetyNotes"`
}

// SearchFilters are structured constraints extracted from a natural-language query.
type SearchFilters struct {
	Location string  `json:"location,omitempty"`
	MinPay   float64 `json:"min_pay,omitempty"`
	JobType  string  `json:"job_type,omitempty"`
}

// SearchIntent is the keyword/filter breakdown of a search query.
type SearchIntent struct {
	Keywords []string      `json:"keywords"`
	Filters  SearchFilters `json:"filters"`
}

// MatchProfile describes a job seeker for match scoring.
type MatchProfile struct {
	Skills      []string       `json:"skills"`
	Preferences map[string]any `json:"preferences,omitempty"`
}

// JobMatch is the AI-derived 1-10 fit of a job to a MatchProfile.
type JobMatch struct {
	MatchScore int      `json:"matchScore"`
	Reasons    []string `json:"reasons"`
}
