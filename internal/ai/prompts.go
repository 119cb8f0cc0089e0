package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kiranshivaraju/jobscout/pkg/models"
)

const safetyPromptTemplate = `Analyze the following job description for potential safety concerns.
Rate the overall safety on a scale of 1-10 (10 being safest).
Provide 3 specific safety notes or concerns.
Format your response as JSON with fields: safetyScore (number) and safetyNotes (array of strings).

Job Description:
%s`

const searchPromptTemplate = `Extract search keywords and filters from this job search query.
Return JSON with:
- keywords: array of important search terms
- filters: object with optional properties location (string), min_pay (number), job_type (string)

Query: %q`

const voicePromptTemplate = `This text was transcribed from voice search.
Clean it up and make it a proper job search query.
Fix any transcription errors.

Transcribed Text: %q

Return only the improved search query text, no additional explanation.`

const recommendPromptTemplate = `You are a job recommendation system. Given this list of jobs, return the IDs of the 3 most
%s jobs.

Jobs: %s

Return only a JSON array of job IDs, nothing else.`

const matchPromptTemplate = `Analyze how well the following job matches this user's skills and preferences.
Rate the match on a scale of 1-10 (10 being perfect match).
Provide 3 specific reasons for your rating.
Format your response as JSON with fields: matchScore (number) and reasons (array of strings).

Job Description:
%s

User Skills:
%s

User Preferences:
%s`

const translatePromptTemplate = `Translate the following text to %s. Only provide the translation, no additional text:

%s`

// Recommendation categories.
const (
	CategoryPopular = "popular"
	CategorySafety  = "safety"
	CategoryLocal   = "local"
)

func buildSafetyPrompt(description string) string {
	return fmt.Sprintf(safetyPromptTemplate, description)
}

func buildSearchPrompt(query string) string {
	return fmt.Sprintf(searchPromptTemplate, query)
}

func buildVoicePrompt(transcript string) string {
	return fmt.Sprintf(voicePromptTemplate, transcript)
}

func buildMatchPrompt(description string, profile models.MatchProfile) (string, error) {
	prefs := profile.Preferences
	if prefs == nil {
		prefs = map[string]any{}
	}
	payload, err := json.Marshal(prefs)
	if err != nil {
		return "", fmt.Errorf("encoding preferences: %w", err)
	}
	return fmt.Sprintf(matchPromptTemplate, description, strings.Join(profile.Skills, ", "), payload), nil
}

func buildTranslatePrompt(text, languageName string) string {
	return fmt.Sprintf(translatePromptTemplate, languageName, text)
}

type recommendCandidate struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Pay         string          `json:"pay"`
	SafetyScore models.RiskTier `json:"safetyScore"`
}

func buildRecommendPrompt(jobs []*models.Job, category string) (string, error) {
	candidates := make([]recommendCandidate, 0, len(jobs))
	for _, j := range jobs {
		candidates = append(candidates, recommendCandidate{
			ID:          j.ID.String(),
			Title:       j.Title,
			Description: j.Description,
			Location:    j.Location,
			Pay:         j.Pay,
			SafetyScore: j.SafetyScore,
		})
	}
	payload, err := json.Marshal(candidates)
	if err != nil {
		return "", fmt.Errorf("encoding jobs: %w", err)
	}
	return fmt.Sprintf(recommendPromptTemplate, categoryPhrase(category), payload), nil
}

func categoryPhrase(category string) string {
	switch category {
	case CategorySafety:
		return "safe and trusted"
	case CategoryLocal:
		return "locally relevant"
	default:
		return "popular and suitable"
	}
}
