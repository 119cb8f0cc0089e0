package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kiranshivaraju/jobscout/internal/cache"
	"github.com/kiranshivaraju/jobscout/pkg/models"
	"golang.org/x/time/rate"
)

const (
	defaultSafetyScore = 5
	defaultSafetyNote  = "Could not analyze job safety"
	defaultMatchScore  = 5
	defaultMatchReason = "Could not analyze job match"
	maxSafetyNotes     = 3
	maxVoiceQueryRunes = 200
	recommendCount     = 3
)

// DefaultSafetyAnalysis is returned whenever the model cannot produce a usable rating.
func DefaultSafetyAnalysis() models.SafetyAnalysis {
	return models.SafetyAnalysis{
		SafetyScore: defaultSafetyScore,
		SafetyNotes: []string{defaultSafetyNote},
	}
}

// DefaultJobMatch is returned whenever the model cannot produce a usable match rating.
func DefaultJobMatch() models.JobMatch {
	return models.JobMatch{
		MatchScore: defaultMatchScore,
		Reasons:    []string{defaultMatchReason},
	}
}

// ServiceConfig tunes outbound AI calls.
type ServiceConfig struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	IntentTTL         time.Duration
}

// Service wraps an AIProvider with the prompts, parsing and fallbacks used by JobScout.
// Every method degrades to a documented default instead of returning an error.
type Service struct {
	provider  models.AIProvider
	cache     cache.Cache
	limiter   *rate.Limiter
	timeout   time.Duration
	intentTTL time.Duration
}

// NewService creates a Service. ca may be nil, in which case search intents are not cached.
func NewService(provider models.AIProvider, ca cache.Cache, cfg ServiceConfig) *Service {
	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = int(math.Max(1, math.Ceil(cfg.RequestsPerSecond)))
	}
	return &Service{
		provider:  provider,
		cache:     ca,
		limiter:   rate.NewLimiter(limit, burst),
		timeout:   cfg.Timeout,
		intentTTL: cfg.IntentTTL,
	}
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// generate sends prompt through the limiter with the inference timeout applied.
func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %v", ErrProviderUnavailable, err)
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := s.provider.Generate(callCtx, prompt)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrInferenceTimeout) {
			return "", fmt.Errorf("%w: %v", ErrInferenceTimeout, err)
		}
		return "", err
	}
	return out, nil
}

type safetyResponse struct {
	SafetyScore *float64 `json:"safetyScore"`
	SafetyNotes []any    `json:"safetyNotes"`
}

// AnalyzeJobSafety rates a job description 1-10 with up to three notes.
// Any failure yields DefaultSafetyAnalysis. The result is never cached.
func (s *Service) AnalyzeJobSafety(ctx context.Context, description string) models.SafetyAnalysis {
	out, err := s.generate(ctx, buildSafetyPrompt(description))
	if err != nil {
		slog.Warn("safety analysis failed", "provider", s.provider.Name(), "error", err)
		return DefaultSafetyAnalysis()
	}

	var resp safetyResponse
	if err := DecodeTolerant(out, &resp); err != nil {
		slog.Warn("safety analysis unparseable", "provider", s.provider.Name(), "error", err)
		return DefaultSafetyAnalysis()
	}
	if !validScore(resp.SafetyScore) {
		slog.Warn("safety analysis missing score", "provider", s.provider.Name())
		return DefaultSafetyAnalysis()
	}

	notes := cleanNotes(resp.SafetyNotes)
	if len(notes) == 0 {
		slog.Warn("safety analysis returned no notes", "provider", s.provider.Name())
		return DefaultSafetyAnalysis()
	}

	return models.SafetyAnalysis{
		SafetyScore: clampScore(*resp.SafetyScore),
		SafetyNotes: notes,
	}
}

// cleanNotes keeps the first three non-blank string entries.
func cleanNotes(raw []any) []string {
	notes := make([]string, 0, maxSafetyNotes)
	for _, n := range raw {
		text, ok := n.(string)
		if !ok {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		notes = append(notes, text)
		if len(notes) == maxSafetyNotes {
			break
		}
	}
	return notes
}

func validScore(f *float64) bool {
	return f != nil && !math.IsNaN(*f) && !math.IsInf(*f, 0)
}

type matchResponse struct {
	MatchScore *float64 `json:"matchScore"`
	Reasons    []any    `json:"reasons"`
}

// MatchJob rates how well a job description fits profile, 1-10 with up to
// three reasons. Any failure yields DefaultJobMatch.
func (s *Service) MatchJob(ctx context.Context, description string, profile models.MatchProfile) models.JobMatch {
	prompt, err := buildMatchPrompt(description, profile)
	if err != nil {
		slog.Warn("job match prompt failed", "error", err)
		return DefaultJobMatch()
	}

	out, err := s.generate(ctx, prompt)
	if err != nil {
		slog.Warn("job match failed", "provider", s.provider.Name(), "error", err)
		return DefaultJobMatch()
	}

	var resp matchResponse
	if err := DecodeTolerant(out, &resp); err != nil {
		slog.Warn("job match unparseable", "provider", s.provider.Name(), "error", err)
		return DefaultJobMatch()
	}
	reasons := cleanNotes(resp.Reasons)
	if !validScore(resp.MatchScore) || len(reasons) == 0 {
		slog.Warn("job match incomplete", "provider", s.provider.Name())
		return DefaultJobMatch()
	}

	return models.JobMatch{
		MatchScore: clampScore(*resp.MatchScore),
		Reasons:    reasons,
	}
}

// TranslationLanguages maps accepted target language keys to the names used in prompts.
var TranslationLanguages = map[string]string{
	"english":   "English",
	"tamil":     "Tamil",
	"swahili":   "Swahili",
	"telugu":    "Telugu",
	"malayalam": "Malayalam",
}

// Translate renders text in targetLanguage. Provider failures and empty
// replies are returned as errors.
func (s *Service) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	name, ok := TranslationLanguages[strings.ToLower(strings.TrimSpace(targetLanguage))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, targetLanguage)
	}

	out, err := s.generate(ctx, buildTranslatePrompt(text, name))
	if err != nil {
		return "", fmt.Errorf("translating to %s: %w", name, err)
	}
	translated := strings.TrimSpace(out)
	if translated == "" {
		return "", fmt.Errorf("translating to %s: %w: empty reply", name, ErrInvalidResponse)
	}
	return translated, nil
}

func clampScore(f float64) int {
	score := int(math.Round(f))
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

type intentResponse struct {
	Keywords []any          `json:"keywords"`
	Filters  map[string]any `json:"filters"`
}

// ProcessSearchQuery splits a natural-language query into keywords and filters.
// The fallback is the whole trimmed query as a single keyword. Successful results
// are cached by query hash.
func (s *Service) ProcessSearchQuery(ctx context.Context, query string) models.SearchIntent {
	query = strings.TrimSpace(query)
	fallback := models.SearchIntent{Keywords: []string{query}}
	if query == "" {
		return models.SearchIntent{Keywords: []string{}}
	}

	key := cache.SearchIntentKey(cache.QueryHash(query))
	if intent, ok := s.cachedIntent(ctx, key); ok {
		return intent
	}

	out, err := s.generate(ctx, buildSearchPrompt(query))
	if err != nil {
		slog.Warn("search query processing failed", "provider", s.provider.Name(), "error", err)
		return fallback
	}

	var resp intentResponse
	if err := DecodeTolerant(out, &resp); err != nil {
		slog.Warn("search query response unparseable", "provider", s.provider.Name(), "error", err)
		return fallback
	}

	intent := models.SearchIntent{
		Keywords: cleanKeywords(resp.Keywords),
		Filters:  parseFilters(resp.Filters),
	}
	if len(intent.Keywords) == 0 && intent.Filters == (models.SearchFilters{}) {
		return fallback
	}

	s.storeIntent(ctx, key, intent)
	return intent
}

func (s *Service) cachedIntent(ctx context.Context, key string) (models.SearchIntent, bool) {
	if s.cache == nil {
		return models.SearchIntent{}, false
	}
	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("search intent cache read failed", "error", err)
		return models.SearchIntent{}, false
	}
	if !found {
		return models.SearchIntent{}, false
	}
	var intent models.SearchIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return models.SearchIntent{}, false
	}
	return intent, true
}

func (s *Service) storeIntent(ctx context.Context, key string, intent models.SearchIntent) {
	if s.cache == nil || s.intentTTL <= 0 {
		return
	}
	raw, err := json.Marshal(intent)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.intentTTL); err != nil {
		slog.Warn("search intent cache write failed", "error", err)
	}
}

func cleanKeywords(raw []any) []string {
	keywords := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, k := range raw {
		text, ok := k.(string)
		if !ok {
			continue
		}
		text = strings.TrimSpace(text)
		lower := strings.ToLower(text)
		if text == "" || seen[lower] {
			continue
		}
		seen[lower] = true
		keywords = append(keywords, text)
	}
	return keywords
}

// parseFilters accepts the loosely-typed filter object models tend to return.
func parseFilters(raw map[string]any) models.SearchFilters {
	var f models.SearchFilters
	for k, v := range raw {
		switch strings.ToLower(strings.ReplaceAll(k, "_", "")) {
		case "location":
			if s, ok := v.(string); ok {
				f.Location = strings.TrimSpace(s)
			}
		case "jobtype", "type":
			if s, ok := v.(string); ok {
				f.JobType = strings.TrimSpace(s)
			}
		case "minpay", "minsalary", "salary", "pay":
			if n, ok := numberFrom(v); ok && n > f.MinPay {
				f.MinPay = n
			}
		}
	}
	return f
}

func numberFrom(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, t > 0
	case string:
		digits := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' {
				return r
			}
			if r == ',' {
				return -1
			}
			return ' '
		}, t)
		for _, field := range strings.Fields(digits) {
			if n, err := strconv.ParseFloat(field, 64); err == nil {
				return n, n > 0
			}
		}
	}
	return 0, false
}

// EnhanceVoiceQuery asks the model to clean up a speech transcript. It returns
// the original transcript unless the reply is a single non-empty line of at most
// 200 characters.
func (s *Service) EnhanceVoiceQuery(ctx context.Context, transcript string) string {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return transcript
	}

	out, err := s.generate(ctx, buildVoicePrompt(transcript))
	if err != nil {
		slog.Warn("voice query enhancement failed", "provider", s.provider.Name(), "error", err)
		return transcript
	}

	enhanced := strings.Trim(strings.TrimSpace(out), "\"'`")
	enhanced = strings.TrimSpace(enhanced)
	if enhanced == "" ||
		strings.ContainsAny(enhanced, "\r\n") ||
		utf8.RuneCountInString(enhanced) > maxVoiceQueryRunes {
		return transcript
	}
	return enhanced
}

// RecommendJobs returns up to three jobs the model considers best for category,
// in their input order. With three jobs or fewer all are returned. Any failure
// returns the first three.
func (s *Service) RecommendJobs(ctx context.Context, jobs []*models.Job, category string) []*models.Job {
	if len(jobs) <= recommendCount {
		return jobs
	}
	fallback := jobs[:recommendCount]

	prompt, err := buildRecommendPrompt(jobs, category)
	if err != nil {
		return fallback
	}

	out, err := s.generate(ctx, prompt)
	if err != nil {
		slog.Warn("job recommendation failed", "provider", s.provider.Name(), "error", err)
		return fallback
	}

	var ids []any
	if err := DecodeTolerant(out, &ids); err != nil {
		slog.Warn("job recommendation unparseable", "provider", s.provider.Name(), "error", err)
		return fallback
	}

	picked := make(map[string]bool, len(ids))
	for _, id := range ids {
		if sid, ok := id.(string); ok {
			picked[strings.ToLower(strings.TrimSpace(sid))] = true
		}
	}

	var recommended []*models.Job
	for _, j := range jobs {
		if picked[j.ID.String()] {
			recommended = append(recommended, j)
			if len(recommended) == recommendCount {
				break
			}
		}
	}
	if len(recommended) == 0 {
		return fallback
	}
	return recommended
}
