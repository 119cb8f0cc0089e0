// Package verify implements the rule-based gate that a job submission must pass
// before it is stored, and the completeness-based risk tier assigned to it.
package verify

import (
	"context"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kiranshivaraju/jobscout/pkg/models"
)

// Submission is the employer-provided content of a job posting.
type Submission struct {
	Title       string
	Company     string
	Location    string
	Pay         string
	Description string
	Coordinates *models.Coordinate
}

// Normalized returns a copy with surrounding whitespace trimmed from every text field.
func (s Submission) Normalized() Submission {
	s.Title = strings.TrimSpace(s.Title)
	s.Company = strings.TrimSpace(s.Company)
	s.Location = strings.TrimSpace(s.Location)
	s.Pay = strings.TrimSpace(s.Pay)
	s.Description = strings.TrimSpace(s.Description)
	return s
}

type check struct {
	name string
	fn   func(s Submission) Reason
}

// Verifier runs an ordered list of checks and stops at the first failure.
type Verifier struct {
	rules      Rules
	blocked    []blockedWord
	minLatency time.Duration
	checks     []check
}

type blockedWord struct {
	word string
	re   *regexp.Regexp
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithMinLatency makes a passing verification take at least d. Zero disables the wait.
func WithMinLatency(d time.Duration) Option {
	return func(v *Verifier) {
		if d > 0 {
			v.minLatency = d
		}
	}
}

var digitRun = regexp.MustCompile(`\d+`)

// NewVerifier builds a Verifier for the given rules.
func NewVerifier(rules Rules, opts ...Option) *Verifier {
	v := &Verifier{rules: rules}
	for _, w := range rules.BlockedWords {
		v.blocked = append(v.blocked, blockedWord{
			word: w,
			re:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`),
		})
	}
	for _, opt := range opts {
		opt(v)
	}

	v.checks = []check{
		{name: "required_fields", fn: v.checkRequired},
		{name: "min_lengths", fn: v.checkLengths},
		{name: "prohibited_content", fn: v.checkContent},
		{name: "pay_sanity", fn: v.checkPay},
		{name: "location", fn: v.checkLocation},
	}
	return v
}

// Verify evaluates the submission. The returned error is non-nil only when ctx
// ends during the minimum-latency wait after all checks passed.
func (v *Verifier) Verify(ctx context.Context, sub Submission) (Result, error) {
	sub = sub.Normalized()

	for _, c := range v.checks {
		if reason := c.fn(sub); reason != ReasonNone {
			slog.Info("job verification failed", "check", c.name, "reason", reason.String())
			return Result{Passed: false, Reason: reason}, nil
		}
	}

	if err := v.wait(ctx); err != nil {
		return Result{}, err
	}
	return Result{Passed: true}, nil
}

func (v *Verifier) wait(ctx context.Context) error {
	if v.minLatency <= 0 {
		return nil
	}
	t := time.NewTimer(v.minLatency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (v *Verifier) checkRequired(s Submission) Reason {
	if s.Title == "" || s.Company == "" || s.Location == "" {
		return ReasonMissingFields
	}
	return ReasonNone
}

func (v *Verifier) checkLengths(s Submission) Reason {
	if utf8.RuneCountInString(s.Title) < v.rules.MinTitleLength {
		return ReasonTitleTooShort
	}
	if utf8.RuneCountInString(s.Company) < v.rules.MinCompanyLength {
		return ReasonCompanyTooShort
	}
	return ReasonNone
}

func (v *Verifier) checkContent(s Submission) Reason {
	content := s.Title + " " + s.Description
	for _, b := range v.blocked {
		if b.re.MatchString(content) {
			// The matched word stays in the logs only.
			slog.Warn("job listing matched blocked word", "word", b.word)
			return ReasonInappropriateContent
		}
	}
	return ReasonNone
}

func (v *Verifier) checkPay(s Submission) Reason {
	if s.Pay == "" {
		return ReasonNone
	}
	lower := strings.ToLower(s.Pay)
	for _, phrase := range v.rules.PayPhrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return ReasonUnrealisticPayClaim
		}
	}
	if highest, ok := HighestPayNumber(s.Pay); ok && highest > v.rules.MaxPayAmount {
		return ReasonUnrealisticPayAmount
	}
	return ReasonNone
}

func (v *Verifier) checkLocation(s Submission) Reason {
	if utf8.RuneCountInString(s.Location) < v.rules.MinLocationLength {
		return ReasonLocationTooVague
	}
	return ReasonNone
}

// HighestPayNumber returns the largest run of digits in pay. Runs that overflow
// int64 are reported as math.MaxInt64. ok is false when pay holds no digits.
func HighestPayNumber(pay string) (highest int64, ok bool) {
	for _, run := range digitRun.FindAllString(pay, -1) {
		n, err := strconv.ParseInt(run, 10, 64)
		if err != nil {
			n = math.MaxInt64
		}
		if !ok || n > highest {
			highest = n
			ok = true
		}
	}
	return highest, ok
}
