package verify

import (
	"unicode/utf8"

	"github.com/kiranshivaraju/jobscout/pkg/models"
)

// CompletenessScore awards points for how fully a posting is filled in.
// The maximum is 7.
func CompletenessScore(sub Submission) int {
	sub = sub.Normalized()
	score := 0
	if utf8.RuneCountInString(sub.Title) > 5 {
		score++
	}
	if utf8.RuneCountInString(sub.Company) > 3 {
		score++
	}
	if utf8.RuneCountInString(sub.Location) > 5 {
		score++
	}
	if sub.Pay != "" {
		score++
	}
	if utf8.RuneCountInString(sub.Description) > 20 {
		score++
	}
	if sub.Coordinates != nil && sub.Coordinates.Valid() {
		score += 2
	}
	return score
}

// TierForScore maps a completeness score to a risk tier.
func TierForScore(score int) models.RiskTier {
	switch {
	case score >= 6:
		return models.RiskLow
	case score >= 4:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

// Tier returns the risk tier for a submission.
func Tier(sub Submission) models.RiskTier {
	return TierForScore(CompletenessScore(sub))
}
