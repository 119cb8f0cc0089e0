package verify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules holds the tunable thresholds and word lists used by the checks.
type Rules struct {
	MinTitleLength    int      `yaml:"minTitleLength"`
	MinCompanyLength  int      `yaml:"minCompanyLength"`
	MinLocationLength int      `yaml:"minLocationLength"`
	BlockedWords      []string `yaml:"blockedWords"`
	PayPhrases        []string `yaml:"payPhrases"`
	MaxPayAmount      int64    `yaml:"maxPayAmount"`
}

// DefaultRules returns the built-in rule set.
func DefaultRules() Rules {
	return Rules{
		MinTitleLength:    3,
		MinCompanyLength:  2,
		MinLocationLength: 3,
		BlockedWords:      []string{"scam", "fraud", "fake", "illegal", "xxx"},
		PayPhrases:        []string{"unlimited", "millionaire", "get rich"},
		MaxPayAmount:      1_000_000,
	}
}

// LoadRules reads a YAML rules file and overlays its non-zero fields on the defaults.
// An empty path returns the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules file: %w", err)
	}

	var fileRules Rules
	if err := yaml.Unmarshal(raw, &fileRules); err != nil {
		return Rules{}, fmt.Errorf("parsing rules file %s: %w", path, err)
	}

	rules = mergeRules(rules, fileRules)
	if err := rules.validate(); err != nil {
		return Rules{}, fmt.Errorf("rules file %s: %w", path, err)
	}
	return rules, nil
}

func mergeRules(base, override Rules) Rules {
	if override.MinTitleLength != 0 {
		base.MinTitleLength = override.MinTitleLength
	}
	if override.MinCompanyLength != 0 {
		base.MinCompanyLength = override.MinCompanyLength
	}
	if override.MinLocationLength != 0 {
		base.MinLocationLength = override.MinLocationLength
	}
	if len(override.BlockedWords) > 0 {
		base.BlockedWords = override.BlockedWords
	}
	if len(override.PayPhrases) > 0 {
		base.PayPhrases = override.PayPhrases
	}
	if override.MaxPayAmount != 0 {
		base.MaxPayAmount = override.MaxPayAmount
	}
	return base
}

func (r Rules) validate() error {
	if r.MinTitleLength < 0 || r.MinCompanyLength < 0 || r.MinLocationLength < 0 {
		return fmt.Errorf("minimum lengths must not be negative")
	}
	if r.MaxPayAmount <= 0 {
		return fmt.Errorf("maxPayAmount must be positive, got %d", r.MaxPayAmount)
	}
	for _, w := range r.BlockedWords {
		if w == "" {
			return fmt.Errorf("blockedWords must not contain empty entries")
		}
	}
	for _, p := range r.PayPhrases {
		if p == "" {
			return fmt.Errorf("payPhrases must not contain empty entries")
		}
	}
	return nil
}
