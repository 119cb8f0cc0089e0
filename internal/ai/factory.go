package ai

import (
	"fmt"

	"github.com/kiranshivaraju/jobscout/internal/ai/gemini"
	"github.com/kiranshivaraju/jobscout/internal/ai/ollama"
	"github.com/kiranshivaraju/jobscout/internal/ai/openai"
	"github.com/kiranshivaraju/jobscout/internal/config"
	"github.com/kiranshivaraju/jobscout/pkg/models"
)

// NewProvider constructs the appropriate AI provider based on config.
// Called once at server startup. A missing API key is not an error here: the
// provider reports ErrProviderUnavailable per call and the service falls back.
func NewProvider(cfg config.AIConfig) (models.AIProvider, error) {
	switch cfg.Provider {
	case "gemini":
		return gemini.NewProvider(cfg.Gemini), nil
	case "openai":
		return openai.NewProvider(cfg.OpenAI), nil
	case "ollama":
		return ollama.NewProvider(cfg.Ollama), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of gemini, openai, ollama", cfg.Provider)
	}
}
