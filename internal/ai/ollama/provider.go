package ollama

import (
	"context"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/jobscout/internal/ai/transport"
	"github.com/kiranshivaraju/jobscout/internal/config"
	"github.com/kiranshivaraju/jobscout/pkg/models"
)

// Provider implements models.AIProvider using Ollama.
type Provider struct {
	cfg    config.OllamaConfig
	client *http.Client
}

func NewProvider(cfg config.OllamaConfig) *Provider {
	return &Provider{cfg: cfg, client: &http.Client{}}
}

func (p *Provider) Name() string { return "ollama" }

func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{Model: p.cfg.Model, Prompt: prompt, Stream: false}

	var resp generateResponse
	u := strings.TrimRight(p.cfg.BaseURL, "/") + "/api/generate"
	if err := transport.PostJSON(ctx, p.client, u, nil, req, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

var _ models.AIProvider = (*Provider)(nil)
