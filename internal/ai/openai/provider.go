package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/jobscout/internal/ai/transport"
	"github.com/kiranshivaraju/jobscout/internal/config"
	"github.com/kiranshivaraju/jobscout/pkg/models"
)

// Provider implements models.AIProvider using an OpenAI-compatible chat completions API.
type Provider struct {
	cfg    config.OpenAIConfig
	client *http.Client
}

func NewProvider(cfg config.OpenAIConfig) *Provider {
	return &Provider{cfg: cfg, client: &http.Client{}}
}

func (p *Provider) Name() string { return "openai" }

func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.cfg.APIKey == "" {
		return "", fmt.Errorf("%w: OPENAI_API_KEY not set", models.ErrProviderUnavailable)
	}

	req := chatRequest{
		Model:    p.cfg.Model,
		Messages: []message{{Role: "user", Content: prompt}},
	}
	headers := map[string]string{"Authorization": "Bearer " + p.cfg.APIKey}

	var resp chatResponse
	u := strings.TrimRight(p.cfg.BaseURL, "/") + "/chat/completions"
	if err := transport.PostJSON(ctx, p.client, u, headers, req, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", models.ErrInvalidResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

var _ models.AIProvider = (*Provider)(nil)
