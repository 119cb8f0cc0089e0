// Package speech is a client for the Google Cloud Speech-to-Text v1 REST API.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sentinel errors for Speech-to-Text failures.
var (
	ErrNotConfigured = errors.New("speech api key not configured")
	ErrEmptyAudio    = errors.New("speech audio is empty")
	ErrUnreachable   = errors.New("speech api unreachable")
	ErrTimeout       = errors.New("speech api timeout")
	ErrRequestFailed = errors.New("speech recognition request failed")
)

const (
	DefaultEncoding        = "WEBM_OPUS"
	DefaultSampleRateHertz = 48000
)

// Client is the interface for transcribing audio.
type Client interface {
	// Recognize returns the top transcript, or "" when no speech was detected.
	Recognize(ctx context.Context, req RecognizeRequest) (string, error)
}

// RecognizeRequest describes one short audio clip.
type RecognizeRequest struct {
	AudioBase64     string
	LanguageCode    string
	SampleRateHertz int
	Encoding        string
}

// HTTPClient implements Client using the speech:recognize endpoint.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient creates a new Speech-to-Text client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Recognize(ctx context.Context, req RecognizeRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(req.AudioBase64) == "" {
		return "", ErrEmptyAudio
	}

	body := recognizeBody{
		Config: recognitionConfig{
			Encoding:                   req.Encoding,
			SampleRateHertz:            req.SampleRateHertz,
			LanguageCode:               req.LanguageCode,
			EnableAutomaticPunctuation: true,
			UseEnhanced:                true,
		},
		Audio: recognitionAudio{Content: req.AudioBase64},
	}
	if body.Config.Encoding == "" {
		body.Config.Encoding = DefaultEncoding
	}
	if body.Config.SampleRateHertz <= 0 {
		body.Config.SampleRateHertz = DefaultSampleRateHertz
	}
	if body.Config.LanguageCode == "" {
		body.Config.LanguageCode = LanguageCode("")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	u := fmt.Sprintf("%s/v1/speech:recognize?%s", c.baseURL, url.Values{"key": {c.apiKey}}.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	var out recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrRequestFailed, err)
	}

	if len(out.Results) == 0 || len(out.Results[0].Alternatives) == 0 {
		return "", nil
	}
	return strings.TrimSpace(out.Results[0].Alternatives[0].Transcript), nil
}

// LanguageCode maps an app language name to a BCP-47 recognition language.
func LanguageCode(language string) string {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "tamil":
		return "ta-IN"
	case "swahili":
		return "sw"
	case "telugu":
		return "te-IN"
	case "malayalam":
		return "ml-IN"
	default:
		return "en-US"
	}
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}

// --- Speech-to-Text wire types ---

type recognizeBody struct {
	Config recognitionConfig `json:"config"`
	Audio  recognitionAudio  `json:"audio"`
}

type recognitionConfig struct {
	Encoding                   string `json:"encoding"`
	SampleRateHertz            int    `json:"sampleRateHertz"`
	LanguageCode               string `json:"languageCode"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
	UseEnhanced                bool   `json:"useEnhanced"`
}

type recognitionAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)
