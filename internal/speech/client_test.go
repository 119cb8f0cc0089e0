package speech

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(baseURL, key string) *HTTPClient {
	return NewHTTPClient(baseURL, key, 5*time.Second)
}

func TestRecognize_ValidResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/speech:recognize" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "cloud-key" {
			t.Errorf("unexpected key: %s", r.URL.Query().Get("key"))
		}

		var body recognizeBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding body: %v", err)
			return
		}
		if body.Config.Encoding != "WEBM_OPUS" || body.Config.SampleRateHertz != 48000 {
			t.Errorf("unexpected defaults: %+v", body.Config)
		}
		if body.Config.LanguageCode != "ta-IN" {
			t.Errorf("unexpected language: %s", body.Config.LanguageCode)
		}
		if !body.Config.EnableAutomaticPunctuation || !body.Config.UseEnhanced {
			t.Errorf("expected punctuation and enhanced model: %+v", body.Config)
		}
		if body.Audio.Content != "AAAA" {
			t.Errorf("unexpected audio: %s", body.Audio.Content)
		}

		w.Write([]byte(`{"results":[{"alternatives":[{"transcript":" driver jobs in Chennai ","confidence":0.91}]},{"alternatives":[{"transcript":"ignored"}]}]}`))
	}))
	defer ts.Close()

	got, err := newTestClient(ts.URL, "cloud-key").Recognize(context.Background(), RecognizeRequest{
		AudioBase64:  "AAAA",
		LanguageCode: LanguageCode("Tamil"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "driver jobs in Chennai" {
		t.Errorf("unexpected transcript: %q", got)
	}
}

func TestRecognize_NoSpeech(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	got, err := newTestClient(ts.URL, "k").Recognize(context.Background(), RecognizeRequest{AudioBase64: "AAAA"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty transcript, got %q", got)
	}
}

func TestRecognize_NotConfigured(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:1", "").Recognize(context.Background(), RecognizeRequest{AudioBase64: "AAAA"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestRecognize_EmptyAudio(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:1", "k").Recognize(context.Background(), RecognizeRequest{})
	if !errors.Is(err, ErrEmptyAudio) {
		t.Fatalf("expected ErrEmptyAudio, got %v", err)
	}
}

func TestRecognize_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"Invalid recognition 'config': bad encoding.","status":"INVALID_ARGUMENT"}}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL, "k").Recognize(context.Background(), RecognizeRequest{AudioBase64: "AAAA"})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	if want := "bad encoding"; !strings.Contains(err.Error(), want) {
		t.Errorf("expected error to carry API message, got %v", err)
	}
}

func TestRecognize_Unreachable(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:1", "k").Recognize(context.Background(), RecognizeRequest{AudioBase64: "AAAA"})
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestRecognize_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL, "k", 50*time.Millisecond)
	_, err := c.Recognize(context.Background(), RecognizeRequest{AudioBase64: "AAAA"})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestLanguageCode(t *testing.T) {
	cases := map[string]string{
		"tamil":     "ta-IN",
		"Swahili":   "sw",
		"telugu":    "te-IN",
		"malayalam": "ml-IN",
		"english":   "en-US",
		"":          "en-US",
		"klingon":   "en-US",
	}
	for in, want := range cases {
		if got := LanguageCode(in); got != want {
			t.Errorf("LanguageCode(%q) = %q, want %q", in, got, want)
		}
	}
}
