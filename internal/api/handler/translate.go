package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/jobscout/internal/ai"
	"github.com/kiranshivaraju/jobscout/internal/api/response"
)

// Translator defines what the translate handler depends on.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

type translateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// NewTranslateHandler returns an http.HandlerFunc for POST /api/v1/translate.
func NewTranslateHandler(svc Translator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req translateRequest
		if !decodeBody(w, r, &req, false) {
			return
		}
		if strings.TrimSpace(req.Text) == "" || strings.TrimSpace(req.TargetLanguage) == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Text and targetLanguage are required", nil)
			return
		}

		translated, err := svc.Translate(r.Context(), req.Text, req.TargetLanguage)
		if err != nil {
			switch {
			case errors.Is(err, ai.ErrUnsupportedLanguage):
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"targetLanguage must be one of english, tamil, swahili, telugu, malayalam", nil)
			case errors.Is(err, context.Canceled):
				// Client went away; nothing to send.
			default:
				slog.Warn("translation failed", "error", err)
				response.Error(w, http.StatusBadGateway, "TRANSLATION_FAILED", "Translation failed", nil)
			}
			return
		}
		response.JSON(w, translateResponse{TranslatedText: translated})
	}
}
