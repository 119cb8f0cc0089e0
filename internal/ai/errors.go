package ai

import (
	"errors"

	"github.com/kiranshivaraju/jobscout/pkg/models"
)

var (
	ErrProviderUnavailable = models.ErrProviderUnavailable
	ErrInferenceTimeout    = models.ErrInferenceTimeout
	ErrInvalidResponse     = models.ErrInvalidResponse
)

// ErrUnsupportedLanguage is returned by Translate for an unknown target language.
var ErrUnsupportedLanguage = errors.New("unsupported translation language")
