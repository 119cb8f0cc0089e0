package handler

import (
	"context"
	"net/http"

	"github.com/kiranshivaraju/jobscout/internal/api/response"
	"github.com/kiranshivaraju/jobscout/pkg/models"
)

// GuidanceLister defines what the safety guidance handlers depend on.
type GuidanceLister interface {
	ListSafetyTips(ctx context.Context) ([]models.SafetyTip, error)
	ListWorkerRights(ctx context.Context) ([]models.WorkerRight, error)
}

// NewSafetyTipsHandler returns an http.HandlerFunc for GET /api/v1/safety/tips.
func NewSafetyTipsHandler(src GuidanceLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tips, err := src.ListSafetyTips(r.Context())
		if err != nil {
			response.Internal(w, r, err)
			return
		}
		response.Collection(w, tips, len(tips))
	}
}

// NewWorkerRightsHandler returns an http.HandlerFunc for GET /api/v1/safety/rights.
func NewWorkerRightsHandler(src GuidanceLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rights, err := src.ListWorkerRights(r.Context())
		if err != nil {
			response.Internal(w, r, err)
			return
		}
		response.Collection(w, rights, len(rights))
	}
}
