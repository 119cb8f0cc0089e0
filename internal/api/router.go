package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	mw "github.com/kiranshivaraju/jobscout/internal/api/middleware"
	"github.com/kiranshivaraju/jobscout/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc

	ListJobsHandler        http.HandlerFunc
	CreateJobHandler       http.HandlerFunc
	NearbyJobsHandler      http.HandlerFunc
	RecommendedJobsHandler http.HandlerFunc
	GetJobHandler          http.HandlerFunc
	JobSafetyHandler       http.HandlerFunc
	ReportJobHandler       http.HandlerFunc
	MatchJobHandler        http.HandlerFunc

	SearchHandler      http.HandlerFunc
	VoiceSearchHandler http.HandlerFunc

	AutocompleteHandler   http.HandlerFunc
	PlaceDetailsHandler   http.HandlerFunc
	ReverseGeocodeHandler http.HandlerFunc

	TranslateHandler    http.HandlerFunc
	SafetyTipsHandler   http.HandlerFunc
	WorkerRightsHandler http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// Health checks are not rate limited.
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Limit)
		}

		r.Route("/api/v1/jobs", func(r chi.Router) {
			r.Get("/", orNotImplemented(deps.ListJobsHandler))
			r.Post("/", orNotImplemented(deps.CreateJobHandler))
			r.Get("/nearby", orNotImplemented(deps.NearbyJobsHandler))
			r.Get("/recommended", orNotImplemented(deps.RecommendedJobsHandler))

			r.Route("/{jobID}", func(r chi.Router) {
				r.Get("/", orNotImplemented(deps.GetJobHandler))
				r.Get("/safety", orNotImplemented(deps.JobSafetyHandler))
				r.Post("/reports", orNotImplemented(deps.ReportJobHandler))
				r.Post("/match", orNotImplemented(deps.MatchJobHandler))
			})
		})

		r.Post("/api/v1/search", orNotImplemented(deps.SearchHandler))
		r.Post("/api/v1/search/voice", orNotImplemented(deps.VoiceSearchHandler))

		r.Get("/api/v1/places/autocomplete", orNotImplemented(deps.AutocompleteHandler))
		r.Get("/api/v1/places/reverse", orNotImplemented(deps.ReverseGeocodeHandler))
		r.Get("/api/v1/places/{placeID}", orNotImplemented(deps.PlaceDetailsHandler))

		r.Post("/api/v1/translate", orNotImplemented(deps.TranslateHandler))
		r.Get("/api/v1/safety/tips", orNotImplemented(deps.SafetyTipsHandler))
		r.Get("/api/v1/safety/rights", orNotImplemented(deps.WorkerRightsHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
