// Package main is the entrypoint for the JobScout API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiranshivaraju/jobscout/internal/ai"
	"github.com/kiranshivaraju/jobscout/internal/api"
	"github.com/kiranshivaraju/jobscout/internal/api/handler"
	mw "github.com/kiranshivaraju/jobscout/internal/api/middleware"
	"github.com/kiranshivaraju/jobscout/internal/cache"
	"github.com/kiranshivaraju/jobscout/internal/config"
	"github.com/kiranshivaraju/jobscout/internal/jobs"
	"github.com/kiranshivaraju/jobscout/internal/places"
	"github.com/kiranshivaraju/jobscout/internal/search"
	"github.com/kiranshivaraju/jobscout/internal/speech"
	"github.com/kiranshivaraju/jobscout/internal/store"
	"github.com/kiranshivaraju/jobscout/internal/verify"
)

const (
	shutdownTimeout = 30 * time.Second
	migrationsDir   = "migrations"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, fail fast on invalid values
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded",
		"env", cfg.Server.Env,
		"database_driver", cfg.Database.Driver,
		"ai_provider", cfg.AI.Provider,
	)

	rules, err := verify.LoadRules(cfg.Verify.RulesFile)
	if err != nil {
		return fmt.Errorf("load verification rules: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Open the job store (postgres runs migrations first)
	jobStore, err := store.Open(ctx, cfg.Database, migrationsDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer jobStore.Close()
	slog.Info("database connected", "driver", cfg.Database.Driver)

	// 3. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		// Rate limiting fails open and intents are simply not cached.
		slog.Warn("redis unreachable at startup", "error", err)
	} else {
		slog.Info("redis connected")
	}

	// 4. Create AI provider and service
	aiProvider, err := ai.NewProvider(cfg.AI)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}
	aiSvc := ai.NewService(aiProvider, redisCache, ai.ServiceConfig{
		Timeout:           cfg.AI.InferenceTimeout,
		RequestsPerSecond: cfg.AI.RequestsPerSecond,
		IntentTTL:         cfg.Search.IntentTTL,
	})
	slog.Info("AI provider initialized", "provider", aiProvider.Name())

	// 5. Google web service clients
	speechClient := speech.NewHTTPClient(cfg.Google.SpeechURL, cfg.Google.CloudAPIKey, cfg.Google.Timeout)
	placesClient := places.NewHTTPClient(cfg.Google.MapsURL, cfg.Google.MapsAPIKey, cfg.Google.Timeout)
	if cfg.Google.CloudAPIKey == "" {
		slog.Warn("GOOGLE_CLOUD_API_KEY not set, voice search will report speech_failed")
	}
	if cfg.Google.MapsAPIKey == "" {
		slog.Warn("GOOGLE_MAPS_API_KEY not set, place lookups are disabled")
	}

	// 6. Domain services
	verifier := verify.NewVerifier(rules, verify.WithMinLatency(cfg.Verify.MinLatency))
	jobSvc := jobs.NewService(jobStore, verifier, aiSvc, placesClient, cfg.Search.DefaultRadiusKm)
	searchSvc := search.NewService(jobStore, aiSvc, speechClient, cfg.Search.DefaultRadiusKm)

	// 7. Build router with dependencies
	deps := api.Dependencies{
		RateLimit: mw.NewRateLimit(redisCache, cfg.Redis.RateLimitPerMinute),

		HealthHandler: handler.NewHealthHandler(jobStore, redisCache),

		ListJobsHandler:        handler.NewListJobsHandler(jobSvc),
		CreateJobHandler:       handler.NewCreateJobHandler(jobSvc),
		NearbyJobsHandler:      handler.NewNearbyJobsHandler(jobSvc),
		RecommendedJobsHandler: handler.NewRecommendedJobsHandler(jobSvc),
		GetJobHandler:          handler.NewGetJobHandler(jobSvc),
		JobSafetyHandler:       handler.NewJobSafetyHandler(jobSvc),
		ReportJobHandler:       handler.NewReportJobHandler(jobSvc),
		MatchJobHandler:        handler.NewMatchJobHandler(jobSvc),

		SearchHandler:      handler.NewSearchHandler(searchSvc),
		VoiceSearchHandler: handler.NewVoiceSearchHandler(searchSvc),

		AutocompleteHandler:   handler.NewAutocompleteHandler(placesClient),
		PlaceDetailsHandler:   handler.NewPlaceDetailsHandler(placesClient),
		ReverseGeocodeHandler: handler.NewReverseGeocodeHandler(placesClient),

		TranslateHandler:    handler.NewTranslateHandler(aiSvc),
		SafetyTipsHandler:   handler.NewSafetyTipsHandler(jobStore),
		WorkerRightsHandler: handler.NewWorkerRightsHandler(jobStore),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
