package main

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"vibecheck/internal/config"
	"vibecheck/internal/github"
	"vibecheck/internal/handler"
	"vibecheck/internal/insight"
	"vibecheck/internal/middleware"
	"vibecheck/internal/scoring"
	"vibecheck/internal/service"
)

// main is the single entry‑point for the REST API.
func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("Configuration loaded:")
	log.Printf("  - GCP project: %s (%s)", cfg.ProjectID, cfg.Location)
	log.Printf("  - Gemini model: %s", cfg.GeminiModel)
	log.Printf("  - Insight cache: %d entries, TTL %s", cfg.InsightCacheSize, cfg.InsightCacheTTL)

	// GitHub snapshot aggregator
	gh := github.NewClient(cfg.GitHubToken)

	// Scoring engine (fixed weight table; construction validates it)
	scorer := scoring.NewDefaultScorer()

	// Vertex AI insight generator; a missing credential is fatal here, the
	// only error the insight pipeline ever surfaces.
	generator, err := insight.NewVertexGenerator(cfg.ProjectID, cfg.Location, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to initialize Vertex AI generator: %v", err)
	}
	defer generator.Close()
	log.Printf("Vertex AI generator ready")

	// Insight service with its bounded TTL cache
	cache := insight.NewCache(cfg.InsightCacheTTL, cfg.InsightCacheSize)
	insightSvc := insight.NewService(generator, cache, cfg.InsightTimeout)

	// Pipeline services
	analyzeSvc := service.NewAnalyzeService(gh, scorer, insightSvc)
	batchSvc := service.NewBatchService(analyzeSvc)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Add middleware
	app.Use(middleware.Logging())

	// Register routes
	handler.RegisterRoutes(app, analyzeSvc, batchSvc)

	// Add health check
	healthHandler := handler.NewHealthHandler(generator, cache)
	healthHandler.Register(app)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
