// Glucose Tracker API
//
// REST API for glucose session uploads, near-future forecasting, and
// dashboard assembly.
//
//	@title			Glucose Tracker API
//	@version		1.0
//	@description	Upload CGM recordings, forecast near-future glucose from a pretrained sequence model, and browse assembled dashboards.
//
//	@BasePath	/v1
//
//	@tag.name			glucose-sessions
//	@tag.description	Glucose session upload and retrieval endpoints
//
//	@tag.name			forecast
//	@tag.description	Forecast model readiness endpoints
//
//	@tag.name			insights
//	@tag.description	LLM narrative endpoints
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/mvilar/glucose-tracker/internal/api"
	"github.com/mvilar/glucose-tracker/internal/api/handler"
	"github.com/mvilar/glucose-tracker/internal/config"
	"github.com/mvilar/glucose-tracker/internal/domain"
	"github.com/mvilar/glucose-tracker/internal/llm"
	"github.com/mvilar/glucose-tracker/internal/model"
	"github.com/mvilar/glucose-tracker/internal/repository"
	"github.com/mvilar/glucose-tracker/internal/seed"
	"github.com/mvilar/glucose-tracker/internal/service"
	"github.com/mvilar/glucose-tracker/internal/telemetry"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg := config.Load()

	// Initialize tracing (no-op if not configured)
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg, "glucose-tracker-api")
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracer(ctx); err != nil {
			log.Printf("Tracer shutdown error: %v", err)
		}
	}()

	// Connect to database
	db, err := config.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database schema
	if err := db.AutoMigrate(&domain.GlucoseSession{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	if cfg.Seed {
		log.Println("Seeding demo forecast artifacts (SEED=true)...")
		if err := seed.Run(cfg.ArtifactsDir); err != nil {
			log.Fatalf("Failed to seed artifacts: %v", err)
		}
	}

	// Model registry (artifacts load lazily on first forecast)
	registry := model.NewRegistry(cfg.ArtifactsDir)

	// Initialize repositories
	sessionRepo := repository.NewSessionRepository(db)

	// Initialize services
	ingestService := service.NewIngestService(registry)
	forecastService := service.NewForecastService(registry)
	statsService := service.NewStatsService()
	dashboardService := service.NewDashboardService(ingestService, forecastService, statsService, registry, sessionRepo)

	// Initialize OpenAI client (may be nil if not configured)
	openaiClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIInsightsModel)
	if openaiClient == nil {
		log.Println("Warning: OpenAI API key not configured, insights endpoint will be unavailable")
	}
	insightsService := service.NewInsightsService(openaiClient, sessionRepo)

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(dashboardService)
	forecastHandler := handler.NewForecastHandler(registry)
	insightsHandler := handler.NewInsightsHandler(insightsService)

	// Setup router
	router := api.NewRouter(sessionHandler, forecastHandler, insightsHandler)
	routerHandler := router.Setup()

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Starting server on %s", addr)
	if err := http.ListenAndServe(addr, routerHandler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
