package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	_ "github.com/mvilar/glucose-tracker/docs"
	"github.com/mvilar/glucose-tracker/internal/api/handler"
	"github.com/mvilar/glucose-tracker/internal/api/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	sessionHandler  *handler.SessionHandler
	forecastHandler *handler.ForecastHandler
	insightsHandler *handler.InsightsHandler
}

func NewRouter(sessionHandler *handler.SessionHandler, forecastHandler *handler.ForecastHandler, insightsHandler *handler.InsightsHandler) *Router {
	return &Router{
		sessionHandler:  sessionHandler,
		forecastHandler: forecastHandler,
		insightsHandler: insightsHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.Tracing)
	r.Use(middleware.RequestID)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Route("/glucose-sessions", func(r chi.Router) {
			r.Post("/upload", rt.sessionHandler.Upload)
			r.Get("/", rt.sessionHandler.List)
			r.Get("/{sessionId}", rt.sessionHandler.Get)
			r.Get("/{sessionId}/insights", rt.insightsHandler.Generate)
		})

		r.Get("/forecast/health", rt.forecastHandler.Health)
	})

	return r
}
