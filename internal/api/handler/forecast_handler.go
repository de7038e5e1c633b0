package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mvilar/glucose-tracker/internal/domain"
	"github.com/mvilar/glucose-tracker/internal/service"
	"github.com/mvilar/glucose-tracker/pkg/problem"
)

type ForecastHandler struct {
	registry service.ModelRegistry
}

func NewForecastHandler(registry service.ModelRegistry) *ForecastHandler {
	return &ForecastHandler{registry: registry}
}

// Health handles GET /v1/forecast/health
// @Summary Forecast readiness check
// @Description Force-load the forecast artifacts and report the model configuration. Returns 503 while any artifact is missing, so the forecast feature is not advertised as available.
// @Tags forecast
// @Produce json
// @Success 200 {object} model.Health
// @Failure 503 {object} problem.Problem "Artifacts missing"
// @Failure 500 {object} problem.Problem "Artifact load failure"
// @Router /forecast/health [get]
func (h *ForecastHandler) Health(w http.ResponseWriter, r *http.Request) {
	health, err := h.registry.HealthCheck()
	if err != nil {
		var artifactErr *domain.ArtifactNotFoundError
		if errors.As(err, &artifactErr) {
			problem.ServiceUnavailable(artifactErr.Error()).Write(w)
			return
		}
		problem.InternalError("Failed to load forecast artifacts").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
