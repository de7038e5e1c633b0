package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mvilar/glucose-tracker/internal/domain"
	"github.com/mvilar/glucose-tracker/internal/llm"
	"github.com/mvilar/glucose-tracker/internal/service"
	"github.com/mvilar/glucose-tracker/pkg/problem"
)

type InsightsHandler struct {
	service service.InsightsService
}

func NewInsightsHandler(service service.InsightsService) *InsightsHandler {
	return &InsightsHandler{service: service}
}

// Generate handles GET /v1/glucose-sessions/{sessionId}/insights
// @Summary Generate session insights
// @Description Produce a non-medical LLM narrative over a stored session's stats and alerts.
// @Tags insights
// @Produce json
// @Param sessionId path integer true "Stored session id"
// @Param user_id query integer false "Owning user id" default(1)
// @Success 200 {object} domain.SessionInsights
// @Failure 400 {object} problem.Problem "Invalid parameters"
// @Failure 404 {object} problem.Problem "Session not found"
// @Failure 503 {object} problem.Problem "LLM not configured or unavailable"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /glucose-sessions/{sessionId}/insights [get]
func (h *InsightsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.ParseInt(chi.URLParam(r, "sessionId"), 10, 64)
	if err != nil {
		problem.BadRequest("Invalid session ID format").Write(w)
		return
	}
	userID, fieldErr := parseUserID(r.URL.Query().Get("user_id"))
	if fieldErr != nil {
		problem.ValidationError("Invalid query parameters", []problem.FieldError{*fieldErr}).Write(w)
		return
	}

	insights, err := h.service.Generate(r.Context(), sessionID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("Glucose session not found").Write(w)
			return
		}
		if errors.Is(err, llm.ErrOpenAIUnavailable) {
			problem.ServiceUnavailable("Insights generation is not configured").Write(w)
			return
		}
		problem.InternalError("Failed to generate insights").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(insights)
}
