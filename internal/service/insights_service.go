package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mvilar/glucose-tracker/internal/domain"
	"github.com/mvilar/glucose-tracker/internal/llm"
	"github.com/mvilar/glucose-tracker/internal/repository"
)

// InsightsService writes an LLM narrative over a stored glucose session.
// Purely descriptive: it never alters stored numbers and has no role in
// the forecast path.
type InsightsService interface {
	// Generate creates insights for one stored session.
	Generate(ctx context.Context, sessionID, userID int64) (*domain.SessionInsights, error)
}

type insightsService struct {
	llmClient   llm.InsightsLLM
	sessionRepo repository.SessionRepository
}

// NewInsightsService creates a new InsightsService.
func NewInsightsService(llmClient llm.InsightsLLM, sessionRepo repository.SessionRepository) InsightsService {
	return &insightsService{
		llmClient:   llmClient,
		sessionRepo: sessionRepo,
	}
}

func (s *insightsService) Generate(ctx context.Context, sessionID, userID int64) (*domain.SessionInsights, error) {
	if s.llmClient == nil {
		return nil, llm.ErrOpenAIUnavailable
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	var payload domain.DashboardPayload
	if err := json.Unmarshal(session.Payload, &payload); err != nil {
		return nil, fmt.Errorf("decode stored payload: %w", err)
	}

	insightsCtx := &domain.InsightsContext{
		Meta:         payload.Meta,
		GlucoseStats: payload.GlucoseStats,
		Cards:        payload.Cards,
		Alerts:       payload.Alerts,
	}
	return s.llmClient.GenerateInsights(ctx, insightsCtx)
}
