package service

import (
	"context"

	"github.com/mvilar/glucose-tracker/internal/domain"
	"github.com/mvilar/glucose-tracker/internal/llm"
	"github.com/mvilar/glucose-tracker/internal/model"
)

// MockRegistry is a mock implementation of ModelRegistry
type MockRegistry struct {
	cfg       *domain.ForecastConfig
	scaler    *model.StandardScaler
	predictFn func(input [][]float64) ([]float64, error)
	err       error
}

func NewMockRegistry(cfg *domain.ForecastConfig) *MockRegistry {
	return &MockRegistry{
		cfg:    cfg,
		scaler: &model.StandardScaler{Mean: []float64{0}, Scale: []float64{1}},
	}
}

func (m *MockRegistry) Config() (*domain.ForecastConfig, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cfg, nil
}

func (m *MockRegistry) Scaler() (*model.StandardScaler, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.scaler, nil
}

func (m *MockRegistry) Predict(input [][]float64) ([]float64, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.predictFn != nil {
		return m.predictFn(input)
	}
	out := make([]float64, len(m.cfg.Offsets))
	for i := range out {
		out[i] = 120
	}
	return out, nil
}

func (m *MockRegistry) HealthCheck() (*model.Health, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &model.Health{
		OK:       true,
		FreqMin:  m.cfg.FreqMin,
		Lookback: m.cfg.Lookback,
		Offsets:  m.cfg.Offsets,
	}, nil
}

// MockSessionRepository is a mock implementation of repository.SessionRepository
type MockSessionRepository struct {
	sessions   map[int64]*domain.GlucoseSession
	nextID     int64
	listResult []domain.GlucoseSession
	err        error
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		sessions: make(map[int64]*domain.GlucoseSession),
		nextID:   1,
	}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.GlucoseSession) error {
	if m.err != nil {
		return m.err
	}
	session.ID = m.nextID
	m.nextID++
	m.sessions[session.ID] = session
	return nil
}

func (m *MockSessionRepository) List(ctx context.Context, userID int64, filter domain.SessionFilter) ([]domain.GlucoseSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.listResult, nil
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id, userID int64) (*domain.GlucoseSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	session, ok := m.sessions[id]
	if !ok || session.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

// MockInsightsLLM is a mock implementation of llm.InsightsLLM
type MockInsightsLLM struct {
	insights *domain.SessionInsights
	gotCtx   *domain.InsightsContext
	err      error
}

var _ llm.InsightsLLM = (*MockInsightsLLM)(nil)

func (m *MockInsightsLLM) GenerateInsights(ctx context.Context, insightsCtx *domain.InsightsContext) (*domain.SessionInsights, error) {
	m.gotCtx = insightsCtx
	if m.err != nil {
		return nil, m.err
	}
	return m.insights, nil
}
