package handler

import (
	"context"
	"time"

	"github.com/mvilar/glucose-tracker/internal/domain"
	"github.com/mvilar/glucose-tracker/internal/model"
)

// MockDashboardService is a mock implementation of service.DashboardService
type MockDashboardService struct {
	uploadFunc func(ctx context.Context, userID int64, raw []byte) (*domain.DashboardPayload, error)
	listFunc   func(ctx context.Context, userID int64, filter domain.SessionFilter) (*domain.SessionListResponse, error)
	getFunc    func(ctx context.Context, id, userID int64) (*domain.SessionDetail, error)
}

func (m *MockDashboardService) Upload(ctx context.Context, userID int64, raw []byte) (*domain.DashboardPayload, error) {
	if m.uploadFunc != nil {
		return m.uploadFunc(ctx, userID, raw)
	}
	return &domain.DashboardPayload{
		Meta: domain.DashboardMeta{
			PatientID:  "p1",
			SessionID:  "s1",
			AnchorTime: time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC),
		},
		GlucoseStats: domain.GlucoseStats{Tir: 100, Average: 112.5, Count: 6},
		Cards:        domain.DashboardCards{CurrentMgDl: 115, Trend: domain.TrendStable},
		DBSessionID:  1,
	}, nil
}

func (m *MockDashboardService) List(ctx context.Context, userID int64, filter domain.SessionFilter) (*domain.SessionListResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, filter)
	}
	return &domain.SessionListResponse{
		Data:       []domain.SessionSummary{},
		Pagination: domain.PaginationResponse{HasMore: false},
	}, nil
}

func (m *MockDashboardService) Get(ctx context.Context, id, userID int64) (*domain.SessionDetail, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id, userID)
	}
	return &domain.SessionDetail{
		SessionSummary: domain.SessionSummary{ID: id, PatientID: "p1"},
		UserID:         userID,
	}, nil
}

// MockInsightsService is a mock implementation of service.InsightsService
type MockInsightsService struct {
	generateFunc func(ctx context.Context, sessionID, userID int64) (*domain.SessionInsights, error)
}

func (m *MockInsightsService) Generate(ctx context.Context, sessionID, userID int64) (*domain.SessionInsights, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, sessionID, userID)
	}
	return &domain.SessionInsights{Summary: "ok"}, nil
}

// MockModelRegistry is a mock implementation of service.ModelRegistry
type MockModelRegistry struct {
	healthFunc func() (*model.Health, error)
}

func (m *MockModelRegistry) Config() (*domain.ForecastConfig, error) {
	return &domain.ForecastConfig{FreqMin: 15, Lookback: 20, Offsets: []int{2, 4, 6}}, nil
}

func (m *MockModelRegistry) Scaler() (*model.StandardScaler, error) {
	return &model.StandardScaler{Mean: []float64{0}, Scale: []float64{1}}, nil
}

func (m *MockModelRegistry) Predict(input [][]float64) ([]float64, error) {
	return []float64{120, 120, 120}, nil
}

func (m *MockModelRegistry) HealthCheck() (*model.Health, error) {
	if m.healthFunc != nil {
		return m.healthFunc()
	}
	return &model.Health{OK: true, ModelLoaded: true, ScalerLoaded: true, FreqMin: 15, Lookback: 20, Offsets: []int{2, 4, 6}}, nil
}
