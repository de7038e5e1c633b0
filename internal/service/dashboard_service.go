package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/mvilar/glucose-tracker/internal/domain"
	"github.com/mvilar/glucose-tracker/internal/repository"
	"github.com/mvilar/glucose-tracker/pkg/pagination"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// ChartHistoryMinutes is how far before the anchor the observed chart
	// window starts.
	ChartHistoryMinutes = 60

	// TrendWindowPoints is how many trailing context values feed the
	// trend computation.
	TrendWindowPoints = 5

	// TrendStableBandMgDl is the first-to-last delta below which the
	// trend reads as stable.
	TrendStableBandMgDl = 5.0

	// Predicted-value alert thresholds, mg/dL.
	PredictedHypoMgDl = 70.0
	PredictedPeakMgDl = 250.0
)

// DashboardService runs the full upload pipeline (ingest, anchor selection,
// forecast, assembly, persistence) and serves stored sessions back.
type DashboardService interface {
	// Upload processes one raw CSV upload for a user and returns the
	// persisted dashboard payload with its db_session_id set.
	Upload(ctx context.Context, userID int64, raw []byte) (*domain.DashboardPayload, error)
	// List returns stored session summaries for a user, newest first.
	List(ctx context.Context, userID int64, filter domain.SessionFilter) (*domain.SessionListResponse, error)
	// Get returns one stored session with its payload.
	Get(ctx context.Context, id, userID int64) (*domain.SessionDetail, error)
}

type dashboardService struct {
	ingest      IngestService
	forecast    ForecastService
	stats       StatsService
	registry    ModelRegistry
	sessionRepo repository.SessionRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	ingest IngestService,
	forecast ForecastService,
	stats StatsService,
	registry ModelRegistry,
	sessionRepo repository.SessionRepository,
) DashboardService {
	return &dashboardService{
		ingest:      ingest,
		forecast:    forecast,
		stats:       stats,
		registry:    registry,
		sessionRepo: sessionRepo,
	}
}

func (s *dashboardService) Upload(ctx context.Context, userID int64, raw []byte) (*domain.DashboardPayload, error) {
	tracer := otel.Tracer("glucose-tracker-api/dashboard")
	ctx, span := tracer.Start(ctx, "DashboardService.Upload")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", userID))

	series, err := s.ingest.Parse(ctx, raw)
	if err != nil {
		return nil, err
	}
	cfg, err := s.registry.Config()
	if err != nil {
		return nil, err
	}

	anchor, err := SelectAnchor(series, cfg)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("anchor.time", anchor.AnchorTime.Format(time.RFC3339)),
		attribute.Int("series.len", series.Len()),
	)

	forecast, err := s.forecast.ForecastFromAnchor(ctx, anchor.AnchorTime, anchor.ContextValues)
	if err != nil {
		return nil, err
	}

	payload := s.assemble(series, cfg, anchor, forecast)

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	session := &domain.GlucoseSession{
		UserID:          userID,
		PatientID:       payload.Meta.PatientID,
		SourceSessionID: payload.Meta.SessionID,
		AnchorTime:      payload.Meta.AnchorTime,
		Payload:         encoded,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	payload.DBSessionID = session.ID
	return payload, nil
}

// assemble merges observed history, the anchor connector point and the
// forecast into one chronological chart with stats, cards and alerts.
func (s *dashboardService) assemble(
	series *domain.GlucoseSeries,
	cfg *domain.ForecastConfig,
	anchor *domain.AnchorContext,
	forecast *domain.ForecastOutput,
) *domain.DashboardPayload {
	chartStart := anchor.AnchorTime.Add(-ChartHistoryMinutes * time.Minute)
	chartEnd := anchor.AnchorTime.Add(time.Duration(cfg.HorizonMinutes()) * time.Minute)

	var observed []domain.ChartPoint
	var observedValues []float64
	for _, r := range series.Readings {
		if r.Timestamp.Before(chartStart) || r.Timestamp.After(chartEnd) {
			continue
		}
		observed = append(observed, domain.ChartPoint{
			Timestamp: r.Timestamp,
			ValueMgDl: r.ValueMgDl,
			Type:      domain.PointObserved,
		})
		observedValues = append(observedValues, r.ValueMgDl)
	}

	// The connector point places the forecast line's origin on the
	// observed line instead of leaving a visual gap.
	predicted := make([]domain.ChartPoint, 0, len(forecast.Predicted)+1)
	predicted = append(predicted, domain.ChartPoint{
		Timestamp: anchor.AnchorTime,
		ValueMgDl: anchor.AnchorValue,
		Type:      domain.PointPredicted,
	})
	for _, p := range forecast.Predicted {
		predicted = append(predicted, domain.ChartPoint{
			Timestamp: p.Timestamp,
			ValueMgDl: p.ValueMgDl,
			Type:      domain.PointPredicted,
		})
	}

	// Stats and stats-derived alerts cover observed points only.
	metrics := s.stats.Compute(observedValues)
	stats := domain.GlucoseStats{
		Tir:     deref(metrics.TirPct),
		Tar:     deref(metrics.TarPct),
		Tbr:     deref(metrics.TbrPct),
		Average: deref(metrics.AvgMgDl),
		Count:   metrics.Count,
	}

	hba1c := 0.0
	if stats.Average > 0 {
		hba1c = (stats.Average + 46.7) / 28.7
	}
	tail := anchor.ContextValues
	if len(tail) > TrendWindowPoints {
		tail = tail[len(tail)-TrendWindowPoints:]
	}

	var alerts []string
	for _, p := range predicted {
		if p.ValueMgDl < PredictedHypoMgDl {
			alerts = append(alerts, "Forecast indicates hypoglycemia risk (<70 mg/dL).")
			break
		}
	}
	for _, p := range predicted {
		if p.ValueMgDl > PredictedPeakMgDl {
			alerts = append(alerts, "Forecast indicates a possible glycemic peak (>250 mg/dL).")
			break
		}
	}
	alerts = append(alerts, s.stats.GenerateAlerts(metrics)...)

	return &domain.DashboardPayload{
		Meta: domain.DashboardMeta{
			PatientID:  series.PatientID,
			SessionID:  series.SessionID,
			AnchorTime: anchor.AnchorTime,
		},
		Points:       append(observed, predicted...),
		GlucoseStats: stats,
		Cards: domain.DashboardCards{
			CurrentMgDl:       round2(anchor.AnchorValue),
			AverageMgDl:       round2(stats.Average),
			EstimatedHbA1cPct: round2(hba1c),
			Trend:             computeTrend(tail),
		},
		Alerts: alerts,
	}
}

func (s *dashboardService) List(ctx context.Context, userID int64, filter domain.SessionFilter) (*domain.SessionListResponse, error) {
	sessions, err := s.sessionRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	hasMore := len(sessions) > limit
	if hasMore {
		sessions = sessions[:limit]
	}

	response := &domain.SessionListResponse{
		Data: make([]domain.SessionSummary, len(sessions)),
	}
	for i := range sessions {
		response.Data[i] = sessions[i].ToSummary()
	}
	response.Pagination.HasMore = hasMore
	if hasMore && len(sessions) > 0 {
		cursor := pagination.Cursor{ID: sessions[len(sessions)-1].ID}
		response.Pagination.NextCursor = cursor.Encode()
	}
	return response, nil
}

func (s *dashboardService) Get(ctx context.Context, id, userID int64) (*domain.SessionDetail, error) {
	session, err := s.sessionRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return &domain.SessionDetail{
		SessionSummary: session.ToSummary(),
		UserID:         session.UserID,
		Payload:        session.Payload,
	}, nil
}

// computeTrend reads the short-term direction from the tail of the context
// window: stable inside the band, otherwise the sign of the delta.
func computeTrend(values []float64) domain.Trend {
	if len(values) < 2 {
		return domain.TrendStable
	}
	delta := values[len(values)-1] - values[0]
	if math.Abs(delta) < TrendStableBandMgDl {
		return domain.TrendStable
	}
	if delta > 0 {
		return domain.TrendRising
	}
	return domain.TrendFalling
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
