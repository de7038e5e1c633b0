package service

import (
	"context"
	"time"

	"github.com/mvilar/glucose-tracker/internal/domain"
	"github.com/mvilar/glucose-tracker/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ModelRegistry is the surface of the artifact registry the services
// depend on. Satisfied by *model.Registry.
type ModelRegistry interface {
	Config() (*domain.ForecastConfig, error)
	Scaler() (*model.StandardScaler, error)
	Predict(input [][]float64) ([]float64, error)
	HealthCheck() (*model.Health, error)
}

// ForecastService turns a lookback window into calibrated glucose
// predictions at the configured offsets past the anchor.
type ForecastService interface {
	// ForecastFromAnchor runs inference over a context window of exactly
	// lookback values ending at the anchor.
	ForecastFromAnchor(ctx context.Context, anchorTime time.Time, contextValues []float64) (*domain.ForecastOutput, error)
}

type forecastService struct {
	registry ModelRegistry
}

// NewForecastService creates a new ForecastService.
func NewForecastService(registry ModelRegistry) ForecastService {
	return &forecastService{registry: registry}
}

func (s *forecastService) ForecastFromAnchor(ctx context.Context, anchorTime time.Time, contextValues []float64) (*domain.ForecastOutput, error) {
	tracer := otel.Tracer("glucose-tracker-api/forecast")
	_, span := tracer.Start(ctx, "ForecastService.ForecastFromAnchor")
	defer span.End()

	cfg, err := s.registry.Config()
	if err != nil {
		return nil, err
	}
	if len(contextValues) != cfg.Lookback {
		return nil, &domain.ShapeError{What: "context window", Expected: cfg.Lookback, Got: len(contextValues)}
	}
	span.SetAttributes(
		attribute.String("anchor.time", anchorTime.Format(time.RFC3339)),
		attribute.Int("context.len", len(contextValues)),
	)

	scaler, err := s.registry.Scaler()
	if err != nil {
		return nil, err
	}

	// Single-feature column (lookback x 1), scaled with the training
	// scaler. The model consumes it as one batch of lookback timesteps.
	input := make([][]float64, len(contextValues))
	for i, v := range contextValues {
		input[i] = []float64{v}
	}
	scaled, err := scaler.Transform(input)
	if err != nil {
		return nil, err
	}

	outputs, err := s.registry.Predict(scaled)
	if err != nil {
		return nil, err
	}
	if len(outputs) != len(cfg.Offsets) {
		return nil, &domain.ShapeError{What: "model output", Expected: len(cfg.Offsets), Got: len(outputs)}
	}

	// Outputs are already mg/dL per the model's training contract; the
	// scaler only prepares the input, no inverse transform is applied.
	predicted := make([]domain.ForecastPoint, len(cfg.Offsets))
	for i, off := range cfg.Offsets {
		aheadMin := cfg.FreqMin * off
		predicted[i] = domain.ForecastPoint{
			Timestamp: anchorTime.Add(time.Duration(aheadMin) * time.Minute),
			ValueMgDl: outputs[i],
			AheadMin:  aheadMin,
		}
	}

	return &domain.ForecastOutput{
		AnchorTime: anchorTime,
		Config:     *cfg,
		Predicted:  predicted,
	}, nil
}
