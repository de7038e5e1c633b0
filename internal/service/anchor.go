package service

import "github.com/mvilar/glucose-tracker/internal/domain"

// SelectAnchor picks the forecast reference point for a validated series.
//
// The default anchor sits max(offsets) steps before the end of the series,
// so the full forecast horizon is still covered by ground truth and a
// retrospective comparison is possible. When the series is too short to
// leave a full lookback window before that index, the anchor falls back to
// the most recent point (a live forecast with no future ground truth). If
// even the fallback leaves fewer than lookback points of left-context the
// series is rejected.
func SelectAnchor(series *domain.GlucoseSeries, cfg *domain.ForecastConfig) (*domain.AnchorContext, error) {
	anchorIdx := series.Len() - 1 - cfg.MaxOffset()
	if anchorIdx < cfg.Lookback-1 {
		anchorIdx = series.Len() - 1
		if anchorIdx < cfg.Lookback-1 {
			return nil, domain.NewValidationError("series too short for configured lookback")
		}
	}

	anchor := series.Readings[anchorIdx]
	window := series.Readings[anchorIdx-cfg.Lookback+1 : anchorIdx+1]
	values := make([]float64, len(window))
	for i, r := range window {
		values[i] = r.ValueMgDl
	}

	return &domain.AnchorContext{
		AnchorTime:    anchor.Timestamp,
		AnchorValue:   anchor.ValueMgDl,
		ContextValues: values,
	}, nil
}
