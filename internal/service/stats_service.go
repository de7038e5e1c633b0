package service

import (
	"math"

	"github.com/mvilar/glucose-tracker/internal/domain"
)

// Clinical range bands and alert thresholds, in mg/dL. These are fixed
// policy constants, not configuration: changing one is a policy change and
// must be reviewed as such.
const (
	RangeLowMgDl  = 70.0
	RangeHighMgDl = 180.0

	TbrAlertPct     = 5.0
	TarAlertPct     = 25.0
	AcutePeakMgDl   = 250.0
	CriticalLowMgDl = 60.0
)

// StatsService computes time-in-range statistics and safety alerts over an
// arbitrary glucose reading set. Shared by the dashboard assembly and the
// diabetic-metrics collaborator surface, which must stay semantically
// identical (same thresholds, same rounding).
type StatsService interface {
	// Compute calculates glycemic metrics over the given values.
	Compute(values []float64) domain.GlycemicMetrics
	// GenerateAlerts derives human-readable alerts from computed metrics.
	GenerateAlerts(metrics domain.GlycemicMetrics) []string
}

type statsService struct{}

// NewStatsService creates a new StatsService.
func NewStatsService() StatsService {
	return &statsService{}
}

func (s *statsService) Compute(values []float64) domain.GlycemicMetrics {
	valid := values[:0:0]
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return domain.GlycemicMetrics{Count: 0}
	}

	total := len(valid)
	inRange, above, below := 0, 0, 0
	sum := 0.0
	minVal, maxVal := valid[0], valid[0]
	for _, v := range valid {
		switch {
		case v < RangeLowMgDl:
			below++
		case v > RangeHighMgDl:
			above++
		default:
			inRange++
		}
		sum += v
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	return domain.GlycemicMetrics{
		Count:   total,
		TirPct:  ptr(round2(float64(inRange) / float64(total) * 100)),
		TarPct:  ptr(round2(float64(above) / float64(total) * 100)),
		TbrPct:  ptr(round2(float64(below) / float64(total) * 100)),
		AvgMgDl: ptr(round2(sum / float64(total))),
		MinMgDl: ptr(minVal),
		MaxMgDl: ptr(maxVal),
	}
}

func (s *statsService) GenerateAlerts(metrics domain.GlycemicMetrics) []string {
	var alerts []string
	if metrics.TbrPct != nil && *metrics.TbrPct > TbrAlertPct {
		alerts = append(alerts, "Hypoglycemia risk: time below target range is elevated.")
	}
	if metrics.TarPct != nil && *metrics.TarPct > TarAlertPct {
		alerts = append(alerts, "Hyperglycemia risk: time above target range is elevated.")
	}
	if metrics.MaxMgDl != nil && *metrics.MaxMgDl > AcutePeakMgDl {
		alerts = append(alerts, "High glycemic peak detected (>250 mg/dL).")
	}
	if metrics.MinMgDl != nil && *metrics.MinMgDl < CriticalLowMgDl {
		alerts = append(alerts, "Critically low reading detected (<60 mg/dL).")
	}
	return alerts
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr(v float64) *float64 {
	return &v
}
