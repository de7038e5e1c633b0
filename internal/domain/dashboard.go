package domain

import "time"

// PointType tags a chart point as measured history or model output.
type PointType string

const (
	PointObserved  PointType = "observed"
	PointPredicted PointType = "predicted"
)

// Trend is the short-term direction over the tail of the context window.
type Trend string

const (
	TrendStable  Trend = "stable"
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
)

// GlycemicMetrics holds time-in-range statistics over a reading set.
// Percentage, average, min and max fields are nil when no valid readings
// exist (count 0).
type GlycemicMetrics struct {
	Count   int      `json:"count"`
	TirPct  *float64 `json:"tir_pct"`
	TarPct  *float64 `json:"tar_pct"`
	TbrPct  *float64 `json:"tbr_pct"`
	AvgMgDl *float64 `json:"avg_mg_dl"`
	MinMgDl *float64 `json:"min_mg_dl"`
	MaxMgDl *float64 `json:"max_mg_dl"`
}

// ChartPoint is one entry of the merged observed+predicted timeline.
type ChartPoint struct {
	Timestamp time.Time `json:"timestamp"`
	ValueMgDl float64   `json:"value_mg_dl"`
	Type      PointType `json:"type"`
}

// DashboardMeta identifies the upload the payload was computed from.
type DashboardMeta struct {
	PatientID  string    `json:"patient_id"`
	SessionID  string    `json:"session_id"`
	AnchorTime time.Time `json:"anchor_time"`
}

// GlucoseStats is the summary block rendered next to the chart. Fields
// default to zero when the underlying metric is unavailable.
type GlucoseStats struct {
	Tir     float64 `json:"tir"`
	Tar     float64 `json:"tar"`
	Tbr     float64 `json:"tbr"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// DashboardCards carries the headline numbers for the session.
type DashboardCards struct {
	CurrentMgDl float64 `json:"current_mg_dl"`
	AverageMgDl float64 `json:"average_mg_dl"`
	// EstimatedHbA1cPct is a linear approximation from average glucose
	// ((avg+46.7)/28.7), not a substitute for a lab HbA1c.
	EstimatedHbA1cPct float64 `json:"estimated_hba1c_pct"`
	Trend             Trend   `json:"trend"`
}

// DashboardPayload is the assembled observed+predicted timeline with stats,
// cards and alerts. Immutable once computed; re-uploads create new sessions.
type DashboardPayload struct {
	Meta         DashboardMeta  `json:"meta"`
	Points       []ChartPoint   `json:"points"`
	GlucoseStats GlucoseStats   `json:"glucoseStats"`
	Cards        DashboardCards `json:"cards"`
	Alerts       []string       `json:"alerts"`
	// DBSessionID is set after the payload is persisted.
	DBSessionID int64 `json:"db_session_id,omitempty"`
}
