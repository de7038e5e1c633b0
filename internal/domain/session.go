package domain

import (
	"encoding/json"
	"time"
)

// GlucoseSession is one persisted upload: the computed dashboard payload
// keyed by an integer id scoped to the owning user.
type GlucoseSession struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UserID          int64           `gorm:"not null;index:idx_glucose_sessions_user" json:"user_id"`
	PatientID       string          `gorm:"type:varchar(255);not null;index" json:"patient_id"`
	SourceSessionID string          `gorm:"type:varchar(255);not null;index" json:"source_session_id"`
	AnchorTime      time.Time       `gorm:"not null" json:"anchor_time"`
	Payload         json.RawMessage `gorm:"type:jsonb;not null" json:"-"`
}

func (GlucoseSession) TableName() string {
	return "glucose_sessions"
}

// SessionSummary is the listing view of a stored session (no payload).
// @Description Stored glucose session without the full dashboard payload.
type SessionSummary struct {
	ID              int64     `json:"id" example:"42"`
	CreatedAt       time.Time `json:"created_at" example:"2024-03-01T12:00:00Z"`
	PatientID       string    `json:"patient_id" example:"patient-007"`
	SourceSessionID string    `json:"source_session_id" example:"cgm-2024-03-01"`
	AnchorTime      time.Time `json:"anchor_time" example:"2024-03-01T11:30:00Z"`
}

func (s *GlucoseSession) ToSummary() SessionSummary {
	return SessionSummary{
		ID:              s.ID,
		CreatedAt:       s.CreatedAt,
		PatientID:       s.PatientID,
		SourceSessionID: s.SourceSessionID,
		AnchorTime:      s.AnchorTime,
	}
}

// SessionDetail is one stored session with its full dashboard payload.
// @Description Stored glucose session including the dashboard payload.
type SessionDetail struct {
	SessionSummary
	UserID  int64           `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// SessionListResponse is the response body for listing sessions.
// @Description Paginated list of stored glucose sessions.
type SessionListResponse struct {
	Data       []SessionSummary   `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

// PaginationResponse contains cursor pagination metadata.
type PaginationResponse struct {
	// Cursor for fetching the next page (empty if no more pages)
	NextCursor string `json:"next_cursor,omitempty"`
	// True if more results are available
	HasMore bool `json:"has_more"`
}

// SessionFilter contains listing parameters.
type SessionFilter struct {
	Limit  int
	Cursor string
}

// SessionInsights is the LLM-written narrative over a stored session.
// @Description Non-medical narrative generated from session stats and alerts.
type SessionInsights struct {
	Summary      string   `json:"summary"`
	Observations []string `json:"observations"`
	Guidance     []string `json:"guidance"`
}

// InsightsContext is the data handed to the LLM for narrative generation.
type InsightsContext struct {
	Meta         DashboardMeta  `json:"meta"`
	GlucoseStats GlucoseStats   `json:"glucose_stats"`
	Cards        DashboardCards `json:"cards"`
	Alerts       []string       `json:"alerts"`
}
