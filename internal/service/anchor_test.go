package service

import (
	"errors"
	"testing"
	"time"

	"github.com/mvilar/glucose-tracker/internal/domain"
)

func makeSeries(n int, start time.Time, step time.Duration) *domain.GlucoseSeries {
	readings := make([]domain.GlucoseReading, n)
	for i := range readings {
		readings[i] = domain.GlucoseReading{
			Timestamp: start.Add(time.Duration(i) * step),
			ValueMgDl: 100 + float64(i),
		}
	}
	return &domain.GlucoseSeries{PatientID: "p1", SessionID: "s1", Readings: readings}
}

func TestSelectAnchor(t *testing.T) {
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	cfg := &domain.ForecastConfig{FreqMin: 5, Lookback: 4, Offsets: []int{1, 3}}

	tests := []struct {
		name          string
		seriesLen     int
		wantAnchorIdx int
		wantErr       bool
	}{
		{
			// 10 points, max offset 3: anchor at index 6 leaves the
			// forecast horizon inside recorded data.
			name:          "anchor before end with ground truth",
			seriesLen:     10,
			wantAnchorIdx: 6,
		},
		{
			// Default anchor index 2 < lookback-1, so it falls back
			// to the last point.
			name:          "fallback to last point",
			seriesLen:     6,
			wantAnchorIdx: 5,
		},
		{
			// Exactly lookback points: default index is negative,
			// fallback lands on the last point with a full window.
			name:          "exactly lookback points",
			seriesLen:     4,
			wantAnchorIdx: 3,
		},
		{
			name:      "too short even after fallback",
			seriesLen: 3,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := makeSeries(tt.seriesLen, start, 5*time.Minute)
			anchor, err := SelectAnchor(series, cfg)

			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := series.Readings[tt.wantAnchorIdx]
			if !anchor.AnchorTime.Equal(want.Timestamp) {
				t.Fatalf("AnchorTime = %v, want %v", anchor.AnchorTime, want.Timestamp)
			}
			if anchor.AnchorValue != want.ValueMgDl {
				t.Fatalf("AnchorValue = %v, want %v", anchor.AnchorValue, want.ValueMgDl)
			}
			if len(anchor.ContextValues) != cfg.Lookback {
				t.Fatalf("context length = %d, want %d", len(anchor.ContextValues), cfg.Lookback)
			}
			// The window ends at the anchor value.
			if anchor.ContextValues[len(anchor.ContextValues)-1] != want.ValueMgDl {
				t.Fatalf("context does not end at anchor: %v", anchor.ContextValues)
			}
		})
	}
}
