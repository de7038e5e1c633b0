package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mvilar/glucose-tracker/internal/domain"
)

func ingestConfig() *domain.ForecastConfig {
	return &domain.ForecastConfig{FreqMin: 5, Lookback: 3, Offsets: []int{1, 2}}
}

func TestIngestService_Parse(t *testing.T) {
	svc := NewIngestService(NewMockRegistry(ingestConfig()))

	csv := strings.Join([]string{
		"timestamp,glucose,patient_id,session_id",
		"2024-03-01 08:10,110,p1,s1",
		"2024-03-01 08:00,100,p1,s1",
		"2024-03-01 08:05,105,p1,s1",
	}, "\n")

	series, err := svc.Parse(context.Background(), []byte(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.PatientID != "p1" || series.SessionID != "s1" {
		t.Fatalf("identity = %s/%s, want p1/s1", series.PatientID, series.SessionID)
	}
	if series.Len() != 3 {
		t.Fatalf("Len = %d, want 3", series.Len())
	}
	// Rows come back sorted by timestamp regardless of input order.
	for i := 1; i < series.Len(); i++ {
		if !series.Readings[i-1].Timestamp.Before(series.Readings[i].Timestamp) {
			t.Fatalf("series not strictly ascending: %+v", series.Readings)
		}
	}
	if got := series.Values(); got[0] != 100 || got[1] != 105 || got[2] != 110 {
		t.Fatalf("values = %v, want [100 105 110]", got)
	}
}

func TestIngestService_Parse_DuplicateTimestampsKeepLast(t *testing.T) {
	svc := NewIngestService(NewMockRegistry(ingestConfig()))

	csv := strings.Join([]string{
		"timestamp,glucose,patient_id,session_id",
		"2024-03-01 08:00,100,p1,s1",
		"2024-03-01 08:05,105,p1,s1",
		"2024-03-01 08:05,205,p1,s1",
		"2024-03-01 08:10,110,p1,s1",
	}, "\n")

	series, err := svc.Parse(context.Background(), []byte(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Len() != 3 {
		t.Fatalf("Len = %d, want 3 after dedupe", series.Len())
	}
	if series.Readings[1].ValueMgDl != 205 {
		t.Fatalf("duplicate not resolved last-write-wins: %+v", series.Readings[1])
	}
}

func TestIngestService_Parse_DropsBadRows(t *testing.T) {
	svc := NewIngestService(NewMockRegistry(ingestConfig()))

	csv := strings.Join([]string{
		"timestamp,glucose,patient_id,session_id",
		"2024-03-01 08:00,100,p1,s1",
		"not-a-date,101,p1,s1",
		"2024-03-01 08:05,abc,p1,s1",
		"2024-03-01 08:07,-12,p1,s1",
		"2024-03-01 08:10,105,p1,s1",
		"2024-03-01 08:15,110,p1,s1",
	}, "\n")

	series, err := svc.Parse(context.Background(), []byte(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Len() != 3 {
		t.Fatalf("Len = %d, want 3 valid rows", series.Len())
	}
}

func TestIngestService_Parse_Validation(t *testing.T) {
	svc := NewIngestService(NewMockRegistry(ingestConfig()))

	tests := []struct {
		name       string
		csv        string
		wantReason string
	}{
		{
			name:       "missing columns",
			csv:        "timestamp,glucose\n2024-03-01 08:00,100",
			wantReason: "missing columns",
		},
		{
			name: "multiple patients",
			csv: strings.Join([]string{
				"timestamp,glucose,patient_id,session_id",
				"2024-03-01 08:00,100,p1,s1",
				"2024-03-01 08:05,105,p2,s1",
				"2024-03-01 08:10,110,p1,s1",
			}, "\n"),
			wantReason: "multiple patients",
		},
		{
			name: "multiple sessions",
			csv: strings.Join([]string{
				"timestamp,glucose,patient_id,session_id",
				"2024-03-01 08:00,100,p1,s1",
				"2024-03-01 08:05,105,p1,s2",
				"2024-03-01 08:10,110,p1,s1",
			}, "\n"),
			wantReason: "multiple sessions",
		},
		{
			// Zero distinct ids is as invalid as several: an upload
			// carries exactly one patient and one session.
			name: "empty patient ids",
			csv: strings.Join([]string{
				"timestamp,glucose,patient_id,session_id",
				"2024-03-01 08:00,100,,s1",
				"2024-03-01 08:05,105,,s1",
				"2024-03-01 08:10,110,,s1",
			}, "\n"),
			wantReason: "missing patient id",
		},
		{
			name: "whitespace session ids",
			csv: strings.Join([]string{
				"timestamp,glucose,patient_id,session_id",
				"2024-03-01 08:00,100,p1,  ",
				"2024-03-01 08:05,105,p1,  ",
				"2024-03-01 08:10,110,p1,  ",
			}, "\n"),
			wantReason: "missing session id",
		},
		{
			name: "insufficient points",
			csv: strings.Join([]string{
				"timestamp,glucose,patient_id,session_id",
				"2024-03-01 08:00,100,p1,s1",
				"2024-03-01 08:05,105,p1,s1",
			}, "\n"),
			wantReason: "insufficient points",
		},
		{
			name:       "malformed CSV",
			csv:        "timestamp,glucose,patient_id,session_id\n\"unterminated,100,p1,s1",
			wantReason: "malformed CSV",
		},
		{
			name:       "empty upload",
			csv:        "",
			wantReason: "missing columns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Parse(context.Background(), []byte(tt.csv))

			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Reason != tt.wantReason {
				t.Fatalf("reason = %q, want %q", verr.Reason, tt.wantReason)
			}
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("validation error does not unwrap to ErrInvalidInput")
			}
		})
	}
}

func TestIngestService_Parse_InsufficientPointsDetail(t *testing.T) {
	svc := NewIngestService(NewMockRegistry(ingestConfig()))

	csv := strings.Join([]string{
		"timestamp,glucose,patient_id,session_id",
		"2024-03-01 08:00,100,p1,s1",
	}, "\n")

	_, err := svc.Parse(context.Background(), []byte(csv))
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Required != 3 || verr.Got != 1 {
		t.Fatalf("required/got = %d/%d, want 3/1", verr.Required, verr.Got)
	}
}

func TestIngestService_Parse_Latin1Fallback(t *testing.T) {
	svc := NewIngestService(NewMockRegistry(ingestConfig()))

	// 0xE9 is "é" in Latin-1 and invalid standalone UTF-8.
	csv := []byte("timestamp,glucose,patient_id,session_id\n" +
		"2024-03-01 08:00,100,Jos\xe9,s1\n" +
		"2024-03-01 08:05,105,Jos\xe9,s1\n" +
		"2024-03-01 08:10,110,Jos\xe9,s1\n")

	series, err := svc.Parse(context.Background(), csv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.PatientID != "José" {
		t.Fatalf("PatientID = %q, want José", series.PatientID)
	}
}

func TestIngestService_Parse_TimestampLayouts(t *testing.T) {
	tests := []struct {
		layout string
		value  string
		want   time.Time
	}{
		{"RFC3339", "2024-03-01T08:00:00Z", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
		{"date time seconds", "2024-03-01 08:00:00", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
		{"date time minutes", "2024-03-01 08:00", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
		{"date only", "2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			got, ok := parseTimestamp(tt.value)
			if !ok {
				t.Fatalf("parseTimestamp(%q) failed", tt.value)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("parseTimestamp(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}

	if _, ok := parseTimestamp("yesterday"); ok {
		t.Fatalf("expected failure for unparseable timestamp")
	}
}
