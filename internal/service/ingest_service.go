package service

import (
	"context"
	"encoding/csv"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mvilar/glucose-tracker/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/encoding/charmap"
)

var requiredColumns = []string{"timestamp", "glucose", "patient_id", "session_id"}

// timestampLayouts are tried in order when coercing the timestamp column.
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// IngestService parses and validates an uploaded tabular glucose record
// into a clean, time-ordered series for exactly one patient and one
// recording session.
type IngestService interface {
	// Parse decodes and validates raw CSV bytes into a GlucoseSeries.
	Parse(ctx context.Context, raw []byte) (*domain.GlucoseSeries, error)
}

type ingestService struct {
	registry ModelRegistry
}

// NewIngestService creates a new IngestService. The registry is consulted
// only for the configured lookback during the minimum-length check.
func NewIngestService(registry ModelRegistry) IngestService {
	return &ingestService{registry: registry}
}

func (s *ingestService) Parse(ctx context.Context, raw []byte) (*domain.GlucoseSeries, error) {
	tracer := otel.Tracer("glucose-tracker-api/ingest")
	_, span := tracer.Start(ctx, "IngestService.Parse")
	defer span.End()
	span.SetAttributes(attribute.Int("upload.bytes", len(raw)))

	text, err := decodeUpload(raw)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, domain.NewValidationError("malformed CSV")
	}
	if len(records) == 0 {
		return nil, &domain.ValidationError{Reason: "missing columns", Missing: requiredColumns}
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(strings.ToLower(name))] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &domain.ValidationError{Reason: "missing columns", Missing: missing}
	}

	type row struct {
		reading   domain.GlucoseReading
		patientID string
		sessionID string
	}
	var rows []row
	patients := map[string]struct{}{}
	sessions := map[string]struct{}{}

	for _, record := range records[1:] {
		// Rows failing coercion on timestamp or glucose are dropped,
		// not errored.
		ts, ok := parseTimestamp(field(record, colIdx["timestamp"]))
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(field(record, colIdx["glucose"])), 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
			continue
		}

		patientID := strings.TrimSpace(field(record, colIdx["patient_id"]))
		sessionID := strings.TrimSpace(field(record, colIdx["session_id"]))
		if patientID != "" {
			patients[patientID] = struct{}{}
		}
		if sessionID != "" {
			sessions[sessionID] = struct{}{}
		}
		rows = append(rows, row{
			reading:   domain.GlucoseReading{Timestamp: ts, ValueMgDl: value},
			patientID: patientID,
			sessionID: sessionID,
		})
	}

	// Exactly one distinct patient and session per upload: zero distinct
	// ids (all fields empty or whitespace) is as invalid as several.
	switch {
	case len(patients) == 0:
		return nil, domain.NewValidationError("missing patient id")
	case len(patients) > 1:
		return nil, domain.NewValidationError("multiple patients")
	}
	switch {
	case len(sessions) == 0:
		return nil, domain.NewValidationError("missing session id")
	case len(sessions) > 1:
		return nil, domain.NewValidationError("multiple sessions")
	}

	// Sort ascending, then drop duplicate timestamps keeping the last
	// occurrence (last-write-wins).
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].reading.Timestamp.Before(rows[j].reading.Timestamp)
	})
	readings := make([]domain.GlucoseReading, 0, len(rows))
	for i, r := range rows {
		if i+1 < len(rows) && rows[i+1].reading.Timestamp.Equal(r.reading.Timestamp) {
			continue
		}
		readings = append(readings, r.reading)
	}

	cfg, err := s.registry.Config()
	if err != nil {
		return nil, err
	}
	if len(readings) < cfg.Lookback {
		return nil, &domain.ValidationError{
			Reason:   "insufficient points",
			Required: cfg.Lookback,
			Got:      len(readings),
		}
	}

	series := &domain.GlucoseSeries{Readings: readings}
	for p := range patients {
		series.PatientID = p
	}
	for sess := range sessions {
		series.SessionID = sess
	}
	return series, nil
}

// decodeUpload decodes text as UTF-8, falling back to Latin-1, the common
// encoding of exported meter CSVs.
func decodeUpload(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", domain.NewValidationError("undecodable upload encoding")
	}
	return string(decoded), nil
}

func parseTimestamp(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
