package domain

import "time"

// GlucoseReading is a single timestamped glucose measurement in mg/dL.
type GlucoseReading struct {
	Timestamp time.Time `json:"timestamp"`
	ValueMgDl float64   `json:"value_mg_dl"`
}

// GlucoseSeries is a validated, time-ordered series of readings for exactly
// one patient and one recording session. Timestamps are strictly ascending
// (duplicates resolved last-write-wins during ingestion) and the series is
// guaranteed to be at least the model lookback long.
type GlucoseSeries struct {
	PatientID string
	SessionID string
	Readings  []GlucoseReading
}

func (s *GlucoseSeries) Len() int {
	return len(s.Readings)
}

// Values returns the glucose values in timestamp order.
func (s *GlucoseSeries) Values() []float64 {
	values := make([]float64, len(s.Readings))
	for i, r := range s.Readings {
		values[i] = r.ValueMgDl
	}
	return values
}
