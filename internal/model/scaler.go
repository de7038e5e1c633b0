// Package model loads the serialized forecasting artifacts (sequence model,
// feature scaler, metadata) and runs inference on them. The artifacts are
// process-wide singletons owned by the Registry.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mvilar/glucose-tracker/internal/domain"
)

// StandardScaler applies the feature scaling the model was trained with:
// x' = (x - mean) / scale, per feature column.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// LoadScaler reads a serialized scaler from path.
func LoadScaler(path string) (*StandardScaler, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &domain.ArtifactNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("read scaler: %w", err)
	}

	var s StandardScaler
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scaler %s: %w", path, err)
	}
	if len(s.Mean) == 0 || len(s.Mean) != len(s.Scale) {
		return nil, fmt.Errorf("scaler %s: mean/scale length mismatch (%d vs %d)", path, len(s.Mean), len(s.Scale))
	}
	for i, sc := range s.Scale {
		if sc == 0 {
			return nil, fmt.Errorf("scaler %s: zero scale at feature %d", path, i)
		}
	}
	return &s, nil
}

// Features returns the number of feature columns the scaler expects.
func (s *StandardScaler) Features() int {
	return len(s.Mean)
}

// Transform scales a (timesteps x features) matrix in place-order, returning
// a new matrix. Column count must match the scaler's feature count.
func (s *StandardScaler) Transform(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != len(s.Mean) {
			return nil, &domain.ShapeError{What: "scaler input features", Expected: len(s.Mean), Got: len(row)}
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = scaled
	}
	return out, nil
}
