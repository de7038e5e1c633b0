package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/mvilar/glucose-tracker/internal/domain"
)

// LSTM is a single-layer LSTM followed by a dense head, with weights
// deserialized from the model artifact. The forward pass consumes a
// (timesteps x input_size) window and emits output_size values from the
// final hidden state.
//
// Weight layout follows the usual stacked-gate convention: the four gates
// are concatenated in i, f, g, o order along the first axis, so WIh is
// (4*hidden x input), WHh is (4*hidden x hidden) and Bias is (4*hidden).
type LSTM struct {
	InputSize  int `json:"input_size"`
	HiddenSize int `json:"hidden_size"`
	OutputSize int `json:"output_size"`

	WIh  [][]float64 `json:"w_ih"`
	WHh  [][]float64 `json:"w_hh"`
	Bias []float64   `json:"bias"`

	DenseW [][]float64 `json:"dense_w"`
	DenseB []float64   `json:"dense_b"`
}

// LoadLSTM reads serialized model weights from path and validates their
// internal consistency.
func LoadLSTM(path string) (*LSTM, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &domain.ArtifactNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("read model: %w", err)
	}

	var m LSTM
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return &m, nil
}

func (m *LSTM) validate() error {
	if m.InputSize < 1 || m.HiddenSize < 1 || m.OutputSize < 1 {
		return fmt.Errorf("invalid dimensions: input=%d hidden=%d output=%d", m.InputSize, m.HiddenSize, m.OutputSize)
	}
	gates := 4 * m.HiddenSize
	if len(m.WIh) != gates {
		return fmt.Errorf("w_ih rows: expected %d, got %d", gates, len(m.WIh))
	}
	for i, row := range m.WIh {
		if len(row) != m.InputSize {
			return fmt.Errorf("w_ih row %d: expected %d cols, got %d", i, m.InputSize, len(row))
		}
	}
	if len(m.WHh) != gates {
		return fmt.Errorf("w_hh rows: expected %d, got %d", gates, len(m.WHh))
	}
	for i, row := range m.WHh {
		if len(row) != m.HiddenSize {
			return fmt.Errorf("w_hh row %d: expected %d cols, got %d", i, m.HiddenSize, len(row))
		}
	}
	if len(m.Bias) != gates {
		return fmt.Errorf("bias: expected %d, got %d", gates, len(m.Bias))
	}
	if len(m.DenseW) != m.OutputSize {
		return fmt.Errorf("dense_w rows: expected %d, got %d", m.OutputSize, len(m.DenseW))
	}
	for i, row := range m.DenseW {
		if len(row) != m.HiddenSize {
			return fmt.Errorf("dense_w row %d: expected %d cols, got %d", i, m.HiddenSize, len(row))
		}
	}
	if len(m.DenseB) != m.OutputSize {
		return fmt.Errorf("dense_b: expected %d, got %d", m.OutputSize, len(m.DenseB))
	}
	return nil
}

// Forward runs the recurrence over the input window and returns the dense
// head outputs. Input must be (timesteps x input_size) with at least one
// timestep. Callers go through Registry.Predict, which serializes access.
func (m *LSTM) Forward(input [][]float64) ([]float64, error) {
	if len(input) == 0 {
		return nil, &domain.ShapeError{What: "model input timesteps", Expected: 1, Got: 0}
	}
	for _, step := range input {
		if len(step) != m.InputSize {
			return nil, &domain.ShapeError{What: "model input features", Expected: m.InputSize, Got: len(step)}
		}
	}

	h := make([]float64, m.HiddenSize)
	c := make([]float64, m.HiddenSize)
	gates := make([]float64, 4*m.HiddenSize)

	for _, x := range input {
		for g := range gates {
			sum := m.Bias[g]
			for j, xv := range x {
				sum += m.WIh[g][j] * xv
			}
			for j, hv := range h {
				sum += m.WHh[g][j] * hv
			}
			gates[g] = sum
		}
		for j := 0; j < m.HiddenSize; j++ {
			i := sigmoid(gates[j])
			f := sigmoid(gates[m.HiddenSize+j])
			g := math.Tanh(gates[2*m.HiddenSize+j])
			o := sigmoid(gates[3*m.HiddenSize+j])

			c[j] = f*c[j] + i*g
			h[j] = o * math.Tanh(c[j])
		}
	}

	out := make([]float64, m.OutputSize)
	for k := range out {
		sum := m.DenseB[k]
		for j, hv := range h {
			sum += m.DenseW[k][j] * hv
		}
		out[k] = sum
	}
	return out, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
