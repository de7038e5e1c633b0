// Package seed provisions a demo artifact bundle so a fresh checkout can
// serve forecasts without the real trained artifacts. The generated model
// is deterministic but not clinically meaningful.
package seed

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/mvilar/glucose-tracker/internal/model"
)

const (
	demoHiddenSize = 16
	demoLookback   = 20
	demoFreqMin    = 15

	// demoBaselineMgDl centers demo predictions on a plausible glucose
	// value; the dense head's bias dominates the small random weights.
	demoBaselineMgDl = 140.0

	rngSeed = 7
)

func demoOffsets() []int {
	return []int{2, 4, 6}
}

// Run writes the demo artifact bundle into artifactsDir unless all three
// artifacts already exist. Safe to call multiple times.
func Run(artifactsDir string) error {
	modelPath := filepath.Join(artifactsDir, model.ModelFileName)
	scalerPath := filepath.Join(artifactsDir, model.ScalerFileName)
	metaPath := filepath.Join(artifactsDir, model.MetaFileName)

	if exists(modelPath) && exists(scalerPath) && exists(metaPath) {
		log.Println("Artifacts already present, seed skipped")
		return nil
	}
	if err := os.MkdirAll(artifactsDir, 0o755); err != nil {
		return fmt.Errorf("create artifacts dir: %w", err)
	}

	if err := writeJSON(metaPath, map[string]any{
		"freq_min": demoFreqMin,
		"lookback": demoLookback,
		"offsets":  demoOffsets(),
		"target":   "glucose",
		"units":    "mg/dL",
	}); err != nil {
		return err
	}

	if err := writeJSON(scalerPath, model.StandardScaler{
		Mean:  []float64{demoBaselineMgDl},
		Scale: []float64{50},
	}); err != nil {
		return err
	}

	if err := writeJSON(modelPath, demoModel()); err != nil {
		return err
	}

	log.Printf("Seeded demo forecast artifacts in %s", artifactsDir)
	return nil
}

func demoModel() *model.LSTM {
	rng := rand.New(rand.NewSource(rngSeed))
	outputs := len(demoOffsets())
	gates := 4 * demoHiddenSize

	m := &model.LSTM{
		InputSize:  1,
		HiddenSize: demoHiddenSize,
		OutputSize: outputs,
		WIh:        randomMatrix(rng, gates, 1),
		WHh:        randomMatrix(rng, gates, demoHiddenSize),
		Bias:       randomVector(rng, gates),
		DenseW:     randomMatrix(rng, outputs, demoHiddenSize),
		DenseB:     make([]float64, outputs),
	}
	for k := range m.DenseB {
		m.DenseB[k] = demoBaselineMgDl
	}
	return m
}

func randomMatrix(rng *rand.Rand, rows, cols int) [][]float64 {
	matrix := make([][]float64, rows)
	for i := range matrix {
		matrix[i] = randomVector(rng, cols)
	}
	return matrix
}

func randomVector(rng *rand.Rand, n int) []float64 {
	vector := make([]float64, n)
	for i := range vector {
		vector[i] = (rng.Float64() - 0.5) * 0.2
	}
	return vector
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
