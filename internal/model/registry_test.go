package model

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mvilar/glucose-tracker/internal/domain"
)

func writeArtifact(t *testing.T, dir, name string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// testModel returns a tiny but dimensionally consistent model: zero weights,
// so the forward pass returns exactly the dense bias.
func testModel(outputs int) *LSTM {
	hidden := 2
	gates := 4 * hidden
	m := &LSTM{
		InputSize:  1,
		HiddenSize: hidden,
		OutputSize: outputs,
		WIh:        make([][]float64, gates),
		WHh:        make([][]float64, gates),
		Bias:       make([]float64, gates),
		DenseW:     make([][]float64, outputs),
		DenseB:     make([]float64, outputs),
	}
	for g := 0; g < gates; g++ {
		m.WIh[g] = make([]float64, 1)
		m.WHh[g] = make([]float64, hidden)
	}
	for k := 0; k < outputs; k++ {
		m.DenseW[k] = make([]float64, hidden)
		m.DenseB[k] = 100 + float64(10*k)
	}
	return m
}

func writeBundle(t *testing.T, dir string, meta map[string]any) {
	t.Helper()
	writeArtifact(t, dir, MetaFileName, meta)
	writeArtifact(t, dir, ScalerFileName, &StandardScaler{Mean: []float64{100}, Scale: []float64{10}})
	writeArtifact(t, dir, ModelFileName, testModel(3))
}

func TestRegistry_LoadsOnce(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, map[string]any{"freq_min": 5, "lookback": 4, "offsets": []int{1, 2, 3}})

	r := NewRegistry(dir)
	for i := 0; i < 3; i++ {
		if _, err := r.Config(); err != nil {
			t.Fatalf("Config call %d: %v", i, err)
		}
	}
	if _, err := r.Scaler(); err != nil {
		t.Fatalf("Scaler: %v", err)
	}
	if r.loads != 1 {
		t.Fatalf("expected exactly one artifact load, got %d", r.loads)
	}
}

func TestRegistry_ConcurrentFirstAccess(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, map[string]any{"freq_min": 5, "lookback": 4, "offsets": []int{1, 2, 3}})

	r := NewRegistry(dir)
	input := [][]float64{{0.1}, {0.2}, {0.3}, {0.4}}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Config(); err != nil {
				errs <- err
			}
			if _, err := r.Predict(input); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent access failed: %v", err)
	}
	// All racing first-callers share one disk load.
	if r.loads != 1 {
		t.Fatalf("expected exactly one artifact load, got %d", r.loads)
	}
}

func TestRegistry_MissingArtifacts(t *testing.T) {
	r := NewRegistry(t.TempDir())

	_, err := r.Config()
	var nf *domain.ArtifactNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected ArtifactNotFoundError, got %v", err)
	}
}

func TestRegistry_RetryAfterFailedLoad(t *testing.T) {
	dir := t.TempDir()
	// Only the meta file exists, so the first load fails on the model.
	writeArtifact(t, dir, MetaFileName, map[string]any{"lookback": 4})

	r := NewRegistry(dir)
	if _, err := r.Config(); err == nil {
		t.Fatalf("expected load failure with missing model")
	}

	// Operator fixes the artifacts; the next call retries the load.
	writeArtifact(t, dir, ScalerFileName, &StandardScaler{Mean: []float64{100}, Scale: []float64{10}})
	writeArtifact(t, dir, ModelFileName, testModel(3))
	cfg, err := r.Config()
	if err != nil {
		t.Fatalf("retry after fix: %v", err)
	}
	if cfg.Lookback != 4 {
		t.Fatalf("Lookback = %d, want 4", cfg.Lookback)
	}
}

func TestLoadMeta_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, MetaFileName, map[string]any{})

	cfg, err := loadMeta(filepath.Join(dir, MetaFileName))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FreqMin != DefaultFreqMin || cfg.Lookback != DefaultLookback {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	wantOffsets := defaultOffsets()
	if len(cfg.Offsets) != len(wantOffsets) {
		t.Fatalf("Offsets = %v, want %v", cfg.Offsets, wantOffsets)
	}
	for i, o := range wantOffsets {
		if cfg.Offsets[i] != o {
			t.Fatalf("Offsets = %v, want %v", cfg.Offsets, wantOffsets)
		}
	}
	if cfg.Target != DefaultTarget || cfg.Units != DefaultUnits {
		t.Fatalf("target/units defaults not applied: %+v", cfg)
	}
}

func TestLoadMeta_MalformedOffsets(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]any
	}{
		{"string offsets", map[string]any{"offsets": "2,4,6"}},
		{"empty list", map[string]any{"offsets": []int{}}},
		{"mixed types", map[string]any{"offsets": []any{2, "four"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeArtifact(t, dir, MetaFileName, tt.meta)
			if _, err := loadMeta(filepath.Join(dir, MetaFileName)); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}

func TestRegistry_HealthCheck(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, map[string]any{"freq_min": 15, "lookback": 20, "offsets": []int{2, 4, 6}})

	r := NewRegistry(dir)
	health, err := r.HealthCheck()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !health.OK || !health.ModelLoaded || !health.ScalerLoaded {
		t.Fatalf("unexpected health: %+v", health)
	}
	if health.FreqMin != 15 || health.Lookback != 20 || len(health.Offsets) != 3 {
		t.Fatalf("config not reflected in health: %+v", health)
	}
	if health.ArtifactsDir != dir {
		t.Fatalf("ArtifactsDir = %q, want %q", health.ArtifactsDir, dir)
	}
}

func TestRegistry_Predict(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, map[string]any{"lookback": 4, "offsets": []int{1, 2, 3}})

	r := NewRegistry(dir)
	out, err := r.Predict([][]float64{{0.1}, {0.2}, {0.3}, {0.4}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("output length = %d, want 3", len(out))
	}
}
