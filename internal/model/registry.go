package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mvilar/glucose-tracker/internal/domain"
)

// Artifact filenames, fixed under the configured artifacts directory.
const (
	ModelFileName  = "shanghai_lstm_v1.weights.json"
	ScalerFileName = "shanghai_scaler_v1.json"
	MetaFileName   = "shanghai_model_v1.json"
)

// Metadata defaults applied when the meta document omits a field.
const (
	DefaultFreqMin  = 15
	DefaultLookback = 20
	DefaultTarget   = "glucose"
	DefaultUnits    = "mg/dL"
)

func defaultOffsets() []int {
	return []int{2, 4, 6}
}

// Registry owns the cached model, scaler and config for the process
// lifetime. The first caller performs the load under the mutex; concurrent
// first-callers block and reuse the result (single-flight). A failed load
// leaves the registry unloaded so a later call can retry after the operator
// fixes the artifacts. Inference is serialized through a dedicated mutex
// because the model instance is shared.
type Registry struct {
	dir string

	mu     sync.Mutex
	loaded bool
	loads  int // disk reads, for idempotence checks in tests

	model  *LSTM
	scaler *StandardScaler
	config *domain.ForecastConfig

	inferMu sync.Mutex
}

// Health reports the registry state for the forecast healthcheck endpoint.
type Health struct {
	OK           bool   `json:"ok"`
	ArtifactsDir string `json:"artifacts_dir"`
	ModelLoaded  bool   `json:"model_loaded"`
	ScalerLoaded bool   `json:"scaler_loaded"`
	FreqMin      int    `json:"freq_min"`
	Lookback     int    `json:"lookback"`
	Offsets      []int  `json:"offsets"`
}

// NewRegistry creates a registry over the given artifacts directory.
// Nothing is read from disk until the first access.
func NewRegistry(artifactsDir string) *Registry {
	return &Registry{dir: artifactsDir}
}

// Config returns the cached forecast configuration, loading the artifacts
// on first access.
func (r *Registry) Config() (*domain.ForecastConfig, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}
	return r.config, nil
}

// Scaler returns the cached feature scaler, loading the artifacts on first
// access. Immutable after load; no locking needed by callers.
func (r *Registry) Scaler() (*StandardScaler, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}
	return r.scaler, nil
}

// Predict runs the model over a scaled (timesteps x features) window. Calls
// are serialized: the inference runtime is not assumed safe for concurrent
// invocation on one model instance.
func (r *Registry) Predict(input [][]float64) ([]float64, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}

	r.inferMu.Lock()
	defer r.inferMu.Unlock()
	return r.model.Forward(input)
}

// HealthCheck forces a load and reports the registry state.
func (r *Registry) HealthCheck() (*Health, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}
	return &Health{
		OK:           true,
		ArtifactsDir: r.dir,
		ModelLoaded:  r.model != nil,
		ScalerLoaded: r.scaler != nil,
		FreqMin:      r.config.FreqMin,
		Lookback:     r.config.Lookback,
		Offsets:      r.config.Offsets,
	}, nil
}

func (r *Registry) ensureLoaded() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return nil
	}

	cfg, err := loadMeta(filepath.Join(r.dir, MetaFileName))
	if err != nil {
		return err
	}
	m, err := LoadLSTM(filepath.Join(r.dir, ModelFileName))
	if err != nil {
		return err
	}
	s, err := LoadScaler(filepath.Join(r.dir, ScalerFileName))
	if err != nil {
		return err
	}

	r.config = cfg
	r.model = m
	r.scaler = s
	r.loads++
	r.loaded = true
	return nil
}

// metaFile mirrors the metadata JSON document. Offsets stays raw so that a
// present-but-malformed value fails the load instead of silently defaulting.
type metaFile struct {
	FreqMin  *int            `json:"freq_min"`
	Lookback *int            `json:"lookback"`
	Offsets  json.RawMessage `json:"offsets"`
	Target   string          `json:"target"`
	Units    string          `json:"units"`
}

func loadMeta(path string) (*domain.ForecastConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &domain.ArtifactNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("read meta: %w", err)
	}

	var meta metaFile
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("parse meta %s: %w", path, err)
	}

	cfg := &domain.ForecastConfig{
		FreqMin:  DefaultFreqMin,
		Lookback: DefaultLookback,
		Offsets:  defaultOffsets(),
		Target:   DefaultTarget,
		Units:    DefaultUnits,
	}
	if meta.FreqMin != nil {
		cfg.FreqMin = *meta.FreqMin
	}
	if meta.Lookback != nil {
		cfg.Lookback = *meta.Lookback
	}
	if len(meta.Offsets) > 0 {
		var offsets []float64
		if err := json.Unmarshal(meta.Offsets, &offsets); err != nil || len(offsets) == 0 {
			return nil, fmt.Errorf("meta %s: 'offsets' must be a non-empty list of numbers, got %s", path, string(meta.Offsets))
		}
		cfg.Offsets = make([]int, len(offsets))
		for i, o := range offsets {
			cfg.Offsets[i] = int(o)
		}
	}
	if meta.Target != "" {
		cfg.Target = meta.Target
	}
	if meta.Units != "" {
		cfg.Units = meta.Units
	}
	return cfg, nil
}
