package forecast

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/gov-forecast/internal/models"
)

const (
	modelCacheKey       = "model"
	calibrationCacheKey = "calibration"
)

// Store loads the model and calibration files, caching parsed contents so
// repeated forecast calls do not re-read the disk. Both files are read-only
// from the engine's perspective; SaveModel is the training side's
// last-writer-wins replace.
type Store struct {
	cfg   Config
	cache *cache.Cache
}

// NewStore creates a store for the configured model and calibration paths.
func NewStore(cfg Config) *Store {
	cfg = cfg.Normalize()
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	return &Store{
		cfg:   cfg,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Model returns the trained model, or (zero, ErrModelUnavailable) when the
// file is missing or unreadable. Callers treat that error as a routing signal
// to the heuristic path, never as a failure.
func (s *Store) Model() (models.ForecastModel, error) {
	if cached, found := s.cache.Get(modelCacheKey); found {
		if m, ok := cached.(models.ForecastModel); ok {
			return m, nil
		}
	}

	data, err := os.ReadFile(s.cfg.ModelPath)
	if err != nil {
		return models.ZeroModel(), models.ErrModelUnavailable
	}
	var m models.ForecastModel
	if err := json.Unmarshal(data, &m); err != nil {
		return models.ZeroModel(), models.ErrModelUnavailable
	}
	if m.Coefficients == nil {
		m.Coefficients = map[string]float64{}
	}

	s.cache.SetDefault(modelCacheKey, m)
	return m, nil
}

// ModelAvailable reports whether a usable trained model can be loaded.
func (s *Store) ModelAvailable() bool {
	m, err := s.Model()
	return err == nil && !m.IsZero()
}

// Calibration returns the parsed calibration config, or nil when no usable
// file exists. A nil config means identity calibration.
func (s *Store) Calibration() *models.CalibrationConfig {
	if cached, found := s.cache.Get(calibrationCacheKey); found {
		if c, ok := cached.(*models.CalibrationConfig); ok {
			return c
		}
	}

	data, err := os.ReadFile(s.cfg.CalibrationPath)
	if err != nil {
		return nil
	}
	var c models.CalibrationConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil
	}

	s.cache.SetDefault(calibrationCacheKey, &c)
	return &c
}

// SaveModel writes the model file atomically (temp file + rename) and drops
// the cached copy so the next forecast picks up the new parameters.
func (s *Store) SaveModel(m models.ForecastModel) error {
	dir := filepath.Dir(s.cfg.ModelPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".model-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp model file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close model file: %w", err)
	}
	if err := os.Rename(tmpName, s.cfg.ModelPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace model file: %w", err)
	}

	s.cache.Delete(modelCacheKey)
	return nil
}

// Invalidate drops all cached file contents.
func (s *Store) Invalidate() {
	s.cache.Flush()
}
