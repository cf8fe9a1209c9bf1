// Package forecast implements the outcome forecasting and uncertainty engine:
// feature extraction from proposal contexts, the closed-form probability
// model with its heuristic fallback, effective sample size estimation, the
// legacy and Wilson margin-of-error strategies, confidence scoring and
// probability calibration. All functions are pure: malformed input degrades
// to documented defaults and never surfaces an error to the caller.
package forecast

import "math"

// Margin policy names.
const (
	MarginPolicyLegacy  = "legacy"
	MarginPolicyUpdated = "updated"
)

// Config carries every tunable the engine uses so a forecast stays a pure
// function of (inputs, config). Zero-valued fields are filled from defaults
// by Normalize.
type Config struct {
	ModelPath       string  `mapstructure:"model_path"`
	CalibrationPath string  `mapstructure:"calibration_path"`
	MarginPolicy    string  `mapstructure:"margin_policy" validate:"omitempty,marginpolicy"`
	ZScore          float64 `mapstructure:"z_score" validate:"omitempty,gt=0"`
	DecayScale      float64 `mapstructure:"decay_scale" validate:"omitempty,gt=0"`
	ConfidenceMin   float64 `mapstructure:"confidence_min" validate:"omitempty,gte=0,lte=1"`
	ConfidenceMax   float64 `mapstructure:"confidence_max" validate:"omitempty,gte=0,lte=1"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"omitempty,gt=0"`
}

// DefaultConfig returns the engine defaults: the updated Wilson-blend margin
// policy, 95% z-score, decay scale 400 and confidence bounds [0.05, 0.99].
func DefaultConfig() Config {
	return Config{
		ModelPath:       "models/referendum_model.json",
		CalibrationPath: "models/referendum_calibration.json",
		MarginPolicy:    MarginPolicyUpdated,
		ZScore:          1.96,
		DecayScale:      400.0,
		ConfidenceMin:   0.05,
		ConfidenceMax:   0.99,
		CacheTTLSeconds: 300,
	}
}

// Normalize fills unset fields with defaults and returns the result.
func (c Config) Normalize() Config {
	def := DefaultConfig()
	if c.ModelPath == "" {
		c.ModelPath = def.ModelPath
	}
	if c.CalibrationPath == "" {
		c.CalibrationPath = def.CalibrationPath
	}
	if c.MarginPolicy == "" {
		c.MarginPolicy = def.MarginPolicy
	}
	if c.ZScore <= 0 {
		c.ZScore = def.ZScore
	}
	if c.DecayScale <= 0 {
		c.DecayScale = def.DecayScale
	}
	if c.ConfidenceMin <= 0 {
		c.ConfidenceMin = def.ConfidenceMin
	}
	if c.ConfidenceMax <= 0 {
		c.ConfidenceMax = def.ConfidenceMax
	}
	if c.ConfidenceMax < c.ConfidenceMin {
		c.ConfidenceMax = c.ConfidenceMin
	}
	if c.CacheTTLSeconds <= 0 {
		c.CacheTTLSeconds = def.CacheTTLSeconds
	}
	return c
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0.0, 1.0)
}
