package models

// Calibration mapping types.
const (
	CalibrationTypeLinear = "linear"
	CalibrationTypePoints = "points"
)

// LinearOverride is a per-source slope/offset override for linear calibration.
type LinearOverride struct {
	M float64 `json:"m"`
	C float64 `json:"c"`
}

// CalibrationConfig describes an optional post-hoc remapping of raw model
// probabilities. It mirrors the calibration file format:
//
//	{"type":"linear","m":1.0,"c":0.0,"source_overrides":{"forum":{"m":1.05,"c":-0.02}}}
//	{"type":"points","points":[[0.0,0.02],[0.5,0.5],[1.0,0.98]]}
//
// A nil config, or one with an unknown type, leaves probabilities unchanged.
type CalibrationConfig struct {
	Type            string                    `json:"type"`
	M               *float64                  `json:"m,omitempty"`
	C               *float64                  `json:"c,omitempty"`
	SourceOverrides map[string]LinearOverride `json:"source_overrides,omitempty"`
	Points          [][]float64               `json:"points,omitempty"`
}

// Slope returns the linear slope, defaulting to 1.0 when unset.
func (c *CalibrationConfig) Slope() float64 {
	if c == nil || c.M == nil {
		return 1.0
	}
	return *c.M
}

// Offset returns the linear offset, defaulting to 0.0 when unset.
func (c *CalibrationConfig) Offset() float64 {
	if c == nil || c.C == nil {
		return 0.0
	}
	return *c.C
}
