package forecast

import (
	"sort"
	"strings"

	"github.com/yourusername/gov-forecast/internal/models"
)

// ApplyCalibration remaps a raw probability through the optional calibration
// config. A nil config, an empty points list or an unknown type all leave the
// probability unchanged; every mapped result is clamped to [0,1].
func ApplyCalibration(p float64, source string, cfg *models.CalibrationConfig) float64 {
	if cfg == nil {
		return p
	}

	switch strings.ToLower(cfg.Type) {
	case models.CalibrationTypeLinear, "":
		m, c := cfg.Slope(), cfg.Offset()
		if source != "" && cfg.SourceOverrides != nil {
			if ov, ok := lookupOverride(cfg.SourceOverrides, source); ok {
				m, c = ov.M, ov.C
			}
		}
		return clamp01(m*p + c)

	case models.CalibrationTypePoints:
		points := validPoints(cfg.Points)
		if len(points) == 0 {
			return p
		}
		return clamp01(interpolatePoints(points, p))

	default:
		return p
	}
}

func lookupOverride(overrides map[string]models.LinearOverride, source string) (models.LinearOverride, bool) {
	key := strings.ToLower(strings.TrimSpace(source))
	for name, ov := range overrides {
		if strings.ToLower(strings.TrimSpace(name)) == key {
			return ov, true
		}
	}
	return models.LinearOverride{}, false
}

// validPoints keeps the well-formed (x, y) pairs sorted by x.
func validPoints(raw [][]float64) [][2]float64 {
	points := make([][2]float64, 0, len(raw))
	for _, pair := range raw {
		if len(pair) < 2 {
			continue
		}
		points = append(points, [2]float64{pair[0], pair[1]})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i][0] == points[j][0] {
			return points[i][1] < points[j][1]
		}
		return points[i][0] < points[j][0]
	})
	return points
}

// interpolatePoints maps x through the piecewise-linear curve: endpoint y
// outside the control range, linear interpolation between bracketing points
// inside it. Duplicate x values resolve to the lower point's y.
func interpolatePoints(points [][2]float64, x float64) float64 {
	if x <= points[0][0] {
		return points[0][1]
	}
	last := points[len(points)-1]
	if x >= last[0] {
		return last[1]
	}
	for i := 0; i < len(points)-1; i++ {
		x0, y0 := points[i][0], points[i][1]
		x1, y1 := points[i+1][0], points[i+1][1]
		if x0 <= x && x <= x1 {
			if x1 == x0 {
				return y0
			}
			t := (x - x0) / (x1 - x0)
			return y0 + t*(y1-y0)
		}
	}
	return x
}
