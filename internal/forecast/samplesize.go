package forecast

import (
	"math"
	"strings"

	"github.com/yourusername/gov-forecast/internal/models"
)

// Effective sample size bounds.
const (
	MinEffectiveSampleSize = 30.0
	MaxEffectiveSampleSize = 5000.0
)

// Per-source base counts; unknown sources use the default.
var sourceBaseCounts = map[string]float64{
	"forum":        250.0,
	"news":         200.0,
	"chat":         120.0,
	"onchain":      100.0,
	"governance":   220.0,
	"consolidated": 300.0,
}

const defaultBaseCount = 150.0

// EffectiveSampleSize estimates how many independent observations back the
// probability: a base count keyed by the primary source, grown by context
// volume (size, trending topics, knowledge snippets) and scaled up with
// engagement, clamped to [30, 5000].
func EffectiveSampleSize(fv models.FeatureVector) float64 {
	base, ok := sourceBaseCounts[strings.ToLower(fv.PrimarySource)]
	if !ok {
		base = defaultBaseCount
	}

	n := base + 10.0*nonNegative(fv.ContextKB) + 20.0*nonNegative(fv.TopicsN) + 15.0*nonNegative(fv.SnippetsN)
	n *= 1.0 + 0.5*fv.EngagementWeight
	if math.IsNaN(n) || math.IsInf(n, 0) {
		n = base
	}
	return clamp(n, MinEffectiveSampleSize, MaxEffectiveSampleSize)
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0.0
	}
	return v
}
