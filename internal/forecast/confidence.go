package forecast

import (
	"math"

	"github.com/yourusername/gov-forecast/internal/models"
)

// Confidence bonus coefficients: a stronger overall sentiment and clearer
// cross-source agreement both nudge confidence up slightly.
const (
	confSentimentBonus = 0.05
	confSourceAvgBonus = 0.02
)

// Confidence derives the forecast confidence score from the margin of error,
// clamped into the configured bounds (default [0.05, 0.99]).
func Confidence(margin float64, fv models.FeatureVector, cfg Config) float64 {
	cfg = cfg.Normalize()
	conf := 1.0 - margin
	conf += confSentimentBonus*math.Abs(fv.Sentiment) + confSourceAvgBonus*math.Abs(fv.SourceSentimentAvg)
	return clamp(conf, cfg.ConfidenceMin, cfg.ConfidenceMax)
}
