package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/gov-forecast/internal/models"
)

func TestConfidenceBaseIsOneMinusMargin(t *testing.T) {
	got := Confidence(0.12, models.FeatureVector{}, DefaultConfig())
	assert.InDelta(t, 0.88, got, 1e-12)
}

func TestConfidenceSentimentBonuses(t *testing.T) {
	fv := models.FeatureVector{Sentiment: -0.6, SourceSentimentAvg: 0.5}
	got := Confidence(0.2, fv, DefaultConfig())
	// 1 - 0.2 + 0.05*0.6 + 0.02*0.5
	assert.InDelta(t, 0.84, got, 1e-12)
}

func TestConfidenceClampedToConfiguredBounds(t *testing.T) {
	cfg := Config{ConfidenceMin: 0.1, ConfidenceMax: 0.9}

	high := Confidence(0.01, models.FeatureVector{Sentiment: 1.0}, cfg)
	assert.Equal(t, 0.9, high)

	low := Confidence(0.95, models.FeatureVector{}, cfg)
	assert.Equal(t, 0.1, low)
}

func TestConfidenceDefaultCeiling(t *testing.T) {
	// With a margin at the floor and maximal bonuses, the default ceiling of
	// 0.99 still applies.
	fv := models.FeatureVector{Sentiment: 1.0, SourceSentimentAvg: 1.0}
	assert.Equal(t, 0.99, Confidence(0.01, fv, DefaultConfig()))
}
