package forecast

import (
	"math"

	"github.com/yourusername/gov-forecast/internal/models"
)

// Margin output bounds shared by both policies.
const (
	minMargin          = 0.01
	maxMargin          = 0.45
	minHeuristicMargin = 0.02
)

// MarginStrategy computes the half-width of the uncertainty band around a
// predicted approval probability. Two formulations ship side by side: the
// legacy normal-approximation blend and the updated Wilson-score blend. They
// intentionally disagree on the same input; the moe-compare tool exists to
// track that divergence, so neither one should be "fixed" to match the other.
type MarginStrategy interface {
	Name() string
	Margin(fv models.FeatureVector, p, nEff float64) float64
}

// NewMarginStrategy resolves a policy name from config. Unknown names fall
// back to the updated policy, which is what the forecaster runs in production.
func NewMarginStrategy(cfg Config) MarginStrategy {
	cfg = cfg.Normalize()
	if cfg.MarginPolicy == MarginPolicyLegacy {
		return LegacyMarginStrategy{Z: cfg.ZScore}
	}
	return WilsonMarginStrategy{Z: cfg.ZScore, DecayScale: cfg.DecayScale}
}

// LegacyMarginStrategy blends the original heuristic margin with the normal
// approximation at fixed equal weights.
type LegacyMarginStrategy struct {
	Z float64
}

func (LegacyMarginStrategy) Name() string { return MarginPolicyLegacy }

func (s LegacyMarginStrategy) Margin(fv models.FeatureVector, p, nEff float64) float64 {
	heuristic := heuristicMargin(fv, 0.08, 0.22, 0.12)
	stat := normalMargin(s.Z, p, nEff)
	return clamp(0.5*heuristic+0.5*stat, minMargin, maxMargin)
}

// WilsonMarginStrategy blends a softened heuristic margin with the Wilson
// score half-width, weighting toward the statistical term as the effective
// sample size grows.
type WilsonMarginStrategy struct {
	Z          float64
	DecayScale float64
}

func (WilsonMarginStrategy) Name() string { return MarginPolicyUpdated }

func (s WilsonMarginStrategy) Margin(fv models.FeatureVector, p, nEff float64) float64 {
	heuristic := heuristicMargin(fv, 0.06, 0.18, 0.10)
	stat := wilsonHalfWidth(s.Z, p, nEff)

	decay := s.DecayScale
	if decay <= 0 {
		decay = DefaultConfig().DecayScale
	}
	wHeuristic := 1.0 / (1.0 + nEff/decay)
	wStat := 1.0 - wHeuristic
	return clamp(wHeuristic*heuristic+wStat*stat, minMargin, maxMargin)
}

// heuristicMargin is the data-sparsity term shared by both policies, differing
// only in coefficients: base + volatility and sentiment-spread terms, damped
// by engagement and clamped to [0.02, 0.45].
func heuristicMargin(fv models.FeatureVector, base, volCoeff, spreadCoeff float64) float64 {
	spread := sentimentSpread(fv)
	volatility := math.Abs(fv.TurnoutTrend) + math.Abs(fv.CommentTurnoutTrend)
	engagement := clamp01(fv.EngagementWeight)

	margin := base + volCoeff*volatility + spreadCoeff*spread
	margin *= 1.0 - 0.35*engagement
	return clamp(margin, minHeuristicMargin, maxMargin)
}

// sentimentSpread measures disagreement across per-source sentiments: the
// population standard deviation when two or more sources reported, a scaled
// distance from the overall sentiment for a single source, and a fraction of
// the overall sentiment magnitude otherwise.
func sentimentSpread(fv models.FeatureVector) float64 {
	values := fv.SourceSentimentValues
	switch {
	case len(values) > 1:
		return populationStddev(values)
	case len(values) == 1:
		return math.Abs(values[0]-fv.Sentiment) * 0.5
	default:
		return math.Abs(fv.Sentiment) * 0.3
	}
}

// normalMargin is the plain normal-approximation margin z·sqrt(p(1-p)/N).
func normalMargin(z, p, nEff float64) float64 {
	if nEff < MinEffectiveSampleSize {
		nEff = MinEffectiveSampleSize
	}
	return z * math.Sqrt(p*(1.0-p)/nEff)
}

// wilsonHalfWidth is half the width of the Wilson score interval, which stays
// honest near probability extremes where the normal approximation collapses.
// A non-positive result (p exactly 0 or 1 with tiny N) falls back to the
// normal approximation.
func wilsonHalfWidth(z, p, nEff float64) float64 {
	if nEff < MinEffectiveSampleSize {
		nEff = MinEffectiveSampleSize
	}
	z2 := z * z
	denom := 1.0 + z2/nEff
	center := (p + z2/(2.0*nEff)) / denom
	radius := (z / denom) * math.Sqrt(p*(1.0-p)/nEff+z2/(4.0*nEff*nEff))

	low := math.Max(0.0, center-radius)
	high := math.Min(1.0, center+radius)
	half := 0.5 * (high - low)
	if !(half > 0.0) {
		return normalMargin(z, p, nEff)
	}
	return half
}

func populationStddev(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
