package forecast

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gov-forecast/internal/logger"
	"github.com/yourusername/gov-forecast/internal/metrics"
	"github.com/yourusername/gov-forecast/internal/models"
)

// Forecaster ties the engine stages together: extraction, probability,
// calibration, effective sample size, margin and confidence. It is safe for
// concurrent use; the only shared state is the read-through file cache in
// Store.
type Forecaster struct {
	cfg      Config
	store    *Store
	strategy MarginStrategy
	log      *logger.ForecastLogger
}

// NewForecaster creates a forecaster with the configured margin policy.
func NewForecaster(cfg Config, log *logrus.Logger) *Forecaster {
	cfg = cfg.Normalize()
	if log == nil {
		log = logrus.New()
	}
	return &Forecaster{
		cfg:      cfg,
		store:    NewStore(cfg),
		strategy: NewMarginStrategy(cfg),
		log:      logger.NewForecastLogger(log),
	}
}

// Store exposes the underlying model/calibration store, mainly so the
// training service can share the forecaster's cache invalidation.
func (f *Forecaster) Store() *Store {
	return f.store
}

// Forecast produces the calibrated outcome forecast for one proposal
// context. It never returns an error: a missing or unusable model routes to
// the heuristic probability, malformed context fields resolve to their
// extraction defaults, and every output is clamped into its documented range.
func (f *Forecaster) Forecast(ctx models.Context, stats models.HistoricalStats) models.ForecastResult {
	start := time.Now()
	fv := Extract(ctx, stats)

	raw, path := f.rawProbability(fv)
	cal := f.store.Calibration()
	p := clamp01(ApplyCalibration(raw, fv.PrimarySource, cal))
	if cal != nil {
		f.log.LogCalibration(cal.Type, fv.PrimarySource, raw, p)
	}

	nEff := EffectiveSampleSize(fv)
	margin := f.strategy.Margin(fv, p, nEff)
	confidence := Confidence(margin, fv, f.cfg)

	metrics.RecordForecast(f.strategy.Name(), path, p, margin, time.Since(start).Seconds())

	f.log.WithFields(logrus.Fields{
		"probability":    p,
		"margin":         margin,
		"confidence":     confidence,
		"n_eff":          nEff,
		"path":           path,
		"primary_source": fv.PrimarySource,
	}).Debug("Forecast computed")

	return models.ForecastResult{
		ApprovalProb:        p,
		TurnoutEstimate:     clamp01(fv.Turnout),
		MarginOfError:       margin,
		Confidence:          confidence,
		EffectiveSampleSize: nEff,
		MarginPolicy:        f.strategy.Name(),
	}
}

// rawProbability applies the trained model when one is loadable, otherwise
// falls back to the heuristic. The zero model written by training on an
// empty dataset also routes to the heuristic, so a failed refresh degrades
// softly instead of pinning every forecast at 0.5.
func (f *Forecaster) rawProbability(fv models.FeatureVector) (float64, string) {
	model, err := f.store.Model()
	if err != nil || model.IsZero() {
		return HeuristicProbability(fv), "heuristic"
	}
	return Apply(model, fv), "model"
}
