// Package metrics provides the centralized Prometheus metrics registry for
// the forecasting pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ForecastsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gov_forecast",
		Name:      "forecasts_total",
		Help:      "Total number of forecasts by margin policy and probability path",
	}, []string{"policy", "path"})
	TrainingRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gov_forecast",
		Name:      "training_runs_total",
		Help:      "Total number of model training runs by status",
	}, []string{"status"})
	EvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gov_forecast",
		Name:      "evaluations_total",
		Help:      "Total number of backtest evaluation runs by join level",
	}, []string{"join_level"})
	ReferendaIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gov_forecast",
		Name:      "referenda_ingested_total",
		Help:      "Total number of referenda ingested from the governance API",
	})
	StreamEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gov_forecast",
		Name:      "stream_events_total",
		Help:      "Total number of referendum stream events by type",
	}, []string{"event"})
)

// Gauge metrics
var (
	ModelCoefficients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gov_forecast",
		Name:      "model_coefficients",
		Help:      "Number of coefficients in the active model",
	})
	LastTrainingRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gov_forecast",
		Name:      "last_training_records",
		Help:      "Number of historical records used by the last training run",
	})
	BacktestBrierScore = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gov_forecast",
		Name:      "backtest_brier_score",
		Help:      "Brier score from the most recent backtest evaluation",
	})
)

// Histogram metrics
var (
	ForecastProbability = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gov_forecast",
		Name:      "forecast_probability",
		Help:      "Distribution of forecast approval probabilities by policy",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	}, []string{"policy"})
	ForecastMargin = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gov_forecast",
		Name:      "forecast_margin_of_error",
		Help:      "Distribution of forecast margins of error by policy",
		Buckets:   []float64{0.01, 0.02, 0.05, 0.08, 0.12, 0.18, 0.25, 0.35, 0.45},
	}, []string{"policy"})
	ForecastDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gov_forecast",
		Name:      "forecast_duration_seconds",
		Help:      "Duration of a single forecast computation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gov_forecast",
		Name:      "training_duration_seconds",
		Help:      "Duration of model training runs in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ForecastsTotal)
		registry.MustRegister(TrainingRunsTotal)
		registry.MustRegister(EvaluationsTotal)
		registry.MustRegister(ReferendaIngestedTotal)
		registry.MustRegister(StreamEventsTotal)

		registry.MustRegister(ModelCoefficients)
		registry.MustRegister(LastTrainingRecords)
		registry.MustRegister(BacktestBrierScore)

		registry.MustRegister(ForecastProbability)
		registry.MustRegister(ForecastMargin)
		registry.MustRegister(ForecastDuration)
		registry.MustRegister(TrainingDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordForecast records one forecast computation.
func RecordForecast(policy, path string, probability, margin, durationSeconds float64) {
	ForecastsTotal.WithLabelValues(policy, path).Inc()
	ForecastProbability.WithLabelValues(policy).Observe(probability)
	ForecastMargin.WithLabelValues(policy).Observe(margin)
	ForecastDuration.Observe(durationSeconds)
}

// RecordTrainingRun records a training run.
// status should be one of: "success", "empty", "failure"
func RecordTrainingRun(status string, records int, durationSeconds float64) {
	TrainingRunsTotal.WithLabelValues(status).Inc()
	LastTrainingRecords.Set(float64(records))
	TrainingDuration.Observe(durationSeconds)
}

// RecordEvaluation records a backtest evaluation run.
// joinLevel should be one of: "exact", "canonical", "id_only", "none"
func RecordEvaluation(joinLevel string, brier float64) {
	EvaluationsTotal.WithLabelValues(joinLevel).Inc()
	BacktestBrierScore.Set(brier)
}

// RecordIngestedReferenda records referenda ingested from the governance API.
func RecordIngestedReferenda(count int) {
	ReferendaIngestedTotal.Add(float64(count))
}

// RecordStreamEvent records a referendum stream event.
func RecordStreamEvent(event string) {
	StreamEventsTotal.WithLabelValues(event).Inc()
}
