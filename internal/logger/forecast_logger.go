// Package logger provides forecast-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// ForecastLogger provides dedicated logging for forecasting operations.
type ForecastLogger struct {
	*logrus.Entry
}

// NewForecastLogger creates a new forecast logger.
func NewForecastLogger(baseLogger *logrus.Logger) *ForecastLogger {
	return &ForecastLogger{
		Entry: baseLogger.WithField("component", "forecast"),
	}
}

// LogForecast logs one completed forecast.
func (fl *ForecastLogger) LogForecast(proposalID int64, dao string, probability, marginOfError, confidence, nEff float64, marginPolicy string) {
	fl.WithFields(logrus.Fields{
		"proposal_id":     proposalID,
		"dao":             dao,
		"probability":     probability,
		"margin_of_error": marginOfError,
		"confidence":      confidence,
		"n_eff":           nEff,
		"margin_policy":   marginPolicy,
	}).Info("Forecast recorded")
}

// LogModelTraining logs a model training run.
func (fl *ForecastLogger) LogModelTraining(records int, coefficients int, trainingDurationSeconds float64, wroteZeroModel bool) {
	fl.WithFields(logrus.Fields{
		"records":           records,
		"coefficients":      coefficients,
		"training_duration": trainingDurationSeconds,
		"zero_model":        wroteZeroModel,
	}).Info("Model training completed")
}

// LogEvaluation logs a backtest evaluation run.
func (fl *ForecastLogger) LogEvaluation(predictions, matched int, joinLevel string, brierScore, hitRate float64) {
	fl.WithFields(logrus.Fields{
		"predictions": predictions,
		"matched":     matched,
		"join_level":  joinLevel,
		"brier_score": brierScore,
		"hit_rate":    hitRate,
	}).Info("Prediction evaluation completed")
}

// LogCalibration logs which calibration mapping was applied.
func (fl *ForecastLogger) LogCalibration(calibrationType, source string, rawProbability, calibrated float64) {
	fl.WithFields(logrus.Fields{
		"calibration_type": calibrationType,
		"source":           source,
		"raw_probability":  rawProbability,
		"calibrated":       calibrated,
	}).Debug("Calibration applied")
}
