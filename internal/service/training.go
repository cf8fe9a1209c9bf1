package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gov-forecast/internal/backtest"
	"github.com/yourusername/gov-forecast/internal/forecast"
	applog "github.com/yourusername/gov-forecast/internal/logger"
	"github.com/yourusername/gov-forecast/internal/metrics"
	"github.com/yourusername/gov-forecast/internal/models"
	"github.com/yourusername/gov-forecast/internal/repository"
)

// TrainingService refits the approval model from stored referenda and
// publishes it through the model store.
type TrainingService struct {
	referendumRepo repository.ReferendumRepository
	store          *forecast.Store
	minRecords     int
	logger         *logrus.Entry
}

// TrainingResult summarizes one training run
type TrainingResult struct {
	Records    int
	Model      models.ForecastModel
	Heuristic  bool
	Duration   time.Duration
	BrierModel float64
	BrierPrior float64
}

// NewTrainingService creates a new training service
func NewTrainingService(referendumRepo repository.ReferendumRepository, store *forecast.Store, minRecords int, logger *logrus.Logger) *TrainingService {
	return &TrainingService{
		referendumRepo: referendumRepo,
		store:          store,
		minRecords:     minRecords,
		logger:         applog.NewComponentLogger(logger, "training"),
	}
}

// Train fits a model on the full stored history and saves it. When the
// history is too small or the fit degenerates, the zero model is saved so
// forecasts fall back to the heuristic path.
func (s *TrainingService) Train(ctx context.Context) (*TrainingResult, error) {
	started := time.Now()

	records, err := s.referendumRepo.GetAll(ctx)
	if err != nil {
		metrics.RecordTrainingRun("error", 0, time.Since(started).Seconds())
		return nil, fmt.Errorf("failed to load training records: %w", err)
	}

	result := &TrainingResult{Records: len(records)}

	if len(records) < s.minRecords {
		s.logger.WithFields(logrus.Fields{
			"records":     len(records),
			"min_records": s.minRecords,
		}).Warn("Not enough history to train, keeping heuristic fallback")

		result.Model = models.ZeroModel()
		result.Heuristic = true
	} else {
		result.Model = forecast.Train(records)
		result.Heuristic = result.Model.IsZero()
		result.BrierModel, result.BrierPrior = s.scoreFit(records, result.Model)
	}

	if err := s.store.SaveModel(result.Model); err != nil {
		metrics.RecordTrainingRun("error", len(records), time.Since(started).Seconds())
		return nil, fmt.Errorf("failed to save model: %w", err)
	}

	result.Duration = time.Since(started)

	status := "success"
	if result.Heuristic {
		status = "degenerate"
	}
	metrics.RecordTrainingRun(status, len(records), result.Duration.Seconds())

	s.logger.WithFields(logrus.Fields{
		"records":     result.Records,
		"heuristic":   result.Heuristic,
		"duration":    result.Duration,
		"brier_model": result.BrierModel,
		"brier_prior": result.BrierPrior,
	}).Info("Training run complete")

	return result, nil
}

// scoreFit computes the in-sample Brier score of the fitted model next to a
// constant base-rate predictor, so training logs show whether the fit helps.
func (s *TrainingService) scoreFit(records []models.HistoricalRecord, model models.ForecastModel) (float64, float64) {
	if len(records) == 0 {
		return 0.0, 0.0
	}

	probs := make([]float64, len(records))
	outcomes := make([]bool, len(records))

	executed := 0
	for _, rec := range records {
		if rec.Executed() {
			executed++
		}
	}
	baseRate := float64(executed) / float64(len(records))
	prior := make([]float64, len(records))

	for i, rec := range records {
		fv := trainingFeatures(rec)
		probs[i] = forecast.Apply(model, fv)
		outcomes[i] = rec.Executed()
		prior[i] = baseRate
	}

	return backtest.BrierScoreForProbabilities(probs, outcomes), backtest.BrierScoreForProbabilities(prior, outcomes)
}

func trainingFeatures(rec models.HistoricalRecord) models.FeatureVector {
	return models.FeatureVector{
		ApprovalRate:        rec.ApprovalRate(),
		Turnout:             rec.Turnout(),
		Sentiment:           rec.Sentiment,
		Trending:            rec.Trending,
		SourceSentimentAvg:  rec.SourceSentimentAvg,
		CommentTurnoutTrend: rec.CommentTurnoutTrend,
	}
}
