package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gov-forecast/internal/forecast"
	applog "github.com/yourusername/gov-forecast/internal/logger"
	"github.com/yourusername/gov-forecast/internal/models"
	"github.com/yourusername/gov-forecast/internal/repository"
)

// ForecastService produces forecasts for live proposals and persists them as
// predictions for later evaluation.
type ForecastService struct {
	forecaster     *forecast.Forecaster
	stats          *HistoricalStatsService
	predictionRepo repository.PredictionRepository
	logger         *logrus.Entry
}

// NewForecastService creates a new forecast service
func NewForecastService(
	forecaster *forecast.Forecaster,
	stats *HistoricalStatsService,
	predictionRepo repository.PredictionRepository,
	logger *logrus.Logger,
) *ForecastService {
	return &ForecastService{
		forecaster:     forecaster,
		stats:          stats,
		predictionRepo: predictionRepo,
		logger:         applog.NewComponentLogger(logger, "forecast_service"),
	}
}

// Preview computes a forecast for a proposal context without persisting it
func (s *ForecastService) Preview(ctx context.Context, dao string, proposalCtx models.Context) (models.ForecastResult, error) {
	stats, err := s.stats.StatsForDAO(ctx, dao)
	if err != nil {
		return models.ForecastResult{}, err
	}

	return s.forecaster.Forecast(proposalCtx, stats), nil
}

// ForecastProposal computes a forecast for one proposal and stores the
// resulting prediction.
func (s *ForecastService) ForecastProposal(ctx context.Context, proposalID int64, dao string, proposalCtx models.Context) (*models.Prediction, models.ForecastResult, error) {
	stats, err := s.stats.StatsForDAO(ctx, dao)
	if err != nil {
		return nil, models.ForecastResult{}, err
	}

	result := s.forecaster.Forecast(proposalCtx, stats)

	prediction := &models.Prediction{
		ID:             uuid.New(),
		ProposalID:     proposalID,
		DAO:            dao,
		Predicted:      result.Label(),
		ApprovalProb:   result.ApprovalProb,
		Confidence:     result.Confidence,
		MarginOfError:  result.MarginOfError,
		PredictionTime: time.Now().UTC(),
	}

	if err := s.predictionRepo.Insert(ctx, prediction); err != nil {
		return nil, result, fmt.Errorf("failed to store prediction: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"proposal_id": proposalID,
		"dao":         dao,
		"predicted":   prediction.Predicted,
		"probability": result.ApprovalProb,
		"confidence":  result.Confidence,
		"margin":      result.MarginOfError,
	}).Info("Stored proposal forecast")

	return prediction, result, nil
}
