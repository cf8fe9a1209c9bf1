// Package service coordinates ingestion, training and forecasting on top of
// the repositories and the forecast engine.
package service

import (
	"context"
	"fmt"

	"github.com/yourusername/gov-forecast/internal/models"
	"github.com/yourusername/gov-forecast/internal/repository"
)

// trendWindow is the number of recent records compared against the rest when
// estimating the turnout trend.
const trendWindow = 10

// HistoricalStatsService derives per-track aggregate statistics from stored
// referenda. The aggregates prime the forecast engine when a proposal has no
// live tally yet.
type HistoricalStatsService struct {
	referendumRepo repository.ReferendumRepository
}

// NewHistoricalStatsService creates a new historical stats service
func NewHistoricalStatsService(referendumRepo repository.ReferendumRepository) *HistoricalStatsService {
	return &HistoricalStatsService{referendumRepo: referendumRepo}
}

// StatsForDAO computes aggregate statistics from the stored history of one
// governance track. An unknown track yields neutral statistics, not an error.
func (s *HistoricalStatsService) StatsForDAO(ctx context.Context, dao string) (models.HistoricalStats, error) {
	records, err := s.referendumRepo.GetByDAO(ctx, dao)
	if err != nil {
		return models.HistoricalStats{}, fmt.Errorf("failed to load history for %s: %w", dao, err)
	}
	return ComputeStats(records), nil
}

// GlobalStats computes aggregate statistics over all stored referenda
func (s *HistoricalStatsService) GlobalStats(ctx context.Context) (models.HistoricalStats, error) {
	records, err := s.referendumRepo.GetAll(ctx)
	if err != nil {
		return models.HistoricalStats{}, fmt.Errorf("failed to load history: %w", err)
	}
	return ComputeStats(records), nil
}

// ComputeStats aggregates decided referenda into the statistics the forecast
// engine consumes. Records must be ordered oldest first; the turnout trend is
// the mean turnout of the newest records minus the mean of everything before
// them.
func ComputeStats(records []models.HistoricalRecord) models.HistoricalStats {
	if len(records) == 0 {
		return models.HistoricalStats{ApprovalRate: 0.5, Turnout: 0.0, TurnoutTrend: 0.0}
	}

	executed := 0
	turnoutSum := 0.0
	for _, rec := range records {
		if rec.Executed() {
			executed++
		}
		turnoutSum += rec.Turnout()
	}

	stats := models.HistoricalStats{
		ApprovalRate: float64(executed) / float64(len(records)),
		Turnout:      turnoutSum / float64(len(records)),
	}

	if len(records) > trendWindow {
		recent := records[len(records)-trendWindow:]
		prior := records[:len(records)-trendWindow]
		stats.TurnoutTrend = meanTurnout(recent) - meanTurnout(prior)
	}

	return stats
}

func meanTurnout(records []models.HistoricalRecord) float64 {
	if len(records) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, rec := range records {
		sum += rec.Turnout()
	}
	return sum / float64(len(records))
}
