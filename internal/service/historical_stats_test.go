package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/yourusername/gov-forecast/internal/models"
)

func statsRecord(executed bool, turnout float64) models.HistoricalRecord {
	status := "rejected"
	if executed {
		status = "executed"
	}
	return models.HistoricalRecord{
		Status:        status,
		AyesAmount:    decimal.NewFromInt(600),
		TotalVoted:    decimal.NewFromInt(1000),
		Participants:  decimal.NewFromFloat(turnout * 1000),
		EligibleStake: decimal.NewFromInt(1000),
	}
}

func TestComputeStatsEmptyHistoryIsNeutral(t *testing.T) {
	stats := ComputeStats(nil)
	assert.Equal(t, models.HistoricalStats{ApprovalRate: 0.5, Turnout: 0.0, TurnoutTrend: 0.0}, stats)
}

func TestComputeStatsApprovalRateAndTurnout(t *testing.T) {
	records := []models.HistoricalRecord{
		statsRecord(true, 0.4),
		statsRecord(true, 0.6),
		statsRecord(false, 0.2),
		statsRecord(true, 0.8),
	}

	stats := ComputeStats(records)
	assert.InDelta(t, 0.75, stats.ApprovalRate, 1e-12)
	assert.InDelta(t, 0.5, stats.Turnout, 1e-12)
	// Too few records for a trend window.
	assert.Equal(t, 0.0, stats.TurnoutTrend)
}

func TestComputeStatsTurnoutTrend(t *testing.T) {
	// 5 older records at 0.2 turnout, then 10 recent ones at 0.5: the trend
	// is the recent mean minus the prior mean.
	var records []models.HistoricalRecord
	for i := 0; i < 5; i++ {
		records = append(records, statsRecord(true, 0.2))
	}
	for i := 0; i < 10; i++ {
		records = append(records, statsRecord(true, 0.5))
	}

	stats := ComputeStats(records)
	assert.InDelta(t, 0.3, stats.TurnoutTrend, 1e-9)
}

func TestComputeStatsTrendNeedsMoreThanWindow(t *testing.T) {
	var records []models.HistoricalRecord
	for i := 0; i < trendWindow; i++ {
		records = append(records, statsRecord(true, float64(i)/20.0))
	}
	assert.Equal(t, 0.0, ComputeStats(records).TurnoutTrend)
}

func TestComputeStatsCaseInsensitiveStatus(t *testing.T) {
	records := []models.HistoricalRecord{
		{Status: "Executed", EligibleStake: decimal.NewFromInt(1)},
		{Status: " EXECUTED ", EligibleStake: decimal.NewFromInt(1)},
		{Status: "rejected", EligibleStake: decimal.NewFromInt(1)},
	}
	stats := ComputeStats(records)
	assert.InDelta(t, 2.0/3.0, stats.ApprovalRate, 1e-12)
}
