package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gov-forecast/internal/forecast"
	"github.com/yourusername/gov-forecast/internal/models"
)

func testForecaster(t *testing.T) *forecast.Forecaster {
	t.Helper()
	dir := t.TempDir()
	return forecast.NewForecaster(forecast.Config{
		ModelPath:       filepath.Join(dir, "model.json"),
		CalibrationPath: filepath.Join(dir, "calibration.json"),
	}, quietLogrus())
}

func proposalContext() models.Context {
	return models.Context{
		"sentiment_score":   0.4,
		"trend_score":       0.2,
		"engagement_weight": 0.7,
	}
}

func TestPreviewDoesNotPersist(t *testing.T) {
	refRepo := &fakeReferendumRepo{records: []models.HistoricalRecord{
		trainedRecord(1, true, 0.3),
		trainedRecord(2, false, -0.2),
	}}
	predRepo := &fakePredictionRepo{}
	svc := NewForecastService(testForecaster(t), NewHistoricalStatsService(refRepo), predRepo, quietLogrus())

	result, err := svc.Preview(context.Background(), "treasury", proposalContext())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.ApprovalProb, 0.0)
	assert.LessOrEqual(t, result.ApprovalProb, 1.0)
	assert.Empty(t, predRepo.inserted)
}

func TestForecastProposalStoresPrediction(t *testing.T) {
	refRepo := &fakeReferendumRepo{records: []models.HistoricalRecord{
		trainedRecord(1, true, 0.3),
	}}
	predRepo := &fakePredictionRepo{}
	svc := NewForecastService(testForecaster(t), NewHistoricalStatsService(refRepo), predRepo, quietLogrus())

	prediction, result, err := svc.ForecastProposal(context.Background(), 42, "treasury", proposalContext())
	require.NoError(t, err)
	require.NotNil(t, prediction)

	assert.NotEqual(t, uuid.Nil, prediction.ID)
	assert.Equal(t, int64(42), prediction.ProposalID)
	assert.Equal(t, "treasury", prediction.DAO)
	assert.Equal(t, result.Label(), prediction.Predicted)
	assert.Equal(t, result.ApprovalProb, prediction.ApprovalProb)
	assert.Equal(t, result.Confidence, prediction.Confidence)
	assert.Equal(t, result.MarginOfError, prediction.MarginOfError)
	assert.False(t, prediction.PredictionTime.IsZero())

	require.Len(t, predRepo.inserted, 1)
	assert.Equal(t, prediction.ID, predRepo.inserted[0].ID)
}

func TestForecastProposalStatsFailure(t *testing.T) {
	refRepo := &fakeReferendumRepo{failAll: true}
	svc := NewForecastService(testForecaster(t), NewHistoricalStatsService(refRepo), &fakePredictionRepo{}, quietLogrus())

	_, _, err := svc.ForecastProposal(context.Background(), 1, "treasury", proposalContext())
	assert.ErrorIs(t, err, errRepoDown)
}

func TestForecastProposalInsertFailureStillReturnsResult(t *testing.T) {
	refRepo := &fakeReferendumRepo{}
	predRepo := &fakePredictionRepo{failAll: true}
	svc := NewForecastService(testForecaster(t), NewHistoricalStatsService(refRepo), predRepo, quietLogrus())

	prediction, result, err := svc.ForecastProposal(context.Background(), 1, "treasury", proposalContext())
	require.Error(t, err)
	assert.Nil(t, prediction)
	assert.NotZero(t, result.MarginOfError)
}
