package service

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gov-forecast/internal/forecast"
	"github.com/yourusername/gov-forecast/internal/models"
)

func quietLogrus() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func tempStore(t *testing.T) *forecast.Store {
	t.Helper()
	dir := t.TempDir()
	return forecast.NewStore(forecast.Config{
		ModelPath:       filepath.Join(dir, "model.json"),
		CalibrationPath: filepath.Join(dir, "calibration.json"),
	})
}

func trainedRecord(id int64, executed bool, sentiment float64) models.HistoricalRecord {
	status := "rejected"
	if executed {
		status = "executed"
	}
	return models.HistoricalRecord{
		ReferendumID:  id,
		DAO:           "treasury",
		Status:        status,
		DecidedAt:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Hour),
		AyesAmount:    decimal.NewFromInt(200 + (id*37)%600),
		TotalVoted:    decimal.NewFromInt(1000),
		Participants:  decimal.NewFromInt(250 + (id*53)%500),
		EligibleStake: decimal.NewFromInt(1000),
		Sentiment:     sentiment,
	}
}

func TestTrainTooFewRecordsSavesZeroModel(t *testing.T) {
	repo := &fakeReferendumRepo{records: []models.HistoricalRecord{
		trainedRecord(1, true, 0.5),
	}}
	store := tempStore(t)
	svc := NewTrainingService(repo, store, 30, quietLogrus())

	result, err := svc.Train(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Records)
	assert.True(t, result.Heuristic)
	assert.True(t, result.Model.IsZero())

	// The zero model is persisted, so forecasts route to the heuristic.
	assert.False(t, store.ModelAvailable())
	_, loadErr := store.Model()
	assert.NoError(t, loadErr)
}

func TestTrainEmptyHistoryWithZeroMinRecords(t *testing.T) {
	repo := &fakeReferendumRepo{}
	store := tempStore(t)
	svc := NewTrainingService(repo, store, 0, quietLogrus())

	result, err := svc.Train(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Records)
	assert.True(t, result.Heuristic)
	assert.False(t, store.ModelAvailable())

	// No records means no fit to score; both Brier figures stay at zero
	// instead of going NaN.
	assert.False(t, math.IsNaN(result.BrierModel))
	assert.False(t, math.IsNaN(result.BrierPrior))
	assert.Zero(t, result.BrierModel)
	assert.Zero(t, result.BrierPrior)
}

func TestTrainFitsAndSavesModel(t *testing.T) {
	var records []models.HistoricalRecord
	for i := int64(0); i < 40; i++ {
		sentiment := 0.5
		executed := true
		if i%2 == 0 {
			sentiment = -0.5
			executed = false
		}
		records = append(records, trainedRecord(i, executed, sentiment))
	}
	repo := &fakeReferendumRepo{records: records}
	store := tempStore(t)
	svc := NewTrainingService(repo, store, 30, quietLogrus())

	result, err := svc.Train(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 40, result.Records)
	assert.False(t, result.Heuristic)
	assert.True(t, store.ModelAvailable())
	assert.Less(t, result.BrierModel, result.BrierPrior, "fit should beat the base rate in-sample")

	saved, loadErr := store.Model()
	require.NoError(t, loadErr)
	assert.Equal(t, result.Model.Coefficients, saved.Coefficients)
}

func TestTrainRepositoryFailure(t *testing.T) {
	repo := &fakeReferendumRepo{failAll: true}
	svc := NewTrainingService(repo, tempStore(t), 30, quietLogrus())

	_, err := svc.Train(context.Background())
	assert.ErrorIs(t, err, errRepoDown)
}
