package forecast

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gov-forecast/internal/models"
)

func testEngineConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		ModelPath:       filepath.Join(dir, "model.json"),
		CalibrationPath: filepath.Join(dir, "calibration.json"),
	}
}

func neutralStats() models.HistoricalStats {
	return models.HistoricalStats{ApprovalRate: 0.5, Turnout: 0.4}
}

func TestForecastOutputRanges(t *testing.T) {
	f := NewForecaster(testEngineConfig(t), nil)

	contexts := []models.Context{
		nil,
		{},
		{"sentiment_score": 0.8, "trend_score": 0.5, "engagement_weight": 0.9},
		{"sentiment_score": -0.9, "source_sentiments": map[string]interface{}{"forum": -0.8, "news": -0.6}},
		{"sentiment_score": "garbage", "trending": []interface{}{"not", "numeric"}},
	}

	for i, ctx := range contexts {
		res := f.Forecast(ctx, neutralStats())
		assert.GreaterOrEqual(t, res.ApprovalProb, 0.0, "ctx %d", i)
		assert.LessOrEqual(t, res.ApprovalProb, 1.0, "ctx %d", i)
		assert.GreaterOrEqual(t, res.TurnoutEstimate, 0.0, "ctx %d", i)
		assert.LessOrEqual(t, res.TurnoutEstimate, 1.0, "ctx %d", i)
		assert.GreaterOrEqual(t, res.MarginOfError, 0.01, "ctx %d", i)
		assert.LessOrEqual(t, res.MarginOfError, 0.45, "ctx %d", i)
		assert.GreaterOrEqual(t, res.Confidence, 0.05, "ctx %d", i)
		assert.LessOrEqual(t, res.Confidence, 0.99, "ctx %d", i)
		assert.GreaterOrEqual(t, res.EffectiveSampleSize, MinEffectiveSampleSize, "ctx %d", i)
		assert.LessOrEqual(t, res.EffectiveSampleSize, MaxEffectiveSampleSize, "ctx %d", i)
		assert.Equal(t, MarginPolicyUpdated, res.MarginPolicy, "ctx %d", i)
	}
}

func TestForecastUsesHeuristicWithoutModel(t *testing.T) {
	f := NewForecaster(testEngineConfig(t), nil)

	ctx := models.Context{"sentiment_score": 0.6}
	res := f.Forecast(ctx, neutralStats())

	fv := Extract(ctx, neutralStats())
	assert.InDelta(t, HeuristicProbability(fv), res.ApprovalProb, 1e-12)
}

func TestForecastZeroModelRoutesToHeuristic(t *testing.T) {
	cfg := testEngineConfig(t)
	f := NewForecaster(cfg, nil)
	require.NoError(t, f.Store().SaveModel(models.ZeroModel()))

	ctx := models.Context{"sentiment_score": 0.6}
	res := f.Forecast(ctx, neutralStats())

	fv := Extract(ctx, neutralStats())
	assert.InDelta(t, HeuristicProbability(fv), res.ApprovalProb, 1e-12)
}

func TestForecastAppliesTrainedModel(t *testing.T) {
	cfg := testEngineConfig(t)
	f := NewForecaster(cfg, nil)

	model := models.ForecastModel{
		Intercept:    0.0,
		Coefficients: map[string]float64{"sentiment": 3.0},
	}
	require.NoError(t, f.Store().SaveModel(model))

	positive := f.Forecast(models.Context{"sentiment_score": 0.8}, neutralStats())
	negative := f.Forecast(models.Context{"sentiment_score": -0.8}, neutralStats())

	assert.Greater(t, positive.ApprovalProb, 0.5)
	assert.Less(t, negative.ApprovalProb, 0.5)
	assert.Greater(t, positive.ApprovalProb, negative.ApprovalProb)
}

func TestForecastAppliesCalibration(t *testing.T) {
	cfg := testEngineConfig(t)
	f := NewForecaster(cfg, nil)

	// Identity-suppressing linear calibration pins every probability at 0.3.
	require.NoError(t, writeCalibration(cfg.CalibrationPath, `{"type":"linear","m":0.0,"c":0.3}`))

	res := f.Forecast(models.Context{"sentiment_score": 0.9}, neutralStats())
	assert.InDelta(t, 0.3, res.ApprovalProb, 1e-12)
}

func TestForecastMarginPolicySelection(t *testing.T) {
	cfg := testEngineConfig(t)
	cfg.MarginPolicy = MarginPolicyLegacy

	f := NewForecaster(cfg, nil)
	res := f.Forecast(models.Context{}, neutralStats())
	assert.Equal(t, MarginPolicyLegacy, res.MarginPolicy)
}

func writeCalibration(path, body string) error {
	return os.WriteFile(path, []byte(body), 0o644)
}

func TestForecastResultLabel(t *testing.T) {
	assert.Equal(t, "Approved", models.ForecastResult{ApprovalProb: 0.5}.Label())
	assert.Equal(t, "Approved", models.ForecastResult{ApprovalProb: 0.82}.Label())
	assert.Equal(t, "Rejected", models.ForecastResult{ApprovalProb: 0.49}.Label())
}
