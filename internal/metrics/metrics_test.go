package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRegistryIdempotent(t *testing.T) {
	first := InitRegistry()
	second := InitRegistry()
	require.NotNil(t, first)
	assert.Same(t, first, second)
	assert.Same(t, first, GetRegistry())
}

func TestRecordHelpers(t *testing.T) {
	InitRegistry()

	RecordForecast("updated", "model", 0.7, 0.08, 0.002)
	RecordForecast("legacy", "heuristic", 0.4, 0.2, 0.001)
	RecordTrainingRun("success", 120, 1.5)
	RecordEvaluation("exact", 0.11)
	RecordIngestedReferenda(25)
	RecordStreamEvent("referendum_confirmed")

	families, err := GetRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["gov_forecast_forecasts_total"])
	assert.True(t, names["gov_forecast_training_runs_total"])
	assert.True(t, names["gov_forecast_evaluations_total"])
	assert.True(t, names["gov_forecast_referenda_ingested_total"])
	assert.True(t, names["gov_forecast_stream_events_total"])
	assert.True(t, names["gov_forecast_forecast_probability"])
}

func TestHandlerServesMetrics(t *testing.T) {
	InitRegistry()
	RecordForecast("updated", "model", 0.5, 0.1, 0.001)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "gov_forecast_forecasts_total")
}
