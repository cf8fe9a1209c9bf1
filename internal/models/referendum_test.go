package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHistoricalRecordExecuted(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{status: "executed", want: true},
		{status: "Executed", want: true},
		{status: " EXECUTED ", want: true},
		{status: "rejected", want: false},
		{status: "timedout", want: false},
		{status: "", want: false},
	}
	for _, tt := range tests {
		rec := HistoricalRecord{Status: tt.status}
		assert.Equal(t, tt.want, rec.Executed(), "status %q", tt.status)
	}
}

func TestHistoricalRecordApprovalRate(t *testing.T) {
	rec := HistoricalRecord{
		AyesAmount: decimal.NewFromInt(600),
		TotalVoted: decimal.NewFromInt(1000),
	}
	assert.InDelta(t, 0.6, rec.ApprovalRate(), 1e-12)

	// Nothing voted yields zero, not a division error.
	empty := HistoricalRecord{AyesAmount: decimal.NewFromInt(600)}
	assert.Equal(t, 0.0, empty.ApprovalRate())

	// Corrupt tallies clamp instead of exceeding the unit interval.
	over := HistoricalRecord{
		AyesAmount: decimal.NewFromInt(1500),
		TotalVoted: decimal.NewFromInt(1000),
	}
	assert.Equal(t, 1.0, over.ApprovalRate())
}

func TestHistoricalRecordTurnout(t *testing.T) {
	rec := HistoricalRecord{
		Participants:  decimal.NewFromInt(400),
		EligibleStake: decimal.NewFromInt(1000),
	}
	assert.InDelta(t, 0.4, rec.Turnout(), 1e-12)

	unknown := HistoricalRecord{Participants: decimal.NewFromInt(400)}
	assert.Equal(t, 0.0, unknown.Turnout())
}

func TestPredictionMeetsThreshold(t *testing.T) {
	p := Prediction{Confidence: 0.75}
	assert.True(t, p.MeetsThreshold(0.75))
	assert.True(t, p.MeetsThreshold(0.5))
	assert.False(t, p.MeetsThreshold(0.8))
}

func TestFeatureVectorNamedCoversModelSchema(t *testing.T) {
	named := FeatureVector{
		ApprovalRate: 0.6,
		Sentiment:    0.3,
		TopicsN:      2,
	}.Named()

	assert.Equal(t, 0.6, named["approval_rate"])
	assert.Equal(t, 0.3, named["sentiment"])
	assert.Equal(t, 2.0, named["topics_n"])

	// Non-scalar fields stay out of the model input space.
	_, hasValues := named["source_sentiment_values"]
	assert.False(t, hasValues)
	_, hasSource := named["primary_source"]
	assert.False(t, hasSource)
}
