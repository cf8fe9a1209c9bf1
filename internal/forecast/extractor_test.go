package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/gov-forecast/internal/models"
)

func TestExtractEmptyContextUsesDefaults(t *testing.T) {
	stats := models.HistoricalStats{ApprovalRate: 0.6, Turnout: 0.4, TurnoutTrend: -0.05}

	fv := Extract(models.Context{}, stats)

	assert.Equal(t, 0.6, fv.ApprovalRate)
	assert.Equal(t, 0.4, fv.Turnout)
	assert.Equal(t, -0.05, fv.TurnoutTrend)
	assert.Zero(t, fv.Sentiment)
	assert.Zero(t, fv.SourceSentimentAvg)
	assert.Nil(t, fv.SourceSentimentValues)
	assert.Zero(t, fv.Trending)
	assert.Zero(t, fv.CommentTurnoutTrend)
	assert.Zero(t, fv.EngagementWeight)
	assert.Zero(t, fv.ProposalLength)
	assert.Empty(t, fv.PrimarySource)
}

func TestExtractSentimentPrecedence(t *testing.T) {
	tests := []struct {
		name string
		ctx  models.Context
		want float64
	}{
		{
			name: "flat sentiment_score wins over nested",
			ctx: models.Context{
				"sentiment_score": 0.7,
				"sentiment":       map[string]interface{}{"sentiment_score": 0.1},
			},
			want: 0.7,
		},
		{
			name: "bare numeric sentiment",
			ctx:  models.Context{"sentiment": 0.25},
			want: 0.25,
		},
		{
			name: "nested sentiment_score before nested score",
			ctx: models.Context{
				"sentiment": map[string]interface{}{"sentiment_score": 0.4, "score": 0.9},
			},
			want: 0.4,
		},
		{
			name: "nested score as last resort",
			ctx: models.Context{
				"sentiment": map[string]interface{}{"score": 0.3},
			},
			want: 0.3,
		},
		{
			name: "malformed value falls back to zero",
			ctx:  models.Context{"sentiment_score": "very positive"},
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fv := Extract(tt.ctx, models.HistoricalStats{})
			assert.InDelta(t, tt.want, fv.Sentiment, 1e-12)
		})
	}
}

func TestExtractSourceSentiments(t *testing.T) {
	ctx := models.Context{
		"source_sentiments": map[string]interface{}{
			"forum": 0.6,
			"news":  0.2,
			"chat":  "broken",
		},
	}

	fv := Extract(ctx, models.HistoricalStats{})

	// Non-numeric entries are dropped from both the average and the values
	assert.Len(t, fv.SourceSentimentValues, 2)
	assert.InDelta(t, 0.4, fv.SourceSentimentAvg, 1e-12)
}

func TestExtractSourceSentimentsAliasKey(t *testing.T) {
	ctx := models.Context{
		"sentiment_sources": map[string]interface{}{"forum": 0.5},
	}

	fv := Extract(ctx, models.HistoricalStats{})
	assert.InDelta(t, 0.5, fv.SourceSentimentAvg, 1e-12)
}

func TestExtractTrendingPrecedence(t *testing.T) {
	tests := []struct {
		name string
		ctx  models.Context
		want float64
	}{
		{"trend_score first", models.Context{"trend_score": 0.9, "trending_score": 0.1}, 0.9},
		{"trending_score second", models.Context{"trending_score": 0.8}, 0.8},
		{"bare trending", models.Context{"trending": 0.7}, 0.7},
		{"nested score", models.Context{"trending": map[string]interface{}{"score": 0.6}}, 0.6},
		{"nested trending_score", models.Context{"trending": map[string]interface{}{"trending_score": 0.5}}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fv := Extract(tt.ctx, models.HistoricalStats{})
			assert.InDelta(t, tt.want, fv.Trending, 1e-12)
		})
	}
}

func TestExtractCommentTrend(t *testing.T) {
	flat := Extract(models.Context{"comment_turnout_trend": 0.12}, models.HistoricalStats{})
	assert.InDelta(t, 0.12, flat.CommentTurnoutTrend, 1e-12)

	nested := Extract(models.Context{
		"turnout_trends": map[string]interface{}{"comments": 0.08},
	}, models.HistoricalStats{})
	assert.InDelta(t, 0.08, nested.CommentTurnoutTrend, 1e-12)

	singular := Extract(models.Context{
		"turnout_trends": map[string]interface{}{"comment": 0.05},
	}, models.HistoricalStats{})
	assert.InDelta(t, 0.05, singular.CommentTurnoutTrend, 1e-12)
}

func TestExtractProposalLengthWordCount(t *testing.T) {
	fv := Extract(models.Context{
		"proposal_text": "  fund   the validator tooling  grants ",
	}, models.HistoricalStats{})
	assert.Equal(t, 5.0, fv.ProposalLength)

	nested := Extract(models.Context{
		"proposal": map[string]interface{}{"text": "two words"},
	}, models.HistoricalStats{})
	assert.Equal(t, 2.0, nested.ProposalLength)
}

func TestExtractSourceCoverage(t *testing.T) {
	fv := Extract(models.Context{
		"sentiment": map[string]interface{}{
			"source":          "forum",
			"message_size_kb": 12.5,
		},
		"trending_topics": []interface{}{"a", "b", "c"},
		"kb_snippets":     []interface{}{"x"},
	}, models.HistoricalStats{})

	assert.Equal(t, "forum", fv.PrimarySource)
	assert.Equal(t, 12.5, fv.ContextKB)
	assert.Equal(t, 3.0, fv.TopicsN)
	assert.Equal(t, 1.0, fv.SnippetsN)
}

func TestExtractClampsHistoricalRates(t *testing.T) {
	fv := Extract(models.Context{}, models.HistoricalStats{ApprovalRate: 1.7, Turnout: -0.3})
	assert.Equal(t, 1.0, fv.ApprovalRate)
	assert.Equal(t, 0.0, fv.Turnout)
}
