package forecast

import (
	"strings"

	"github.com/yourusername/gov-forecast/internal/models"
)

// Extract normalizes a raw context plus the historical baseline stats into a
// canonical feature vector. Each feature resolves independently through a
// fixed precedence chain (first present value wins) and falls back to its
// default when every candidate is absent or malformed. Extract never fails.
func Extract(ctx models.Context, stats models.HistoricalStats) models.FeatureVector {
	fv := models.FeatureVector{
		ApprovalRate: clamp01(stats.ApprovalRate),
		Turnout:      clamp01(stats.Turnout),
		TurnoutTrend: stats.TurnoutTrend,
	}

	fv.Sentiment = extractSentiment(ctx)
	fv.SourceSentimentAvg, fv.SourceSentimentValues = extractSourceSentiments(ctx)
	fv.Trending = extractTrending(ctx)
	fv.CommentTurnoutTrend = extractCommentTrend(ctx)
	fv.EngagementWeight = extractEngagementWeight(ctx)
	fv.ProposalLength = extractProposalLength(ctx)

	fv.PrimarySource, fv.ContextKB = extractSourceCoverage(ctx)
	fv.TopicsN = listLength(ctx, "trending_topics")
	fv.SnippetsN = listLength(ctx, "kb_snippets")

	return fv
}

// sentiment: sentiment_score, then sentiment.sentiment_score, then sentiment.score.
func extractSentiment(ctx models.Context) float64 {
	if v, ok := ctx.Float("sentiment_score"); ok {
		return v
	}
	if v, ok := ctx.Float("sentiment"); ok {
		return v
	}
	if m, ok := ctx.Map("sentiment"); ok {
		if v, ok := models.NestedFloat(m, "sentiment_score"); ok {
			return v
		}
		if v, ok := models.NestedFloat(m, "score"); ok {
			return v
		}
	}
	return 0.0
}

// source sentiments: source_sentiments, then sentiment_sources; non-numeric
// entries are dropped, an empty map yields (0, nil).
func extractSourceSentiments(ctx models.Context) (float64, []float64) {
	src, ok := ctx.Map("source_sentiments")
	if !ok {
		src, ok = ctx.Map("sentiment_sources")
	}
	if !ok || len(src) == 0 {
		return 0.0, nil
	}

	values := make([]float64, 0, len(src))
	sum := 0.0
	for _, raw := range src {
		if v, ok := models.CoerceFloat(raw); ok {
			values = append(values, v)
			sum += v
		}
	}
	if len(values) == 0 {
		return 0.0, nil
	}
	return sum / float64(len(values)), values
}

// trending: trend_score, trending_score, then trending.score / trending.trending_score.
func extractTrending(ctx models.Context) float64 {
	if v, ok := ctx.Float("trend_score"); ok {
		return v
	}
	if v, ok := ctx.Float("trending_score"); ok {
		return v
	}
	if v, ok := ctx.Float("trending"); ok {
		return v
	}
	if m, ok := ctx.Map("trending"); ok {
		if v, ok := models.NestedFloat(m, "score"); ok {
			return v
		}
		if v, ok := models.NestedFloat(m, "trending_score"); ok {
			return v
		}
	}
	return 0.0
}

// comment turnout trend: comment_turnout_trend, then turnout_trends.comments,
// then turnout_trends.comment.
func extractCommentTrend(ctx models.Context) float64 {
	if v, ok := ctx.Float("comment_turnout_trend"); ok {
		return v
	}
	if m, ok := ctx.Map("turnout_trends"); ok {
		if v, ok := models.NestedFloat(m, "comments"); ok {
			return v
		}
		if v, ok := models.NestedFloat(m, "comment"); ok {
			return v
		}
	}
	return 0.0
}

// engagement: engagement_weight, then the weight inside a nested sentiment map.
func extractEngagementWeight(ctx models.Context) float64 {
	if v, ok := ctx.Float("engagement_weight"); ok {
		return v
	}
	if m, ok := ctx.Map("sentiment"); ok {
		if v, ok := models.NestedFloat(m, "weight"); ok {
			return v
		}
	}
	return 0.0
}

// proposal length: word count of proposal_text, or proposal.text /
// proposal.proposal_text.
func extractProposalLength(ctx models.Context) float64 {
	text, ok := ctx.String("proposal_text")
	if !ok {
		if m, mok := ctx.Map("proposal"); mok {
			if s, sok := m["text"].(string); sok {
				text = s
				ok = true
			} else if s, sok := m["proposal_text"].(string); sok {
				text = s
				ok = true
			}
		}
	}
	if !ok || text == "" {
		return 0.0
	}
	return float64(len(strings.Fields(text)))
}

// primary source and context size come from the nested sentiment wrapper.
func extractSourceCoverage(ctx models.Context) (string, float64) {
	m, ok := ctx.Map("sentiment")
	if !ok {
		return "", 0.0
	}
	source, _ := m["source"].(string)
	kb, _ := models.NestedFloat(m, "message_size_kb")
	if kb < 0 {
		kb = 0.0
	}
	return source, kb
}

func listLength(ctx models.Context, key string) float64 {
	if s, ok := ctx.Slice(key); ok {
		return float64(len(s))
	}
	return 0.0
}
