package models

// FeatureVector is the canonical numeric view of one proposal's context.
// Every field has a deterministic default so a vector built from an empty
// Context is still valid input for the probability and margin estimators.
type FeatureVector struct {
	ApprovalRate          float64   `json:"approval_rate"`
	Turnout               float64   `json:"turnout"`
	TurnoutTrend          float64   `json:"turnout_trend"`
	Sentiment             float64   `json:"sentiment"`
	SourceSentimentAvg    float64   `json:"source_sentiment_avg"`
	SourceSentimentValues []float64 `json:"source_sentiment_values,omitempty"`
	Trending              float64   `json:"trending"`
	CommentTurnoutTrend   float64   `json:"comment_turnout_trend"`
	EngagementWeight      float64   `json:"engagement_weight"`
	ProposalLength        float64   `json:"proposal_length"`
	PrimarySource         string    `json:"primary_source"`
	ContextKB             float64   `json:"ctx_kb"`
	TopicsN               float64   `json:"topics_n"`
	SnippetsN             float64   `json:"snippets_n"`
}

// Named returns the scalar features keyed by the names a trained model's
// coefficient map uses. The per-source value list and the primary source
// label are not model inputs and are excluded.
func (f FeatureVector) Named() map[string]float64 {
	return map[string]float64{
		"approval_rate":         f.ApprovalRate,
		"turnout":               f.Turnout,
		"turnout_trend":         f.TurnoutTrend,
		"sentiment":             f.Sentiment,
		"source_sentiment_avg":  f.SourceSentimentAvg,
		"trending":              f.Trending,
		"comment_turnout_trend": f.CommentTurnoutTrend,
		"engagement_weight":     f.EngagementWeight,
		"proposal_length":       f.ProposalLength,
		"ctx_kb":                f.ContextKB,
		"topics_n":              f.TopicsN,
		"snippets_n":            f.SnippetsN,
	}
}

// HistoricalStats is the baseline lookup produced from stored referenda.
// ApprovalRate and Turnout are rates in [0,1]; TurnoutTrend may be negative.
type HistoricalStats struct {
	ApprovalRate float64 `json:"approval_rate"`
	Turnout      float64 `json:"turnout"`
	TurnoutTrend float64 `json:"turnout_trend"`
}
