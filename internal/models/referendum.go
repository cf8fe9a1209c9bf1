package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// HistoricalRecord is one completed referendum: its on-chain tallies, the
// contextual signals captured while it was live, and the final outcome. It
// both fits the probability model and serves as backtest ground truth.
type HistoricalRecord struct {
	ReferendumID int64     `db:"referendum_id" json:"referendum_id"`
	DAO          string    `db:"dao" json:"dao"`
	Title        string    `db:"title" json:"title"`
	Status       string    `db:"status" json:"status"`
	DecidedAt    time.Time `db:"decided_at" json:"decided_at"`

	// On-chain amounts in plancks, kept exact until converted to rates.
	AyesAmount    decimal.Decimal `db:"ayes_amount" json:"ayes_amount"`
	TotalVoted    decimal.Decimal `db:"total_voted" json:"total_voted"`
	Participants  decimal.Decimal `db:"participants" json:"participants"`
	EligibleStake decimal.Decimal `db:"eligible_stake" json:"eligible_stake"`

	// Contextual signals recorded at forecast time, zero when absent.
	Sentiment           float64 `db:"sentiment" json:"sentiment"`
	Trending            float64 `db:"trending" json:"trending"`
	SourceSentimentAvg  float64 `db:"source_sentiment_avg" json:"source_sentiment_avg"`
	CommentTurnoutTrend float64 `db:"comment_turnout_trend" json:"comment_turnout_trend"`
}

// Executed reports whether the referendum passed and was enacted.
func (r HistoricalRecord) Executed() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), "executed")
}

// ApprovalRate is aye stake over total voted stake, 0 when nothing voted.
func (r HistoricalRecord) ApprovalRate() float64 {
	if r.TotalVoted.IsZero() {
		return 0.0
	}
	rate, _ := r.AyesAmount.Div(r.TotalVoted).Float64()
	return clampRate(rate)
}

// Turnout is participating stake over eligible stake, 0 when unknown.
func (r HistoricalRecord) Turnout() float64 {
	if r.EligibleStake.IsZero() {
		return 0.0
	}
	rate, _ := r.Participants.Div(r.EligibleStake).Float64()
	return clampRate(rate)
}

func clampRate(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
