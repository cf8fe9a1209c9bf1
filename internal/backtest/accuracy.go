package backtest

import (
	"math"
	"strings"

	"github.com/yourusername/gov-forecast/internal/models"
)

// Summary aggregates forecast accuracy over an evaluation batch.
type Summary struct {
	TotalPredictions int     `json:"total_predictions"`
	Matched          int     `json:"matched"`
	Correct          int     `json:"correct"`
	HitRate          float64 `json:"hit_rate"`
	BrierScore       float64 `json:"brier_score"`
	MeanConfidence   float64 `json:"mean_confidence"`
	MeanMargin       float64 `json:"mean_margin_of_error"`
}

// Summarize computes accuracy statistics over evaluation rows. Unmatched
// rows count toward totals but not toward hit rate or Brier score.
func Summarize(rows []models.EvaluationRow) Summary {
	s := Summary{TotalPredictions: len(rows)}
	if len(rows) == 0 {
		return s
	}

	confSum := 0.0
	marginSum := 0.0
	for _, row := range rows {
		confSum += row.Confidence
		marginSum += row.MarginOfError
		if !row.Matched() {
			continue
		}
		s.Matched++
		if labelsAgree(row.Predicted, *row.Actual) {
			s.Correct++
		}
	}
	s.MeanConfidence = confSum / float64(len(rows))
	s.MeanMargin = marginSum / float64(len(rows))
	if s.Matched > 0 {
		s.HitRate = float64(s.Correct) / float64(s.Matched)
	}
	s.BrierScore = BrierScore(rows)
	return s
}

// BrierScore is the mean squared error between forecast probabilities and
// binary outcomes over the matched rows; 0 when nothing matched.
func BrierScore(rows []models.EvaluationRow) float64 {
	sum := 0.0
	n := 0
	for _, row := range rows {
		if !row.Matched() {
			continue
		}
		outcome := 0.0
		if positiveOutcome(*row.Actual) {
			outcome = 1.0
		}
		diff := row.ApprovalProb - outcome
		sum += diff * diff
		n++
	}
	if n == 0 {
		return 0.0
	}
	return sum / float64(n)
}

// BrierScoreForProbabilities scores raw probabilities against binary labels,
// used to compare a freshly trained model with the shipped baseline.
func BrierScoreForProbabilities(probabilities []float64, outcomes []bool) float64 {
	n := len(probabilities)
	if n == 0 || n != len(outcomes) {
		return math.NaN()
	}
	sum := 0.0
	for i, p := range probabilities {
		outcome := 0.0
		if outcomes[i] {
			outcome = 1.0
		}
		diff := p - outcome
		sum += diff * diff
	}
	return sum / float64(n)
}

// positiveOutcome maps outcome labels to the approved/executed side.
func positiveOutcome(actual string) bool {
	switch strings.ToLower(strings.TrimSpace(actual)) {
	case "executed", "approved", "passed", "confirmed":
		return true
	default:
		return false
	}
}

// labelsAgree compares a predicted label with an actual outcome label,
// folding both onto the approved/rejected axis first so "Approved" matches
// "Executed".
func labelsAgree(predicted, actual string) bool {
	return positiveOutcome(predicted) == positiveOutcome(actual)
}
