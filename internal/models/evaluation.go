package models

import "time"

// Fixed column names of the evaluation report.
var EvaluationColumns = []string{
	"Proposal ID",
	"DAO",
	"Predicted",
	"Actual",
	"Confidence",
	"Prediction Time",
	"Margin of Error",
}

// EvaluationRow joins one prediction with its historical outcome. Actual is
// nil when no outcome could be matched at any join level; the row is still
// emitted so the report always carries one row per prediction.
type EvaluationRow struct {
	ProposalID     int64      `json:"proposal_id"`
	DAO            string     `json:"dao"`
	Predicted      string     `json:"predicted"`
	Actual         *string    `json:"actual"`
	Confidence     float64    `json:"confidence"`
	PredictionTime *time.Time `json:"prediction_time"`
	MarginOfError  float64    `json:"margin_of_error"`

	// ApprovalProb is carried for accuracy scoring (Brier); the rendered
	// report sticks to the fixed EvaluationColumns.
	ApprovalProb float64 `json:"approval_prob"`
}

// Matched reports whether an actual outcome was found for this prediction.
func (e EvaluationRow) Matched() bool {
	return e.Actual != nil
}

// Correct reports whether the predicted label agrees with the actual outcome.
// Unmatched rows are never correct.
func (e EvaluationRow) Correct() bool {
	return e.Actual != nil && e.Predicted == *e.Actual
}
