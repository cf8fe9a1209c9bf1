package models

import (
	"time"

	"github.com/google/uuid"
)

// ForecastResult is the engine's output for one proposal context.
// Every field is clamped into its documented range before the result is
// returned: ApprovalProb and TurnoutEstimate in [0,1], MarginOfError in
// [0.01,0.45], Confidence inside the configured confidence bounds.
type ForecastResult struct {
	ApprovalProb    float64 `json:"approval_prob"`
	TurnoutEstimate float64 `json:"turnout_estimate"`
	MarginOfError   float64 `json:"margin_of_error"`
	Confidence      float64 `json:"confidence"`

	// EffectiveSampleSize and MarginPolicy are diagnostics carried for
	// benchmarking and persisted alongside predictions.
	EffectiveSampleSize float64 `json:"effective_sample_size"`
	MarginPolicy        string  `json:"margin_policy"`
}

// Label renders the probability as the outcome label used by stored
// predictions and the evaluation report.
func (f ForecastResult) Label() string {
	if f.ApprovalProb >= 0.5 {
		return "Approved"
	}
	return "Rejected"
}

// Prediction is a persisted forecast, joined against actual outcomes later.
type Prediction struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ProposalID     int64     `db:"proposal_id" json:"proposal_id"`
	DAO            string    `db:"dao" json:"dao"`
	Predicted      string    `db:"predicted" json:"predicted"`
	ApprovalProb   float64   `db:"approval_prob" json:"approval_prob"`
	Confidence     float64   `db:"confidence" json:"confidence"`
	MarginOfError  float64   `db:"margin_of_error" json:"margin_of_error"`
	PredictionTime time.Time `db:"prediction_time" json:"prediction_time"`
}

// MeetsThreshold checks if the confidence meets the given threshold.
func (p *Prediction) MeetsThreshold(threshold float64) bool {
	return p.Confidence >= threshold
}
