// Package backtest joins stored forecasts with historical referendum
// outcomes and reports forecast accuracy.
package backtest

import (
	"strconv"
	"strings"

	"github.com/yourusername/gov-forecast/internal/metrics"
	"github.com/yourusername/gov-forecast/internal/models"
)

// Outcome is one historical ground-truth row in the join.
type Outcome struct {
	ProposalID int64
	DAO        string
	Actual     string
}

// Join levels, tried in order until one yields any match across the batch.
const (
	JoinLevelExact     = "exact"
	JoinLevelCanonical = "canonical"
	JoinLevelIDOnly    = "id_only"
	JoinLevelNone      = "none"
)

// Compare joins predictions to actual outcomes with three-level key
// fallback: (id, dao) exact, then (id, canonical dao), then id only. The
// first level producing any match across the whole batch wins. Every
// prediction yields exactly one row; rows with no match keep a nil Actual.
func Compare(predictions []models.Prediction, actuals []Outcome) []models.EvaluationRow {
	rows, _ := CompareWithLevel(predictions, actuals)
	return rows
}

// CompareWithLevel is Compare plus the join level that produced the match.
func CompareWithLevel(predictions []models.Prediction, actuals []Outcome) ([]models.EvaluationRow, string) {
	rows, level := compare(predictions, actuals)
	metrics.RecordEvaluation(level, BrierScore(rows))
	return rows, level
}

func compare(predictions []models.Prediction, actuals []Outcome) ([]models.EvaluationRow, string) {
	if len(predictions) == 0 {
		return []models.EvaluationRow{}, JoinLevelNone
	}

	exact := make(map[string]string, len(actuals))
	canonical := make(map[string]string, len(actuals))
	idOnly := make(map[int64]string, len(actuals))
	for _, a := range actuals {
		exact[joinKey(a.ProposalID, a.DAO)] = a.Actual
		canonical[joinKey(a.ProposalID, canonicalDAO(a.DAO))] = a.Actual
		if _, seen := idOnly[a.ProposalID]; !seen {
			idOnly[a.ProposalID] = a.Actual
		}
	}

	levels := []struct {
		name   string
		lookup func(p models.Prediction) (string, bool)
	}{
		{JoinLevelExact, func(p models.Prediction) (string, bool) {
			v, ok := exact[joinKey(p.ProposalID, p.DAO)]
			return v, ok
		}},
		{JoinLevelCanonical, func(p models.Prediction) (string, bool) {
			v, ok := canonical[joinKey(p.ProposalID, canonicalDAO(p.DAO))]
			return v, ok
		}},
		{JoinLevelIDOnly, func(p models.Prediction) (string, bool) {
			v, ok := idOnly[p.ProposalID]
			return v, ok
		}},
	}

	for _, level := range levels {
		rows, matched := joinAtLevel(predictions, level.lookup, level.name)
		if matched > 0 {
			return rows, level.name
		}
	}

	rows, _ := joinAtLevel(predictions, func(models.Prediction) (string, bool) { return "", false }, JoinLevelNone)
	return rows, JoinLevelNone
}

func joinAtLevel(predictions []models.Prediction, lookup func(models.Prediction) (string, bool), level string) ([]models.EvaluationRow, int) {
	rows := make([]models.EvaluationRow, 0, len(predictions))
	matched := 0
	for _, p := range predictions {
		row := models.EvaluationRow{
			ProposalID:    p.ProposalID,
			DAO:           evaluationDAO(p.DAO, level),
			Predicted:     p.Predicted,
			Confidence:    p.Confidence,
			MarginOfError: p.MarginOfError,
			ApprovalProb:  p.ApprovalProb,
		}
		if !p.PredictionTime.IsZero() {
			t := p.PredictionTime
			row.PredictionTime = &t
		}
		if actual, ok := lookup(p); ok {
			a := actual
			row.Actual = &a
			matched++
		}
		rows = append(rows, row)
	}
	return rows, matched
}

// evaluationDAO keeps the prediction's own DAO label in the output; at the
// id-only level a missing label defaults to "Gov", matching the reporting
// convention of the historical sheets.
func evaluationDAO(dao, level string) string {
	if dao == "" && (level == JoinLevelIDOnly || level == JoinLevelNone) {
		return "Gov"
	}
	return dao
}

// canonicalDAO lower-cases and strips all whitespace, defaulting to "gov" so
// sheets labelled "DOT Gov" and "Dot gov" still line up.
func canonicalDAO(dao string) string {
	s := strings.ToLower(strings.TrimSpace(dao))
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return "gov"
	}
	return s
}

func joinKey(id int64, dao string) string {
	return dao + "#" + strconv.FormatInt(id, 10)
}
