package backtest

import (
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/gov-forecast/internal/models"
)

// Column aliases recognized in loosely shaped tabular input. Header matching
// is case- and spacing-insensitive ("Proposal ID" == "proposal_id").
var (
	idAliases      = []string{"proposal_id", "referendum_id", "id"}
	daoAliases     = []string{"dao"}
	actualAliases  = []string{"actual", "status", "state", "result", "outcome"}
	predictAliases = []string{"predicted", "prediction"}
	confAliases    = []string{"confidence"}
	timeAliases    = []string{"prediction_time", "predicted_at"}
	marginAliases  = []string{"margin_of_error", "moe"}
	probAliases    = []string{"approval_prob", "probability"}
)

// normalizeKey folds a column header to lower snake_case.
func normalizeKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	return strings.ReplaceAll(k, " ", "_")
}

// normalizeRow re-keys one row with normalized headers. Later duplicate
// headers do not overwrite earlier ones.
func normalizeRow(row map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	for key, value := range row {
		nk := normalizeKey(key)
		if _, exists := out[nk]; !exists {
			out[nk] = value
		}
	}
	return out
}

func pick(row map[string]interface{}, aliases []string) (interface{}, bool) {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func pickString(row map[string]interface{}, aliases []string) string {
	v, ok := pick(row, aliases)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	default:
		if f, ok := models.CoerceFloat(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return ""
	}
}

func pickFloat(row map[string]interface{}, aliases []string) float64 {
	v, ok := pick(row, aliases)
	if !ok {
		return 0.0
	}
	if f, ok := models.CoerceFloat(v); ok {
		return f
	}
	if s, ok := v.(string); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0.0
}

func pickID(row map[string]interface{}) (int64, bool) {
	v, ok := pick(row, idAliases)
	if !ok {
		return 0, false
	}
	if f, ok := models.CoerceFloat(v); ok {
		return int64(f), true
	}
	if s, ok := v.(string); ok {
		if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return id, true
		}
	}
	return 0, false
}

// ParsePredictions converts loosely shaped prediction rows into typed
// predictions. Rows with no resolvable proposal id are dropped; every other
// missing column is synthesized as its zero value rather than rejected.
func ParsePredictions(rows []map[string]interface{}) []models.Prediction {
	out := make([]models.Prediction, 0, len(rows))
	for _, raw := range rows {
		row := normalizeRow(raw)
		id, ok := pickID(row)
		if !ok {
			continue
		}
		p := models.Prediction{
			ProposalID:    id,
			DAO:           pickString(row, daoAliases),
			Predicted:     pickString(row, predictAliases),
			Confidence:    pickFloat(row, confAliases),
			MarginOfError: pickFloat(row, marginAliases),
			ApprovalProb:  pickFloat(row, probAliases),
		}
		if raw := pickString(row, timeAliases); raw != "" {
			if t, err := parseTime(raw); err == nil {
				p.PredictionTime = t
			}
		}
		out = append(out, p)
	}
	return out
}

// ParseActuals converts loosely shaped historical rows into join outcomes.
func ParseActuals(rows []map[string]interface{}) []Outcome {
	out := make([]Outcome, 0, len(rows))
	for _, raw := range rows {
		row := normalizeRow(raw)
		id, ok := pickID(row)
		if !ok {
			continue
		}
		out = append(out, Outcome{
			ProposalID: id,
			DAO:        pickString(row, daoAliases),
			Actual:     pickString(row, actualAliases),
		})
	}
	return out
}

// OutcomesFromRecords derives join outcomes from stored referenda.
func OutcomesFromRecords(records []models.HistoricalRecord) []Outcome {
	out := make([]Outcome, 0, len(records))
	for _, rec := range records {
		out = append(out, Outcome{
			ProposalID: rec.ReferendumID,
			DAO:        rec.DAO,
			Actual:     rec.Status,
		})
	}
	return out
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Parse(time.RFC3339, raw)
}
