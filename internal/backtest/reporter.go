package backtest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/gov-forecast/internal/models"
)

// GenerateConsoleReport formats an evaluation summary for terminal output.
func GenerateConsoleReport(rows []models.EvaluationRow) string {
	summary := Summarize(rows)
	var builder strings.Builder
	builder.WriteString("Prediction Evaluation Report\n")
	builder.WriteString("============================\n")
	builder.WriteString(fmt.Sprintf("Predictions: %d\n", summary.TotalPredictions))
	builder.WriteString(fmt.Sprintf("Matched Outcomes: %d\n", summary.Matched))
	builder.WriteString(fmt.Sprintf("Hit Rate: %.2f%%\n", summary.HitRate*100))
	builder.WriteString(fmt.Sprintf("Brier Score: %.4f\n", summary.BrierScore))
	builder.WriteString(fmt.Sprintf("Mean Confidence: %.2f%%\n", summary.MeanConfidence*100))
	builder.WriteString(fmt.Sprintf("Mean Margin of Error: %.2f%%\n", summary.MeanMargin*100))
	return builder.String()
}

// GenerateCSVExport writes the evaluation rows under the fixed report
// columns for spreadsheets.
func GenerateCSVExport(rows []models.EvaluationRow, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create evaluation export: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(models.EvaluationColumns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(csvRecord(row)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func csvRecord(row models.EvaluationRow) []string {
	actual := ""
	if row.Actual != nil {
		actual = *row.Actual
	}
	predictionTime := ""
	if row.PredictionTime != nil {
		predictionTime = row.PredictionTime.UTC().Format(time.RFC3339)
	}
	return []string{
		strconv.FormatInt(row.ProposalID, 10),
		row.DAO,
		row.Predicted,
		actual,
		strconv.FormatFloat(row.Confidence, 'f', 4, 64),
		predictionTime,
		strconv.FormatFloat(row.MarginOfError, 'f', 4, 64),
	}
}
