// Package main provides the entry point for the prediction evaluation CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gov-forecast/internal/backtest"
	"github.com/yourusername/gov-forecast/internal/config"
	"github.com/yourusername/gov-forecast/internal/database"
	"github.com/yourusername/gov-forecast/internal/logger"
	"github.com/yourusername/gov-forecast/internal/metrics"
	"github.com/yourusername/gov-forecast/internal/models"
	"github.com/yourusername/gov-forecast/internal/repository"
)

func main() {
	var (
		configPath      = flag.String("config", "config/config.yaml", "Path to config file")
		predictionsPath = flag.String("predictions", "", "Predictions file (CSV or JSON); default reads stored predictions")
		actualsPath     = flag.String("actuals", "", "Actual outcomes file (CSV or JSON); default reads stored referenda")
		output          = flag.String("output", "", "Optional CSV export path for the evaluation rows")
	)
	flag.Parse()

	cfg := loadConfig(*configPath)
	log := logger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	ctx := context.Background()

	predictions, actuals := loadInputs(ctx, cfg, log, *predictionsPath, *actualsPath)

	if len(predictions) == 0 {
		log.Fatal("No predictions to evaluate")
	}

	rows, joinLevel := backtest.CompareWithLevel(predictions, actuals)
	summary := backtest.Summarize(rows)
	logger.NewForecastLogger(log).LogEvaluation(
		summary.TotalPredictions, summary.Matched, joinLevel, summary.BrierScore, summary.HitRate)

	fmt.Print(backtest.GenerateConsoleReport(rows))

	if *output != "" {
		if err := backtest.GenerateCSVExport(rows, *output); err != nil {
			log.Fatalf("Failed to write CSV export: %v", err)
		}
		log.WithField("path", *output).Info("Evaluation rows exported")
	}
}

// loadInputs resolves predictions and actuals from files when given, falling
// back to the database for whichever side is missing. The database is only
// opened when needed.
func loadInputs(ctx context.Context, cfg *config.Config, log *logrus.Logger, predictionsPath, actualsPath string) ([]models.Prediction, []backtest.Outcome) {
	var (
		predictions []models.Prediction
		actuals     []backtest.Outcome
	)

	if predictionsPath != "" {
		rows, err := backtest.LoadRows(predictionsPath)
		if err != nil {
			log.Fatalf("Failed to load predictions: %v", err)
		}
		predictions = backtest.ParsePredictions(rows)
	}

	if actualsPath != "" {
		rows, err := backtest.LoadRows(actualsPath)
		if err != nil {
			log.Fatalf("Failed to load actuals: %v", err)
		}
		actuals = backtest.ParseActuals(rows)
	}

	if predictionsPath != "" && actualsPath != "" {
		return predictions, actuals
	}

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close(ctx)

	repos, err := repository.NewRepositories(db)
	if err != nil {
		log.Fatalf("Failed to build repositories: %v", err)
	}

	if predictionsPath == "" {
		predictions, err = repos.Prediction.GetAll(ctx)
		if err != nil {
			log.Fatalf("Failed to load stored predictions: %v", err)
		}
	}

	if actualsPath == "" {
		records, err := repos.Referendum.GetAll(ctx)
		if err != nil {
			log.Fatalf("Failed to load stored referenda: %v", err)
		}
		actuals = backtest.OutcomesFromRecords(records)
	}

	return predictions, actuals
}

func loadConfig(path string) *config.Config {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logrus.Fatal("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			logrus.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}
