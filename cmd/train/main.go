// Package main provides the entry point for the model training CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gov-forecast/internal/config"
	"github.com/yourusername/gov-forecast/internal/database"
	"github.com/yourusername/gov-forecast/internal/forecast"
	"github.com/yourusername/gov-forecast/internal/logger"
	"github.com/yourusername/gov-forecast/internal/metrics"
	"github.com/yourusername/gov-forecast/internal/repository"
	"github.com/yourusername/gov-forecast/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		minRecords = flag.Int("min-records", 0, "Override minimum records required to train")
	)
	flag.Parse()

	cfg := loadConfig(*configPath)
	log := logger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	ctx := context.Background()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close(ctx)

	repos, err := repository.NewRepositories(db)
	if err != nil {
		log.Fatalf("Failed to build repositories: %v", err)
	}

	threshold := cfg.Training.MinRecords
	if *minRecords > 0 {
		threshold = *minRecords
	}

	store := forecast.NewStore(forecast.Config{
		ModelPath:       cfg.Forecast.ModelPath,
		CalibrationPath: cfg.Forecast.CalibrationPath,
		CacheTTLSeconds: cfg.Forecast.CacheTTLSeconds,
	}.Normalize())

	trainingSvc := service.NewTrainingService(repos.Referendum, store, threshold, log)

	result, err := trainingSvc.Train(ctx)
	if err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	logger.NewForecastLogger(log).LogModelTraining(
		result.Records, len(result.Model.Coefficients), result.Duration.Seconds(), result.Heuristic)

	fmt.Printf("Trained on %d records\n", result.Records)
	if result.Heuristic {
		fmt.Println("Fit was degenerate or history too small, zero model saved (heuristic fallback active)")
	} else {
		fmt.Printf("Model saved to %s (%d coefficients)\n", cfg.Forecast.ModelPath, len(result.Model.Coefficients))
		fmt.Printf("In-sample Brier %.4f vs base-rate %.4f\n", result.BrierModel, result.BrierPrior)
	}
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
