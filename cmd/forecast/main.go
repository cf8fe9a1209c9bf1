// Package main provides the entry point for the one-shot forecast CLI.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gov-forecast/internal/config"
	"github.com/yourusername/gov-forecast/internal/database"
	"github.com/yourusername/gov-forecast/internal/forecast"
	"github.com/yourusername/gov-forecast/internal/logger"
	"github.com/yourusername/gov-forecast/internal/metrics"
	"github.com/yourusername/gov-forecast/internal/models"
	"github.com/yourusername/gov-forecast/internal/repository"
	"github.com/yourusername/gov-forecast/internal/service"
)

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "Path to config file")
		contextPath = flag.String("context", "", "Path to proposal context JSON file")
		proposalID  = flag.Int64("proposal-id", 0, "Proposal identifier")
		dao         = flag.String("dao", "", "Governance track the proposal belongs to")
		store       = flag.Bool("store", false, "Persist the prediction for later evaluation")
	)
	flag.Parse()

	cfg := loadConfig(*configPath)
	log := logger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	if *contextPath == "" {
		log.Fatal("A proposal context file is required (-context)")
	}

	proposalCtx, err := loadContext(*contextPath)
	if err != nil {
		log.Fatalf("Failed to load proposal context: %v", err)
	}

	ctx := context.Background()

	forecaster := forecast.NewForecaster(forecastConfig(cfg), log)

	var result models.ForecastResult
	if *store {
		result = runPersisted(ctx, cfg, forecaster, log, *proposalID, *dao, proposalCtx)
	} else {
		result = runDetached(ctx, cfg, forecaster, log, *dao, proposalCtx)
	}

	logger.NewForecastLogger(log).LogForecast(
		*proposalID, *dao, result.ApprovalProb, result.MarginOfError,
		result.Confidence, result.EffectiveSampleSize, result.MarginPolicy)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to render result: %v", err)
	}
	fmt.Println(string(out))
}

// runDetached forecasts without a database when possible: the engine only
// needs historical aggregates, and without a reachable database it runs on
// neutral statistics.
func runDetached(ctx context.Context, cfg *config.Config, forecaster *forecast.Forecaster, log *logrus.Logger, dao string, proposalCtx models.Context) models.ForecastResult {
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("Database unavailable, forecasting on neutral history")
		return forecaster.Forecast(proposalCtx, service.ComputeStats(nil))
	}
	defer db.Close(ctx)

	repos, err := repository.NewRepositories(db)
	if err != nil {
		log.Fatalf("Failed to build repositories: %v", err)
	}

	stats, err := service.NewHistoricalStatsService(repos.Referendum).StatsForDAO(ctx, dao)
	if err != nil {
		log.WithError(err).Warn("History lookup failed, forecasting on neutral history")
		stats = service.ComputeStats(nil)
	}

	return forecaster.Forecast(proposalCtx, stats)
}

func runPersisted(ctx context.Context, cfg *config.Config, forecaster *forecast.Forecaster, log *logrus.Logger, proposalID int64, dao string, proposalCtx models.Context) models.ForecastResult {
	if proposalID <= 0 {
		log.Fatal("A positive -proposal-id is required with -store")
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

	statsSvc := service.NewHistoricalStatsService(repos.Referendum)
	forecastSvc := service.NewForecastService(forecaster, statsSvc, repos.Prediction, log)

	prediction, result, err := forecastSvc.ForecastProposal(ctx, proposalID, dao, proposalCtx)
	if err != nil {
		log.Fatalf("Failed to forecast proposal: %v", err)
	}

	log.WithField("prediction_id", prediction.ID).Info("Prediction stored")
	return result
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

func loadContext(path string) (models.Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ctx models.Context
	if err := json.Unmarshal(data, &ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

func forecastConfig(cfg *config.Config) forecast.Config {
	return forecast.Config{
		ModelPath:       cfg.Forecast.ModelPath,
		CalibrationPath: cfg.Forecast.CalibrationPath,
		MarginPolicy:    cfg.Forecast.MarginPolicy,
		ZScore:          cfg.Forecast.ZScore,
		DecayScale:      cfg.Forecast.DecayScale,
		ConfidenceMin:   cfg.Forecast.ConfidenceMin,
		ConfidenceMax:   cfg.Forecast.ConfidenceMax,
		CacheTTLSeconds: cfg.Forecast.CacheTTLSeconds,
	}
}
