// Package main provides the entry point for the forecast daemon: scheduled
// ingestion and retraining, the governance event stream, and the health and
// metrics endpoints.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gov-forecast/internal/config"
	"github.com/yourusername/gov-forecast/internal/database"
	"github.com/yourusername/gov-forecast/internal/datasource"
	"github.com/yourusername/gov-forecast/internal/forecast"
	"github.com/yourusername/gov-forecast/internal/health"
	"github.com/yourusername/gov-forecast/internal/logger"
	"github.com/yourusername/gov-forecast/internal/metrics"
	"github.com/yourusername/gov-forecast/internal/repository"
	"github.com/yourusername/gov-forecast/internal/scheduler"
	"github.com/yourusername/gov-forecast/internal/service"
	"github.com/yourusername/gov-forecast/internal/tracing"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

func main() {
	cfg, err := config.LoadWithDefaults("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Governance forecast daemon starting")

	metrics.InitRegistry()

	xrayEnabled := os.Getenv("XRAY_ENABLED") == "true"
	if xrayEnabled {
		daemonAddr := os.Getenv("XRAY_DAEMON_ADDR")
		if daemonAddr == "" {
			daemonAddr = "localhost:2000"
		}
		if err := tracing.Initialize(tracing.Config{
			ServiceName: cfg.App.Name,
			Enabled:     true,
			DaemonAddr:  daemonAddr,
		}, appLog); err != nil {
			appLog.WithError(err).Warn("Failed to initialize X-Ray tracing")
			xrayEnabled = false
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			appLog.WithError(err).Error("Failed to close database connection")
		}
	}()

	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to build repositories")
	}

	// Governance API client
	httpLogger := log.New(os.Stdout, "governance-http: ", log.LstdFlags)
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:           time.Duration(cfg.Datasource.TimeoutSeconds) * time.Second,
		MaxRetries:        cfg.Datasource.MaxRetries,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      10 * time.Second,
		RateLimit:         cfg.Datasource.RateLimitPerSecond,
		CircuitBreakerMax: 5,
	}, httpLogger)
	defer httpClient.Close()

	govSource := datasource.NewGovernanceAPIClient(
		httpClient,
		cfg.Datasource.APIURL,
		cfg.Datasource.APIKey,
		cfg.Datasource.PageSize,
		true,
		httpLogger,
	)

	// Services
	ingestionLogger := log.New(os.Stdout, "ingestion: ", log.LstdFlags)
	ingestionSvc := service.NewIngestionService(
		[]datasource.GovernanceSource{govSource},
		repos.Referendum,
		ingestionLogger,
		cfg.Datasource.PageSize,
	)

	store := forecast.NewStore(forecast.Config{
		ModelPath:       cfg.Forecast.ModelPath,
		CalibrationPath: cfg.Forecast.CalibrationPath,
		CacheTTLSeconds: cfg.Forecast.CacheTTLSeconds,
	})

	trainingSvc := service.NewTrainingService(repos.Referendum, store, cfg.Training.MinRecords, appLog)

	// Scheduler
	schedLogger := log.New(os.Stdout, "scheduler: ", log.LstdFlags)
	sched := scheduler.NewScheduler(ingestionSvc, trainingSvc, schedLogger)

	if err := sched.ScheduleHistoricalSync("0 */6 * * *", govSource.Name()); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule referendum sync")
	}
	if err := sched.ScheduleTraining(cfg.Training.Schedule); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule training")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}
	defer sched.Stop()

	// Governance event stream: decision events refresh the affected
	// referendum immediately instead of waiting for the next sync.
	var stream *datasource.StreamClient
	if cfg.Datasource.StreamURL != "" {
		streamLogger := log.New(os.Stdout, "stream: ", log.LstdFlags)
		stream = datasource.NewStreamClient(cfg.Datasource.StreamURL, cfg.Datasource.APIKey, streamLogger)
		stream.AddHandler(func(event datasource.ReferendumEvent) error {
			refreshCtx, refreshCancel := context.WithTimeout(ctx, 30*time.Second)
			defer refreshCancel()

			if xrayEnabled {
				segCtx, seg := tracing.StartSegment(refreshCtx, "referendum-refresh")
				tracing.AddAnnotation(segCtx, "referendum_id", event.ReferendumID)
				tracing.AddAnnotation(segCtx, "event", event.Event)
				err := ingestionSvc.RefreshReferendum(segCtx, govSource.Name(), event.ReferendumID)
				if err != nil {
					tracing.AddError(segCtx, err)
				}
				seg.Close(err)
				return err
			}

			return ingestionSvc.RefreshReferendum(refreshCtx, govSource.Name(), event.ReferendumID)
		})

		go func() {
			if err := stream.ConnectWithRetry(ctx); err != nil {
				appLog.WithError(err).Error("Governance stream unavailable, relying on scheduled sync")
				return
			}
			if err := stream.Subscribe(nil); err != nil {
				appLog.WithError(err).Error("Failed to subscribe to referendum events")
			}
		}()
		defer stream.Close()
	} else {
		appLog.Info("No stream URL configured, relying on scheduled sync only")
	}

	// Health and metrics server
	healthServer := health.NewServer(health.Config{
		ServiceName:   cfg.App.Name,
		Version:       Version,
		Port:          cfg.Metrics.Port,
		Logger:        appLog,
		DB:            db,
		Model:         store,
		ExposeMetrics: cfg.Metrics.Enabled,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	appLog.WithFields(logrus.Fields{
		"jobs":          sched.JobCount(),
		"stream":        cfg.Datasource.StreamURL != "",
		"metrics":       cfg.Metrics.Enabled,
		"margin_policy": cfg.Forecast.MarginPolicy,
	}).Info("Forecast daemon running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error stopping scheduler")
	}

	// Give components time to cleanup
	time.Sleep(2 * time.Second)

	appLog.Info("Forecast daemon shut down successfully")
}
