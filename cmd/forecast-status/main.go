// Package main provides a CLI for inspecting forecast pipeline status.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gov-forecast/internal/config"
	"github.com/yourusername/gov-forecast/internal/database"
	"github.com/yourusername/gov-forecast/internal/forecast"
	"github.com/yourusername/gov-forecast/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	logger     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(modelCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(predictionsCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "forecast-status",
	Short: "Check forecast pipeline status",
	Long:  `Displays model, data and prediction status for the governance forecast pipeline.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close(context.Background())
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		displayModelStatus()
		displayDataStatus()
	},
}

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Show trained model status",
	Run: func(cmd *cobra.Command, args []string) {
		displayModelStatus()
	},
}

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Show stored referendum counts",
	Run: func(cmd *cobra.Command, args []string) {
		displayDataStatus()
	},
}

var predictionsCmd = &cobra.Command{
	Use:   "predictions",
	Short: "Show recent predictions",
	Run: func(cmd *cobra.Command, args []string) {
		displayRecentPredictions()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("forecast-status %s (%s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func setupDependencies() error {
	logger = logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to build repositories: %w", err)
	}

	return nil
}

func displayModelStatus() {
	store := forecast.NewStore(forecast.Config{
		ModelPath:       cfg.Forecast.ModelPath,
		CalibrationPath: cfg.Forecast.CalibrationPath,
		CacheTTLSeconds: cfg.Forecast.CacheTTLSeconds,
	})

	fmt.Println("Model")
	fmt.Println("-----")
	model, err := store.Model()
	if err != nil {
		fmt.Printf("  Status: unavailable (%s), heuristic fallback active\n", cfg.Forecast.ModelPath)
	} else if model.IsZero() {
		fmt.Println("  Status: zero model saved, heuristic fallback active")
	} else {
		fmt.Printf("  Status: trained (%d coefficients, intercept %.4f)\n", len(model.Coefficients), model.Intercept)
		for name, coeff := range model.Coefficients {
			fmt.Printf("    %-24s %+.4f\n", name, coeff)
		}
	}

	if calibration := store.Calibration(); calibration != nil {
		fmt.Printf("  Calibration: %s (%d source overrides)\n", calibration.Type, len(calibration.SourceOverrides))
	} else {
		fmt.Println("  Calibration: identity")
	}
	fmt.Printf("  Margin policy: %s\n", cfg.Forecast.MarginPolicy)
	fmt.Println()
}

func displayDataStatus() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Println("Data")
	fmt.Println("----")

	count, err := repos.Referendum.Count(ctx)
	if err != nil {
		fmt.Printf("  Error counting referenda: %v\n", err)
		return
	}
	fmt.Printf("  Stored referenda: %d\n", count)

	recent, err := repos.Referendum.GetRecent(ctx, 1)
	if err == nil && len(recent) > 0 {
		fmt.Printf("  Latest decision: #%d (%s) at %s\n",
			recent[0].ReferendumID, recent[0].Status, recent[0].DecidedAt.Format(time.RFC3339))
	}
	fmt.Println()
}

func displayRecentPredictions() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	end := time.Now()
	start := end.Add(-30 * 24 * time.Hour)

	predictions, err := repos.Prediction.GetByTimeRange(ctx, start, end)
	if err != nil {
		fmt.Printf("Error loading predictions: %v\n", err)
		return
	}

	fmt.Printf("Predictions in the last 30 days: %d\n", len(predictions))
	for _, p := range predictions {
		fmt.Printf("  #%d %-12s %-8s prob=%.2f conf=%.2f moe=%.2f at %s\n",
			p.ProposalID, p.DAO, p.Predicted, p.ApprovalProb, p.Confidence, p.MarginOfError,
			p.PredictionTime.Format("2006-01-02 15:04"))
	}
}
