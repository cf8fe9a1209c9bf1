package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "gov-forecast",
			Environment: "development",
			LogLevel:    "info",
		},
		Database: DatabaseConfig{
			Host:               "localhost",
			Port:               5432,
			Name:               "gov_forecast",
			User:               "forecast",
			Password:           "secret",
			SSLMode:            "disable",
			MaxConnections:     10,
			MaxIdleConnections: 5,
		},
		Forecast: ForecastConfig{
			ModelPath:       "models/referendum_model.json",
			CalibrationPath: "models/referendum_calibration.json",
			MarginPolicy:    "updated",
			ZScore:          1.96,
			DecayScale:      400,
			ConfidenceMin:   0.05,
			ConfidenceMax:   0.99,
			CacheTTLSeconds: 300,
		},
		Datasource: DatasourceConfig{
			APIURL:             "https://governance.example.com/api",
			PageSize:           100,
			RateLimitPerSecond: 10,
			TimeoutSeconds:     30,
			MaxRetries:         5,
			TokenDecimals:      10,
		},
		Training: TrainingConfig{
			Schedule:   "0 3 * * *",
			MinRecords: 30,
		},
		Metrics: MetricsConfig{Enabled: true, Port: "9090"},
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	require.NoError(t, Validate(validConfig()))
}

func TestValidateRejectsBadFieldValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.App.Environment = "qa" },
			wantMsg: "development, staging, production",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.App.LogLevel = "verbose" },
			wantMsg: "debug, info, warn, error",
		},
		{
			name:    "unknown margin policy",
			mutate:  func(c *Config) { c.Forecast.MarginPolicy = "bayesian" },
			wantMsg: "legacy, updated",
		},
		{
			name:    "invalid api url",
			mutate:  func(c *Config) { c.Datasource.APIURL = "not a url" },
			wantMsg: "valid URL",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Database.Port = 70000 },
			wantMsg: "Port",
		},
		{
			name:    "missing database password",
			mutate:  func(c *Config) { c.Database.Password = "" },
			wantMsg: "required",
		},
		{
			name:    "zero z-score",
			mutate:  func(c *Config) { c.Forecast.ZScore = 0 },
			wantMsg: "ZScore",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateCrossFieldRules(t *testing.T) {
	t.Run("confidence bounds inverted", func(t *testing.T) {
		cfg := validConfig()
		cfg.Forecast.ConfidenceMin = 0.9
		cfg.Forecast.ConfidenceMax = 0.5
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "confidence_min")
	})

	t.Run("idle connections exceed max", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.MaxIdleConnections = 50
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_connections")
	})

	t.Run("production requires ssl", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Environment = "production"
		err := Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SSL")

		cfg.Database.SSLMode = "require"
		assert.NoError(t, Validate(cfg))
	})
}

func TestDatabaseDSN(t *testing.T) {
	cfg := validConfig()
	dsn := cfg.Database.DSN()
	assert.Equal(t, "host=localhost port=5432 user=forecast password=secret dbname=gov_forecast sslmode=disable", dsn)
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.App.Environment = "production"
	assert.True(t, cfg.IsProduction())
}
