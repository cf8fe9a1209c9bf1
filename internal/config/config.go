// Package config provides configuration management for the governance
// forecasting pipeline.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Forecast   ForecastConfig   `mapstructure:"forecast" validate:"required"`
	Datasource DatasourceConfig `mapstructure:"datasource" validate:"required"`
	Training   TrainingConfig   `mapstructure:"training" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ForecastConfig represents the forecasting engine configuration
type ForecastConfig struct {
	ModelPath       string  `mapstructure:"model_path" validate:"required"`
	CalibrationPath string  `mapstructure:"calibration_path"`
	MarginPolicy    string  `mapstructure:"margin_policy" validate:"required,marginpolicy"`
	ZScore          float64 `mapstructure:"z_score" validate:"required,gt=0"`
	DecayScale      float64 `mapstructure:"decay_scale" validate:"required,gt=0"`
	ConfidenceMin   float64 `mapstructure:"confidence_min" validate:"required,gt=0,lte=1"`
	ConfidenceMax   float64 `mapstructure:"confidence_max" validate:"required,gt=0,lte=1"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// DatasourceConfig represents the governance data source configuration
type DatasourceConfig struct {
	APIURL             string  `mapstructure:"api_url" validate:"required,url"`
	StreamURL          string  `mapstructure:"stream_url"`
	APIKey             string  `mapstructure:"api_key"`
	PageSize           int     `mapstructure:"page_size" validate:"required,gt=0"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries         int     `mapstructure:"max_retries" validate:"gte=0"`
	TokenDecimals      int     `mapstructure:"token_decimals" validate:"required,gte=0"`
}

// TrainingConfig represents the model training refresh configuration
type TrainingConfig struct {
	Schedule   string `mapstructure:"schedule" validate:"required"`
	MinRecords int    `mapstructure:"min_records" validate:"gte=0"`
}

// MetricsConfig represents metrics and health endpoint configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    string `mapstructure:"port"`
}

// DSN renders the database connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}
