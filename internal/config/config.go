// Package config provides configuration management for the BettingBuddy application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	OddsAPI   OddsAPIConfig   `mapstructure:"odds_api" validate:"required"`
	Refresh   RefreshConfig   `mapstructure:"refresh" validate:"required"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Value     ValueConfig     `mapstructure:"value" validate:"required"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	AWS       AWSConfig       `mapstructure:"aws"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig selects and configures the record store
type DatabaseConfig struct {
	Driver         string `mapstructure:"driver" validate:"required,storedriver"`
	Host           string `mapstructure:"host" validate:"required_if=Driver postgres"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required_if=Driver postgres"`
	User           string `mapstructure:"user" validate:"required_if=Driver postgres"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	SQLitePath     string `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
	AutoMigrate    bool   `mapstructure:"auto_migrate"`
}

// OddsAPIConfig configures The Odds API client
type OddsAPIConfig struct {
	BaseURL                string  `mapstructure:"base_url" validate:"required,url"`
	APIKey                 string  `mapstructure:"api_key"`
	Regions                string  `mapstructure:"regions" validate:"required"`
	Markets                string  `mapstructure:"markets" validate:"required"`
	TimeoutSeconds         int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries             int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit              float64 `mapstructure:"rate_limit" validate:"gte=0"`
	CircuitBreakerFailures int     `mapstructure:"circuit_breaker_failures" validate:"gte=0"`
	CircuitBreakerSeconds  int     `mapstructure:"circuit_breaker_seconds" validate:"gte=0"`
	SportsCacheTTLSeconds  int     `mapstructure:"sports_cache_ttl_seconds" validate:"gte=0"`
	OddsCacheTTLSeconds    int     `mapstructure:"odds_cache_ttl_seconds" validate:"gte=0"`
}

// RefreshConfig configures the background odds refresh loop
type RefreshConfig struct {
	Enabled                bool           `mapstructure:"enabled"`
	IntervalSeconds        int            `mapstructure:"interval_seconds" validate:"required,gt=0"`
	ErrorBackoffSeconds    int            `mapstructure:"error_backoff_seconds" validate:"required,gt=0"`
	StopTimeoutSeconds     int            `mapstructure:"stop_timeout_seconds" validate:"required,gt=0"`
	DefaultMinIntervalMins int            `mapstructure:"default_min_interval_minutes" validate:"required,gt=0"`
	SportMinIntervalMins   map[string]int `mapstructure:"sport_min_interval_minutes" validate:"dive,gt=0"`
}

// RecommendConfig configures the combination search
type RecommendConfig struct {
	MaxCandidates int `mapstructure:"max_candidates" validate:"gte=0"`
}

// ValueConfig configures value analysis and bankroll sizing
type ValueConfig struct {
	MinEdge             float64 `mapstructure:"min_edge" validate:"gte=0,lte=1"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold" validate:"gte=0,lte=1"`
	BankrollStrategy    string  `mapstructure:"bankroll_strategy" validate:"required,bankrollstrategy"`
	StakePercentage     float64 `mapstructure:"stake_percentage" validate:"gte=0,lte=1"`
	KellyFraction       float64 `mapstructure:"kelly_fraction" validate:"gte=0,lte=1"`
	ParlayMaxLegs       int     `mapstructure:"parlay_max_legs" validate:"gte=0"`
}

// CatalogConfig configures the periodic sports/teams/bets import
type CatalogConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Schedule string   `mapstructure:"schedule" validate:"required_if=Enabled true"`
	Sports   []string `mapstructure:"sports"` // provider sport keys; empty imports every active sport
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Address             string   `mapstructure:"address" validate:"required"`
	ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds" validate:"gte=0"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds" validate:"gte=0"`
	AllowedOrigins      []string `mapstructure:"allowed_origins"`
}

// RedisConfig configures the refresh event stream
type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addr      string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db" validate:"gte=0"`
	Stream    string `mapstructure:"stream"`
	MaxLength int64  `mapstructure:"max_length" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// AWSConfig enables the Secrets Manager overlay
type AWSConfig struct {
	SecretsEnabled bool   `mapstructure:"secrets_enabled"`
	Region         string `mapstructure:"region" validate:"required_if=SecretsEnabled true"`
	SecretName     string `mapstructure:"secret_name" validate:"required_if=SecretsEnabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return c.Database.DSN()
}

// DSN returns a PostgreSQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
}

// Interval returns the refresh loop period
func (r RefreshConfig) Interval() time.Duration {
	return time.Duration(r.IntervalSeconds) * time.Second
}

// SportIntervals returns per-sport minimum refresh intervals
func (r RefreshConfig) SportIntervals() map[string]time.Duration {
	out := make(map[string]time.Duration, len(r.SportMinIntervalMins))
	for key, mins := range r.SportMinIntervalMins {
		out[key] = time.Duration(mins) * time.Minute
	}
	return out
}
