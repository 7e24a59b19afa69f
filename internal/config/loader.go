package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. BETTINGBUDDY_ODDS_API_API_KEY
	EnvPrefix = "BETTINGBUDDY"

	defaultConfigPath = "config/config.yaml"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing config file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "bettingbuddy")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.sqlite_path", "bettingbuddy.db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("odds_api.base_url", "https://api.the-odds-api.com")
	v.SetDefault("odds_api.api_key", "")
	v.SetDefault("odds_api.regions", "us")
	v.SetDefault("odds_api.markets", "h2h")
	v.SetDefault("odds_api.timeout_seconds", 30)
	v.SetDefault("odds_api.max_retries", 3)
	v.SetDefault("odds_api.rate_limit", 1.0)
	v.SetDefault("odds_api.circuit_breaker_failures", 5)
	v.SetDefault("odds_api.circuit_breaker_seconds", 60)
	v.SetDefault("odds_api.sports_cache_ttl_seconds", 3600)
	v.SetDefault("odds_api.odds_cache_ttl_seconds", 1800)

	v.SetDefault("refresh.enabled", true)
	v.SetDefault("refresh.interval_seconds", 3600)
	v.SetDefault("refresh.error_backoff_seconds", 60)
	v.SetDefault("refresh.stop_timeout_seconds", 2)
	v.SetDefault("refresh.default_min_interval_minutes", 60)
	v.SetDefault("refresh.sport_min_interval_minutes", map[string]int{
		"basketball_nba":         30,
		"americanfootball_nfl":   60,
		"baseball_mlb":           30,
		"mma_mixed_martial_arts": 120,
		"icehockey_nhl":          30,
	})

	v.SetDefault("recommend.max_candidates", 40)

	v.SetDefault("value.min_edge", 0.05)
	v.SetDefault("value.confidence_threshold", 0.6)
	v.SetDefault("value.bankroll_strategy", "kelly")
	v.SetDefault("value.stake_percentage", 0.02)
	v.SetDefault("value.kelly_fraction", 0.5)
	v.SetDefault("value.parlay_max_legs", 3)

	v.SetDefault("catalog.enabled", false)
	v.SetDefault("catalog.schedule", "@every 6h")
	v.SetDefault("catalog.sports", []string{})

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 15)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.stream", "bettingbuddy:refresh")
	v.SetDefault("redis.max_length", 1000)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("aws.secrets_enabled", false)
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.secret_name", "")
}
