package config

// Package config handles configuration loading for StockMood.
// It supports YAML config files with environment variable overrides.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Providers ProvidersConfig `mapstructure:"providers" yaml:"providers"`
	News      NewsConfig      `mapstructure:"news"      yaml:"news"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"  yaml:"analysis"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// ProvidersConfig holds upstream market-data provider settings.
type ProvidersConfig struct {
	PolygonKey     string `mapstructure:"polygon_key"     yaml:"polygon_key"`
	PolygonURL     string `mapstructure:"polygon_url"     yaml:"polygon_url"`
	MarketstackKey string `mapstructure:"marketstack_key" yaml:"marketstack_key"`
	MarketstackURL string `mapstructure:"marketstack_url" yaml:"marketstack_url"`
	RangeYears     int    `mapstructure:"range_years"     yaml:"range_years"` // default lookback window
}

// NewsConfig holds news retrieval settings.
type NewsConfig struct {
	Source   string   `mapstructure:"source"    yaml:"source"` // "polygon" or "rss"
	RSSFeeds []string `mapstructure:"rss_feeds" yaml:"rss_feeds"`
}

// AnalysisConfig holds analysis engine settings.
type AnalysisConfig struct {
	TimeFrame string `mapstructure:"timeframe" yaml:"timeframe"` // "daily" or "weekly"
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.stockmood/config.yaml (home directory)
//  3. /etc/stockmood/config.yaml (system)
//
// Environment variables override config file values.
// Format: STOCKMOOD_<SECTION>_<KEY>, e.g., STOCKMOOD_PROVIDERS_POLYGON_KEY
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".stockmood"))
	v.AddConfigPath("/etc/stockmood")

	// Environment variable settings
	v.SetEnvPrefix("STOCKMOOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Override sensitive values from environment
	overrideFromEnv(&cfg)

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("STOCKMOOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Provider defaults
	v.SetDefault("providers.polygon_url", "https://api.polygon.io/v2/reference/news")
	v.SetDefault("providers.marketstack_url", "http://api.marketstack.com/v1/eod")
	v.SetDefault("providers.range_years", 2)

	// News defaults
	v.SetDefault("news.source", "polygon")
	v.SetDefault("news.rss_feeds", []string{})

	// Analysis defaults
	v.SetDefault("analysis.timeframe", "daily")

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("STOCKMOOD_PROVIDERS_POLYGON_KEY"); key != "" {
		cfg.Providers.PolygonKey = key
	}
	if key := os.Getenv("STOCKMOOD_PROVIDERS_MARKETSTACK_KEY"); key != "" {
		cfg.Providers.MarketstackKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
