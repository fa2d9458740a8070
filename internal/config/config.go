package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/simaogato/stockwalk/internal/adapter/source/csvfile"
	"github.com/simaogato/stockwalk/internal/usecase/generator"
	"github.com/simaogato/stockwalk/internal/usecase/pricing"
)

const (
	DriverCSV      = "csv"
	DriverPostgres = "postgres"

	defaultAPIToken = "dev-token"
)

// Config represents the complete service configuration
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	History HistoryConfig `yaml:"history"`
	Pricing PricingConfig `yaml:"pricing"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// SourceConfig selects and configures the instrument source
type SourceConfig struct {
	Driver        string `yaml:"driver"` // "csv" or "postgres"
	Path          string `yaml:"path,omitempty"`
	Encoding      string `yaml:"encoding,omitempty"` // "utf-16" or "utf-8"
	SkipHeader    bool   `yaml:"skip_header"`
	SkipMalformed bool   `yaml:"skip_malformed"`
	DSN           string `yaml:"dsn,omitempty"`
}

// HistoryConfig contains random walk parameters
type HistoryConfig struct {
	Days int   `yaml:"days"`
	Seed int64 `yaml:"seed"` // 0 seeds from the clock
}

// PricingConfig contains the memoized accessor parameters
type PricingConfig struct {
	ReferenceCode string        `yaml:"reference_code"`
	PriceLatency  time.Duration `yaml:"price_latency"`
	SeriesLatency time.Duration `yaml:"series_latency"`
}

// ServerConfig contains the serve command listeners
type ServerConfig struct {
	GRPCAddr    string `yaml:"grpc_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	APIToken    string `yaml:"api_token"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // json|text
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Driver:   DriverCSV,
			Path:     "con_21Jun18.csv",
			Encoding: csvfile.EncodingUTF16,
		},
		History: HistoryConfig{
			Days: generator.DefaultDays,
		},
		Pricing: PricingConfig{
			ReferenceCode: pricing.DefaultReferenceCode,
			PriceLatency:  pricing.DefaultPriceLatency,
			SeriesLatency: pricing.DefaultSeriesLatency,
		},
		Server: ServerConfig{
			GRPCAddr:    ":8080",
			MetricsAddr: ":9090",
			APIToken:    defaultAPIToken,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadFromFile loads a YAML configuration over the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Load reads path (if not empty), applies environment overrides and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from environment variables
// getenv is os.Getenv in production
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	setString("STOCKWALK_SOURCE_DRIVER", &c.Source.Driver)
	setString("STOCKWALK_SOURCE_PATH", &c.Source.Path)
	setString("STOCKWALK_SOURCE_ENCODING", &c.Source.Encoding)
	setString("DB_CONN_STR", &c.Source.DSN)
	setString("STOCKWALK_REFERENCE_CODE", &c.Pricing.ReferenceCode)
	setString("STOCKWALK_GRPC_ADDR", &c.Server.GRPCAddr)
	setString("STOCKWALK_METRICS_ADDR", &c.Server.MetricsAddr)
	setString("API_TOKEN", &c.Server.APIToken)
	setString("STOCKWALK_LOG_LEVEL", &c.Log.Level)
	setString("STOCKWALK_LOG_FORMAT", &c.Log.Format)

	if v := getenv("STOCKWALK_HISTORY_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STOCKWALK_HISTORY_DAYS: %w", err)
		}
		c.History.Days = days
	}

	if v := getenv("STOCKWALK_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("STOCKWALK_SEED: %w", err)
		}
		c.History.Seed = seed
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Source.Driver {
	case DriverCSV:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for the csv driver")
		}
		if _, err := csvfile.NormalizeEncoding(c.Source.Encoding); err != nil {
			return fmt.Errorf("source.encoding must be 'utf-16' or 'utf-8'")
		}
	case DriverPostgres:
		if c.Source.DSN == "" {
			return fmt.Errorf("source.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("source.driver must be 'csv' or 'postgres'")
	}
	if c.History.Days < 0 {
		return fmt.Errorf("history.days must not be negative")
	}
	if c.Pricing.ReferenceCode == "" {
		return fmt.Errorf("pricing.reference_code is required")
	}
	if c.Pricing.PriceLatency < 0 || c.Pricing.SeriesLatency < 0 {
		return fmt.Errorf("pricing latencies must not be negative")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("log.format must be 'json' or 'text'")
	}
	return nil
}
