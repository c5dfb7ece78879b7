package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server" envconfig:"SERVER"`
	Logging      LoggingConfig      `yaml:"logging" envconfig:"LOGGING"`
	Ingest       IngestConfig       `yaml:"ingest" envconfig:"INGEST"`
	Interference InterferenceConfig `yaml:"interference" envconfig:"INTERFERENCE"`
	Geospatial   GeospatialConfig   `yaml:"geospatial" envconfig:"GEOSPATIAL"`
}

// ServerConfig contains HTTP server configuration for the results API.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"20" validate:"min=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"10" validate:"min=0"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/wardrive.log"`
}

// IngestConfig tunes the ingestion pipeline.
type IngestConfig struct {
	// DateLayouts overrides the date-repair template priority list.
	// Empty means the built-in order.
	DateLayouts []string `yaml:"date_layouts" envconfig:"DATE_LAYOUTS"`
}

// InterferenceConfig tunes the channel interference engine.
type InterferenceConfig struct {
	// CongestionPercentile sets the adaptive congestion threshold as a
	// percentile of the per-channel load distribution.
	CongestionPercentile float64 `yaml:"congestion_percentile" envconfig:"CONGESTION_PERCENTILE" default:"75" validate:"min=0,max=100"`
	// ThresholdOverride, when > 0, replaces the adaptive threshold with an
	// absolute load value.
	ThresholdOverride float64 `yaml:"threshold_override" envconfig:"THRESHOLD_OVERRIDE" default:"0" validate:"min=0"`
}

// GeospatialConfig tunes the density engine.
type GeospatialConfig struct {
	// MaxGridCells bounds the density grid size regardless of the
	// geographic extent of the capture.
	MaxGridCells int `yaml:"max_grid_cells" envconfig:"MAX_GRID_CELLS" default:"400" validate:"min=1"`
	// ClusterDistanceMeters merges APs closer than this into one cluster.
	ClusterDistanceMeters float64 `yaml:"cluster_distance_meters" envconfig:"CLUSTER_DISTANCE_METERS" default:"30" validate:"gt=0"`
}

// Load loads configuration from the optional YAML file pointed at by
// WARDRIVE_CONFIG (default config.yaml), then applies WARDRIVE_* environment
// overrides, then validates. A missing config file is not an error.
func Load() (*Config, error) {
	var cfg Config

	configFile := os.Getenv("WARDRIVE_CONFIG")
	if configFile == "" {
		configFile = "config.yaml"
	}
	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if err := envconfig.Process("WARDRIVE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration with every knob at its default value.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills zero values that envconfig only defaults when
// processing env vars (a YAML-only load leaves them unset).
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}
	if c.Server.RateLimit.RPS == 0 {
		c.Server.RateLimit.RPS = 20
	}
	if c.Server.RateLimit.Burst == 0 {
		c.Server.RateLimit.Burst = 10
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/wardrive.log"
	}
	if c.Interference.CongestionPercentile == 0 {
		c.Interference.CongestionPercentile = 75
	}
	if c.Geospatial.MaxGridCells == 0 {
		c.Geospatial.MaxGridCells = 400
	}
	if c.Geospatial.ClusterDistanceMeters == 0 {
		c.Geospatial.ClusterDistanceMeters = 30
	}
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}
