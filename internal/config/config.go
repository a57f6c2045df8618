// file: internal/config/config.go
// version: 1.0.0
// guid: 1af40d72-230d-4981-98a8-5a7461415350

// Package config layers built-in defaults, an optional YAML file, and
// CHORROSION_-prefixed environment overrides into one Config value.
package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides. Nested keys use a double
// underscore: CHORROSION_DATABASE__POOL_MAX_SIZE.
const EnvPrefix = "CHORROSION"

// Config is the full runtime configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	HTTP      HTTPConfig      `mapstructure:"http" yaml:"http"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" yaml:"scheduler"`
	Library   LibraryConfig   `mapstructure:"library" yaml:"library"`
	Import    ImportConfig    `mapstructure:"import" yaml:"import"`
	AcoustID  AcoustIDConfig  `mapstructure:"acoustid" yaml:"acoustid"`
	Fanart    FanartConfig    `mapstructure:"fanart" yaml:"fanart"`
	Download  DownloadConfig  `mapstructure:"download" yaml:"download"`
	Indexers  []IndexerConfig `mapstructure:"indexers" yaml:"indexers,omitempty"`
}

type DatabaseConfig struct {
	URL         string `mapstructure:"url" yaml:"url"`
	PoolMaxSize int    `mapstructure:"pool_max_size" yaml:"pool_max_size"`
}

type HTTPConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

type TelemetryConfig struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

type SchedulerConfig struct {
	MaxConcurrentJobs int `mapstructure:"max_concurrent_jobs" yaml:"max_concurrent_jobs"`
}

type LibraryConfig struct {
	Root  string `mapstructure:"root" yaml:"root"`
	Watch bool   `mapstructure:"watch" yaml:"watch"`
}

type ImportConfig struct {
	MinConfidence       float64 `mapstructure:"min_confidence" yaml:"min_confidence"`
	FuzzyThreshold      float64 `mapstructure:"fuzzy_threshold" yaml:"fuzzy_threshold"`
	AutoImportThreshold float64 `mapstructure:"auto_import_threshold" yaml:"auto_import_threshold"`
}

type AcoustIDConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`
}

type FanartConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`
}

type DownloadConfig struct {
	Type     string `mapstructure:"type" yaml:"type"`
	BaseURL  string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Username string `mapstructure:"username" yaml:"username,omitempty"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
}

type IndexerConfig struct {
	Name     string `mapstructure:"name" yaml:"name"`
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
	Protocol string `mapstructure:"protocol" yaml:"protocol"`
	APIKey   string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.url", "sqlite://chorrosion.db")
	v.SetDefault("database.pool_max_size", 16)
	v.SetDefault("http.host", "127.0.0.1")
	v.SetDefault("http.port", 5150)
	v.SetDefault("telemetry.log_level", "info")
	v.SetDefault("scheduler.max_concurrent_jobs", 8)
	v.SetDefault("library.root", "")
	v.SetDefault("library.watch", false)
	v.SetDefault("import.min_confidence", 0.85)
	v.SetDefault("import.fuzzy_threshold", 0.70)
	v.SetDefault("import.auto_import_threshold", 0.90)
	v.SetDefault("download.type", "qbittorrent")
}

// Load builds a Config. path may be empty; a missing file at an
// explicit path is an error, all other layers are optional.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		log.Printf("[INFO] config: loaded %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the rest of the process cannot work with.
func (c *Config) Validate() error {
	if c.Database.PoolMaxSize < 1 {
		return fmt.Errorf("database.pool_max_size must be >= 1, got %d", c.Database.PoolMaxSize)
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be in [1, 65535], got %d", c.HTTP.Port)
	}
	if c.Scheduler.MaxConcurrentJobs < 1 {
		return fmt.Errorf("scheduler.max_concurrent_jobs must be >= 1, got %d", c.Scheduler.MaxConcurrentJobs)
	}
	switch strings.ToLower(c.Telemetry.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.log_level %q not one of debug/info/warn/error", c.Telemetry.LogLevel)
	}
	return nil
}

// Addr is the host:port the HTTP server binds.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}
