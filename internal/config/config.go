package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment variable overrides,
// e.g. LEGISYNC_API_KEY maps to api.key.
const EnvPrefix = "LEGISYNC_"

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "LEGISYNC_CONFIG"

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/legisync/config.yaml",
}

// APIConfig configures the upstream legislative API client.
type APIConfig struct {
	BaseURL      string        `koanf:"base_url" validate:"required,url"`
	Key          string        `koanf:"key" validate:"required"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`
	RequestDelay time.Duration `koanf:"request_delay" validate:"gte=0"`
}

// DatabaseConfig configures the Postgres connection.
type DatabaseConfig struct {
	URL string `koanf:"url" validate:"required"`
}

// SyncConfig bounds a single sync invocation.
type SyncConfig struct {
	PageSize       int           `koanf:"page_size" validate:"gt=0,lte=1000"`
	MaxBillsPerRun int           `koanf:"max_bills_per_run" validate:"gt=0"`
	TimeBudget     time.Duration `koanf:"time_budget" validate:"gt=0"`
	Lookback       time.Duration `koanf:"lookback" validate:"gt=0"`
	ErrorDetailCap int           `koanf:"error_detail_cap" validate:"gt=0"`
}

// ServerConfig configures the HTTP invocation surface.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port" validate:"gt=0,lte=65535"`
}

// LoggingConfig configures process-wide logging.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// Config is the root configuration for legisync.
type Config struct {
	API      APIConfig      `koanf:"api"`
	Database DatabaseConfig `koanf:"database"`
	Sync     SyncConfig     `koanf:"sync"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// defaultConfig returns the defaults applied before file and env overrides.
// The API key and database URL have no defaults and must be provided.
func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:      "https://legislation.nysenate.gov",
			Key:          "",
			Timeout:      30 * time.Second,
			RequestDelay: 500 * time.Millisecond,
		},
		Database: DatabaseConfig{
			URL: "",
		},
		Sync: SyncConfig{
			PageSize:       100,
			MaxBillsPerRun: 200,
			TimeBudget:     50 * time.Second,
			Lookback:       24 * time.Hour,
			ErrorDetailCap: 10,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// LEGISYNC_* environment variables, then validates it. An empty path falls
// back to LEGISYNC_CONFIG and the default search paths.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransform maps LEGISYNC_API_BASE_URL to api.base_url. Only the first
// underscore becomes a section delimiter; all top-level sections are single
// words so the remainder stays intact.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// Validate checks the struct tags and rewrites the first failure into a
// readable error.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var errs validator.ValidationErrors
		if ok := isValidationErrors(err, &errs); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("invalid config: field %s failed %q validation", e.Namespace(), e.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func isValidationErrors(err error, target *validator.ValidationErrors) bool {
	if errs, ok := err.(validator.ValidationErrors); ok {
		*target = errs
		return true
	}
	return false
}
