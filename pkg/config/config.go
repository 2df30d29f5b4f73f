// Package config provides configuration structures and loading logic for the
// icon service.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables. The result is validated before use.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/polisai/skillicons/pkg/domain"
)

const (
	DefaultAddress  = ":3000"
	DefaultPerLine  = 15
	MinPerLine      = 1
	MaxPerLine      = 50
	DefaultCatalog  = "dist/icons.json"
	DefaultIconsDir = "icons"
	DefaultOutDir   = "dist"
)

// Config holds the global configuration for the service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Render    RenderConfig    `yaml:"render"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Address         string          `yaml:"address" env:"SKILLICONS_LISTEN_ADDR"`
	Port            int             `yaml:"port" env:"PORT"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" env:"SKILLICONS_READ_TIMEOUT"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" env:"SKILLICONS_WRITE_TIMEOUT"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" env:"SKILLICONS_IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" env:"SKILLICONS_SHUTDOWN_TIMEOUT"`
	TLS             TLSConfig       `yaml:"tls"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig caps request throughput per endpoint. Zero disables it.
type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second" env:"SKILLICONS_RATE_LIMIT_RPS"`
	Burst             int `yaml:"burst" env:"SKILLICONS_RATE_LIMIT_BURST"`
}

// CatalogConfig locates the icon catalog and its sources.
type CatalogConfig struct {
	Path      string `yaml:"path" env:"SKILLICONS_CATALOG"`
	SourceDir string `yaml:"source_dir" env:"SKILLICONS_ICONS_DIR"`
	OutDir    string `yaml:"out_dir" env:"SKILLICONS_OUT_DIR"`
}

// RenderConfig holds request defaults.
type RenderConfig struct {
	DefaultPerLine int    `yaml:"default_per_line" env:"SKILLICONS_DEFAULT_PER_LINE"`
	DefaultTheme   string `yaml:"default_theme" env:"SKILLICONS_DEFAULT_THEME"`
}

// LoggingConfig holds configuration for logging.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"SKILLICONS_LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" env:"SKILLICONS_LOG_PRETTY"`
}

// TelemetryConfig holds configuration for OpenTelemetry.
type TelemetryConfig struct {
	ServiceName  string `yaml:"service_name" env:"OTEL_SERVICE_NAME"`
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"SKILLICONS_OTLP_ENDPOINT"`
	Insecure     bool   `yaml:"insecure" env:"SKILLICONS_OTLP_INSECURE"`
	Environment  string `yaml:"environment" env:"SKILLICONS_ENVIRONMENT"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"SKILLICONS_METRICS_ENABLED"`
	Path    string `yaml:"path" env:"SKILLICONS_METRICS_PATH"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         DefaultAddress,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Catalog: CatalogConfig{
			Path:      DefaultCatalog,
			SourceDir: DefaultIconsDir,
			OutDir:    DefaultOutDir,
		},
		Render: RenderConfig{
			DefaultPerLine: DefaultPerLine,
			DefaultTheme:   string(domain.DefaultTheme),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "skillicons",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads configuration from a file and applies environment variable
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		//nolint:gosec // Config file path is controlled by admin/operator
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	cfg.applyPort()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigInvalid, err)
	}

	return cfg, nil
}

// ParseEnv overlays environment variables onto target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// applyPort lets a bare PORT setting win over the listen address.
func (c *Config) applyPort() {
	if c.Server.Port > 0 {
		c.Server.Address = fmt.Sprintf(":%d", c.Server.Port)
	}
}

// Validate performs validation of the entire configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server),
		validation.Field(&c.Catalog),
		validation.Field(&c.Render),
		validation.Field(&c.Logging),
		validation.Field(&c.Metrics),
	)
}

// Validate performs validation of server configuration.
func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Address, validation.Required),
		validation.Field(&s.Port, validation.Min(0), validation.Max(65535)),
		validation.Field(&s.ReadTimeout, validation.Min(time.Duration(0))),
		validation.Field(&s.WriteTimeout, validation.Min(time.Duration(0))),
		validation.Field(&s.ShutdownTimeout, validation.Required),
		validation.Field(&s.TLS),
		validation.Field(&s.RateLimit),
	)
}

// Validate rejects negative limits.
func (r RateLimitConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RequestsPerSecond, validation.Min(0)),
		validation.Field(&r.Burst, validation.Min(0)),
	)
}

// Validate checks the catalog locations.
func (c CatalogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Path, validation.Required),
	)
}

// Validate checks the request defaults against the accepted ranges.
func (r RenderConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DefaultPerLine, validation.Required, validation.Min(MinPerLine), validation.Max(MaxPerLine)),
		validation.Field(&r.DefaultTheme, validation.In(string(domain.ThemeLight), string(domain.ThemeDark))),
	)
}

// Validate checks the log level name.
func (l LoggingConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "warning", "error")),
	)
}

// Validate checks the metrics path when metrics are enabled.
func (m MetricsConfig) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Path, validation.When(m.Enabled, validation.Required, validation.By(absolutePath))),
	)
}

func absolutePath(value any) error {
	s, _ := value.(string)
	if s != "" && s[0] != '/' {
		return errors.New("must start with /")
	}
	return nil
}
