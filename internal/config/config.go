// Package config loads and validates application configuration from
// environment variables (FINBOARD_ prefix) with an optional YAML file
// underneath. Environment always wins.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Storage  StorageConfig  `yaml:"storage" envconfig:"STORAGE"`
	Auth     AuthConfig     `yaml:"auth" envconfig:"AUTH"`
	Notify   NotifyConfig   `yaml:"notify" envconfig:"NOTIFY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	// MaxUploadBytes bounds workbook uploads; monthly reports run well
	// under this.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"26214400"`
}

// StorageConfig contains blob store (Linode Object Storage) configuration.
// The service speaks the S3 protocol against bucket.region.linodeobjects.com.
type StorageConfig struct {
	Region    string `yaml:"region" envconfig:"REGION" default:"in-maa-1"`
	AccessKey string `yaml:"access_key" envconfig:"ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" envconfig:"SECRET_KEY"`
	Bucket    string `yaml:"bucket" envconfig:"BUCKET"`
	// Endpoint overrides the derived https://{region}.linodeobjects.com,
	// mainly for tests.
	Endpoint string `yaml:"endpoint" envconfig:"ENDPOINT"`
	// LegacyObjectKey is the fixed key older deployments uploaded to before
	// workbooks were keyed by month.
	LegacyObjectKey string        `yaml:"legacy_object_key" envconfig:"LEGACY_OBJECT_KEY" default:"data.xlsx"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"30s"`
}

// EndpointURL returns the object storage endpoint.
func (s StorageConfig) EndpointURL() string {
	if s.Endpoint != "" {
		return s.Endpoint
	}
	return fmt.Sprintf("https://%s.linodeobjects.com", s.Region)
}

// AuthConfig contains the dashboard credential pair and session settings.
type AuthConfig struct {
	Username   string        `yaml:"username" envconfig:"USERNAME" default:"admin"`
	Password   string        `yaml:"password" envconfig:"PASSWORD"`
	SessionTTL time.Duration `yaml:"session_ttl" envconfig:"SESSION_TTL" default:"12h"`
}

// NotifyConfig contains the outbound mail collaborator settings.
type NotifyConfig struct {
	APIKey     string        `yaml:"api_key" envconfig:"API_KEY"`
	BaseURL    string        `yaml:"base_url" envconfig:"BASE_URL" default:"https://api.resend.com"`
	From       string        `yaml:"from" envconfig:"FROM" default:"reports@finboard.local"`
	Recipients []string      `yaml:"recipients" envconfig:"RECIPIENTS"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"10s"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// SecurityConfig contains CORS and rate limiting configuration.
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// Load loads configuration from an optional YAML file and the environment;
// environment values take precedence through envconfig defaults processing
// after the file is read.
func Load() (*Config, error) {
	cfg := Default()

	if path := findConfigFile(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("FINBOARD", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive")
	}
	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}
	return nil
}

func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			MaxUploadBytes:  25 << 20,
		},
		Storage: StorageConfig{
			Region:          "in-maa-1",
			LegacyObjectKey: "data.xlsx",
			RequestTimeout:  30 * time.Second,
		},
		Auth: AuthConfig{
			Username:   "admin",
			SessionTTL: 12 * time.Hour,
		},
		Notify: NotifyConfig{
			BaseURL: "https://api.resend.com",
			From:    "reports@finboard.local",
			Timeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   25,
			},
		},
	}
}
