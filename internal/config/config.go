package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultMaxDepth = 4
	DefaultAddr     = ":8080"
)

type Config struct {
	API       APIConfig       `json:"api"`
	Handler   HandlerConfig   `json:"handler"`
	Server    ServerConfig    `json:"server"`
	Telemetry TelemetryConfig `json:"telemetry"`
	LogLevel  string          `json:"log_level"`
}

// APIConfig points the interaction handler at the recipe backend.
type APIConfig struct {
	BaseURL  string        `json:"base_url"`
	RetryMax int           `json:"retry_max"`
	Timeout  time.Duration `json:"timeout"` // zero means no timeout

	HTTPClient *http.Client `json:"-"`
}

type HandlerConfig struct {
	MaxDepth int `json:"max_depth"`
}

// ServerConfig is only read by the development server.
type ServerConfig struct {
	Addr       string `json:"addr"`
	StaticDir  string `json:"static_dir"`
	BackendURL string `json:"backend_url"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `json:"otlp_endpoint"`
	ServiceName  string `json:"service_name"`
}

// Load reads the development server's configuration from the environment. A
// .env file in the working directory is applied first when present; real
// environment variables win. API settings come from the page instead, see
// FromDataset.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Addr:       getEnvOrDefault("ADDR", DefaultAddr),
			StaticDir:  getEnvOrDefault("STATIC_DIR", "./dist"),
			BackendURL: os.Getenv("BACKEND_URL"),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName:  getEnvOrDefault("OTEL_SERVICE_NAME", "groceryhelper"),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return config, config.Validate()
}

// FromDataset builds the browser module's configuration from the page's
// <body data-*> attributes, keyed the way element.dataset exposes them.
// origin is used when no API base is given.
func FromDataset(dataset map[string]string, origin string) (*Config, error) {
	config := &Config{
		API: APIConfig{
			BaseURL: strings.TrimSpace(dataset["apiBase"]),
		},
		Handler: HandlerConfig{
			MaxDepth: DefaultMaxDepth,
		},
		LogLevel: "info",
	}
	if config.API.BaseURL == "" {
		config.API.BaseURL = origin
	}
	if v := strings.TrimSpace(dataset["maxDepth"]); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse data-max-depth %q: %w", v, err)
		}
		config.Handler.MaxDepth = depth
	}
	if v := strings.TrimSpace(dataset["retryMax"]); v != "" {
		retryMax, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse data-retry-max %q: %w", v, err)
		}
		config.API.RetryMax = retryMax
	}
	if v := strings.TrimSpace(dataset["timeout"]); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse data-timeout %q: %w", v, err)
		}
		config.API.Timeout = timeout
	}
	if v := strings.TrimSpace(dataset["logLevel"]); v != "" {
		config.LogLevel = v
	}
	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Handler.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", c.Handler.MaxDepth)
	}
	if c.API.RetryMax < 0 {
		return fmt.Errorf("retry max must not be negative, got %d", c.API.RetryMax)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SlogLevel parses LogLevel, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
