// Package config centralizes process configuration, loaded once from
// environment variables (optionally seeded by a .env file) at startup.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	// Historical CSV source (football-data.co.uk shape: <host>/mmz4281/<season>/<league>.csv)
	CSVBaseHost string   `envconfig:"CSV_BASE_HOST" default:"www.football-data.co.uk"`
	Leagues     []string `envconfig:"LEAGUES" default:"E0,D1,SP1,I1,F1"`
	Seasons     []string `envconfig:"SEASONS" default:"2324,2425"`

	// Local persistence
	CacheDir string `envconfig:"CACHE_DIR" default:"./data/cache"`
	StateDir string `envconfig:"STATE_DIR" default:"./data/state"`

	// S3-compatible remote mirror, optional. Absence disables the mirror.
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3UseSSL    bool   `envconfig:"S3_USE_SSL" default:"true"`

	// Optional live-fixture API
	LiveAPIBaseURL string        `envconfig:"LIVE_API_BASE_URL"`
	LiveAPIKey     string        `envconfig:"LIVE_API_KEY"`
	LiveAPITimeout time.Duration `envconfig:"LIVE_API_TIMEOUT" default:"10s"`

	// HTTP client behavior shared by matchstore/liveapi
	HTTPConnectTimeout time.Duration `envconfig:"HTTP_CONNECT_TIMEOUT" default:"3s"`
	HTTPReadTimeout    time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	HTTPMaxRetries     int           `envconfig:"HTTP_MAX_RETRIES" default:"1"`

	// Worker / daemon
	FeedbackCron    string        `envconfig:"FEEDBACK_CRON" default:"0 3 * * *"`
	WorkerInterval  time.Duration `envconfig:"WORKER_INTERVAL" default:"60s"`
	EnableScheduler bool          `envconfig:"ENABLE_SCHEDULER" default:"true"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables, seeding from a
// .env file first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks internal consistency. Every external collaborator
// here degrades gracefully when unconfigured (spec: TransientIO
// handling, best-effort mirror), so nothing is strictly required —
// Validate only catches self-contradictory settings.
func (c *Config) Validate() error {
	if c.S3Endpoint != "" && (c.S3AccessKey == "" || c.S3SecretKey == "") {
		return fmt.Errorf("S3_ENDPOINT set without S3_ACCESS_KEY_ID/S3_SECRET_ACCESS_KEY")
	}
	if len(c.Leagues) == 0 {
		return fmt.Errorf("LEAGUES must name at least one league code")
	}
	if len(c.Seasons) == 0 {
		return fmt.Errorf("SEASONS must name at least one season")
	}
	return nil
}

// S3Configured reports whether the remote mirror has credentials.
func (c *Config) S3Configured() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// LiveAPIConfigured reports whether the optional live-fixture API is usable.
func (c *Config) LiveAPIConfigured() bool {
	return c.LiveAPIBaseURL != ""
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// MustLoad loads configuration or exits the process. Use from main().
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
