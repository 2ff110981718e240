package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the central typed configuration struct.
type Config struct {
	App      AppConfig
	Log      LogConfig
	Followup FollowupConfig
}

type AppConfig struct {
	Name      string `envconfig:"APP_NAME" default:"GoForms" validate:"required"`
	Env       string `envconfig:"APP_ENV" default:"local" validate:"oneof=local production testing"`
	Debug     bool   `envconfig:"APP_DEBUG" default:"true"`
	URL       string `envconfig:"APP_URL" default:"http://localhost" validate:"required,url"`
	Port      string `envconfig:"APP_PORT" default:"8000" validate:"required,numeric"`
	RateLimit int    `envconfig:"RATE_LIMIT" default:"60" validate:"gte=0"` // submissions per minute per IP, 0 disables
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `envconfig:"LOG_FORMAT" default:"console" validate:"oneof=console json"`
}

// FollowupConfig points at the survey follow-up questions endpoint.
type FollowupConfig struct {
	Endpoint string        `envconfig:"FOLLOWUP_ENDPOINT" default:"https://api.example.com/questions" validate:"required,url"`
	Timeout  time.Duration `envconfig:"FOLLOWUP_TIMEOUT" default:"10s" validate:"gte=0"`
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg, err := config.Load()
func Load(envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad(envFiles ...string) *Config {
	cfg, err := Load(envFiles...)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.App.Port }

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool { return c != nil && c.App.Env == "production" }

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}
