package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultSecretKey is only meant for local development.
const DefaultSecretKey = "fallback-secret-key"

// Config holds everything the server reads from the environment at start-up.
type Config struct {
	SecretKey     string        `env:"SECRET_KEY,default=fallback-secret-key"`
	DatabaseURL   string        `env:"DATABASE_URL,default=sqlite:///microblog.db"`
	Port          string        `env:"PORT,default=5000"`
	LogLevel      string        `env:"LOG_LEVEL,default=info"`
	LogFile       string        `env:"LOG_FILE"`
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE,default=720h"`
	SecureCookies bool          `env:"SECURE_COOKIES,default=false"`
}

// Load reads an optional .env file and then decodes the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using system environment variables.")
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if cfg.SessionMaxAge <= 0 {
		return nil, fmt.Errorf("SESSION_MAX_AGE must be positive, got %s", cfg.SessionMaxAge)
	}
	return &cfg, nil
}

// UsesFallbackSecret reports whether sessions are signed with the development key.
func (c *Config) UsesFallbackSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
