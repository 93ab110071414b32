package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds process configuration for syncd and partyctl
type Config struct {
	// Redis connection
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// HTTPAddr is where syncd serves health, lookup and the watch bridge
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Presence lease timing
	LeaseTTL          time.Duration `env:"LEASE_TTL" envDefault:"30s"`
	KeepaliveInterval time.Duration `env:"KEEPALIVE_INTERVAL" envDefault:"10s"`

	// Janitor timing
	SweepInterval   time.Duration `env:"SWEEP_INTERVAL" envDefault:"5s"`
	StaleSessionAge time.Duration `env:"STALE_SESSION_AGE" envDefault:"24h"`

	// PreGamePhases are snapshot phases that do not count as a resumed game
	PreGamePhases []string `env:"PRE_GAME_PHASES" envDefault:"lobby,setup" envSeparator:","`

	// IdentityFile stores the client-local player identity
	IdentityFile string `env:"IDENTITY_FILE" envDefault:".partysync/identity.yaml"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the optional dotenv files and then parses the environment.
// Variables already set in the environment win over file values.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load dotenv: %w", err)
	}

	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the timing relationships between the settings
func (c *Config) Validate() error {
	if c.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required")
	}

	if c.LeaseTTL <= 0 {
		return errors.New("LEASE_TTL must be positive")
	}

	if c.KeepaliveInterval <= 0 || c.KeepaliveInterval >= c.LeaseTTL {
		return fmt.Errorf("KEEPALIVE_INTERVAL must be positive and shorter than LEASE_TTL (%s)", c.LeaseTTL)
	}

	if c.SweepInterval <= 0 {
		return errors.New("SWEEP_INTERVAL must be positive")
	}

	if c.StaleSessionAge <= 0 {
		return errors.New("STALE_SESSION_AGE must be positive")
	}

	return nil
}
