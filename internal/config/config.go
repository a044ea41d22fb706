// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the server configuration.
type Config struct {
	Port     int    `env:"ROOMLEDGER_PORT" envDefault:"8080"`
	DBPath   string `env:"ROOMLEDGER_DB_PATH" envDefault:"./data/roomledger.db"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	JWTSecret string        `env:"ROOMLEDGER_JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"ROOMLEDGER_TOKEN_TTL" envDefault:"24h"`

	// AdminEmails register with RoleAdmin.
	AdminEmails []string `env:"ROOMLEDGER_ADMIN_EMAILS" envSeparator:","`

	// SettlementAttempts bounds re-reads after a lost version check.
	SettlementAttempts int `env:"ROOMLEDGER_SETTLEMENT_ATTEMPTS" envDefault:"5"`
}

// Addr is the listen address for Port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads dotenv files (default ".env") into the environment without
// overriding variables already set, then parses Config. Missing files are
// skipped.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive, got %s", c.TokenTTL)
	}
	if c.SettlementAttempts < 1 {
		return fmt.Errorf("settlement attempts must be at least 1, got %d", c.SettlementAttempts)
	}
	return nil
}
