package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Token             string
	DatabaseURL       string
	GuildID           string
	MigrationsPath    string
	AutoCloseInterval time.Duration
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional when variables come from the environment (Docker, CI, etc.).
	}

	cfg := &Config{
		Token:          os.Getenv("TOKEN"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		GuildID:        os.Getenv("GUILD_ID"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
	}

	interval := os.Getenv("AUTO_CLOSE_INTERVAL")
	if interval == "" {
		cfg.AutoCloseInterval = time.Minute
	} else {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return nil, fmt.Errorf("config: AUTO_CLOSE_INTERVAL invalid (%q): %w", interval, err)
		}
		cfg.AutoCloseInterval = d
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate applies all rules on the loaded configuration.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: TOKEN is required and cannot be empty")
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		// Useful local default when DATABASE_URL is not provided.
		c.DatabaseURL = "postgres://localhost:5432/hangoutbot?sslmode=disable"
	}

	parsed, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("config: DATABASE_URL invalid (%q): %w", c.DatabaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: DATABASE_URL invalid (%q): missing scheme or host", c.DatabaseURL)
	}

	if strings.TrimSpace(c.MigrationsPath) == "" {
		c.MigrationsPath = "migrations"
	}

	if c.AutoCloseInterval < time.Second {
		return fmt.Errorf("config: AUTO_CLOSE_INTERVAL must be at least 1s (got %s)", c.AutoCloseInterval)
	}

	return nil
}
