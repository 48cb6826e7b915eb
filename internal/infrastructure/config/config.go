// Package config internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultPort            = "8080"
	defaultUpstreamBaseURL = "https://api.frankfurter.app"
	defaultUpstreamTimeout = 10 * time.Second
	defaultBackgroundImage = "web/static/background.svg"
)

// Config holds application configuration
type Config struct {
	Port            string
	UpstreamBaseURL string
	UpstreamTimeout time.Duration
	LogLevel        string
	BackgroundImage string
	DefaultFrom     string
	DefaultTo       string
	// JournalPath enables the conversion journal when non-empty
	JournalPath string

	// Warnings collects non-fatal problems found while loading, to be
	// logged once a logger exists
	Warnings []string
}

// LoadConfig loads configuration from environment variables and a .env file if present
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("UPSTREAM_BASE_URL", defaultUpstreamBaseURL)
	v.SetDefault("UPSTREAM_TIMEOUT", defaultUpstreamTimeout.String())
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("BACKGROUND_IMAGE", defaultBackgroundImage)
	v.SetDefault("DEFAULT_FROM", "USD")
	v.SetDefault("DEFAULT_TO", "INR")
	v.SetDefault("JOURNAL_PATH", "")
	v.AutomaticEnv()

	cfg := &Config{
		Port:            strings.TrimSpace(v.GetString("PORT")),
		UpstreamBaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("UPSTREAM_BASE_URL")), "/"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		BackgroundImage: v.GetString("BACKGROUND_IMAGE"),
		DefaultFrom:     strings.ToUpper(strings.TrimSpace(v.GetString("DEFAULT_FROM"))),
		DefaultTo:       strings.ToUpper(strings.TrimSpace(v.GetString("DEFAULT_TO"))),
		JournalPath:     strings.TrimSpace(v.GetString("JOURNAL_PATH")),
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("PORT is empty, defaulting to %s", defaultPort))
	}

	if cfg.UpstreamBaseURL == "" {
		return nil, fmt.Errorf("UPSTREAM_BASE_URL must not be empty")
	}

	timeoutStr := v.GetString("UPSTREAM_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		timeout = defaultUpstreamTimeout
		cfg.Warnings = append(cfg.Warnings,
			fmt.Sprintf("invalid UPSTREAM_TIMEOUT ('%s'), defaulting to %s", timeoutStr, defaultUpstreamTimeout))
	}
	cfg.UpstreamTimeout = timeout

	if cfg.BackgroundImage == "" {
		return nil, fmt.Errorf("BACKGROUND_IMAGE must not be empty")
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

// JournalEnabled reports whether conversions should be journaled
func (c *Config) JournalEnabled() bool {
	return c.JournalPath != ""
}
