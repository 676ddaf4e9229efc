// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
honoured through 'joho/godotenv' before parsing, which keeps development setups
free of shell exports.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the gallery API server.
type Config struct {

	// Server settings
	Host        string `env:"HOST"         envDefault:"0.0.0.0"`
	Port        string `env:"PORT"         envDefault:"8000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// LogFile enables a rotating file sink next to stdout when set.
	LogFile string `env:"LOG_FILE"`

	// Document store (PostgreSQL, JSONB documents)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Optional read cache. Empty disables caching.
	RedisURL string `env:"REDIS_URL"`

	// SyncToken guards POST /api/db/sync. An empty token accepts
	// "Authorization: Bearer " and is therefore effectively open.
	SyncToken string `env:"DB_SYNC_TOKEN"`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// A missing .env is the normal production case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return Parse()
}

// Parse maps the current process environment onto a [Config] without touching .env files.
func Parse() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// Addr returns the host:port pair the HTTP server binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// CacheEnabled reports whether a Redis URL was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

// SyncTokenConfigured reports whether a non-empty sync token is set.
func (c *Config) SyncTokenConfigured() bool {
	return c.SyncToken != ""
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
