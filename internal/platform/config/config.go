// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, session guard) via constructors.
  - Secrets From Env: The JWT signing secret is never compiled in.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	minSecretLength = 32
	minBcryptCost   = 10
)

// # Configuration Schema

// Config holds all runtime configuration for the WeVote API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis), used for the token revocation list
	RedisURL string `env:"REDIS_URL,required"`

	// Session token signing
	JWTSecret  string        `env:"JWT_SECRET,required"`
	JWTIssuer  string        `env:"JWT_ISSUER"  envDefault:"wevote"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"336h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`

	// Sign-up policy
	AllowedEmailDomains []string `env:"ALLOWED_EMAIL_DOMAINS" envDefault:"uwo.ca" envSeparator:","`

	// Cookie and Cross-Origin Resource Sharing
	CookieSecure   bool     `env:"COOKIE_SECURE"   envDefault:"true"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// Per-IP token bucket
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"100"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"150"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the constraints env tags cannot express.
func (c *Config) Validate() error {
	var problems []error

	if len(c.JWTSecret) < minSecretLength {
		problems = append(problems, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength))
	}
	if c.SessionTTL <= 0 {
		problems = append(problems, errors.New("SESSION_TTL must be positive"))
	}
	if c.BcryptCost < minBcryptCost {
		problems = append(problems, fmt.Errorf("BCRYPT_COST must be at least %d", minBcryptCost))
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		problems = append(problems, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}

	domains := c.EmailDomains()
	if len(domains) == 0 {
		problems = append(problems, errors.New("ALLOWED_EMAIL_DOMAINS must list at least one domain"))
	}

	if !c.CookieSecure && !c.IsDevelopment() {
		problems = append(problems, errors.New("COOKIE_SECURE can only be disabled in development"))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: %w", errors.Join(problems...))
	}
	return nil
}

// EmailDomains returns the trimmed, non-empty sign-up domains.
func (c *Config) EmailDomains() []string {
	domains := make([]string, 0, len(c.AllowedEmailDomains))
	for _, domain := range c.AllowedEmailDomains {
		if domain = strings.TrimSpace(domain); domain != "" {
			domains = append(domains, domain)
		}
	}
	return domains
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// CORSOrigins returns the origins allowed to call the API with credentials.
func (c *Config) CORSOrigins() []string {
	return c.AllowedOrigins
}
