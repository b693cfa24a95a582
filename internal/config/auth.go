package config

import (
	"fmt"
	"os"
	"strconv"
)

// AuthConfig holds the settings used to verify identity-provider tokens.
type AuthConfig struct {
	Secret   string // shared HS256 signing secret of the identity provider
	Issuer   string // expected "iss" claim; empty accepts any issuer
	TTLHours int    // lifetime of locally minted development tokens
}

// NewAuthConfig creates the auth configuration from environment variables.
// It reads AUTH_JWT_SECRET (required), AUTH_JWT_ISSUER (optional) and
// AUTH_TOKEN_TTL_HOURS (default: 24).
func NewAuthConfig() (*AuthConfig, error) {
	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required but not set")
	}

	ttlStr := os.Getenv("AUTH_TOKEN_TTL_HOURS")
	if ttlStr == "" {
		ttlStr = "24"
	}

	ttl, err := strconv.Atoi(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_TOKEN_TTL_HOURS: %v", err)
	}

	cfg := &AuthConfig{
		Secret:   secret,
		Issuer:   os.Getenv("AUTH_JWT_ISSUER"),
		TTLHours: ttl,
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalize validates the configuration.
func (c *AuthConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET cannot be empty")
	}
	if c.TTLHours < 1 {
		return fmt.Errorf("AUTH_TOKEN_TTL_HOURS must be at least 1 hour, got: %d", c.TTLHours)
	}
	return nil
}
