package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the auth module. It is constructed once
// at process start and injected into the issuer, validator and handlers.
type Config struct {
	// MongoDB Configuration
	MongoDBURI   string `env:"MONGODB_URI,required"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"artdash"`

	// JWT Configuration
	JWTSecretKey string        `env:"JWT_SECRET" envDefault:""`
	JWTIssuer    string        `env:"JWT_ISSUER" envDefault:"artdash-api"`
	TokenTTL     time.Duration `env:"JWT_EXPIRE" envDefault:"720h"` // 30 days

	// Cookie Configuration. The auth cookie is HttpOnly; the status cookie
	// is readable by client scripts and carries no credential.
	AuthCookieName   string `env:"AUTH_COOKIE_NAME" envDefault:"authToken"`
	StatusCookieName string `env:"STATUS_COOKIE_NAME" envDefault:"loggedIn"`
	CookieExpireDays int    `env:"JWT_COOKIE_EXPIRE" envDefault:"30"`
	CookiePath       string `env:"COOKIE_PATH" envDefault:"/"`
	CookieDomain     string `env:"COOKIE_DOMAIN" envDefault:""`
	CookieSecure     bool   `env:"COOKIE_SECURE" envDefault:"false"`
	CookieSameSite   string `env:"COOKIE_SAME_SITE" envDefault:"Lax"`

	// Session Configuration
	MaxSessions int `env:"MAX_SESSIONS" envDefault:"5"`

	// Login throttle (Redis-backed)
	RedisAddr        string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword    string        `env:"REDIS_PASSWORD" envDefault:""`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"10"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW" envDefault:"1m"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load auth configuration from environment: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants the env tags cannot express.
func (c *Config) Validate() error {
	if c.JWTSecretKey == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("JWT_EXPIRE must be positive")
	}
	if c.CookieExpireDays <= 0 {
		return errors.New("JWT_COOKIE_EXPIRE must be positive")
	}
	if c.MaxSessions <= 0 {
		return errors.New("MAX_SESSIONS must be positive")
	}

	switch strings.ToLower(c.CookieSameSite) {
	case "lax":
		c.CookieSameSite = "Lax"
	case "strict":
		c.CookieSameSite = "Strict"
	case "none":
		c.CookieSameSite = "None"
	default:
		return errors.New("COOKIE_SAME_SITE must be one of 'Lax', 'Strict', or 'None'")
	}

	return nil
}

// CookieMaxAge returns the configured cookie lifetime.
func (c *Config) CookieMaxAge() time.Duration {
	return time.Duration(c.CookieExpireDays) * 24 * time.Hour
}
