package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the store module.
type Config struct {
	// Cloudinary Configuration
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME" envDefault:""`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY" envDefault:""`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET" envDefault:""`
	CloudinaryFolder    string `env:"CLOUDINARY_FOLDER" envDefault:"artdash/products"`

	UploadTimeout time.Duration `env:"UPLOAD_TIMEOUT" envDefault:"30s"`

	// Catalog
	TopSellingLimit int `env:"TOP_SELLING_LIMIT" envDefault:"9"`

	// Dashboard
	TopPagesLimit int `env:"TOP_PAGES_LIMIT" envDefault:"4"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load store configuration from environment: " + err.Error())
	}
	if cfg.TopSellingLimit <= 0 {
		return nil, errors.New("TOP_SELLING_LIMIT must be positive")
	}
	if cfg.TopPagesLimit <= 0 {
		return nil, errors.New("TOP_PAGES_LIMIT must be positive")
	}
	return cfg, nil
}

// UploadsEnabled reports whether Cloudinary credentials are configured.
func (c *Config) UploadsEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}
