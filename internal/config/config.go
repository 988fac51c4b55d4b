// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultSessionSecret = "change-me-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port            string  `mapstructure:"PORT"`
	BackendURL      string  `mapstructure:"BACKEND_URL"`
	SessionSecret   string  `mapstructure:"SESSION_SECRET"`
	RedisURL        string  `mapstructure:"REDIS_URL"`
	Env             string  `mapstructure:"APP_ENV"`
	TracingEnabled  bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string  `mapstructure:"OTLP_ENDPOINT"`
	SamplerRatio    float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// Load reads configuration from .env, config.yml and environment variables,
// applies defaults and validates the result.
func Load() (*Config, error) {
	// Best effort: a missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		log.Println("Config file not found; using environment variables and defaults")
	}

	v.SetDefault("PORT", "3000")
	v.SetDefault("BACKEND_URL", "http://localhost:8000")
	v.SetDefault("SESSION_SECRET", defaultSessionSecret)
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_EXPORTER", "stdout")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("TRACING_SAMPLE_RATIO", 1.0)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.BackendURL == "" {
		return errors.New("BACKEND_URL is required")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.IsProduction() {
		if c.SessionSecret == defaultSessionSecret {
			return errors.New("SESSION_SECRET must be changed from the default value in production")
		}
		if len(c.SessionSecret) < 32 {
			return errors.New("SESSION_SECRET must be at least 32 characters in production")
		}
	}
	return nil
}

// IsProduction reports whether the app runs with a production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
