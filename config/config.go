package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	RedisURL string

	JWTSecret string
	TokenTTL  time.Duration

	OTelServiceName string
	OTelEndpoint    string
}

// Load reads configuration from a .env file (if present) and the process
// environment. Environment variables win over .env entries.
func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379")
	// Issued tokens are valid for 60 days.
	viper.SetDefault("TOKEN_TTL", "1440h")
	viper.SetDefault("OTEL_SERVICE_NAME", "conduit-api")
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318")

	cfg := &Config{
		Port:            viper.GetString("PORT"),
		Environment:     viper.GetString("ENVIRONMENT"),
		DatabaseURL:     viper.GetString("DATABASE_URL"),
		RedisURL:        viper.GetString("REDIS_URL"),
		JWTSecret:       viper.GetString("JWT_SECRET"),
		OTelServiceName: viper.GetString("OTEL_SERVICE_NAME"),
		OTelEndpoint:    viper.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	ttl, err := time.ParseDuration(viper.GetString("TOKEN_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
