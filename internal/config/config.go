package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/vbonduro/assettracker/internal/db"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	defaultDevDatabaseURL = "sqlite:///assets.db"
)

type Config struct {
	Env                     string   `envconfig:"APP_ENV" default:"development"`
	Port                    int      `envconfig:"PORT" default:"5000"`
	DatabaseURL             string   `envconfig:"DATABASE_URL"`
	DatabaseMaxConns        int      `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMaxIdleConns    int      `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	DatabaseConnMaxLifetime int      `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // seconds
	LogLevel                string   `envconfig:"LOG_LEVEL"`
	LogFile                 string   `envconfig:"LOG_FILE"`
	CORSAllowOrigins        []string `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
	SentryDSN               string   `envconfig:"SENTRY_DSN"`
	EnablePrometheus        bool     `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort          int      `envconfig:"PROMETHEUS_PORT" default:"9092"`
}

// Load reads configuration from the environment, after loading .env from the
// working directory when present. Variables already set win over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Anything but production runs with the development profile.
	if cfg.Env != EnvProduction {
		cfg.Env = EnvDevelopment
	}

	switch cfg.Env {
	case EnvProduction:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when APP_ENV=%s", EnvProduction)
		}
		if cfg.LogLevel == "" {
			cfg.LogLevel = "info"
		}
	default:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = defaultDevDatabaseURL
		}
		if cfg.LogLevel == "" {
			cfg.LogLevel = "debug"
		}
	}

	return cfg, nil
}

func (c *Config) Debug() bool {
	return c.Env == EnvDevelopment
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Pool() db.PoolOptions {
	return db.PoolOptions{
		MaxOpenConns:    c.DatabaseMaxConns,
		MaxIdleConns:    c.DatabaseMaxIdleConns,
		ConnMaxLifetime: time.Duration(c.DatabaseConnMaxLifetime) * time.Second,
	}
}
