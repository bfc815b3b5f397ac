package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/subosito/gotenv"

	"expensetracker/internal/auth"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	DBDriver       string        `env:"DB_DRIVER" envDefault:"mysql"`
	DatabaseDSN    string        `env:"DATABASE_DSN,required,notEmpty"`
	DBQueryTimeout time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"5s"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ResetDB        bool          `env:"RESET_DB" envDefault:"false"`

	// Empty RedisAddr disables the profile cache.
	RedisAddr string `env:"REDIS_ADDR"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret      string   `env:"JWT_SECRET,required,notEmpty"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:5173,http://localhost:3000" envSeparator:","`
}

// Load reads an optional .env file, parses the environment and validates the result.
// Any error is meant to stop the process.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = gotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	if len(c.JWTSecret) < auth.MinSecretLength {
		return fmt.Errorf("JWT_SECRET: %w (got %d bytes)", auth.ErrWeakSecret, len(c.JWTSecret))
	}

	switch c.DBDriver {
	case DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER: unsupported driver %q", c.DBDriver)
	}

	if c.DBQueryTimeout <= 0 {
		return errors.New("DB_QUERY_TIMEOUT: must be positive")
	}
	if c.DBMaxOpenConns < 1 {
		return errors.New("DB_MAX_OPEN_CONNS: must be at least 1")
	}

	if len(c.AllowedOrigins) == 0 {
		return errors.New("ALLOWED_ORIGINS: at least one origin is required")
	}
	for i, origin := range c.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			c.AllowedOrigins[i] = origin
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("ALLOWED_ORIGINS: malformed origin %q", origin)
		}
		c.AllowedOrigins[i] = origin
	}

	return nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// String renders the config for startup logs with secrets redacted.
func (c *Config) String() string {
	return fmt.Sprintf(
		"port=%s env=%s db_driver=%s db_timeout=%s redis=%q origins=%v jwt_secret=[%d bytes redacted]",
		c.ServerPort, c.AppEnv, c.DBDriver, c.DBQueryTimeout, c.RedisAddr, c.AllowedOrigins, len(c.JWTSecret),
	)
}
