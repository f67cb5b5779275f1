// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the complete server configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	SMTP      SMTPConfig
	RateLimit RateLimitConfig
	Log       LogConfig

	// FrontendURL is the base for links in emails and the allowed CORS origin
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	// AdminEmail names the account given the admin role at startup and on registration
	AdminEmail string `env:"ADMIN_EMAIL"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Host            string        `env:"HOST"`
	Port            int           `env:"PORT"             envDefault:"3000"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT"     envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"    envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// DatabaseConfig selects the relational store
type DatabaseConfig struct {
	Type         string `env:"DB_TYPE"           envDefault:"sqlite"`
	URL          string `env:"DATABASE_URL"      envDefault:"onewordstory.db"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
}

// AuthConfig controls session token issuance
type AuthConfig struct {
	JWTSecret    string        `env:"JWT_SECRET"     envDefault:"change-me-in-production"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"7d"`
}

// SMTPConfig controls outbound mail
type SMTPConfig struct {
	Host      string `env:"SMTP_HOST"   envDefault:"localhost"`
	Port      int    `env:"SMTP_PORT"   envDefault:"1025"`
	Secure    bool   `env:"SMTP_SECURE" envDefault:"false"`
	User      string `env:"SMTP_USER"`
	Password  string `env:"SMTP_PASS"`
	FromEmail string `env:"FROM_EMAIL"  envDefault:"noreply@onewordstory.local"`
	FromName  string `env:"FROM_NAME"   envDefault:"One Word Story"`
}

// RateLimitConfig controls the per-client request limiter
type RateLimitConfig struct {
	Window      time.Duration `env:"RATE_LIMIT_WINDOW"       envDefault:"15m"`
	MaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"100"`
	Store       string        `env:"RATE_LIMIT_STORE"        envDefault:"memory"`
	RedisURL    string        `env:"REDIS_URL"               envDefault:"redis://localhost:6379"`
}

// LogConfig controls the slog handler
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Load reads an optional .env file, then the process environment
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()
	return Parse()
}

// Parse reads configuration from the process environment only
func Parse() (*Config, error) {
	var cfg Config
	err := env.ParseWithOptions(&cfg, env.Options{
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(time.Duration(0)): func(v string) (any, error) {
				return ParseDuration(v)
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Type {
	case "postgres", "postgresql", "mysql", "mariadb", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_TYPE %q: must be postgres, mysql or sqlite", c.Database.Type))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Database.MaxOpenConns <= 0 {
		errs = append(errs, errors.New("DB_MAX_OPEN_CONNS must be positive"))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.JWTExpiresIn <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}

	switch c.RateLimit.Store {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("RATE_LIMIT_STORE %q: must be memory or redis", c.RateLimit.Store))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.RateLimit.MaxRequests <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX_REQUESTS must be positive"))
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Server.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ParseDuration accepts Go duration strings plus a whole-day suffix ("7d")
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}
