package main

import (
	"fmt"
	"os"
	"time"

	"questrack/internal/auth/repository"
	"questrack/internal/common/cache"
	"questrack/internal/common/db"
	commonmw "questrack/internal/common/http/middleware"
	"questrack/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPAddr        = "0.0.0.0:8081"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultSavedListTTL    = 10 * time.Minute
	defaultSavedEmptyTTL   = time.Minute
	defaultRateWindow      = time.Minute
	defaultRateUserMax     = 600
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// AuthConfig holds access token validation settings.
type AuthConfig struct {
	JWTSecret  string                      `yaml:"jwtSecret"`
	JWTIssuer  string                      `yaml:"jwtIssuer"`
	Revocation repository.RevocationConfig `yaml:"revocation"`
}

// SavedConfig holds saved-list cache settings.
type SavedConfig struct {
	CacheTTL      time.Duration `yaml:"cacheTTL"`
	EmptyCacheTTL time.Duration `yaml:"emptyCacheTTL"`
}

// AppConfig holds the question-service configuration.
type AppConfig struct {
	Server ServerConfig  `yaml:"server"`
	Logger logger.Config `yaml:"logger"`
	Auth   AuthConfig    `yaml:"auth"`
	Saved  SavedConfig   `yaml:"saved"`

	RateLimit commonmw.RateLimitPolicy `yaml:"rateLimit"`

	Database db.MySQLConfig    `yaml:"database"`
	Redis    cache.RedisConfig `yaml:"redis"`
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file failed: %w", err)
	}
	return nil
}

func loadAppConfig(path string) (*AppConfig, error) {
	var cfg AppConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth jwtSecret is required")
	}
	cfg.Redis.ApplyDefaults()

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultHTTPAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
	if cfg.Saved.CacheTTL == 0 {
		cfg.Saved.CacheTTL = defaultSavedListTTL
	}
	if cfg.Saved.EmptyCacheTTL == 0 {
		cfg.Saved.EmptyCacheTTL = defaultSavedEmptyTTL
	}
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = defaultRateWindow
	}
	if cfg.RateLimit.UserMax == 0 {
		cfg.RateLimit.UserMax = defaultRateUserMax
	}
	return &cfg, nil
}
