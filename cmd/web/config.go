package main

import (
	"fmt"
	"os"
	"time"

	"questrack/internal/auth/repository"
	"questrack/internal/common/cache"
	"questrack/internal/web/apiclient"
	"questrack/internal/web/query"
	"questrack/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPAddr        = "0.0.0.0:8080"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultAPIBaseURL      = "http://127.0.0.1:8081"
	defaultCookieName      = "qt_session"
	defaultSignInPath      = "/pages/signin"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// SessionConfig holds the session cookie and sign-in settings.
type SessionConfig struct {
	JWTSecret  string                      `yaml:"jwtSecret"`
	JWTIssuer  string                      `yaml:"jwtIssuer"`
	CookieName string                      `yaml:"cookieName"`
	SignInPath string                      `yaml:"signInPath"`
	Revocation repository.RevocationConfig `yaml:"revocation"`
}

// AppConfig holds the web frontend configuration.
type AppConfig struct {
	Server  ServerConfig      `yaml:"server"`
	Logger  logger.Config     `yaml:"logger"`
	API     apiclient.Config  `yaml:"api"`
	Query   query.Config      `yaml:"query"`
	Session SessionConfig     `yaml:"session"`
	Redis   cache.RedisConfig `yaml:"redis"`
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
	if cfg.Session.JWTSecret == "" {
		return nil, fmt.Errorf("session jwtSecret is required")
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis addr is required")
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
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaultAPIBaseURL
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = defaultCookieName
	}
	if cfg.Session.SignInPath == "" {
		cfg.Session.SignInPath = defaultSignInPath
	}
	return &cfg, nil
}
