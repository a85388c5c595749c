// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/omenu/internal/cache"
	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/scheduler"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"OMENU_DB_PATH" envDefault:"./data/omenu.db"`
	ServerHost string `env:"OMENU_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"OMENU_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"OMENU_ENV" envDefault:"development"`
	LogLevel   string `env:"OMENU_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"OMENU_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"OMENU_CACHE_PREFIX" envDefault:"omenu:"`  // Redis key prefix
	CacheTTL     int    `env:"OMENU_CACHE_TTL" envDefault:"300"`        // Menu read cache TTL in seconds
	CacheMaxSize int    `env:"OMENU_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Schema and data
	AutoEvolve bool `env:"OMENU_AUTO_EVOLVE" envDefault:"true"` // Add missing language columns at startup
	DoSeed     bool `env:"OMENU_DO_SEED" envDefault:"false"`    // Load the sample menu into an empty database

	// Chat
	ChatRateLimit       float64 `env:"OMENU_CHAT_RATE_LIMIT" envDefault:"2"`  // Requests per second per client
	ChatRateBurst       int     `env:"OMENU_CHAT_RATE_BURST" envDefault:"10"` // Burst per client
	DefaultChatLanguage string  `env:"OMENU_DEFAULT_CHAT_LANGUAGE" envDefault:"az"`

	// Scheduled jobs
	CoverageSchedule   string `env:"OMENU_COVERAGE_SCHEDULE" envDefault:"@hourly"`
	PruneSchedule      string `env:"OMENU_PRUNE_SCHEDULE" envDefault:"30 3 * * *"`
	EventRetentionDays int    `env:"OMENU_EVENT_RETENTION_DAYS" envDefault:"30"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// SlogLevel returns LogLevel as a slog level.
func (c Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// ChatLanguage returns the language of chats that do not name one.
func (c Config) ChatLanguage() model.LanguageCode {
	return model.LanguageCode(strings.ToLower(c.DefaultChatLanguage))
}

// Cache returns the cache backend settings. A Redis outage in development
// falls back to the memory cache.
func (c Config) Cache() cache.Config {
	return cache.Config{
		RedisURL:         c.RedisURL,
		Prefix:           c.CachePrefix,
		TTL:              time.Duration(c.CacheTTL) * time.Second,
		MaxSize:          c.CacheMaxSize,
		FallbackToMemory: c.IsDevelopment(),
	}
}

// Scheduler returns the scheduled job settings.
func (c Config) Scheduler() scheduler.Options {
	return scheduler.Options{
		CoverageSchedule: c.CoverageSchedule,
		PruneSchedule:    c.PruneSchedule,
		EventRetention:   time.Duration(c.EventRetentionDays) * 24 * time.Hour,
	}
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and formats.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("OMENU_DB_PATH must not be empty")
	}
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("OMENU_SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("OMENU_LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	if !model.IsSupportedLanguage(strings.ToLower(c.DefaultChatLanguage)) {
		return fmt.Errorf("OMENU_DEFAULT_CHAT_LANGUAGE %q is not a supported language", c.DefaultChatLanguage)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("OMENU_CACHE_TTL must be positive, got %d", c.CacheTTL)
	}
	if c.ChatRateLimit <= 0 || c.ChatRateBurst <= 0 {
		return fmt.Errorf("OMENU_CHAT_RATE_LIMIT and OMENU_CHAT_RATE_BURST must be positive")
	}
	if c.EventRetentionDays <= 0 {
		return fmt.Errorf("OMENU_EVENT_RETENTION_DAYS must be positive, got %d", c.EventRetentionDays)
	}
	if err := scheduler.ValidateSchedule(c.CoverageSchedule); err != nil {
		return fmt.Errorf("OMENU_COVERAGE_SCHEDULE: %w", err)
	}
	if err := scheduler.ValidateSchedule(c.PruneSchedule); err != nil {
		return fmt.Errorf("OMENU_PRUNE_SCHEDULE: %w", err)
	}
	return nil
}
