// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"net/url"
	"time"
)

// Config selects and tunes the cache backend.
type Config struct {
	// RedisURL selects Redis when set.
	RedisURL string
	Prefix   string
	TTL      time.Duration
	MaxSize  int
	// FallbackToMemory uses the memory backend when Redis cannot be reached.
	FallbackToMemory bool
}

// New returns the backend described by cfg.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (Cache, error) {
	if cfg.RedisURL != "" {
		r, err := NewRedis(ctx, RedisOptions{URL: cfg.RedisURL, Prefix: cfg.Prefix, DefaultTTL: cfg.TTL})
		if err == nil {
			logger.Info("using redis cache", "url", sanitizeRedisURL(cfg.RedisURL), "prefix", cfg.Prefix)
			return r, nil
		}
		if !cfg.FallbackToMemory {
			return nil, err
		}
		logger.Warn("redis cache unavailable, falling back to memory cache",
			"url", sanitizeRedisURL(cfg.RedisURL), "error", err)
	}

	logger.Info("using memory cache", "ttl", cfg.TTL, "max_size", cfg.MaxSize)
	return NewMemory(MemoryOptions{
		DefaultTTL:      cfg.TTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: time.Minute,
	}), nil
}

// sanitizeRedisURL masks the password of a Redis URL for logging.
func sanitizeRedisURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid-url"
	}
	if u.User == nil {
		return u.String()
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
