// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/omenu/internal/cache"
	"github.com/olegiv/omenu/internal/chat"
	"github.com/olegiv/omenu/internal/config"
	"github.com/olegiv/omenu/internal/handler/api"
	"github.com/olegiv/omenu/internal/logging"
	"github.com/olegiv/omenu/internal/middleware"
	"github.com/olegiv/omenu/internal/model"
	"github.com/olegiv/omenu/internal/scheduler"
	"github.com/olegiv/omenu/internal/schema"
	"github.com/olegiv/omenu/internal/service"
	"github.com/olegiv/omenu/internal/store"
	"github.com/olegiv/omenu/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "oMenu - multilingual restaurant menu service\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OMENU_DB_PATH                SQLite database path (default: ./data/omenu.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OMENU_SERVER_PORT            Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OMENU_ENV                    Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OMENU_AUTO_EVOLVE            Add missing language columns at startup (default: true)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OMENU_DO_SEED                Load the sample menu into an empty database (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OMENU_REDIS_URL              Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OMENU_DEFAULT_CHAT_LANGUAGE  Chat language when none is given (default: az)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("omenu %s\n", versionInfo().Long())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func versionInfo() version.Info {
	return version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	logger := slog.New(textHandler)
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// From here on WARN and ERROR records also land in the events table
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()

	if cfg.AutoEvolve {
		results, err := schema.NewEvolver(db, logger).EvolveAll(ctx)
		if err != nil {
			return fmt.Errorf("evolving schema: %w", err)
		}
		for _, res := range results {
			if res.ColumnsAdded > 0 || res.RowsMigrated > 0 {
				slog.Info("schema evolved", "table", res.Table, "columns_added", res.ColumnsAdded, "rows_migrated", res.RowsMigrated)
			}
		}
	}

	caps, err := schema.Probe(ctx, db)
	if err != nil {
		return fmt.Errorf("probing schema: %w", err)
	}
	if !caps.Evolved() {
		slog.Warn("schema is not evolved, translations are read from base columns only; run omenu-evolve")
	}
	queries := store.New(db).WithCapabilities(caps)

	if err := store.Seed(ctx, db, queries, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	menuCache, err := cache.New(ctx, cfg.Cache(), logger)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = menuCache.Close() }()
	if cfg.UseRedisCache() {
		slog.Info("menu cache initialized", "backend", "redis", "prefix", cfg.CachePrefix)
	} else {
		slog.Info("menu cache initialized", "backend", "memory", "max_size", cfg.CacheMaxSize)
	}

	menuService := service.NewMenuService(db, caps, menuCache, logger)
	eventService := service.NewEventService(db)

	translator, err := chat.NewTranslator(logger)
	if err != nil {
		return fmt.Errorf("loading chat messages: %w", err)
	}
	chatService := chat.NewService(db, chat.NewResponder(menuService, translator), cfg.ChatLanguage(), logger)

	sched := scheduler.New(db, caps, eventService, logger, cfg.Scheduler())
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	apiHandler := api.NewHandler(api.Deps{
		DB:        db,
		Menu:      menuService,
		Chat:      chatService,
		Events:    eventService,
		Analytics: service.NewAnalyticsService(db),
		Logger:    logger,
		Version:   versionInfo(),
		Jobs:      sched.Registry(),
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)

	chatLimiter := middleware.NewRateLimiter(cfg.ChatRateLimit, cfg.ChatRateBurst)
	apiHandler.Routes(r, api.RouteOptions{
		FallbackLanguage: model.CanonicalLanguage,
		ChatLimiter:      chatLimiter.Middleware(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // imports can be large
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", appVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
