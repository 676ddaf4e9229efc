// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the gallery HTTP API server.
//
// # Startup Sequence
//
//  1. Load configuration from the environment (and an optional .env file).
//  2. Initialize the structured logger.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Apply the base schema migrations (fatal on failure).
//  5. Create the category views (logged, not fatal).
//  6. Connect to Redis when a URL is configured.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/gallery/internal/api"
	"github.com/taibuivan/gallery/internal/core/artwork"
	"github.com/taibuivan/gallery/internal/platform/config"
	"github.com/taibuivan/gallery/internal/platform/constants"
	"github.com/taibuivan/gallery/internal/platform/logging"
	"github.com/taibuivan/gallery/internal/platform/middleware"
	"github.com/taibuivan/gallery/internal/platform/migration"
	pgstore "github.com/taibuivan/gallery/internal/platform/postgres"
	redisstore "github.com/taibuivan/gallery/internal/platform/redis"
)

func main() {
	// ── 1. Configuration ──────────────────────────────────────────────────
	// Loaded before the logger because it decides the level and the file sink.
	cfg, err := config.Load()
	if err != nil {
		bootstrap := logging.NewWithWriter(os.Stderr, slog.LevelInfo, constants.AppName)
		must(bootstrap, err, "load configuration")
	}

	// ── 2. Logger ─────────────────────────────────────────────────────────
	log, logCloser := logging.New(logging.Options{
		Debug:  cfg.Debug,
		File:   cfg.LogFile,
		App:    constants.AppName,
		Source: cfg.IsDevelopment(),
	})
	defer func() { _ = logCloser.Close() }()
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("version", constants.AppVersion),
		slog.String("environment", cfg.Environment),
		slog.String("addr", cfg.Addr()),
		slog.Bool("cache_enabled", cfg.CacheEnabled()),
	)

	if !cfg.SyncTokenConfigured() {
		level := slog.LevelWarn
		if cfg.IsProduction() {
			level = slog.LevelError
		}
		log.Log(context.Background(), level, "sync_token_empty", slog.String("hint", "POST /api/db/sync accepts an empty bearer token; set DB_SYNC_TOKEN"))
	}

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	// The base table carries the unique art_id key that makes sync idempotent.
	must(log, migration.RunUp(cfg.DatabaseURL, log), "run migrations")

	// ── 5. Category Views ─────────────────────────────────────────────────
	repository := artwork.NewPostgresRepository(pool, log)

	viewCtx, viewCancel := context.WithTimeout(startupCtx, constants.SchemaBootstrapTimeout)
	if err := artwork.EnsureViews(viewCtx, repository, log); err != nil {
		log.Error("category_views_incomplete", slog.Any("error", err))
	}
	viewCancel()

	// ── 6. Redis (optional) ───────────────────────────────────────────────
	var (
		cache      artwork.Cache = artwork.NopCache{}
		checkCache func(context.Context) error
	)

	if cfg.CacheEnabled() {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		if err != nil {
			// The cache only accelerates reads; serve straight from PostgreSQL.
			log.Error("cache_disabled", slog.Any("error", err))
		} else {
			defer closeRedis(log, rdb)

			cache = artwork.NewRedisCache(rdb, log)
			checkCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
		}
	}

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    checkCache,
	}, log)

	artworkService := artwork.NewService(repository, cache)
	artworkHandler := artwork.NewHandler(artworkService, cfg.SyncToken)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	limiter := middleware.NewRateLimiter(serverCtx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)

	server := api.NewServer(cfg, log, limiter, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Artwork:   artworkHandler,
	})

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		return
	}

	log.Info("server_stopped_cleanly")
}

func closeRedis(log *slog.Logger, rdb *redis.Client) {
	log.Info("closing redis client")
	if err := rdb.Close(); err != nil {
		log.Error("redis close error", slog.Any("error", err))
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
