// Package main is the entry point for the MarianConnect server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
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

	"marianconnect/internal/cache"
	"marianconnect/internal/config"
	"marianconnect/internal/database"
	"marianconnect/internal/handlers"
	"marianconnect/internal/jobs"
	"marianconnect/internal/middleware"
	"marianconnect/internal/render"
	"marianconnect/internal/router"
	"marianconnect/internal/session"
	"marianconnect/internal/storage"
	"marianconnect/internal/store"
	"marianconnect/internal/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.IsDev() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Valkey backs sessions and the public page cache.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)

	backend, uploadsDir, err := newBackend(cfg)
	if err != nil {
		slog.Error("failed to initialize upload storage", "error", err)
		os.Exit(1)
	}

	renderer, err := render.New(backend, cfg.SiteName)
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	stores := store.New(db)
	ingester := upload.NewIngester(stores.Gallery, backend, cfg.StagingDir())

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer loginLimiter.Stop()
	contactLimiter := middleware.NewRateLimiter(5, time.Minute)
	defer contactLimiter.Stop()

	r := router.New(router.Deps{
		Sessions:       sessionStore,
		PageCache:      pageCache,
		Admin:          handlers.NewAdmin(renderer, stores, ingester, pageCache),
		Auth:           handlers.NewAuth(renderer, sessionStore, stores.Users, cfg.SiteName),
		Public:         handlers.NewPublic(renderer, stores),
		UploadsDir:     uploadsDir,
		LoginLimiter:   loginLimiter,
		ContactLimiter: contactLimiter,
		Secure:         secureCookies,
	})

	scheduler, err := jobs.New(stores.Events, pageCache, cfg.StagingDir())
	if err != nil {
		slog.Error("failed to schedule jobs", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	// WriteTimeout covers a full gallery batch: every file is validated,
	// thumbnailed and promoted before the response is written.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	scheduler.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// newBackend picks S3 when it is fully configured and the local uploads
// directory otherwise. The returned directory is non-empty only for local
// storage, which the router then serves at /uploads/.
func newBackend(cfg *config.Config) (storage.Backend, string, error) {
	if cfg.UseS3() {
		s3, err := storage.NewS3(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			return nil, "", err
		}
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		return s3, "", nil
	}

	local, err := storage.NewLocal(cfg.UploadsDir, cfg.UploadsURL)
	if err != nil {
		return nil, "", err
	}
	slog.Info("local upload storage", "dir", local.Root())
	return local, local.Root(), nil
}
