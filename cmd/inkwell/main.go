// Package main is the entry point for the Inkwell blog server.
// It loads configuration, opens the storage backend, wires the services, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/content"
	"inkwell/internal/handlers"
	"inkwell/internal/media"
	"inkwell/internal/router"
	"inkwell/internal/session"
	"inkwell/internal/storage"
	"inkwell/internal/store"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger — readable text at debug level in development,
	// JSON at info level everywhere else.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"backend", cfg.StorageBackend,
	)

	// Open the storage backend. Every durable collection (users, posts,
	// sessions) lives in named slots on this store.
	kv, err := storage.Open(storage.Options{
		Backend:       cfg.StorageBackend,
		DataDir:       cfg.DataDir,
		SQLitePath:    cfg.SQLitePath,
		PostgresDSN:   cfg.PostgresDSN,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
	if err != nil {
		slog.Error("failed to open storage backend", "error", err, "backend", cfg.StorageBackend)
		os.Exit(1)
	}
	defer kv.Close()

	// Record stores seed themselves on first use: one admin account and a
	// handful of sample posts.
	userStore := store.NewUserStore(kv, cfg.AdminEmail, cfg.AdminPassword)
	postStore := store.NewPostStore(kv)
	sessionStore := session.NewStore(kv)

	authService := auth.NewService(userStore, sessionStore)
	contentService := content.NewService(postStore)

	// Connect to S3-compatible object storage (optional — the app works
	// without it, avatar uploads just answer 503).
	mediaClient, err := media.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		slog.Error("failed to initialize media storage", "error", err)
		os.Exit(1)
	}
	if mediaClient != nil {
		slog.Info("media storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("media storage not configured — avatar uploads disabled")
	}

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(authService)
	postHandlers := handlers.NewPosts(contentService)
	userHandlers := handlers.NewUsers(authService, mediaClient)

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, authHandlers, postHandlers, userHandlers)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
