// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the calendar server. It loads
// configuration, picks the storage backend, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"eventcal/internal/backup"
	"eventcal/internal/cache"
	"eventcal/internal/config"
	"eventcal/internal/database"
	"eventcal/internal/handlers"
	"eventcal/internal/render"
	"eventcal/internal/router"
	"eventcal/internal/session"
	"eventcal/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"storage", cfg.StorageDriver,
		"auth", cfg.AuthEnabled,
	)

	var sessions *session.Store
	var dataStore store.Store

	// Valkey backs the valkey storage driver and, when auth is on, sessions.
	var valkey *redis.Client
	if cfg.NeedsValkey() {
		valkey, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkey.Close()
	}

	switch cfg.StorageDriver {
	case config.DriverPostgres:
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
		if cfg.IsDev() {
			if err := database.Seed(db); err != nil {
				slog.Error("failed to seed database", "error", err)
				os.Exit(1)
			}
		}
		dataStore = store.NewPostgresStore(db)

	case config.DriverValkey:
		dataStore = store.NewValkeyStore(valkey)

	default:
		fs, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			slog.Error("failed to open data dir", "error", err)
			os.Exit(1)
		}
		dataStore = fs
	}

	// One-shot snapshot restore before serving, when requested.
	if cfg.RestoreFrom != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := backup.Restore(ctx, dataStore, cfg.RestoreFrom); err != nil {
			cancel()
			slog.Error("failed to restore snapshot", "path", cfg.RestoreFrom, "error", err)
			os.Exit(1)
		}
		cancel()
	}

	if cfg.AuthEnabled {
		// In non-development environments session cookies are HTTPS-only.
		sessions = session.NewStore(valkey, !cfg.IsDev())
	}

	renderer, err := render.New(cfg.Title)
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	deps := router.Deps{
		Sessions: sessions,
		Calendar: handlers.NewCalendar(renderer, dataStore, cfg.AuthEnabled),
		Events:   handlers.NewEvents(renderer, dataStore, cfg.AuthEnabled),
		Export:   handlers.NewExport(dataStore, cfg.Title),
	}
	if cfg.AuthEnabled {
		deps.Auth = handlers.NewAuth(renderer, sessions, dataStore, cfg.Title)
	}
	r := router.New(deps)

	// Periodic JSON snapshots, regardless of backend.
	if cfg.BackupSchedule != "" {
		runner := backup.New(dataStore, cfg.BackupDir, cfg.BackupKeep)
		if err := runner.Start(cfg.BackupSchedule); err != nil {
			slog.Error("failed to schedule backups", "error", err)
			os.Exit(1)
		}
		defer runner.Stop()
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

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
