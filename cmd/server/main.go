// Package main is the entrypoint for the MediaGuard analysis server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiranshivaraju/mediaguard/internal/ai"
	"github.com/kiranshivaraju/mediaguard/internal/api"
	"github.com/kiranshivaraju/mediaguard/internal/api/handler"
	"github.com/kiranshivaraju/mediaguard/internal/api/response"
	"github.com/kiranshivaraju/mediaguard/internal/cache"
	"github.com/kiranshivaraju/mediaguard/internal/config"
	"github.com/kiranshivaraju/mediaguard/internal/tempstore"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Create job status cache
	jobCache, err := cache.New(cfg.Redis.URL, cfg.Redis.JobTTL)
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}
	defer jobCache.Close()

	if err := jobCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping cache: %w", err)
	}
	slog.Info("job status cache ready", "redis", cfg.Redis.URL != "")

	// 3. Prepare upload directory
	uploads, err := tempstore.New(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err != nil {
		return fmt.Errorf("prepare upload dir: %w", err)
	}
	slog.Info("upload dir ready", "dir", uploads.Dir(), "max_bytes", cfg.Upload.MaxBytes)

	// 4. Create analysis client
	client, err := ai.NewClient(ctx, cfg.AI)
	if err != nil {
		return fmt.Errorf("create analysis client: %w", err)
	}
	slog.Info("analysis client initialized", "provider", client.Name())

	svc := ai.NewService(client, uploads,
		ai.WithPolling(cfg.Analysis.PollInterval, cfg.Analysis.PollTimeout),
		ai.WithRequestTimeout(cfg.AI.RequestTimeout),
		ai.WithRemoteCleanup(cfg.Analysis.DeleteRemoteFiles),
		ai.WithCache(jobCache, cfg.Redis.JobTTL),
		ai.WithLogger(slog.Default()),
	)

	// 5. Build router with dependencies
	router := api.NewRouter(api.Dependencies{
		AllowedOrigins: cfg.Server.AllowedOrigins,

		IndexHandler:     handler.NewIndexHandler(cfg.Upload.MaxBytes),
		UploadHandler:    handler.NewUploadHandler(svc, cfg.Upload.MaxBytes),
		JobStatusHandler: handler.NewJobStatusHandler(svc),
		HealthHandler:    healthHandler(jobCache, client.Name()),
	})

	// 6. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// In-flight video analyses may still be polling; give them the shutdown window.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks cache connectivity and reports the analysis provider.
func healthHandler(c cache.Cache, provider string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"cache": "ok",
		}
		if err := c.Ping(r.Context()); err != nil {
			slog.Warn("health check: cache unavailable", "error", err)
			checks["cache"] = "degraded"
		}

		status, code := "ok", http.StatusOK
		if checks["cache"] != "ok" {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		response.JSON(w, code, map[string]any{
			"status":   status,
			"provider": provider,
			"services": checks,
		})
	}
}
